package clock

import "time"

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05.000Z"
)

// Clock отдает текущее время. Все сравнения с "сегодня" идут через него.
type Clock interface {
	Now() time.Time
}

type Func func() time.Time

func (f Func) Now() time.Time { return f() }

var System Clock = Func(time.Now)

func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}

// Timestamp formats the current instant as an ISO 8601 UTC string with millisecond precision.
func Timestamp(c Clock) string {
	return c.Now().UTC().Format(TimestampLayout)
}

func Today(c Clock) string {
	return DateFromOffset(c, 0)
}

// DateFromOffset returns the calendar date dayOffset days away from today.
func DateFromOffset(c Clock, dayOffset int) string {
	return c.Now().UTC().AddDate(0, 0, dayOffset).Format(DateLayout)
}
