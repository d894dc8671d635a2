package clock

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDFunc generates opaque unique identifiers.
type IDFunc func() string

func UUID() string {
	return uuid.NewString()
}

// Sequence returns a generator yielding prefix-1, prefix-2, ...
func Sequence(prefix string) IDFunc {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}
