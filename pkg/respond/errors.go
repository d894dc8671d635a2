package respond

import "errors"

var ErrEmptyBody = errors.New("empty request body")
