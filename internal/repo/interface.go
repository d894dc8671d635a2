package repo

import (
	"context"
	"errors"
)

var ErrorNotFound = errors.New("not found")

// Store is an untyped key-value store. Values are opaque bytes; nothing about
// their shape is trusted on the way back.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
