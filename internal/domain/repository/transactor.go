package repository

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by repositories when a write hits a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

// Transactor runs fn inside one database transaction. Repository calls made
// with the ctx passed to fn join that transaction. A non-nil error from fn
// rolls everything back. Nested calls join the outer transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
