package customer

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Customer records.
type Repository interface {
	// Exists reports whether a record with this email address is already stored.
	Exists(ctx context.Context, email string) (bool, error)
	// Insert stores one new customer record and fills in its assigned ID.
	Insert(ctx context.Context, c *Customer) error
	// ListUnsent returns all records not yet contacted, ordered by ID ascending.
	ListUnsent(ctx context.Context) ([]*Customer, error)
	// MarkSent flags the record as contacted. Marking an already-sent record
	// is a no-op.
	MarkSent(ctx context.Context, id int64) error
}
