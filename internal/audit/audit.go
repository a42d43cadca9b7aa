// Package audit is the append-only ledger of mutating operations. Rows are
// immutable and outlive the products they reference; this package exposes no
// update or delete API.
package audit

import (
	"context"
	"time"
)

// Operation labels come from a closed set; the strings are part of the
// stored data contract and must not change.
type Operation string

const (
	OperationCreated  Operation = "Created a product"
	OperationModified Operation = "Modified a product"
	OperationDeleted  Operation = "Deleted a product"
)

// Event records one successful mutation. UserID and ProductID are lookup
// references only; the ledger does not own or cascade-delete what they point
// at.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Operation Operation `json:"operation"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is intentionally a dumb append-only sink.
type Store interface {
	Append(ctx context.Context, event Event) error
}
