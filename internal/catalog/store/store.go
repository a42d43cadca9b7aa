// Package store is the narrow storage port for products. Implementations
// return sentinel errors; the service layer translates them.
//
// The correctness-critical primitive is ConditionalUpdate: existence,
// ownership, and soft-delete checks collapse into one atomic predicate
// evaluated by the backend, so two concurrent conflicting mutations can never
// both succeed.
package store

import (
	"context"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
)

// Predicate scopes a conditional write to a single visible row: the product
// with this ID, owned by this user, and not soft-deleted.
type Predicate struct {
	ID      string
	OwnerID string
}

// Patch is the set of column changes applied by a conditional update. Nil
// pointers leave the column untouched. Delete marks the row soft-deleted,
// which is irreversible: no patch field can reset it.
type Patch struct {
	SKU          *string
	Name         *string
	Type         *string
	Price        *float64
	RegistryDate *string
	Status       *models.Status
	Delete       bool
}

type ProductStore interface {
	// Create persists a new product and fills in its assigned ID.
	Create(ctx context.Context, product *models.Product) error

	// FindOne returns a visible product with its owner projection, or
	// sentinel.ErrNotFound when missing or soft-deleted.
	FindOne(ctx context.Context, id string) (*models.Product, error)

	// FindMany executes the query spec over visible rows. Count ignores
	// pagination.
	FindMany(ctx context.Context, spec query.Spec) (*models.ListResult, error)

	// ConditionalUpdate applies the patch to rows matching the predicate and
	// reports how many rows changed. Zero is a terminal outcome, not a retry
	// condition.
	ConditionalUpdate(ctx context.Context, pred Predicate, patch Patch) (int64, error)
}
