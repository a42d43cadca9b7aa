package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"catalog/internal/audit"
)

// Store appends audit events to the audit_events table. There is no update
// or delete statement in this package; the table is append-only by
// construction.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (id, user_id, product_id, operation, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID, event.UserID, event.ProductID, string(event.Operation), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
