package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"catalog/internal/identity/models"
	"catalog/pkg/platform/sentinel"
)

// Postgres persists users in the users table. The phone column carries a
// unique constraint; a violation maps to sentinel.ErrAlreadyUsed so the
// uniqueness check and the insert stay one atomic statement.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const uniqueViolation = "23505"

func (s *Postgres) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			id, name, last_name, second_last_name, birthdate, phone,
			password_hash, user_status, is_deleted, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Name, user.LastName, user.SecondLastName,
		user.Birthdate, user.Phone, user.PasswordHash, string(user.Status),
		user.IsDeleted, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Postgres) FindActiveByPhone(ctx context.Context, phone string) (*models.User, error) {
	query := userSelect + ` WHERE phone = $1 AND is_deleted IS NULL AND user_status = $2`
	return s.scanOne(s.db.QueryRowContext(ctx, query, phone, string(models.UserStatusActive)))
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := userSelect + ` WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

const userSelect = `
	SELECT id, name, last_name, second_last_name, birthdate, phone,
	       password_hash, user_status, is_deleted, created_at, updated_at
	FROM users
`

func (s *Postgres) scanOne(row *sql.Row) (*models.User, error) {
	var user models.User
	var status string
	err := row.Scan(
		&user.ID, &user.Name, &user.LastName, &user.SecondLastName,
		&user.Birthdate, &user.Phone, &user.PasswordHash, &status,
		&user.IsDeleted, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Status = models.UserStatus(status)
	return &user, nil
}
