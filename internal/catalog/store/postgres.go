package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	identity "catalog/internal/identity/models"
	"catalog/pkg/platform/sentinel"
)

// Postgres persists products in the products table. Every read filters
// `is_deleted IS NULL`; every conditional write carries the full
// (id, owner_id, is_deleted IS NULL) predicate so the row checks happen
// atomically inside one statement.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// sortColumns maps API sort field names onto columns. Must cover exactly
// query.SortFields; anything else is rejected before SQL assembly.
var sortColumns = map[string]string{
	"id":            "p.id",
	"sku":           "p.sku",
	"productName":   "p.product_name",
	"productType":   "p.product_type",
	"productStatus": "p.product_status",
	"price":         "p.price",
	"registryDate":  "p.registry_date",
	"createdAt":     "p.created_at",
	"updatedAt":     "p.updated_at",
}

func (s *Postgres) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	stmt := `
		INSERT INTO products (
			id, sku, product_name, product_type, price, registry_date,
			owner_id, product_status, is_deleted, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, stmt,
		product.ID, product.SKU, product.Name, product.Type, product.Price,
		product.RegistryDate, product.OwnerID, string(product.Status),
		product.IsDeleted, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

const productSelect = `
	SELECT p.id, p.sku, p.product_name, p.product_type, p.price,
	       p.registry_date, p.owner_id, p.product_status, p.is_deleted,
	       p.created_at, p.updated_at,
	       u.id, u.name, u.last_name, u.second_last_name, u.birthdate,
	       u.phone, u.user_status, u.is_deleted, u.created_at, u.updated_at
	FROM products p
	JOIN users u ON u.id = p.owner_id
`

func (s *Postgres) FindOne(ctx context.Context, id string) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1 AND p.is_deleted IS NULL`, id)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (s *Postgres) FindMany(ctx context.Context, spec query.Spec) (*models.ListResult, error) {
	where := ` WHERE p.is_deleted IS NULL`
	args := []any{}
	if spec.FilterTerm != "" {
		where += ` AND (p.product_name ILIKE $1 OR p.sku ILIKE $1 OR p.product_type ILIKE $1 OR p.product_status ILIKE $1)`
		args = append(args, "%"+escapeLike(spec.FilterTerm)+"%")
	}

	var count int
	countQuery := `SELECT count(*) FROM products p` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	orderCol, ok := sortColumns["id"], true
	if spec.SortField != "" {
		orderCol, ok = sortColumns[spec.SortField]
		if !ok {
			return nil, fmt.Errorf("unsortable field %q", spec.SortField)
		}
	}
	direction := "ASC"
	if spec.SortDirection == query.Descending {
		direction = "DESC"
	}

	listQuery := fmt.Sprintf("%s%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		productSelect, where, orderCol, direction, len(args)+1, len(args)+2)
	args = append(args, spec.Limit, spec.Offset())

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	result := &models.ListResult{Count: count, Rows: []*models.Product{}}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		result.Rows = append(result.Rows, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return result, nil
}

func (s *Postgres) ConditionalUpdate(ctx context.Context, pred Predicate, patch Patch) (int64, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.SKU != nil {
		add("sku", *patch.SKU)
	}
	if patch.Name != nil {
		add("product_name", *patch.Name)
	}
	if patch.Type != nil {
		add("product_type", *patch.Type)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.RegistryDate != nil {
		add("registry_date", *patch.RegistryDate)
	}
	if patch.Status != nil {
		add("product_status", string(*patch.Status))
	}
	if patch.Delete {
		add("is_deleted", true)
	}
	if len(sets) == 0 {
		return 0, nil
	}
	add("updated_at", time.Now().UTC())

	args = append(args, pred.ID, pred.OwnerID)
	stmt := fmt.Sprintf(
		`UPDATE products SET %s WHERE id = $%d AND owner_id = $%d AND is_deleted IS NULL`,
		strings.Join(sets, ", "), len(args)-1, len(args),
	)

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("conditional update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		product models.Product
		status  string
		owner   identity.PublicUser
		oStatus string
	)
	err := row.Scan(
		&product.ID, &product.SKU, &product.Name, &product.Type, &product.Price,
		&product.RegistryDate, &product.OwnerID, &status, &product.IsDeleted,
		&product.CreatedAt, &product.UpdatedAt,
		&owner.ID, &owner.Name, &owner.LastName, &owner.SecondLastName,
		&owner.Birthdate, &owner.Phone, &oStatus, &owner.IsDeleted,
		&owner.CreatedAt, &owner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	product.Status = models.Status(status)
	owner.Status = identity.UserStatus(oStatus)
	product.Owner = &owner
	return &product, nil
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search terms.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}
