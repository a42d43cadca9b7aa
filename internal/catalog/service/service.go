// Package service owns the product lifecycle: ownership-scoped mutation,
// soft deletion, and the audit append that follows every successful write.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"catalog/internal/audit"
	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	"catalog/internal/catalog/store"
	"catalog/internal/platform/metrics"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/sentinel"
)

// Service coordinates the product store and the audit ledger. All
// collaborators arrive by constructor injection.
type Service struct {
	products    store.ProductStore
	ledger      audit.Store
	logger      *slog.Logger
	metrics     *metrics.Metrics
	strictAudit bool
}

// Option configures optional service behavior.
type Option func(*Service)

// WithMetrics attaches prometheus counters. Nil-safe to omit in tests.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithStrictAudit makes an audit-append failure surface as an internal error
// to the caller. The primary mutation is never rolled back either way; see
// the appendAudit doc comment.
func WithStrictAudit(strict bool) Option {
	return func(s *Service) { s.strictAudit = strict }
}

func New(products store.ProductStore, ledger audit.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		products: products,
		ledger:   ledger,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the required fields, persists the product as Active and
// not deleted, and appends a "Created a product" event.
func (s *Service) Create(ctx context.Context, ownerID string, input models.Input) (*models.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		SKU:          input.SKU,
		Name:         input.ProductName,
		Type:         input.ProductType,
		Price:        *input.Price,
		RegistryDate: input.RegistryDate,
		OwnerID:      ownerID,
		Status:       models.StatusActive,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create product")
	}

	s.metrics.IncrementMutation("create")
	if err := s.appendAudit(ctx, ownerID, product.ID, audit.OperationCreated); err != nil {
		return nil, err
	}
	return product, nil
}

// List executes a query spec. Reads never touch the ledger.
func (s *Service) List(ctx context.Context, spec query.Spec) (*models.ListResult, error) {
	result, err := s.products.FindMany(ctx, spec)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
	}
	return result, nil
}

// Get returns a visible product or not-found.
func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.FindOne(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "this product doesn't exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read product")
	}
	return product, nil
}

// Update applies a conditional update scoped to (id, owner, not deleted).
// Zero affected rows covers "doesn't exist", "already deleted", and "not
// owned by caller" uniformly, so none of those is distinguishable to the
// caller.
func (s *Service) Update(ctx context.Context, id, ownerID string, input models.Input) (int64, *models.Product, error) {
	if err := validateInput(input); err != nil {
		return 0, nil, err
	}
	patch := store.Patch{
		SKU:          &input.SKU,
		Name:         &input.ProductName,
		Type:         &input.ProductType,
		Price:        input.Price,
		RegistryDate: &input.RegistryDate,
	}
	if input.ProductStatus != "" {
		if !input.ProductStatus.Valid() {
			return 0, nil, dErrors.New(dErrors.CodeBadRequest, "productStatus must be Active or Cancelled")
		}
		patch.Status = &input.ProductStatus
	}

	affected, err := s.products.ConditionalUpdate(ctx, store.Predicate{ID: id, OwnerID: ownerID}, patch)
	if err != nil {
		return 0, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update product")
	}
	if affected == 0 {
		return 0, nil, dErrors.New(dErrors.CodeNotFound, "this product doesn't exist")
	}

	product, err := s.products.FindOne(ctx, id)
	if err != nil {
		return affected, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to re-read product")
	}

	s.metrics.IncrementMutation("update")
	if err := s.appendAudit(ctx, ownerID, id, audit.OperationModified); err != nil {
		return affected, nil, err
	}
	return affected, product, nil
}

// Delete soft-deletes via the same conditional-update primitive. The flag is
// terminal: a second delete of the same product observes zero affected rows
// and reports not-found.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	affected, err := s.products.ConditionalUpdate(ctx, store.Predicate{ID: id, OwnerID: ownerID}, store.Patch{Delete: true})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete product")
	}
	if affected == 0 {
		return dErrors.New(dErrors.CodeNotFound, "this product doesn't exist")
	}

	s.metrics.IncrementMutation("delete")
	return s.appendAudit(ctx, ownerID, id, audit.OperationDeleted)
}

// appendAudit records the ledger event for a committed mutation. The append
// runs after the primary write and is never rolled back into it: on failure
// the event is logged and counted, and only strict mode reports the failure
// to the caller.
func (s *Service) appendAudit(ctx context.Context, userID, productID string, op audit.Operation) error {
	event := audit.Event{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Operation: op,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ledger.Append(ctx, event); err != nil {
		s.metrics.IncrementAuditFailure()
		s.logger.ErrorContext(ctx, "audit append failed after committed mutation",
			"operation", string(op),
			"product_id", productID,
			"user_id", userID,
			"error", err.Error(),
		)
		if s.strictAudit {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
		}
	}
	return nil
}

func validateInput(input models.Input) error {
	required := []struct {
		value string
		field string
	}{
		{input.SKU, "sku"},
		{input.ProductName, "productName"},
		{input.RegistryDate, "registryDate"},
		{input.ProductType, "productType"},
	}
	for _, f := range required {
		if !govalidator.StringLength(f.value, "1", "255") {
			return dErrors.New(dErrors.CodeBadRequest, f.field+" must not be empty")
		}
	}
	if input.Price == nil {
		return dErrors.New(dErrors.CodeBadRequest, "price must not be empty")
	}
	return nil
}
