package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/audit"
	auditmemory "catalog/internal/audit/store/memory"
	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	"catalog/internal/catalog/store"
	identitymodels "catalog/internal/identity/models"
	identitystore "catalog/internal/identity/store"
	dErrors "catalog/pkg/domain-errors"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *auditmemory.InMemoryStore) {
	t.Helper()
	users := identitystore.NewInMemory()
	require.NoError(t, users.Create(context.Background(), &identitymodels.User{
		ID:     "user-a",
		Name:   "Ana",
		Phone:  "5511111111",
		Status: identitymodels.UserStatusActive,
	}))
	ledger := auditmemory.NewInMemoryStore()
	svc := New(store.NewInMemory(users), ledger, slog.Default(), opts...)
	return svc, ledger
}

func validInput() models.Input {
	price := 99.5
	return models.Input{
		SKU:          "A1",
		ProductName:  "Widget",
		Price:        &price,
		RegistryDate: "2023-02-02",
		ProductType:  "Hardware",
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active product and appends one audit event", func(t *testing.T) {
		svc, ledger := newTestService(t)

		product, err := svc.Create(ctx, "user-a", validInput())
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, product.Status)
		assert.Nil(t, product.IsDeleted)
		assert.Equal(t, "user-a", product.OwnerID)

		events, err := ledger.List(ctx)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.OperationCreated, events[0].Operation)
		assert.Equal(t, "user-a", events[0].UserID)
		assert.Equal(t, product.ID, events[0].ProductID)
	})

	t.Run("rejects empty required field", func(t *testing.T) {
		svc, ledger := newTestService(t)

		input := validInput()
		input.SKU = ""
		_, err := svc.Create(ctx, "user-a", input)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

		events, _ := ledger.List(ctx)
		assert.Empty(t, events, "failed create must not reach the ledger")
	})

	t.Run("rejects absent price", func(t *testing.T) {
		svc, _ := newTestService(t)

		input := validInput()
		input.Price = nil
		_, err := svc.Create(ctx, "user-a", input)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("owner update succeeds and audits", func(t *testing.T) {
		svc, ledger := newTestService(t)
		created, err := svc.Create(ctx, "user-a", validInput())
		require.NoError(t, err)

		input := validInput()
		input.ProductName = "Improved Widget"
		input.ProductStatus = models.StatusCancelled
		affected, updated, err := svc.Update(ctx, created.ID, "user-a", input)
		require.NoError(t, err)
		assert.EqualValues(t, 1, affected)
		assert.Equal(t, "Improved Widget", updated.Name)
		assert.Equal(t, models.StatusCancelled, updated.Status)

		events, _ := ledger.List(ctx)
		require.Len(t, events, 2)
		assert.Equal(t, audit.OperationModified, events[1].Operation)
	})

	t.Run("non-owner update is not found and leaves product unchanged", func(t *testing.T) {
		svc, ledger := newTestService(t)
		created, err := svc.Create(ctx, "user-a", validInput())
		require.NoError(t, err)

		input := validInput()
		input.ProductName = "Hijacked"
		_, _, err = svc.Update(ctx, created.ID, "user-b", input)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

		current, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Widget", current.Name)

		events, _ := ledger.List(ctx)
		assert.Len(t, events, 1, "failed update must not reach the ledger")
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.Create(ctx, "user-a", validInput())
		require.NoError(t, err)

		input := validInput()
		input.ProductStatus = "Paused"
		_, _, err = svc.Update(ctx, created.ID, "user-a", input)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("delete hides product and audits once", func(t *testing.T) {
		svc, ledger := newTestService(t)
		created, err := svc.Create(ctx, "user-a", validInput())
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID, "user-a"))

		_, err = svc.Get(ctx, created.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

		result, err := svc.List(ctx, query.Spec{Page: 1, Limit: query.DefaultLimit})
		require.NoError(t, err)
		assert.Zero(t, result.Count)

		events, _ := ledger.List(ctx)
		require.Len(t, events, 2)
		assert.Equal(t, audit.OperationDeleted, events[1].Operation)
	})

	t.Run("second delete is not found", func(t *testing.T) {
		svc, ledger := newTestService(t)
		created, err := svc.Create(ctx, "user-a", validInput())
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID, "user-a"))
		err = svc.Delete(ctx, created.ID, "user-a")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

		events, _ := ledger.List(ctx)
		assert.Len(t, events, 2, "losing delete must not reach the ledger")
	})

	t.Run("non-owner delete is not found", func(t *testing.T) {
		svc, _ := newTestService(t)
		created, err := svc.Create(ctx, "user-a", validInput())
		require.NoError(t, err)

		err = svc.Delete(ctx, created.ID, "user-b")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

		_, err = svc.Get(ctx, created.ID)
		assert.NoError(t, err, "product must remain visible")
	})
}

func TestAuditPerMutationCount(t *testing.T) {
	ctx := context.Background()
	svc, ledger := newTestService(t)

	created, err := svc.Create(ctx, "user-a", validInput())
	require.NoError(t, err)
	_, _, err = svc.Update(ctx, created.ID, "user-a", validInput())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID, "user-a"))

	events, err := ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3, "exactly one event per successful mutation")
	assert.Equal(t, audit.OperationCreated, events[0].Operation)
	assert.Equal(t, audit.OperationModified, events[1].Operation)
	assert.Equal(t, audit.OperationDeleted, events[2].Operation)
	for _, e := range events {
		assert.Equal(t, "user-a", e.UserID)
		assert.Equal(t, created.ID, e.ProductID)
	}
}

// failingLedger simulates an audit sink outage.
type failingLedger struct{}

func (failingLedger) Append(context.Context, audit.Event) error {
	return errors.New("ledger down")
}

func TestAuditAppendFailurePolicy(t *testing.T) {
	ctx := context.Background()
	users := identitystore.NewInMemory()
	require.NoError(t, users.Create(ctx, &identitymodels.User{ID: "user-a", Status: identitymodels.UserStatusActive}))

	t.Run("default mode keeps the primary mutation", func(t *testing.T) {
		svc := New(store.NewInMemory(users), failingLedger{}, slog.Default())

		product, err := svc.Create(ctx, "user-a", validInput())
		require.NoError(t, err, "append failure must not fail the request")

		_, err = svc.Get(ctx, product.ID)
		assert.NoError(t, err, "primary write must survive the append failure")
	})

	t.Run("strict mode surfaces the failure without rolling back", func(t *testing.T) {
		products := store.NewInMemory(users)
		svc := New(products, failingLedger{}, slog.Default(), WithStrictAudit(true))

		_, err := svc.Create(ctx, "user-a", validInput())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

		// the product itself was still written
		result, err := products.FindMany(ctx, query.Spec{Page: 1, Limit: query.DefaultLimit})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)
	})
}
