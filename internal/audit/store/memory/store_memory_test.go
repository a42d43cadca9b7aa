package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/audit"
)

func TestAppendPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	ops := []audit.Operation{audit.OperationCreated, audit.OperationModified, audit.OperationDeleted}
	for i, op := range ops {
		require.NoError(t, store.Append(ctx, audit.Event{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			ProductID: "p1",
			Operation: op,
			CreatedAt: time.Now(),
		}))
	}

	events, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, op := range ops {
		assert.Equal(t, op, events[i].Operation)
	}
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Append(ctx, audit.Event{ID: "e1", Operation: audit.OperationCreated}))

	events, err := store.List(ctx)
	require.NoError(t, err)
	events[0].Operation = "tampered"

	again, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, audit.OperationCreated, again[0].Operation, "recorded history must be immutable")
}
