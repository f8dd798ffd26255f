package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsys/labstock/internal/domain"
)

func TestMemoryCartStoreIsolatesUsers(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, store.Append(ctx, alice, domain.CartLine{
		SpecificationID: uuid.New(), Amount: 1, LotNumber: "L1",
	}))
	require.NoError(t, store.Append(ctx, alice, domain.CartLine{
		SpecificationID: uuid.New(), Amount: 2, LotNumber: "L2",
	}))

	cart, err := store.Get(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)

	cart, err = store.Get(ctx, bob)
	require.NoError(t, err)
	assert.True(t, cart.Empty())

	require.NoError(t, store.Clear(ctx, alice))
	cart, err = store.Get(ctx, alice)
	require.NoError(t, err)
	assert.True(t, cart.Empty())
}

func TestMemoryCartStoreValidatesLines(t *testing.T) {
	store := NewMemoryCartStore()
	err := store.Append(context.Background(), uuid.New(), domain.CartLine{
		SpecificationID: uuid.New(), Amount: 0, LotNumber: "L1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestMemoryCartStoreReturnsCopies(t *testing.T) {
	store := NewMemoryCartStore()
	ctx := context.Background()
	user := uuid.New()

	require.NoError(t, store.Append(ctx, user, domain.CartLine{
		SpecificationID: uuid.New(), Amount: 1, LotNumber: "L1",
	}))

	cart, err := store.Get(ctx, user)
	require.NoError(t, err)
	cart.Lines[0].LotNumber = "mutated"

	again, err := store.Get(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "L1", again.Lines[0].LotNumber)
}
