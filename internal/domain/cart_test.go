package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsys/labstock/internal/domain"
)

func TestCartAdd(t *testing.T) {
	var cart domain.Cart
	assert.True(t, cart.Empty())

	err := cart.Add(domain.CartLine{SpecificationID: uuid.New(), Amount: 0, LotNumber: "L1"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	err = cart.Add(domain.CartLine{Amount: 1, LotNumber: "L1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = cart.Add(domain.CartLine{SpecificationID: uuid.New(), Amount: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, cart.Add(domain.CartLine{
		SpecificationID: uuid.New(), Amount: 2, LotNumber: "L1",
	}))
	require.NoError(t, cart.Add(domain.CartLine{
		SpecificationID: uuid.New(), Amount: 3, LotNumber: "L2",
	}))

	assert.False(t, cart.Empty())
	require.Len(t, cart.Lines, 2)
	// Order of entry is preserved.
	assert.Equal(t, "L1", cart.Lines[0].LotNumber)
	assert.Equal(t, "L2", cart.Lines[1].LotNumber)
}
