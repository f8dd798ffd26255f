package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsys/labstock/internal/domain"
)

func TestIncreaseDecreaseRoundTrip(t *testing.T) {
	sp := domain.StockProduct{Amount: 4}

	require.NoError(t, sp.Increase(10))
	assert.Equal(t, 14, sp.Amount)

	require.NoError(t, sp.Decrease(10))
	assert.Equal(t, 4, sp.Amount)
}

func TestDecreaseNeverGoesNegative(t *testing.T) {
	sp := domain.StockProduct{Amount: 7}

	err := sp.Decrease(100)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 7, sp.Amount)

	require.NoError(t, sp.Decrease(7))
	assert.Zero(t, sp.Amount)

	err = sp.Decrease(1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Zero(t, sp.Amount)
}

func TestAmountsBelowOneAreRejected(t *testing.T) {
	sp := domain.StockProduct{Amount: 5}

	for _, n := range []int{0, -1, -10} {
		assert.ErrorIs(t, sp.Increase(n), domain.ErrInvalidAmount)
		assert.ErrorIs(t, sp.Decrease(n), domain.ErrInvalidAmount)
		_, err := sp.HasEnough(n)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		assert.Equal(t, 5, sp.Amount)
	}
}

func TestHasEnough(t *testing.T) {
	sp := domain.StockProduct{Amount: 5}

	ok, err := sp.HasEnough(5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sp.HasEnough(6)
	require.NoError(t, err)
	assert.False(t, ok)
}
