package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameDate(t *testing.T) {
	morning := time.Date(2027, 6, 30, 8, 15, 0, 0, time.UTC)
	evening := time.Date(2027, 6, 30, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2027, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, sameDate(nil, nil))
	assert.False(t, sameDate(&morning, nil))
	assert.False(t, sameDate(nil, &morning))

	// Time of day is irrelevant for a date column.
	assert.True(t, sameDate(&morning, &evening))
	assert.False(t, sameDate(&morning, &nextDay))
}
