package upc

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distr/core/apperr"
)

func TestGenerateProduces13Digits(t *testing.T) {
	allocator := NewAllocator()

	for _, ts := range []time.Time{
		time.Unix(0, 0),
		time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2099, 12, 31, 23, 59, 59, 0, time.UTC),
	} {
		allocator.now = func() time.Time { return ts }
		code := allocator.Generate()
		assert.Len(t, strconv.FormatInt(code, 10), 13, "code %d for %v", code, ts)
		assert.GreaterOrEqual(t, code, int64(minUPC))
		assert.LessOrEqual(t, code, int64(maxUPC))
	}
}

func TestAllocateReturnsFirstFreeCode(t *testing.T) {
	allocator := NewAllocator()

	var probed []int64
	code, err := allocator.Allocate(context.Background(), func(ctx context.Context, c int64) (bool, error) {
		probed = append(probed, c)
		return false, nil
	})
	require.NoError(t, err)
	require.Len(t, probed, 1)
	assert.Equal(t, probed[0], code)
}

func TestAllocateRetriesOnCollision(t *testing.T) {
	allocator := NewAllocator()

	calls := 0
	code, err := allocator.Allocate(context.Background(), func(ctx context.Context, c int64) (bool, error) {
		calls++
		return calls <= 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.GreaterOrEqual(t, code, int64(minUPC))
	assert.LessOrEqual(t, code, int64(maxUPC))
}

func TestAllocateGivesUpAfterMaxAttempts(t *testing.T) {
	allocator := NewAllocator()

	calls := 0
	_, err := allocator.Allocate(context.Background(), func(ctx context.Context, c int64) (bool, error) {
		calls++
		return true, nil
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindBusinessRule))
	assert.Equal(t, allocator.maxAttempts, calls)
}

func TestAllocatePropagatesProbeError(t *testing.T) {
	allocator := NewAllocator()

	_, err := allocator.Allocate(context.Background(), func(ctx context.Context, c int64) (bool, error) {
		return false, assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
}
