// Package upc allocates 13-digit numeric product codes. Codes are derived from
// wall-clock time, so the raw generator can collide under rapid calls; the
// Allocator closes that hole by probing the store and retrying before a code
// is handed out. The unique database column stays the final guard.
package upc

import (
	"context"
	"math/rand/v2"
	"time"

	"distr/core/apperr"
)

const (
	minUPC = 1_000_000_000_000 // 13-digit minimum
	maxUPC = 9_999_999_999_999 // 13-digit maximum
)

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code int64) (bool, error)

// Allocator produces unique product codes.
type Allocator struct {
	now         func() time.Time
	maxAttempts int
}

// NewAllocator creates an allocator with default settings.
func NewAllocator() *Allocator {
	return &Allocator{
		now:         time.Now,
		maxAttempts: 10,
	}
}

// Generate derives a candidate code from the current time, constrained to the
// 13-digit range. Uniqueness is not guaranteed here; use Allocate.
func (a *Allocator) Generate() int64 {
	return minUPC + a.now().UnixMilli()%(maxUPC-minUPC)
}

// Allocate returns a code the store does not know yet, retrying with random
// perturbation on collision.
func (a *Allocator) Allocate(ctx context.Context, exists ExistsFunc) (int64, error) {
	candidate := a.Generate()
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return 0, err
		}
		if !taken {
			return candidate, nil
		}
		candidate = minUPC + (candidate-minUPC+rand.Int64N(maxUPC-minUPC))%(maxUPC-minUPC)
	}
	return 0, apperr.BusinessRule("could not allocate a unique product code after %d attempts", a.maxAttempts)
}
