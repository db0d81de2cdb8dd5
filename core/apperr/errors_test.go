package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("release %d not found", 1)))
	assert.Equal(t, KindAlreadyExists, KindOf(AlreadyExists("taken")))
	assert.Equal(t, KindBusinessRule, KindOf(BusinessRule("bad transition")))
	assert.Equal(t, KindPermissionDenied, KindOf(PermissionDenied("no")))
	assert.Equal(t, KindValidation, KindOf(Validation("missing field")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("user 9 not found"))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindValidation))
}

func TestWrapKeepsChain(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindAlreadyExists, cause, "login taken")
	assert.True(t, IsKind(err, KindAlreadyExists))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "login taken")
	assert.Contains(t, err.Error(), "duplicate key")
}
