package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distr/core/apperr"
)

func TestParseUserType(t *testing.T) {
	for _, valid := range []string{"ARTIST", "LABEL", "MODERATOR", "ADMIN", "PLATFORM"} {
		parsed, err := ParseUserType(valid)
		require.NoError(t, err)
		assert.Equal(t, UserType(valid), parsed)
	}

	_, err := ParseUserType("artist")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	_, err = ParseUserType("")
	assert.Error(t, err)
}

func TestParseModerationState(t *testing.T) {
	for _, valid := range []string{"DRAFT", "ON_REVIEW", "ON_MODERATION", "APPROVED", "REJECTED", "WAITING_FOR_CHANGES"} {
		parsed, err := ParseModerationState(valid)
		require.NoError(t, err)
		assert.Equal(t, ModerationState(valid), parsed)
	}

	_, err := ParseModerationState("PUBLISHED")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestParseReleaseType(t *testing.T) {
	for _, valid := range []string{"SINGLE", "EP", "ALBUM", "COMPILATION"} {
		_, err := ParseReleaseType(valid)
		require.NoError(t, err)
	}
	_, err := ParseReleaseType("MIXTAPE")
	assert.Error(t, err)
}

func TestInt64ListScanValue(t *testing.T) {
	list := Int64List{3, 1, 2}
	value, err := list.Value()
	require.NoError(t, err)

	var scanned Int64List
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)

	// Order is part of the contract.
	assert.Equal(t, int64(3), scanned[0])
}

func TestInt64ListScanEdgeCases(t *testing.T) {
	var list Int64List
	require.NoError(t, list.Scan(nil))
	assert.Nil(t, list)

	require.NoError(t, list.Scan([]byte("null")))
	assert.Nil(t, list)

	require.NoError(t, list.Scan("[5]"))
	assert.Equal(t, Int64List{5}, list)
}

func TestJSONMapScanValue(t *testing.T) {
	m := JSONMap{"isrc": "RU-A1B-24-00001", "bpm": float64(120)}
	value, err := m.Value()
	require.NoError(t, err)

	var scanned JSONMap
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, m, scanned)
}

func TestIsAdminNilSafe(t *testing.T) {
	var user *User
	assert.False(t, user.IsAdmin())
	assert.False(t, (&User{Type: UserTypeModerator}).IsAdmin())
	assert.True(t, (&User{Type: UserTypeAdmin}).IsAdmin())
}
