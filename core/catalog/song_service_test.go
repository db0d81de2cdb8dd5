package catalog

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distr/core/apperr"
	"distr/model"
)

func TestAddSong(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	release := env.newDraft(t, "With Songs")
	song, err := env.songs.AddSong(ctx, env.artistUser, CreateSongInput{
		ReleaseID:        release.ID,
		Title:            "Opener",
		MusicAuthor:      "A. Performer",
		ParentalAdvisory: true,
		Metadata:         map[string]interface{}{"isrc": "DE-A12-24-00001", "bpm": float64(128)},
	})
	require.NoError(t, err)

	assert.Len(t, strconv.FormatInt(song.SongUPC, 10), 13)
	assert.Equal(t, model.Int64List{env.artist.ID}, song.ArtistIDs, "defaults to the release artist")
	assert.Nil(t, song.PathToFile)
	assert.Nil(t, song.DurationSeconds)

	// Metadata survives the JSON column round trip.
	stored, err := env.songs.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, "DE-A12-24-00001", stored.Metadata["isrc"])
	assert.Equal(t, float64(128), stored.Metadata["bpm"])
	assert.True(t, stored.ParentalAdvisory)
}

func TestAddSongAuthorization(t *testing.T) {
	env := setupEnv(t)

	release := env.newDraft(t, "Guarded")
	stranger := &model.User{ID: 6066, Type: model.UserTypeArtist}
	_, err := env.songs.AddSong(context.Background(), stranger, CreateSongInput{
		ReleaseID:   release.ID,
		Title:       "Sneaky",
		MusicAuthor: "S. Tranger",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))
}

func TestAddSongUnknownRelease(t *testing.T) {
	env := setupEnv(t)

	_, err := env.songs.AddSong(context.Background(), env.artistUser, CreateSongInput{
		ReleaseID:   424242,
		Title:       "Orphan",
		MusicAuthor: "Nobody",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSongUPCsAreUnique(t *testing.T) {
	env := setupEnv(t)

	release := env.newDraft(t, "Many Tracks")
	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		song := env.newSong(t, release.ID, "Track "+strconv.Itoa(i))
		assert.False(t, seen[song.SongUPC], "duplicate code %d", song.SongUPC)
		seen[song.SongUPC] = true
	}
}

func TestBindFileExactlyOnce(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	release := env.newDraft(t, "Bound")
	song := env.newSong(t, release.ID, "Track 1")

	bound, err := env.songs.BindFile(ctx, env.artistUser, song.ID, "song_1_123.mp3", 215)
	require.NoError(t, err)
	require.NotNil(t, bound.PathToFile)
	assert.Equal(t, "song_1_123.mp3", *bound.PathToFile)
	require.NotNil(t, bound.DurationSeconds)
	assert.Equal(t, 215, *bound.DurationSeconds)

	_, err = env.songs.BindFile(ctx, env.artistUser, song.ID, "song_1_456.mp3", 300)
	assert.True(t, apperr.IsKind(err, apperr.KindBusinessRule))

	// The original binding is untouched.
	current, err := env.songs.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, "song_1_123.mp3", *current.PathToFile)
	assert.Equal(t, 215, *current.DurationSeconds)
}

func TestBindFileRejectsBadDuration(t *testing.T) {
	env := setupEnv(t)

	release := env.newDraft(t, "Short")
	song := env.newSong(t, release.ID, "Track 1")

	_, err := env.songs.BindFile(context.Background(), env.artistUser, song.ID, "song.mp3", 0)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRegisterPlay(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	release := env.newDraft(t, "Played")
	song := env.newSong(t, release.ID, "Hit")

	for i := 0; i < 3; i++ {
		require.NoError(t, env.songs.RegisterPlay(ctx, song.ID))
	}

	current, err := env.songs.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), current.PlayCount)

	err = env.songs.RegisterPlay(ctx, 999999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
