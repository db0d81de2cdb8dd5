package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"distr/core/notify"
	"distr/core/upc"
	"distr/model"
	"distr/repository"
)

// testEnv wires the catalog services over an in-memory database with one
// label, one artist and their owning users.
type testEnv struct {
	db       *gorm.DB
	labels   *LabelService
	artists  *ArtistService
	releases *ReleaseService
	songs    *SongService

	labelUser  *model.User
	artistUser *model.User
	admin      *model.User
	label      *model.Label
	artist     *model.Artist

	events *capturedEvents
}

type capturedEvents struct {
	events []notify.Event
}

func (c *capturedEvents) Publish(event notify.Event) {
	c.events = append(c.events, event)
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	userRepo := repository.NewGormUserRepository(db)
	labelRepo := repository.NewGormLabelRepository(db)
	artistRepo := repository.NewGormArtistRepository(db)
	releaseRepo := repository.NewGormReleaseRepository(db)
	songRepo := repository.NewGormSongRepository(db)
	moderationRepo := repository.NewGormModerationRepository(db)

	events := &capturedEvents{}
	releases := NewReleaseService(db, releaseRepo, songRepo, artistRepo, labelRepo, moderationRepo,
		upc.NewAllocator(), nil, events)

	env := &testEnv{
		db:       db,
		labels:   NewLabelService(labelRepo, userRepo, releases),
		artists:  NewArtistService(artistRepo, labelRepo, userRepo, releases),
		releases: releases,
		songs:    NewSongService(songRepo, releases, upc.NewAllocator(), nil),
		events:   events,
	}

	env.labelUser = &model.User{Login: "label-owner", PasswordHash: "x", Type: model.UserTypeLabel}
	env.artistUser = &model.User{Login: "artist-owner", PasswordHash: "x", Type: model.UserTypeArtist}
	env.admin = &model.User{Login: "admin", PasswordHash: "x", Type: model.UserTypeAdmin}
	require.NoError(t, userRepo.Create(ctx, env.labelUser))
	require.NoError(t, userRepo.Create(ctx, env.artistUser))
	require.NoError(t, userRepo.Create(ctx, env.admin))

	env.label, err = env.labels.CreateLabel(ctx, CreateLabelInput{
		Country:     "DE",
		ContactName: "Label Owner",
		Phone:       "+49 30 000000",
		UserID:      env.labelUser.ID,
	})
	require.NoError(t, err)

	env.artist, err = env.artists.CreateArtist(ctx, CreateArtistInput{
		Name:     "The Act",
		RealName: "A. Performer",
		Country:  "DE",
		LabelID:  env.label.ID,
		UserID:   env.artistUser.ID,
	})
	require.NoError(t, err)

	return env
}

// newDraft creates a draft release owned by the environment's artist.
func (env *testEnv) newDraft(t *testing.T, name string) *model.Release {
	t.Helper()
	release, err := env.releases.CreateDraft(context.Background(), env.artistUser, CreateReleaseInput{
		Name:        name,
		ArtistID:    env.artist.ID,
		Genre:       "electronic",
		ReleaseType: "ALBUM",
	})
	require.NoError(t, err)
	return release
}

// newSong attaches a song to a release.
func (env *testEnv) newSong(t *testing.T, releaseID int64, title string) *model.Song {
	t.Helper()
	song, err := env.songs.AddSong(context.Background(), env.artistUser, CreateSongInput{
		ReleaseID:   releaseID,
		Title:       title,
		MusicAuthor: "A. Performer",
	})
	require.NoError(t, err)
	return song
}

// readyForModeration binds a cover and audio files so the release passes the
// submission preconditions.
func (env *testEnv) readyForModeration(t *testing.T, release *model.Release) {
	t.Helper()
	ctx := context.Background()

	_, err := env.releases.UpdateCover(ctx, env.artistUser, release.ID, "cover_release_1_1.jpg")
	require.NoError(t, err)

	songs, err := env.songs.SongsByRelease(ctx, release.ID)
	require.NoError(t, err)
	for i, song := range songs {
		_, err := env.songs.BindFile(ctx, env.artistUser, song.ID, "song_file.mp3", 180+i)
		require.NoError(t, err)
	}
}
