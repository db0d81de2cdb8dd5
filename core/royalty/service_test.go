package royalty

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"distr/core/apperr"
	"distr/model"
	"distr/repository"
)

type testEnv struct {
	service  *Service
	releases repository.ReleaseRepository
	songs    repository.SongRepository

	admin    *model.User
	platform *model.User

	release     *model.Release
	song        *model.Song
	platformRec *model.Platform
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	releaseRepo := repository.NewGormReleaseRepository(db)
	songRepo := repository.NewGormSongRepository(db)
	royaltyRepo := repository.NewGormRoyaltyRepository(db)

	env := &testEnv{
		service:  NewService(royaltyRepo, releaseRepo, songRepo),
		releases: releaseRepo,
		songs:    songRepo,
		admin:    &model.User{ID: 1, Type: model.UserTypeAdmin},
		platform: &model.User{ID: 2, Type: model.UserTypePlatform},
	}

	code := int64(4012345678901)
	env.release = &model.Release{
		Name:            "Earning",
		ArtistID:        1,
		LabelID:         11,
		Genre:           "pop",
		ReleaseUPC:      &code,
		ModerationState: model.StateApproved,
		ReleaseType:     model.ReleaseTypeAlbum,
	}
	require.NoError(t, releaseRepo.Create(ctx, env.release))

	env.song = &model.Song{
		ReleaseID:   env.release.ID,
		Title:       "Hit",
		MusicAuthor: "Writer",
		SongUPC:     4012345678902,
	}
	require.NoError(t, songRepo.Create(ctx, env.song))

	env.platformRec, err = env.service.CreatePlatform(ctx, env.admin, "StreamCo")
	require.NoError(t, err)
	return env
}

func TestCreatePlatform(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_, err := env.service.CreatePlatform(ctx, env.admin, "StreamCo")
	assert.True(t, apperr.IsKind(err, apperr.KindAlreadyExists))

	_, err = env.service.CreatePlatform(ctx, env.platform, "OtherCo")
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))

	platforms, err := env.service.ListPlatforms(ctx)
	require.NoError(t, err)
	assert.Len(t, platforms, 1)
}

func TestCreateReport(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	report, err := env.service.CreateReport(ctx, env.platform, CreateReportInput{
		ReleaseUPC: *env.release.ReleaseUPC,
		PlatformID: env.platformRec.ID,
		Period:     "2026-07",
	})
	require.NoError(t, err)
	assert.NotZero(t, report.ID)

	// Unknown UPC is rejected.
	_, err = env.service.CreateReport(ctx, env.platform, CreateReportInput{
		ReleaseUPC: 1111111111111,
		PlatformID: env.platformRec.ID,
		Period:     "2026-07",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// Artists cannot submit reports.
	artist := &model.User{ID: 9, Type: model.UserTypeArtist}
	_, err = env.service.CreateReport(ctx, artist, CreateReportInput{
		ReleaseUPC: *env.release.ReleaseUPC,
		PlatformID: env.platformRec.ID,
		Period:     "2026-07",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))
}

func TestAddRoyaltyAndTotals(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	report, err := env.service.CreateReport(ctx, env.platform, CreateReportInput{
		ReleaseUPC: *env.release.ReleaseUPC,
		PlatformID: env.platformRec.ID,
		Period:     "2026-07",
	})
	require.NoError(t, err)

	line, err := env.service.AddRoyalty(ctx, env.platform, AddRoyaltyInput{
		ReportID: report.ID,
		SongID:   env.song.ID,
		Amount:   12.50,
	})
	require.NoError(t, err)
	assert.Equal(t, env.release.LabelID, line.LabelID, "label resolved from the release")
	assert.Equal(t, env.platformRec.ID, line.PlatformID)

	_, err = env.service.AddRoyalty(ctx, env.platform, AddRoyaltyInput{
		ReportID: report.ID,
		SongID:   env.song.ID,
		Amount:   7.25,
	})
	require.NoError(t, err)

	total, err := env.service.TotalByRelease(ctx, env.release.ID)
	require.NoError(t, err)
	assert.InDelta(t, 19.75, total, 0.001)

	labelTotal, err := env.service.TotalByLabel(ctx, env.release.LabelID)
	require.NoError(t, err)
	assert.InDelta(t, 19.75, labelTotal, 0.001)

	page, err := env.service.RoyaltiesByRelease(ctx, env.release.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, int64(2), page.TotalElements)
}

func TestAddRoyaltyGuards(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	report, err := env.service.CreateReport(ctx, env.platform, CreateReportInput{
		ReleaseUPC: *env.release.ReleaseUPC,
		PlatformID: env.platformRec.ID,
		Period:     "2026-07",
	})
	require.NoError(t, err)

	// Negative amounts are invalid.
	_, err = env.service.AddRoyalty(ctx, env.platform, AddRoyaltyInput{
		ReportID: report.ID,
		SongID:   env.song.ID,
		Amount:   -1,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	// A song from another release does not belong on this report.
	otherCode := int64(4099999999999)
	other := &model.Release{
		Name: "Other", ArtistID: 2, LabelID: 22, Genre: "rock",
		ReleaseUPC: &otherCode, ModerationState: model.StateApproved,
		ReleaseType: model.ReleaseTypeSingle,
	}
	require.NoError(t, env.releases.Create(ctx, other))
	foreign := &model.Song{ReleaseID: other.ID, Title: "Elsewhere", MusicAuthor: "X", SongUPC: 4099999999998}
	require.NoError(t, env.songs.Create(ctx, foreign))

	_, err = env.service.AddRoyalty(ctx, env.platform, AddRoyaltyInput{
		ReportID: report.ID,
		SongID:   foreign.ID,
		Amount:   5,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindBusinessRule))

	_, err = env.service.AddRoyalty(ctx, env.platform, AddRoyaltyInput{
		ReportID: 13131,
		SongID:   env.song.ID,
		Amount:   5,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
