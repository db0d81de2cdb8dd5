package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"distr/core/apperr"
	"distr/core/notify"
	"distr/model"
	"distr/repository"
)

type capturedEvents struct {
	events []notify.Event
}

func (c *capturedEvents) Publish(event notify.Event) {
	c.events = append(c.events, event)
}

type testEnv struct {
	db       *gorm.DB
	service  *Service
	releases repository.ReleaseRepository

	moderatorUser *model.User
	moderator     *model.Moderator
	events        *capturedEvents
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
	releaseRepo := repository.NewGormReleaseRepository(db)
	moderationRepo := repository.NewGormModerationRepository(db)

	events := &capturedEvents{}
	service := NewService(db, releaseRepo, moderationRepo, userRepo, nil, events)

	moderatorUser := &model.User{Login: "reviewer", PasswordHash: "x", Type: model.UserTypeModerator}
	require.NoError(t, userRepo.Create(ctx, moderatorUser))

	moderator, err := service.CreateModerator(ctx, moderatorUser, "Reviewer One", moderatorUser.ID)
	require.NoError(t, err)

	return &testEnv{
		db:            db,
		service:       service,
		releases:      releaseRepo,
		moderatorUser: moderatorUser,
		moderator:     moderator,
		events:        events,
	}
}

// seedRelease inserts a release directly in the given state.
func (env *testEnv) seedRelease(t *testing.T, state model.ModerationState) *model.Release {
	t.Helper()
	release := &model.Release{
		Name:            "Seeded",
		ArtistID:        1,
		LabelID:         1,
		Genre:           "rock",
		ModerationState: state,
		ReleaseType:     model.ReleaseTypeAlbum,
	}
	require.NoError(t, env.releases.Create(context.Background(), release))
	return release
}

func TestModerateApprove(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	release := env.seedRelease(t, model.StateOnModeration)

	moderated, err := env.service.Moderate(ctx, env.moderatorUser, release.ID, DecisionInput{
		State:   "APPROVED",
		Comment: "sounds good",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StateApproved, moderated.ModerationState)

	records, err := env.service.History(ctx, env.moderatorUser, release.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sounds good", records[0].Comment)
	assert.Equal(t, env.moderator.ID, records[0].ModeratorID)

	require.Len(t, env.events.events, 1)
	assert.Equal(t, notify.EventReleaseModerated, env.events.events[0].Type)
	assert.Equal(t, "APPROVED", env.events.events[0].State)
}

func TestModerateFromOnReview(t *testing.T) {
	env := setupEnv(t)

	release := env.seedRelease(t, model.StateOnReview)
	moderated, err := env.service.Moderate(context.Background(), env.moderatorUser, release.ID, DecisionInput{
		State:   "WAITING_FOR_CHANGES",
		Comment: "fix the tracklist",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StateWaitingForChanges, moderated.ModerationState)
}

func TestModerateRejectsIllegalCurrentStates(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	for _, state := range []model.ModerationState{
		model.StateDraft,
		model.StateApproved,
		model.StateRejected,
		model.StateWaitingForChanges,
	} {
		release := env.seedRelease(t, state)
		_, err := env.service.Moderate(ctx, env.moderatorUser, release.ID, DecisionInput{
			State:   "APPROVED",
			Comment: "",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindBusinessRule), "state %s: got %v", state, err)
	}
}

func TestModerateRejectsIllegalTargetStates(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	release := env.seedRelease(t, model.StateOnModeration)

	for _, target := range []string{"DRAFT", "ON_REVIEW", "ON_MODERATION"} {
		_, err := env.service.Moderate(ctx, env.moderatorUser, release.ID, DecisionInput{State: target})
		assert.True(t, apperr.IsKind(err, apperr.KindBusinessRule), "target %s: got %v", target, err)
	}

	_, err := env.service.Moderate(ctx, env.moderatorUser, release.ID, DecisionInput{State: "SHIPPED"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	// Nothing was recorded for the failed decisions.
	records, err := env.service.History(ctx, env.moderatorUser, release.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestModerateRequiresReviewerRole(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	release := env.seedRelease(t, model.StateOnModeration)

	artist := &model.User{ID: 555, Type: model.UserTypeArtist}
	_, err := env.service.Moderate(ctx, artist, release.ID, DecisionInput{State: "APPROVED"})
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))

	_, err = env.service.Moderate(ctx, nil, release.ID, DecisionInput{State: "APPROVED"})
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))
}

func TestModerateRequiresModeratorProfile(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	release := env.seedRelease(t, model.StateOnModeration)

	profileless := &model.User{ID: 777, Type: model.UserTypeModerator}
	_, err := env.service.Moderate(ctx, profileless, release.ID, DecisionInput{State: "APPROVED"})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestModerationHistoryAccumulates(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	release := env.seedRelease(t, model.StateOnModeration)

	_, err := env.service.Moderate(ctx, env.moderatorUser, release.ID, DecisionInput{
		State: "WAITING_FOR_CHANGES", Comment: "first pass",
	})
	require.NoError(t, err)

	// Resubmission puts it back in the queue.
	current, err := env.releases.GetByID(ctx, release.ID)
	require.NoError(t, err)
	current.ModerationState = model.StateOnModeration
	require.NoError(t, env.releases.Update(ctx, current))

	_, err = env.service.Moderate(ctx, env.moderatorUser, release.ID, DecisionInput{
		State: "APPROVED", Comment: "second pass",
	})
	require.NoError(t, err)

	records, err := env.service.History(ctx, env.moderatorUser, release.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first pass", records[0].Comment)
	assert.Equal(t, "second pass", records[1].Comment)
}

func TestPendingReleasesQueue(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.seedRelease(t, model.StateOnModeration)
	env.seedRelease(t, model.StateOnModeration)
	env.seedRelease(t, model.StateDraft)
	env.seedRelease(t, model.StateApproved)

	page, err := env.service.PendingReleases(ctx, env.moderatorUser, 0, 10)
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, int64(2), page.TotalElements)
	for _, release := range page.Content {
		assert.Equal(t, model.StateOnModeration, release.ModerationState)
	}

	artist := &model.User{ID: 321, Type: model.UserTypeArtist}
	_, err = env.service.PendingReleases(ctx, artist, 0, 10)
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))
}

func TestCreateModeratorRules(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	userRepo := repository.NewGormUserRepository(env.db)
	second := &model.User{Login: "reviewer2", PasswordHash: "x", Type: model.UserTypeModerator}
	require.NoError(t, userRepo.Create(ctx, second))

	created, err := env.service.CreateModerator(ctx, env.moderatorUser, "Reviewer Two", second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, created.UserID)

	// One profile per user.
	_, err = env.service.CreateModerator(ctx, env.moderatorUser, "Again", second.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAlreadyExists))

	// Profile owner must hold a reviewer role.
	artistUser := &model.User{Login: "not-a-reviewer", PasswordHash: "x", Type: model.UserTypeArtist}
	require.NoError(t, userRepo.Create(ctx, artistUser))
	_, err = env.service.CreateModerator(ctx, env.moderatorUser, "Nope", artistUser.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindBusinessRule))
}
