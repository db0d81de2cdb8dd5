// Package moderation implements the review workflow over releases: moderator
// profiles, decisions and the audit trail.
package moderation

import (
	"context"
	"fmt"
	"time"

	"distr/cache"
	"distr/core/apperr"
	"distr/core/notify"
	"distr/logger"
	"distr/model"
	"distr/repository"

	"gorm.io/gorm"
)

// DecisionInput carries one moderation decision.
type DecisionInput struct {
	State   string
	Comment string
}

// Service implements the moderation workflow.
type Service struct {
	db         *gorm.DB
	releases   repository.ReleaseRepository
	moderation repository.ModerationRepository
	users      repository.UserRepository
	cache      *cache.ReleaseCache
	events     notify.Publisher
}

// NewService creates a moderation service. cache and events may be nil.
func NewService(
	db *gorm.DB,
	releases repository.ReleaseRepository,
	moderation repository.ModerationRepository,
	users repository.UserRepository,
	releaseCache *cache.ReleaseCache,
	events notify.Publisher,
) *Service {
	return &Service{
		db:         db,
		releases:   releases,
		moderation: moderation,
		users:      users,
		cache:      releaseCache,
		events:     events,
	}
}

func isReviewer(actor *model.User) bool {
	return actor != nil && (actor.Type == model.UserTypeModerator || actor.Type == model.UserTypeAdmin)
}

// CreateModerator creates a reviewer profile for a MODERATOR user. One
// profile per user.
func (s *Service) CreateModerator(ctx context.Context, actor *model.User, name string, userID int64) (*model.Moderator, error) {
	if !isReviewer(actor) {
		return nil, apperr.PermissionDenied("not allowed to create moderator profiles")
	}
	if name == "" {
		return nil, apperr.Validation("moderator name is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %d not found", userID)
	}
	if user.Type != model.UserTypeModerator && user.Type != model.UserTypeAdmin {
		return nil, apperr.BusinessRule("user %d is not a MODERATOR account", userID)
	}

	existing, err := s.moderation.GetModeratorByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing moderator: %w", err)
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("user %d already has a moderator profile", userID)
	}

	moderator := &model.Moderator{Name: name, UserID: userID}
	if err := s.moderation.CreateModerator(ctx, moderator); err != nil {
		return nil, fmt.Errorf("failed to create moderator: %w", err)
	}
	return moderator, nil
}

// ModeratorByUser returns the reviewer profile owned by a user.
func (s *Service) ModeratorByUser(ctx context.Context, userID int64) (*model.Moderator, error) {
	moderator, err := s.moderation.GetModeratorByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get moderator: %w", err)
	}
	if moderator == nil {
		return nil, apperr.NotFound("user %d has no moderator profile", userID)
	}
	return moderator, nil
}

// PendingReleases returns the moderation queue, oldest submissions first.
func (s *Service) PendingReleases(ctx context.Context, actor *model.User, pageNumber, pageSize int) (model.Page[*model.Release], error) {
	if !isReviewer(actor) {
		return model.Page[*model.Release]{}, apperr.PermissionDenied("not allowed to view the moderation queue")
	}

	releases, total, err := s.releases.ListByState(ctx, model.StateOnModeration, pageNumber, pageSize)
	if err != nil {
		return model.Page[*model.Release]{}, fmt.Errorf("failed to list pending releases: %w", err)
	}
	return model.NewPage(releases, pageNumber, pageSize, total), nil
}

// Moderate applies one decision to a release: the state changes and an audit
// record is appended, atomically. The release must currently be under review,
// and the decision cannot put it back into a pre-review state.
func (s *Service) Moderate(ctx context.Context, actor *model.User, releaseID int64, input DecisionInput) (*model.Release, error) {
	if !isReviewer(actor) {
		return nil, apperr.PermissionDenied("not allowed to moderate releases")
	}

	moderator, err := s.ModeratorByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	target, err := model.ParseModerationState(input.State)
	if err != nil {
		return nil, err
	}
	switch target {
	case model.StateDraft, model.StateOnReview, model.StateOnModeration:
		return nil, apperr.BusinessRule("%s is not a valid moderation decision", target)
	}

	var release *model.Release
	err = s.db.Transaction(func(tx *gorm.DB) error {
		releases := repository.NewGormReleaseRepository(tx)
		records := repository.NewGormModerationRepository(tx)

		release, err = releases.GetByID(ctx, releaseID)
		if err != nil {
			return fmt.Errorf("failed to get release: %w", err)
		}
		if release == nil {
			return apperr.NotFound("release %d not found", releaseID)
		}
		if release.ModerationState != model.StateOnModeration && release.ModerationState != model.StateOnReview {
			return apperr.BusinessRule("release %d is not under review", releaseID)
		}

		release.ModerationState = target
		if err := releases.Update(ctx, release); err != nil {
			return fmt.Errorf("failed to update release: %w", err)
		}

		record := &model.ModerationRecord{
			Comment:     input.Comment,
			ModeratorID: moderator.ID,
			ReleaseID:   release.ID,
		}
		if err := records.CreateRecord(ctx, record); err != nil {
			return fmt.Errorf("failed to create moderation record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateRelease(ctx, releaseID)
	if s.events != nil {
		s.events.Publish(notify.Event{
			Type:      notify.EventReleaseModerated,
			ReleaseID: release.ID,
			State:     string(release.ModerationState),
			Timestamp: time.Now().UnixMilli(),
		})
	}

	logger.Info("release moderated",
		logger.Int64("releaseId", release.ID),
		logger.String("state", string(release.ModerationState)),
		logger.Int64("moderatorId", moderator.ID))
	return release, nil
}

// History returns the audit trail of a release, oldest first.
func (s *Service) History(ctx context.Context, actor *model.User, releaseID int64) ([]*model.ModerationRecord, error) {
	if !isReviewer(actor) {
		return nil, apperr.PermissionDenied("not allowed to view moderation history")
	}

	release, err := s.releases.GetByID(ctx, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	if release == nil {
		return nil, apperr.NotFound("release %d not found", releaseID)
	}

	records, err := s.moderation.RecordsByRelease(ctx, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list moderation records: %w", err)
	}
	return records, nil
}
