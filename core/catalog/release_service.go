package catalog

import (
	"context"
	"fmt"
	"time"

	"distr/cache"
	"distr/core/apperr"
	"distr/core/notify"
	"distr/core/upc"
	"distr/logger"
	"distr/model"
	"distr/repository"

	"gorm.io/gorm"
)

// CreateReleaseInput carries the fields for a new draft release.
type CreateReleaseInput struct {
	Name        string
	ArtistID    int64
	Genre       string
	ReleaseType string
}

// UpdateReleaseInput carries the mutable release fields. Nil fields are left
// unchanged.
type UpdateReleaseInput struct {
	Name        *string
	Genre       *string
	ReleaseType *string
	Date        *time.Time
}

// ReleaseService manages releases through their moderation lifecycle.
type ReleaseService struct {
	db       *gorm.DB
	releases repository.ReleaseRepository
	songs    repository.SongRepository
	artists  repository.ArtistRepository
	labels   repository.LabelRepository
	records  repository.ModerationRepository
	upc      *upc.Allocator
	cache    *cache.ReleaseCache
	events   notify.Publisher
}

// NewReleaseService creates a release service. cache may be nil when Redis is
// not configured; events may be nil when no feed is running.
func NewReleaseService(
	db *gorm.DB,
	releases repository.ReleaseRepository,
	songs repository.SongRepository,
	artists repository.ArtistRepository,
	labels repository.LabelRepository,
	records repository.ModerationRepository,
	allocator *upc.Allocator,
	releaseCache *cache.ReleaseCache,
	events notify.Publisher,
) *ReleaseService {
	return &ReleaseService{
		db:       db,
		releases: releases,
		songs:    songs,
		artists:  artists,
		labels:   labels,
		records:  records,
		upc:      allocator,
		cache:    releaseCache,
		events:   events,
	}
}

// canManage decides whether the actor may modify a release. Admins always
// can; an artist only over releases of their own profile; a label only over
// releases routed through their label.
func (s *ReleaseService) canManage(ctx context.Context, actor *model.User, release *model.Release) (bool, error) {
	if actor == nil {
		return false, nil
	}
	switch actor.Type {
	case model.UserTypeAdmin:
		return true, nil
	case model.UserTypeArtist:
		artist, err := s.artists.GetByUserID(ctx, actor.ID)
		if err != nil {
			return false, fmt.Errorf("failed to resolve artist profile: %w", err)
		}
		return artist != nil && artist.ID == release.ArtistID, nil
	case model.UserTypeLabel:
		label, err := s.labels.GetByUserID(ctx, actor.ID)
		if err != nil {
			return false, fmt.Errorf("failed to resolve label profile: %w", err)
		}
		return label != nil && label.ID == release.LabelID, nil
	}
	return false, nil
}

// CreateDraft creates a release in DRAFT state. The label is derived from the
// artist's signing; the product code is allocated later, when the release is
// submitted for moderation.
func (s *ReleaseService) CreateDraft(ctx context.Context, actor *model.User, input CreateReleaseInput) (*model.Release, error) {
	if input.Name == "" {
		return nil, apperr.Validation("release name is required")
	}
	releaseType, err := model.ParseReleaseType(input.ReleaseType)
	if err != nil {
		return nil, err
	}

	artist, err := s.artists.GetByID(ctx, input.ArtistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}
	if artist == nil {
		return nil, apperr.NotFound("artist %d not found", input.ArtistID)
	}

	release := &model.Release{
		Name:            input.Name,
		ArtistID:        artist.ID,
		LabelID:         artist.LabelID,
		Genre:           input.Genre,
		ModerationState: model.StateDraft,
		ReleaseType:     releaseType,
	}

	allowed, err := s.canManage(ctx, actor, release)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.PermissionDenied("not allowed to create releases for artist %d", input.ArtistID)
	}

	if err := s.releases.Create(ctx, release); err != nil {
		return nil, fmt.Errorf("failed to create release: %w", err)
	}

	logger.Info("release draft created",
		logger.Int64("releaseId", release.ID),
		logger.Int64("artistId", release.ArtistID))
	return release, nil
}

// GetRelease returns a release by id, served from cache when possible.
func (s *ReleaseService) GetRelease(ctx context.Context, id int64) (*model.Release, error) {
	if cached := s.cache.GetRelease(ctx, id); cached != nil {
		return cached, nil
	}

	release, err := s.releases.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	if release == nil {
		return nil, apperr.NotFound("release %d not found", id)
	}

	s.cache.SetRelease(ctx, release)
	return release, nil
}

// GetReleaseByUPC returns a release by its product code.
func (s *ReleaseService) GetReleaseByUPC(ctx context.Context, code int64) (*model.Release, error) {
	release, err := s.releases.GetByUPC(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	if release == nil {
		return nil, apperr.NotFound("release with UPC %d not found", code)
	}
	return release, nil
}

// ListReleases returns a page of all releases, newest first.
func (s *ReleaseService) ListReleases(ctx context.Context, pageNumber, pageSize int) (model.Page[*model.Release], error) {
	releases, total, err := s.releases.List(ctx, pageNumber, pageSize)
	if err != nil {
		return model.Page[*model.Release]{}, fmt.Errorf("failed to list releases: %w", err)
	}
	return model.NewPage(releases, pageNumber, pageSize, total), nil
}

// ReleasesByArtist returns a page of one artist's releases.
func (s *ReleaseService) ReleasesByArtist(ctx context.Context, artistID int64, pageNumber, pageSize int) (model.Page[*model.Release], error) {
	releases, total, err := s.releases.ListByArtist(ctx, artistID, pageNumber, pageSize)
	if err != nil {
		return model.Page[*model.Release]{}, fmt.Errorf("failed to list releases: %w", err)
	}
	return model.NewPage(releases, pageNumber, pageSize, total), nil
}

// ReleasesByState returns a page of releases in one moderation state, oldest
// submissions first.
func (s *ReleaseService) ReleasesByState(ctx context.Context, stateName string, pageNumber, pageSize int) (model.Page[*model.Release], error) {
	state, err := model.ParseModerationState(stateName)
	if err != nil {
		return model.Page[*model.Release]{}, err
	}
	releases, total, err := s.releases.ListByState(ctx, state, pageNumber, pageSize)
	if err != nil {
		return model.Page[*model.Release]{}, fmt.Errorf("failed to list releases: %w", err)
	}
	return model.NewPage(releases, pageNumber, pageSize, total), nil
}

// ReleasesByLabel returns all releases routed through one label.
func (s *ReleaseService) ReleasesByLabel(ctx context.Context, labelID int64) ([]*model.Release, error) {
	releases, err := s.releases.ListByLabel(ctx, labelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	return releases, nil
}

// UpdateRelease modifies release metadata. Metadata edits are allowed in any
// state; submitting for review is a separate operation.
func (s *ReleaseService) UpdateRelease(ctx context.Context, actor *model.User, id int64, input UpdateReleaseInput) (*model.Release, error) {
	release, err := s.mustGetFresh(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canManage(ctx, actor, release)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.PermissionDenied("not allowed to update release %d", id)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperr.Validation("release name is required")
		}
		release.Name = *input.Name
	}
	if input.Genre != nil {
		release.Genre = *input.Genre
	}
	if input.ReleaseType != nil {
		releaseType, err := model.ParseReleaseType(*input.ReleaseType)
		if err != nil {
			return nil, err
		}
		release.ReleaseType = releaseType
	}
	if input.Date != nil {
		release.Date = *input.Date
	}

	if err := s.releases.Update(ctx, release); err != nil {
		return nil, fmt.Errorf("failed to update release: %w", err)
	}
	s.cache.InvalidateRelease(ctx, id)
	return release, nil
}

// UpdateCover records the object key of an uploaded cover image.
func (s *ReleaseService) UpdateCover(ctx context.Context, actor *model.User, id int64, coverKey string) (*model.Release, error) {
	release, err := s.mustGetFresh(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canManage(ctx, actor, release)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.PermissionDenied("not allowed to update release %d", id)
	}

	release.CoverPath = &coverKey
	if err := s.releases.Update(ctx, release); err != nil {
		return nil, fmt.Errorf("failed to update release: %w", err)
	}
	s.cache.InvalidateRelease(ctx, id)
	return release, nil
}

// RequestModeration submits a release for review. The release must carry a
// cover and every attached song must have a bound audio file; any current
// state is accepted, so a rejected or even approved release can be
// resubmitted. A product code is allocated here if the draft does not have
// one yet.
func (s *ReleaseService) RequestModeration(ctx context.Context, actor *model.User, id int64) (*model.Release, error) {
	release, err := s.mustGetFresh(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canManage(ctx, actor, release)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.PermissionDenied("not allowed to submit release %d", id)
	}

	if release.CoverPath == nil {
		return nil, apperr.BusinessRule("release %d has no cover", id)
	}

	songs, err := s.songs.ListByRelease(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	for _, song := range songs {
		if song.PathToFile == nil {
			return nil, apperr.BusinessRule("song %d has no audio file", song.ID)
		}
	}

	if release.ReleaseUPC == nil {
		code, err := s.upc.Allocate(ctx, s.releases.ExistsByUPC)
		if err != nil {
			return nil, err
		}
		release.ReleaseUPC = &code
	}

	release.ModerationState = model.StateOnModeration
	if err := s.releases.Update(ctx, release); err != nil {
		return nil, fmt.Errorf("failed to update release: %w", err)
	}
	s.cache.InvalidateRelease(ctx, id)

	if s.events != nil {
		s.events.Publish(notify.Event{
			Type:      notify.EventReleaseSubmitted,
			ReleaseID: release.ID,
			State:     string(release.ModerationState),
			Timestamp: time.Now().UnixMilli(),
		})
	}

	logger.Info("release submitted for moderation",
		logger.Int64("releaseId", release.ID))
	return release, nil
}

// DeleteRelease removes a release together with its songs and moderation
// history in one transaction.
func (s *ReleaseService) DeleteRelease(ctx context.Context, actor *model.User, id int64) error {
	release, err := s.mustGetFresh(ctx, id)
	if err != nil {
		return err
	}

	allowed, err := s.canManage(ctx, actor, release)
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.PermissionDenied("not allowed to delete release %d", id)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return deleteReleaseCascade(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateRelease(ctx, id)
	logger.Info("release deleted", logger.Int64("releaseId", id))
	return nil
}

// deleteReleaseCascade removes one release together with its songs and
// moderation history, using repositories bound to the given transaction.
func deleteReleaseCascade(ctx context.Context, tx *gorm.DB, id int64) error {
	if err := repository.NewGormModerationRepository(tx).DeleteRecordsByRelease(ctx, id); err != nil {
		return fmt.Errorf("failed to delete moderation records: %w", err)
	}
	if err := repository.NewGormSongRepository(tx).DeleteByRelease(ctx, id); err != nil {
		return fmt.Errorf("failed to delete songs: %w", err)
	}
	if err := repository.NewGormReleaseRepository(tx).Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete release: %w", err)
	}
	return nil
}

// deleteByArtist removes every release of an artist with its dependents and
// returns the ids of the removed releases.
func (s *ReleaseService) deleteByArtist(ctx context.Context, tx *gorm.DB, artistID int64) ([]int64, error) {
	ids, err := repository.NewGormReleaseRepository(tx).IDsByArtist(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	for _, id := range ids {
		if err := deleteReleaseCascade(ctx, tx, id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// deleteByLabel removes the releases still carrying a label id directly, for
// artists that moved to another label after the release was created.
func (s *ReleaseService) deleteByLabel(ctx context.Context, tx *gorm.DB, labelID int64) ([]int64, error) {
	ids, err := repository.NewGormReleaseRepository(tx).IDsByLabel(ctx, labelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	for _, id := range ids {
		if err := deleteReleaseCascade(ctx, tx, id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// mustGetFresh bypasses the cache for operations that go on to write.
func (s *ReleaseService) mustGetFresh(ctx context.Context, id int64) (*model.Release, error) {
	release, err := s.releases.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	if release == nil {
		return nil, apperr.NotFound("release %d not found", id)
	}
	return release, nil
}
