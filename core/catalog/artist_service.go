package catalog

import (
	"context"
	"fmt"

	"distr/core/apperr"
	"distr/logger"
	"distr/model"
	"distr/repository"

	"gorm.io/gorm"
)

// CreateArtistInput carries the fields for a new artist profile.
type CreateArtistInput struct {
	Name     string
	RealName string
	Country  string
	LabelID  int64
	UserID   int64
}

// UpdateArtistInput carries the mutable artist fields. Nil fields are left
// unchanged.
type UpdateArtistInput struct {
	Name     *string
	RealName *string
	Country  *string
	LabelID  *int64
}

// ArtistService manages artist profiles.
type ArtistService struct {
	artists  repository.ArtistRepository
	labels   repository.LabelRepository
	users    repository.UserRepository
	releases *ReleaseService
}

// NewArtistService creates an artist service. The release service is used to
// cascade deletes through the artist's catalog.
func NewArtistService(artists repository.ArtistRepository, labels repository.LabelRepository, users repository.UserRepository, releases *ReleaseService) *ArtistService {
	return &ArtistService{artists: artists, labels: labels, users: users, releases: releases}
}

// CreateArtist creates an artist profile for an ARTIST user, signed to an
// existing label. One profile per user.
func (s *ArtistService) CreateArtist(ctx context.Context, input CreateArtistInput) (*model.Artist, error) {
	if input.Name == "" {
		return nil, apperr.Validation("artist name is required")
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %d not found", input.UserID)
	}
	if user.Type != model.UserTypeArtist {
		return nil, apperr.BusinessRule("user %d is not an ARTIST account", input.UserID)
	}

	labelExists, err := s.labels.ExistsByID(ctx, input.LabelID)
	if err != nil {
		return nil, fmt.Errorf("failed to check label: %w", err)
	}
	if !labelExists {
		return nil, apperr.NotFound("label %d not found", input.LabelID)
	}

	existing, err := s.artists.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing artist: %w", err)
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("user %d already has an artist profile", input.UserID)
	}

	artist := &model.Artist{
		Name:     input.Name,
		RealName: input.RealName,
		Country:  input.Country,
		LabelID:  input.LabelID,
		UserID:   input.UserID,
	}
	if err := s.artists.Create(ctx, artist); err != nil {
		return nil, fmt.Errorf("failed to create artist: %w", err)
	}

	logger.Info("artist created",
		logger.Int64("artistId", artist.ID),
		logger.Int64("labelId", artist.LabelID))
	return artist, nil
}

// GetArtist returns an artist by id.
func (s *ArtistService) GetArtist(ctx context.Context, id int64) (*model.Artist, error) {
	artist, err := s.artists.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}
	if artist == nil {
		return nil, apperr.NotFound("artist %d not found", id)
	}
	return artist, nil
}

// ArtistByUser returns the artist profile owned by a user.
func (s *ArtistService) ArtistByUser(ctx context.Context, userID int64) (*model.Artist, error) {
	artist, err := s.artists.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}
	if artist == nil {
		return nil, apperr.NotFound("user %d has no artist profile", userID)
	}
	return artist, nil
}

// ListArtists returns a page of all artists.
func (s *ArtistService) ListArtists(ctx context.Context, pageNumber, pageSize int) (model.Page[*model.Artist], error) {
	artists, total, err := s.artists.List(ctx, pageNumber, pageSize)
	if err != nil {
		return model.Page[*model.Artist]{}, fmt.Errorf("failed to list artists: %w", err)
	}
	return model.NewPage(artists, pageNumber, pageSize, total), nil
}

// ArtistsByLabel returns a page of artists signed to one label.
func (s *ArtistService) ArtistsByLabel(ctx context.Context, labelID int64, pageNumber, pageSize int) (model.Page[*model.Artist], error) {
	artists, total, err := s.artists.ListByLabel(ctx, labelID, pageNumber, pageSize)
	if err != nil {
		return model.Page[*model.Artist]{}, fmt.Errorf("failed to list artists: %w", err)
	}
	return model.NewPage(artists, pageNumber, pageSize, total), nil
}

// ArtistsByCountry returns all artists from one country.
func (s *ArtistService) ArtistsByCountry(ctx context.Context, country string) ([]*model.Artist, error) {
	artists, err := s.artists.ListByCountry(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, nil
}

// UpdateArtist modifies an artist profile. Only the owner or an admin may do
// so; re-signing to another label checks the label exists.
func (s *ArtistService) UpdateArtist(ctx context.Context, actor *model.User, id int64, input UpdateArtistInput) (*model.Artist, error) {
	artist, err := s.GetArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || (actor.ID != artist.UserID && !actor.IsAdmin()) {
		return nil, apperr.PermissionDenied("not allowed to update artist %d", id)
	}

	if input.Name != nil {
		artist.Name = *input.Name
	}
	if input.RealName != nil {
		artist.RealName = *input.RealName
	}
	if input.Country != nil {
		artist.Country = *input.Country
	}
	if input.LabelID != nil {
		exists, err := s.labels.ExistsByID(ctx, *input.LabelID)
		if err != nil {
			return nil, fmt.Errorf("failed to check label: %w", err)
		}
		if !exists {
			return nil, apperr.NotFound("label %d not found", *input.LabelID)
		}
		artist.LabelID = *input.LabelID
	}

	if err := s.artists.Update(ctx, artist); err != nil {
		return nil, fmt.Errorf("failed to update artist: %w", err)
	}
	return artist, nil
}

// DeleteArtist removes an artist profile together with its releases and
// their songs. Only the owner or an admin may do so.
func (s *ArtistService) DeleteArtist(ctx context.Context, actor *model.User, id int64) error {
	artist, err := s.GetArtist(ctx, id)
	if err != nil {
		return err
	}
	if actor == nil || (actor.ID != artist.UserID && !actor.IsAdmin()) {
		return apperr.PermissionDenied("not allowed to delete artist %d", id)
	}

	var releaseIDs []int64
	err = s.releases.db.Transaction(func(tx *gorm.DB) error {
		releaseIDs, err = s.releases.deleteByArtist(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := repository.NewGormArtistRepository(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete artist: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, releaseID := range releaseIDs {
		s.releases.cache.InvalidateRelease(ctx, releaseID)
	}
	logger.Info("artist deleted", logger.Int64("artistId", id))
	return nil
}
