// Package catalog holds the music catalog services: labels, artists,
// releases and songs.
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

// CreateLabelInput carries the fields for a new label profile.
type CreateLabelInput struct {
	Country     string
	ContactName string
	Phone       string
	UserID      int64
}

// LabelService manages label profiles.
type LabelService struct {
	labels   repository.LabelRepository
	users    repository.UserRepository
	releases *ReleaseService
}

// NewLabelService creates a label service. The release service is used to
// cascade deletes through the label's roster.
func NewLabelService(labels repository.LabelRepository, users repository.UserRepository, releases *ReleaseService) *LabelService {
	return &LabelService{labels: labels, users: users, releases: releases}
}

// CreateLabel creates a label profile for a LABEL user. One profile per user.
func (s *LabelService) CreateLabel(ctx context.Context, input CreateLabelInput) (*model.Label, error) {
	if input.ContactName == "" {
		return nil, apperr.Validation("contact name is required")
	}
	if input.Country == "" {
		return nil, apperr.Validation("country is required")
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %d not found", input.UserID)
	}
	if user.Type != model.UserTypeLabel {
		return nil, apperr.BusinessRule("user %d is not a LABEL account", input.UserID)
	}

	existing, err := s.labels.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing label: %w", err)
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("user %d already has a label profile", input.UserID)
	}

	label := &model.Label{
		Country:     input.Country,
		ContactName: input.ContactName,
		Phone:       input.Phone,
		UserID:      input.UserID,
	}
	if err := s.labels.Create(ctx, label); err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}

	logger.Info("label created",
		logger.Int64("labelId", label.ID),
		logger.Int64("userId", label.UserID))
	return label, nil
}

// GetLabel returns a label by id.
func (s *LabelService) GetLabel(ctx context.Context, id int64) (*model.Label, error) {
	label, err := s.labels.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get label: %w", err)
	}
	if label == nil {
		return nil, apperr.NotFound("label %d not found", id)
	}
	return label, nil
}

// LabelByUser returns the label profile owned by a user.
func (s *LabelService) LabelByUser(ctx context.Context, userID int64) (*model.Label, error) {
	label, err := s.labels.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get label: %w", err)
	}
	if label == nil {
		return nil, apperr.NotFound("user %d has no label profile", userID)
	}
	return label, nil
}

// ListLabels returns all labels.
func (s *LabelService) ListLabels(ctx context.Context) ([]*model.Label, error) {
	labels, err := s.labels.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return labels, nil
}

// DeleteLabel removes a label profile together with its artists, their
// releases and songs. Only the owner or an admin may do so.
func (s *LabelService) DeleteLabel(ctx context.Context, actor *model.User, id int64) error {
	label, err := s.GetLabel(ctx, id)
	if err != nil {
		return err
	}
	if actor == nil || (actor.ID != label.UserID && !actor.IsAdmin()) {
		return apperr.PermissionDenied("not allowed to delete label %d", id)
	}

	var releaseIDs []int64
	err = s.releases.db.Transaction(func(tx *gorm.DB) error {
		artistRepo := repository.NewGormArtistRepository(tx)
		artistIDs, err := artistRepo.IDsByLabel(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list artists: %w", err)
		}
		for _, artistID := range artistIDs {
			ids, err := s.releases.deleteByArtist(ctx, tx, artistID)
			if err != nil {
				return err
			}
			releaseIDs = append(releaseIDs, ids...)
			if err := artistRepo.Delete(ctx, artistID); err != nil {
				return fmt.Errorf("failed to delete artist: %w", err)
			}
		}

		// Releases whose artist moved to another label still reference this
		// label directly.
		ids, err := s.releases.deleteByLabel(ctx, tx, id)
		if err != nil {
			return err
		}
		releaseIDs = append(releaseIDs, ids...)

		if err := repository.NewGormLabelRepository(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete label: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, releaseID := range releaseIDs {
		s.releases.cache.InvalidateRelease(ctx, releaseID)
	}
	logger.Info("label deleted", logger.Int64("labelId", id))
	return nil
}
