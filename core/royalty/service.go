// Package royalty ingests platform royalty reports and answers earnings
// queries over the catalog.
package royalty

import (
	"context"
	"fmt"

	"distr/core/apperr"
	"distr/logger"
	"distr/model"
	"distr/repository"
)

// CreateReportInput carries one platform statement header.
type CreateReportInput struct {
	ReleaseUPC int64
	PlatformID int64
	Period     string
}

// AddRoyaltyInput carries one royalty line for a report.
type AddRoyaltyInput struct {
	ReportID int64
	SongID   int64
	Amount   float64
}

// Service implements royalty ingestion and earnings queries.
type Service struct {
	royalties repository.RoyaltyRepository
	releases  repository.ReleaseRepository
	songs     repository.SongRepository
}

// NewService creates a royalty service.
func NewService(royalties repository.RoyaltyRepository, releases repository.ReleaseRepository, songs repository.SongRepository) *Service {
	return &Service{royalties: royalties, releases: releases, songs: songs}
}

func canIngest(actor *model.User) bool {
	return actor != nil && (actor.Type == model.UserTypePlatform || actor.Type == model.UserTypeAdmin)
}

// CreatePlatform registers a distribution platform. Admin only.
func (s *Service) CreatePlatform(ctx context.Context, actor *model.User, name string) (*model.Platform, error) {
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("not allowed to create platforms")
	}
	if name == "" {
		return nil, apperr.Validation("platform name is required")
	}

	existing, err := s.royalties.GetPlatformByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check platform: %w", err)
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("platform %q already exists", name)
	}

	platform := &model.Platform{Name: name}
	if err := s.royalties.CreatePlatform(ctx, platform); err != nil {
		return nil, fmt.Errorf("failed to create platform: %w", err)
	}
	return platform, nil
}

// ListPlatforms returns all registered platforms.
func (s *Service) ListPlatforms(ctx context.Context) ([]*model.Platform, error) {
	platforms, err := s.royalties.ListPlatforms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	return platforms, nil
}

// CreateReport opens a royalty statement for a release on one platform.
func (s *Service) CreateReport(ctx context.Context, actor *model.User, input CreateReportInput) (*model.RoyaltyReport, error) {
	if !canIngest(actor) {
		return nil, apperr.PermissionDenied("not allowed to submit royalty reports")
	}
	if input.Period == "" {
		return nil, apperr.Validation("report period is required")
	}

	release, err := s.releases.GetByUPC(ctx, input.ReleaseUPC)
	if err != nil {
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	if release == nil {
		return nil, apperr.NotFound("release with UPC %d not found", input.ReleaseUPC)
	}

	platform, err := s.royalties.GetPlatformByID(ctx, input.PlatformID)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform: %w", err)
	}
	if platform == nil {
		return nil, apperr.NotFound("platform %d not found", input.PlatformID)
	}

	report := &model.RoyaltyReport{
		ReleaseUPC: input.ReleaseUPC,
		PlatformID: input.PlatformID,
		Period:     input.Period,
	}
	if err := s.royalties.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	logger.Info("royalty report created",
		logger.Int64("reportId", report.ID),
		logger.Int64("releaseUpc", report.ReleaseUPC))
	return report, nil
}

// AddRoyalty appends one line to a report. The song must belong to the
// release the report was opened for; the label is resolved from that release.
func (s *Service) AddRoyalty(ctx context.Context, actor *model.User, input AddRoyaltyInput) (*model.Royalty, error) {
	if !canIngest(actor) {
		return nil, apperr.PermissionDenied("not allowed to submit royalties")
	}
	if input.Amount < 0 {
		return nil, apperr.Validation("royalty amount cannot be negative")
	}

	report, err := s.royalties.GetReportByID(ctx, input.ReportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report == nil {
		return nil, apperr.NotFound("report %d not found", input.ReportID)
	}

	release, err := s.releases.GetByUPC(ctx, report.ReleaseUPC)
	if err != nil {
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	if release == nil {
		return nil, apperr.NotFound("release with UPC %d not found", report.ReleaseUPC)
	}

	song, err := s.songs.GetByID(ctx, input.SongID)
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	if song == nil {
		return nil, apperr.NotFound("song %d not found", input.SongID)
	}
	if song.ReleaseID != release.ID {
		return nil, apperr.BusinessRule("song %d does not belong to release %d", song.ID, release.ID)
	}

	line := &model.Royalty{
		ReportID:   report.ID,
		SongID:     song.ID,
		LabelID:    release.LabelID,
		PlatformID: report.PlatformID,
		Amount:     input.Amount,
	}
	if err := s.royalties.CreateRoyalty(ctx, line); err != nil {
		return nil, fmt.Errorf("failed to create royalty: %w", err)
	}
	return line, nil
}

// RoyaltiesByRelease returns a page of royalty lines for a release.
func (s *Service) RoyaltiesByRelease(ctx context.Context, releaseID int64, pageNumber, pageSize int) (model.Page[*model.Royalty], error) {
	lines, total, err := s.royalties.RoyaltiesByRelease(ctx, releaseID, pageNumber, pageSize)
	if err != nil {
		return model.Page[*model.Royalty]{}, fmt.Errorf("failed to list royalties: %w", err)
	}
	return model.NewPage(lines, pageNumber, pageSize, total), nil
}

// TotalByRelease returns the summed earnings of a release.
func (s *Service) TotalByRelease(ctx context.Context, releaseID int64) (float64, error) {
	total, err := s.royalties.TotalByRelease(ctx, releaseID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum royalties: %w", err)
	}
	return total, nil
}

// TotalByLabel returns the summed earnings of a label across all releases.
func (s *Service) TotalByLabel(ctx context.Context, labelID int64) (float64, error) {
	total, err := s.royalties.TotalByLabel(ctx, labelID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum royalties: %w", err)
	}
	return total, nil
}
