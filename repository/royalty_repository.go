package repository

import (
	"context"

	"distr/model"

	"gorm.io/gorm"
)

// RoyaltyRepository defines the interface for platforms, royalty reports and
// royalty lines. Reports and lines are append-only financial records.
type RoyaltyRepository interface {
	CreatePlatform(ctx context.Context, platform *model.Platform) error
	GetPlatformByID(ctx context.Context, id int64) (*model.Platform, error)
	GetPlatformByName(ctx context.Context, name string) (*model.Platform, error)
	ListPlatforms(ctx context.Context) ([]*model.Platform, error)

	CreateReport(ctx context.Context, report *model.RoyaltyReport) error
	GetReportByID(ctx context.Context, id int64) (*model.RoyaltyReport, error)

	CreateRoyalty(ctx context.Context, royalty *model.Royalty) error
	RoyaltiesByRelease(ctx context.Context, releaseID int64, pageNumber, pageSize int) ([]*model.Royalty, int64, error)
	TotalByRelease(ctx context.Context, releaseID int64) (float64, error)
	TotalByLabel(ctx context.Context, labelID int64) (float64, error)
}

// gormRoyaltyRepository implements RoyaltyRepository with GORM.
type gormRoyaltyRepository struct {
	db *gorm.DB
}

// NewGormRoyaltyRepository creates a GORM royalty repository.
func NewGormRoyaltyRepository(db *gorm.DB) RoyaltyRepository {
	return &gormRoyaltyRepository{db: db}
}

func (r *gormRoyaltyRepository) CreatePlatform(ctx context.Context, platform *model.Platform) error {
	return r.db.WithContext(ctx).Create(platform).Error
}

func (r *gormRoyaltyRepository) GetPlatformByID(ctx context.Context, id int64) (*model.Platform, error) {
	var platform model.Platform
	err := r.db.WithContext(ctx).First(&platform, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &platform, nil
}

func (r *gormRoyaltyRepository) GetPlatformByName(ctx context.Context, name string) (*model.Platform, error) {
	var platform model.Platform
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&platform).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &platform, nil
}

func (r *gormRoyaltyRepository) ListPlatforms(ctx context.Context) ([]*model.Platform, error) {
	var platforms []*model.Platform
	err := r.db.WithContext(ctx).Order("id ASC").Find(&platforms).Error
	return platforms, err
}

func (r *gormRoyaltyRepository) CreateReport(ctx context.Context, report *model.RoyaltyReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *gormRoyaltyRepository) GetReportByID(ctx context.Context, id int64) (*model.RoyaltyReport, error) {
	var report model.RoyaltyReport
	err := r.db.WithContext(ctx).First(&report, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *gormRoyaltyRepository) CreateRoyalty(ctx context.Context, royalty *model.Royalty) error {
	return r.db.WithContext(ctx).Create(royalty).Error
}

// RoyaltiesByRelease resolves lines through the songs table since royalties
// reference songs, not releases.
func (r *gormRoyaltyRepository) RoyaltiesByRelease(ctx context.Context, releaseID int64, pageNumber, pageSize int) ([]*model.Royalty, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Royalty{}).
		Joins("JOIN songs ON songs.id = royalties.song_id").
		Where("songs.release_id = ?", releaseID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var royalties []*model.Royalty
	err := r.db.WithContext(ctx).Model(&model.Royalty{}).
		Joins("JOIN songs ON songs.id = royalties.song_id").
		Where("songs.release_id = ?", releaseID).
		Order("royalties.id ASC").
		Limit(pageSize).
		Offset(pageNumber * pageSize).
		Find(&royalties).Error
	return royalties, total, err
}

func (r *gormRoyaltyRepository) TotalByRelease(ctx context.Context, releaseID int64) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.Royalty{}).
		Joins("JOIN songs ON songs.id = royalties.song_id").
		Where("songs.release_id = ?", releaseID).
		Select("COALESCE(SUM(royalties.amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *gormRoyaltyRepository) TotalByLabel(ctx context.Context, labelID int64) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.Royalty{}).
		Where("label_id = ?", labelID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
