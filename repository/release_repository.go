package repository

import (
	"context"

	"distr/model"

	"gorm.io/gorm"
)

// ReleaseRepository defines the interface for release data operations.
type ReleaseRepository interface {
	Create(ctx context.Context, release *model.Release) error
	GetByID(ctx context.Context, id int64) (*model.Release, error)
	GetByUPC(ctx context.Context, upc int64) (*model.Release, error)
	ExistsByUPC(ctx context.Context, upc int64) (bool, error)
	List(ctx context.Context, pageNumber, pageSize int) ([]*model.Release, int64, error)
	ListByArtist(ctx context.Context, artistID int64, pageNumber, pageSize int) ([]*model.Release, int64, error)
	ListByLabel(ctx context.Context, labelID int64) ([]*model.Release, error)
	IDsByArtist(ctx context.Context, artistID int64) ([]int64, error)
	IDsByLabel(ctx context.Context, labelID int64) ([]int64, error)
	ListByState(ctx context.Context, state model.ModerationState, pageNumber, pageSize int) ([]*model.Release, int64, error)
	Update(ctx context.Context, release *model.Release) error
	Delete(ctx context.Context, id int64) error
}

// gormReleaseRepository implements ReleaseRepository with GORM.
type gormReleaseRepository struct {
	db *gorm.DB
}

// NewGormReleaseRepository creates a GORM release repository.
func NewGormReleaseRepository(db *gorm.DB) ReleaseRepository {
	return &gormReleaseRepository{db: db}
}

func (r *gormReleaseRepository) Create(ctx context.Context, release *model.Release) error {
	return r.db.WithContext(ctx).Create(release).Error
}

func (r *gormReleaseRepository) GetByID(ctx context.Context, id int64) (*model.Release, error) {
	var release model.Release
	err := r.db.WithContext(ctx).First(&release, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &release, nil
}

func (r *gormReleaseRepository) GetByUPC(ctx context.Context, upc int64) (*model.Release, error) {
	var release model.Release
	err := r.db.WithContext(ctx).Where("release_upc = ?", upc).First(&release).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &release, nil
}

func (r *gormReleaseRepository) ExistsByUPC(ctx context.Context, upc int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Release{}).
		Where("release_upc = ?", upc).
		Count(&count).Error
	return count > 0, err
}

func (r *gormReleaseRepository) List(ctx context.Context, pageNumber, pageSize int) ([]*model.Release, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Release{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var releases []*model.Release
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Limit(pageSize).
		Offset(pageNumber * pageSize).
		Find(&releases).Error
	return releases, total, err
}

func (r *gormReleaseRepository) ListByArtist(ctx context.Context, artistID int64, pageNumber, pageSize int) ([]*model.Release, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Release{}).
		Where("artist_id = ?", artistID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var releases []*model.Release
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("date DESC").
		Limit(pageSize).
		Offset(pageNumber * pageSize).
		Find(&releases).Error
	return releases, total, err
}

func (r *gormReleaseRepository) ListByLabel(ctx context.Context, labelID int64) ([]*model.Release, error) {
	var releases []*model.Release
	err := r.db.WithContext(ctx).
		Where("label_id = ?", labelID).
		Order("date DESC").
		Find(&releases).Error
	return releases, err
}

func (r *gormReleaseRepository) IDsByArtist(ctx context.Context, artistID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Release{}).
		Where("artist_id = ?", artistID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *gormReleaseRepository) IDsByLabel(ctx context.Context, labelID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Release{}).
		Where("label_id = ?", labelID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *gormReleaseRepository) ListByState(ctx context.Context, state model.ModerationState, pageNumber, pageSize int) ([]*model.Release, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Release{}).
		Where("moderation_state = ?", state).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var releases []*model.Release
	err := r.db.WithContext(ctx).
		Where("moderation_state = ?", state).
		Order("date ASC").
		Limit(pageSize).
		Offset(pageNumber * pageSize).
		Find(&releases).Error
	return releases, total, err
}

func (r *gormReleaseRepository) Update(ctx context.Context, release *model.Release) error {
	return r.db.WithContext(ctx).Save(release).Error
}

func (r *gormReleaseRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Release{}, id).Error
}
