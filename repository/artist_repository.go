package repository

import (
	"context"

	"distr/model"

	"gorm.io/gorm"
)

// ArtistRepository defines the interface for artist data operations.
type ArtistRepository interface {
	Create(ctx context.Context, artist *model.Artist) error
	GetByID(ctx context.Context, id int64) (*model.Artist, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Artist, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, pageNumber, pageSize int) ([]*model.Artist, int64, error)
	ListByLabel(ctx context.Context, labelID int64, pageNumber, pageSize int) ([]*model.Artist, int64, error)
	IDsByLabel(ctx context.Context, labelID int64) ([]int64, error)
	ListByCountry(ctx context.Context, country string) ([]*model.Artist, error)
	Update(ctx context.Context, artist *model.Artist) error
	Delete(ctx context.Context, id int64) error
}

// gormArtistRepository implements ArtistRepository with GORM.
type gormArtistRepository struct {
	db *gorm.DB
}

// NewGormArtistRepository creates a GORM artist repository.
func NewGormArtistRepository(db *gorm.DB) ArtistRepository {
	return &gormArtistRepository{db: db}
}

func (r *gormArtistRepository) Create(ctx context.Context, artist *model.Artist) error {
	return r.db.WithContext(ctx).Create(artist).Error
}

func (r *gormArtistRepository) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	var artist model.Artist
	err := r.db.WithContext(ctx).First(&artist, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &artist, nil
}

func (r *gormArtistRepository) GetByUserID(ctx context.Context, userID int64) (*model.Artist, error) {
	var artist model.Artist
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&artist).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &artist, nil
}

func (r *gormArtistRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Artist{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *gormArtistRepository) List(ctx context.Context, pageNumber, pageSize int) ([]*model.Artist, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Artist{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var artists []*model.Artist
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(pageSize).
		Offset(pageNumber * pageSize).
		Find(&artists).Error
	return artists, total, err
}

func (r *gormArtistRepository) ListByLabel(ctx context.Context, labelID int64, pageNumber, pageSize int) ([]*model.Artist, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Artist{}).
		Where("label_id = ?", labelID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var artists []*model.Artist
	err := r.db.WithContext(ctx).
		Where("label_id = ?", labelID).
		Order("id ASC").
		Limit(pageSize).
		Offset(pageNumber * pageSize).
		Find(&artists).Error
	return artists, total, err
}

func (r *gormArtistRepository) IDsByLabel(ctx context.Context, labelID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Artist{}).
		Where("label_id = ?", labelID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *gormArtistRepository) ListByCountry(ctx context.Context, country string) ([]*model.Artist, error) {
	var artists []*model.Artist
	err := r.db.WithContext(ctx).
		Where("country = ?", country).
		Order("id ASC").
		Find(&artists).Error
	return artists, err
}

func (r *gormArtistRepository) Update(ctx context.Context, artist *model.Artist) error {
	return r.db.WithContext(ctx).Save(artist).Error
}

func (r *gormArtistRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Artist{}, id).Error
}
