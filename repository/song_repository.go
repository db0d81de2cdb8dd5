package repository

import (
	"context"

	"distr/model"

	"gorm.io/gorm"
)

// SongRepository defines the interface for song data operations.
type SongRepository interface {
	Create(ctx context.Context, song *model.Song) error
	GetByID(ctx context.Context, id int64) (*model.Song, error)
	ExistsByUPC(ctx context.Context, upc int64) (bool, error)
	ListByRelease(ctx context.Context, releaseID int64) ([]*model.Song, error)
	List(ctx context.Context, pageNumber, pageSize int) ([]*model.Song, int64, error)
	Update(ctx context.Context, song *model.Song) error
	IncrementPlayCount(ctx context.Context, id int64) error
	DeleteByRelease(ctx context.Context, releaseID int64) error
}

// gormSongRepository implements SongRepository with GORM.
type gormSongRepository struct {
	db *gorm.DB
}

// NewGormSongRepository creates a GORM song repository.
func NewGormSongRepository(db *gorm.DB) SongRepository {
	return &gormSongRepository{db: db}
}

func (r *gormSongRepository) Create(ctx context.Context, song *model.Song) error {
	return r.db.WithContext(ctx).Create(song).Error
}

func (r *gormSongRepository) GetByID(ctx context.Context, id int64) (*model.Song, error) {
	var song model.Song
	err := r.db.WithContext(ctx).First(&song, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &song, nil
}

func (r *gormSongRepository) ExistsByUPC(ctx context.Context, upc int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Song{}).
		Where("song_upc = ?", upc).
		Count(&count).Error
	return count > 0, err
}

func (r *gormSongRepository) ListByRelease(ctx context.Context, releaseID int64) ([]*model.Song, error) {
	var songs []*model.Song
	err := r.db.WithContext(ctx).
		Where("release_id = ?", releaseID).
		Order("id ASC").
		Find(&songs).Error
	return songs, err
}

func (r *gormSongRepository) List(ctx context.Context, pageNumber, pageSize int) ([]*model.Song, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Song{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var songs []*model.Song
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(pageSize).
		Offset(pageNumber * pageSize).
		Find(&songs).Error
	return songs, total, err
}

func (r *gormSongRepository) Update(ctx context.Context, song *model.Song) error {
	return r.db.WithContext(ctx).Save(song).Error
}

// IncrementPlayCount bumps the counter atomically in the database.
func (r *gormSongRepository) IncrementPlayCount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&model.Song{}).
		Where("id = ?", id).
		UpdateColumn("play_count", gorm.Expr("play_count + 1")).Error
}

func (r *gormSongRepository) DeleteByRelease(ctx context.Context, releaseID int64) error {
	return r.db.WithContext(ctx).
		Where("release_id = ?", releaseID).
		Delete(&model.Song{}).Error
}
