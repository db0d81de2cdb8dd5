package repository

import (
	"context"

	"distr/model"

	"gorm.io/gorm"
)

// LabelRepository defines the interface for label data operations.
type LabelRepository interface {
	Create(ctx context.Context, label *model.Label) error
	GetByID(ctx context.Context, id int64) (*model.Label, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Label, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*model.Label, error)
	Delete(ctx context.Context, id int64) error
}

// gormLabelRepository implements LabelRepository with GORM.
type gormLabelRepository struct {
	db *gorm.DB
}

// NewGormLabelRepository creates a GORM label repository.
func NewGormLabelRepository(db *gorm.DB) LabelRepository {
	return &gormLabelRepository{db: db}
}

func (r *gormLabelRepository) Create(ctx context.Context, label *model.Label) error {
	return r.db.WithContext(ctx).Create(label).Error
}

func (r *gormLabelRepository) GetByID(ctx context.Context, id int64) (*model.Label, error) {
	var label model.Label
	err := r.db.WithContext(ctx).First(&label, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &label, nil
}

func (r *gormLabelRepository) GetByUserID(ctx context.Context, userID int64) (*model.Label, error) {
	var label model.Label
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&label).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &label, nil
}

func (r *gormLabelRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Label{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *gormLabelRepository) List(ctx context.Context) ([]*model.Label, error) {
	var labels []*model.Label
	err := r.db.WithContext(ctx).Order("id ASC").Find(&labels).Error
	return labels, err
}

func (r *gormLabelRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Label{}, id).Error
}
