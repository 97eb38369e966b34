package document

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, d *PropertyDocument) error
	GetByID(ctx context.Context, id int64) (*PropertyDocument, error)
	ListByProperty(ctx context.Context, propertyID int64) ([]PropertyDocument, error)
	Delete(ctx context.Context, id int64) error
	DeleteByProperty(ctx context.Context, propertyID int64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, d *PropertyDocument) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*PropertyDocument, error) {
	var d PropertyDocument
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) ListByProperty(ctx context.Context, propertyID int64) ([]PropertyDocument, error) {
	var docs []PropertyDocument
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&docs).Error
	return docs, err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&PropertyDocument{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *repository) DeleteByProperty(ctx context.Context, propertyID int64) error {
	return r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Delete(&PropertyDocument{}).Error
}
