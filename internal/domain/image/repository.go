package image

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, img *PropertyImage) error
	CreateAsMain(ctx context.Context, img *PropertyImage) error
	GetByID(ctx context.Context, id int64) (*PropertyImage, error)
	ListByProperty(ctx context.Context, propertyID int64) ([]PropertyImage, error)
	CountByProperty(ctx context.Context, propertyID int64) (int64, error)
	SetMain(ctx context.Context, propertyID, imageID int64) error
	DeleteAndRepromote(ctx context.Context, img *PropertyImage) error
	DeleteByProperty(ctx context.Context, propertyID int64) error

	ListAll(ctx context.Context) ([]PropertyImage, error)
	ListOrphaned(ctx context.Context) ([]PropertyImage, error)
	ListMultiMainProperties(ctx context.Context) ([]int64, error)
	ListNoMainProperties(ctx context.Context) ([]int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, img *PropertyImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

// CreateAsMain inserts the image as the property's main image, clearing any
// previous main flag in the same transaction so no reader observes two mains.
func (r *repository) CreateAsMain(ctx context.Context, img *PropertyImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&PropertyImage{}).
			Where("property_id = ? AND is_main = ?", img.PropertyID, true).
			Update("is_main", false).Error; err != nil {
			return err
		}
		img.IsMain = true
		return tx.Create(img).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id int64) (*PropertyImage, error) {
	var img PropertyImage
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *repository) ListByProperty(ctx context.Context, propertyID int64) ([]PropertyImage, error) {
	var images []PropertyImage
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("sort_order ASC, created_at ASC").
		Find(&images).Error
	return images, err
}

func (r *repository) CountByProperty(ctx context.Context, propertyID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PropertyImage{}).
		Where("property_id = ?", propertyID).
		Count(&count).Error
	return count, err
}

// SetMain atomically clears all main flags for the property and sets the
// requested image as main. Idempotent.
func (r *repository) SetMain(ctx context.Context, propertyID, imageID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&PropertyImage{}).
			Where("property_id = ? AND is_main = ?", propertyID, true).
			Update("is_main", false).Error; err != nil {
			return err
		}
		res := tx.Model(&PropertyImage{}).
			Where("id = ? AND property_id = ?", imageID, propertyID).
			Update("is_main", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrImageNotFound
		}
		return nil
	})
}

// DeleteAndRepromote removes the row and, when it was the main image,
// promotes the next remaining image so the property keeps exactly one main.
func (r *repository) DeleteAndRepromote(ctx context.Context, img *PropertyImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", img.ID).Delete(&PropertyImage{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrImageNotFound
		}

		if !img.IsMain {
			return nil
		}

		var next PropertyImage
		err := tx.Where("property_id = ?", img.PropertyID).
			Order("sort_order ASC, created_at ASC").
			First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return tx.Model(&PropertyImage{}).
			Where("id = ?", next.ID).
			Update("is_main", true).Error
	})
}

func (r *repository) DeleteByProperty(ctx context.Context, propertyID int64) error {
	return r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Delete(&PropertyImage{}).Error
}

func (r *repository) ListAll(ctx context.Context) ([]PropertyImage, error) {
	var images []PropertyImage
	err := r.db.WithContext(ctx).Order("id ASC").Find(&images).Error
	return images, err
}

func (r *repository) ListOrphaned(ctx context.Context) ([]PropertyImage, error) {
	var images []PropertyImage
	err := r.db.WithContext(ctx).
		Model(&PropertyImage{}).
		Joins("LEFT JOIN properties ON properties.id = property_images.property_id").
		Where("properties.id IS NULL").
		Find(&images).Error
	return images, err
}

func (r *repository) ListMultiMainProperties(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&PropertyImage{}).
		Select("property_id").
		Where("is_main = ?", true).
		Group("property_id").
		Having("COUNT(*) > 1").
		Pluck("property_id", &ids).Error
	return ids, err
}

func (r *repository) ListNoMainProperties(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&PropertyImage{}).
		Select("property_id").
		Group("property_id").
		Having("SUM(CASE WHEN is_main THEN 1 ELSE 0 END) = 0").
		Pluck("property_id", &ids).Error
	return ids, err
}

func (r *repository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&PropertyImage{})
	return res.RowsAffected, res.Error
}
