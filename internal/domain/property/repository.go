package property

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func withImages(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, created_at ASC")
}

// Search returns one page of matching properties plus the total match
// count ignoring pagination. Pages beyond the result set yield an empty
// slice, not an error.
func (r *Repository) Search(ctx context.Context, f Filters) ([]Property, int64, error) {
	var properties []Property
	var total int64

	q := r.db.WithContext(ctx).Model(&Property{})

	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	if f.Keyword != "" {
		kw := "%" + strings.ToLower(f.Keyword) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(city_region) LIKE ? OR LOWER(district) LIKE ? OR LOWER(address) LIKE ?",
			kw, kw, kw, kw, kw,
		)
	}
	if f.TransactionType != "" {
		q = q.Where("transaction_type = ?", f.TransactionType)
	}
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", f.PropertyType)
	}
	if f.CityRegion != "" {
		q = q.Where("LOWER(city_region) LIKE ?", "%"+strings.ToLower(f.CityRegion)+"%")
	}
	if f.District != "" {
		q = q.Where("LOWER(district) LIKE ?", "%"+strings.ToLower(f.District)+"%")
	}
	if f.PriceMin != nil {
		q = q.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("price <= ?", *f.PriceMax)
	}
	if f.AreaMin != nil {
		q = q.Where("area >= ?", *f.AreaMin)
	}
	if f.AreaMax != nil {
		q = q.Where("area <= ?", *f.AreaMax)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Order("sort_order ASC, created_at DESC").
		Limit(f.Limit).
		Offset((f.Page-1)*f.Limit).
		Preload("Images", withImages).
		Find(&properties).Error

	return properties, total, err
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Property, error) {
	var p Property
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Images", withImages).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*Property, error) {
	var p Property
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// StorageKey resolves the upload folder name for a property. Satisfies
// the image and document services' resolver interfaces.
func (r *Repository) StorageKey(ctx context.Context, propertyID int64) (string, error) {
	var p Property
	err := r.db.WithContext(ctx).
		Select("id", "code").
		Where("id = ?", propertyID).
		First(&p).Error
	if err != nil {
		return "", err
	}
	return p.StorageKey(), nil
}

func (r *Repository) Create(ctx context.Context, p *Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// UpdateWithLock saves the property inside a transaction, first comparing
// the caller-held timestamp against the stored one. A mismatch beyond the
// skew tolerance aborts with a ConflictError. A nil expected timestamp
// skips the check (unconditional overwrite).
func (r *Repository) UpdateWithLock(ctx context.Context, p *Property, expected *time.Time, skew time.Duration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current Property
		if err := tx.Where("id = ?", p.ID).First(&current).Error; err != nil {
			return err
		}

		if expected != nil {
			diff := current.UpdatedAt.Sub(*expected)
			if diff < 0 {
				diff = -diff
			}
			if diff > skew {
				return &ConflictError{CurrentUpdatedAt: current.UpdatedAt}
			}
		}

		return tx.Omit("Images").Save(p).Error
	})
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Property{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
