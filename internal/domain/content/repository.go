package content

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func withSections(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

/* -------- Pages -------- */

// ListPages returns pages, published only unless includeUnpublished.
func (r *Repository) ListPages(ctx context.Context, includeUnpublished bool) ([]Page, error) {
	var pages []Page
	q := r.db.WithContext(ctx).Model(&Page{})
	if !includeUnpublished {
		q = q.Where("published = ?", true)
	}
	err := q.Order("id ASC").Find(&pages).Error
	return pages, err
}

func (r *Repository) GetPageBySlug(ctx context.Context, slug string, includeUnpublished bool) (*Page, error) {
	var p Page
	q := r.db.WithContext(ctx).Where("slug = ?", slug)
	if !includeUnpublished {
		q = q.Where("published = ?", true)
	}
	err := q.Preload("Sections", withSections).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CreatePage(ctx context.Context, p *Page) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Page{}).Where("slug = ?", p.Slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateSlug
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) UpdatePage(ctx context.Context, p *Page) error {
	return r.db.WithContext(ctx).Omit("Sections").Save(p).Error
}

func (r *Repository) GetPageByID(ctx context.Context, id int64) (*Page, error) {
	var p Page
	err := r.db.WithContext(ctx).Where("id = ?", id).Preload("Sections", withSections).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) DeletePage(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", id).Delete(&Section{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Page{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

/* -------- Sections -------- */

func (r *Repository) CreateSection(ctx context.Context, s *Section) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Page{}).Where("id = ?", s.PageID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *Repository) GetSectionByID(ctx context.Context, id int64) (*Section, error) {
	var s Section
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) UpdateSection(ctx context.Context, s *Section) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *Repository) DeleteSection(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Section{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

/* -------- Service items -------- */

func (r *Repository) ListServices(ctx context.Context, includeInactive bool) ([]ServiceItem, error) {
	var items []ServiceItem
	q := r.db.WithContext(ctx).Model(&ServiceItem{})
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	err := q.Order("sort_order ASC, id ASC").Find(&items).Error
	return items, err
}

func (r *Repository) CreateService(ctx context.Context, item *ServiceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*ServiceItem, error) {
	var item ServiceItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) UpdateService(ctx context.Context, item *ServiceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *Repository) DeleteService(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ServiceItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
