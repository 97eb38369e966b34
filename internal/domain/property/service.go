package property

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// AssetCleaner removes a deleted property's stored files and any remaining
// metadata rows. Implemented by the image and document services.
type AssetCleaner interface {
	CleanupProperty(ctx context.Context, propertyID int64, storageKey string)
}

// Service implements the listing query engine and property CRUD.
type Service struct {
	repo           *Repository
	uploadDir      string
	publicBaseURL  string
	placeholderURL string
	lockSkew       time.Duration
	cleaners       []AssetCleaner
}

func NewService(
	repo *Repository,
	uploadDir string,
	publicBaseURL string,
	placeholderURL string,
	lockSkew time.Duration,
	cleaners ...AssetCleaner,
) *Service {
	return &Service{
		repo:           repo,
		uploadDir:      uploadDir,
		publicBaseURL:  publicBaseURL,
		placeholderURL: placeholderURL,
		lockSkew:       lockSkew,
		cleaners:       cleaners,
	}
}

// Normalize clamps pagination to the supported range.
func (f *Filters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 16
	}
}

// Search returns one page of matching listings plus the total match count.
func (s *Service) Search(ctx context.Context, f Filters) ([]Summary, int64, error) {
	f.Normalize()

	properties, total, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("listing query failed: %w", err)
	}

	summaries := make([]Summary, 0, len(properties))
	for i := range properties {
		summaries = append(summaries, s.summarize(&properties[i]))
	}
	return summaries, total, nil
}

// GetByID returns a single listing. Inactive listings are hidden unless
// includeInactive is set (back-office reads).
func (s *Service) GetByID(ctx context.Context, id int64, includeInactive bool) (*Summary, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active && !includeInactive {
		return nil, gorm.ErrRecordNotFound
	}
	sum := s.summarize(p)
	return &sum, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Property, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	p := &Property{
		Code:            req.Code,
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		Currency:        req.Currency,
		TransactionType: req.TransactionType,
		PropertyType:    req.PropertyType,
		CityRegion:      req.CityRegion,
		District:        req.District,
		Address:         req.Address,
		Area:            req.Area,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		Floors:          req.Floors,
		FloorNumber:     req.FloorNumber,
		HasParking:      req.HasParking,
		HasElevator:     req.HasElevator,
		HasGarden:       req.HasGarden,
		HasPool:         req.HasPool,
		Furnished:       req.Furnished,
		HasAC:           req.HasAC,
		HasHeating:      req.HasHeating,
		Featured:        req.Featured,
		Active:          active,
		SortOrder:       req.SortOrder,
	}

	p.Sanitize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkCodeFree(ctx, p.Code, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return p, nil
}

// Update applies a partial update. When the request carries updated_at the
// save is guarded by the optimistic-lock check.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(p, req)
	p.Sanitize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := s.checkCodeFree(ctx, p.Code, p.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateWithLock(ctx, p, req.UpdatedAt, s.lockSkew); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	return p, nil
}

// Delete removes the listing row; child rows cascade in the store. The
// registered asset cleaners then remove files and any rows the backing
// store did not cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	for _, cleaner := range s.cleaners {
		cleaner.CleanupProperty(ctx, id, p.StorageKey())
	}
	return nil
}

func applyUpdate(p *Property, req UpdateRequest) {
	if req.Code != nil {
		p.Code = *req.Code
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Currency != nil {
		p.Currency = *req.Currency
	}
	if req.TransactionType != nil {
		p.TransactionType = *req.TransactionType
	}
	if req.PropertyType != nil {
		p.PropertyType = *req.PropertyType
	}
	if req.CityRegion != nil {
		p.CityRegion = *req.CityRegion
	}
	if req.District != nil {
		p.District = *req.District
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.Area != nil {
		p.Area = *req.Area
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if req.Floors != nil {
		p.Floors = *req.Floors
	}
	if req.FloorNumber.Present {
		p.FloorNumber = req.FloorNumber.Value
	}
	if req.HasParking != nil {
		p.HasParking = *req.HasParking
	}
	if req.HasElevator != nil {
		p.HasElevator = *req.HasElevator
	}
	if req.HasGarden != nil {
		p.HasGarden = *req.HasGarden
	}
	if req.HasPool != nil {
		p.HasPool = *req.HasPool
	}
	if req.Furnished != nil {
		p.Furnished = *req.Furnished
	}
	if req.HasAC != nil {
		p.HasAC = *req.HasAC
	}
	if req.HasHeating != nil {
		p.HasHeating = *req.HasHeating
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if req.SortOrder != nil {
		p.SortOrder = *req.SortOrder
	}
}

func (s *Service) checkCodeFree(ctx context.Context, code string, selfID int64) error {
	if code == "" {
		return nil
	}
	existing, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrDuplicateCode
	}
	return nil
}

// summarize attaches the resolved image URLs to a property record. A main
// image whose file is gone from storage falls back to the placeholder asset
// rather than breaking the listing.
func (s *Service) summarize(p *Property) Summary {
	sum := Summary{
		Property:     *p,
		MainImageURL: s.absoluteURL(s.placeholderURL),
		Gallery:      make([]string, 0, len(p.Images)),
	}

	for i := range p.Images {
		img := &p.Images[i]
		url := s.absoluteURL(img.PublicPath())
		sum.Gallery = append(sum.Gallery, url)

		if img.IsMain && s.fileExists(img.ImagePath) {
			sum.MainImageURL = url
			if img.ThumbnailPath != "" && s.fileExists(img.ThumbnailPath) {
				sum.ThumbnailURL = s.absoluteURL(img.ThumbnailPublicPath())
			}
		}
	}
	return sum
}

func (s *Service) absoluteURL(sitePath string) string {
	return s.publicBaseURL + sitePath
}

func (s *Service) fileExists(relPath string) bool {
	_, err := os.Stat(filepath.Join(s.uploadDir, filepath.FromSlash(relPath)))
	return err == nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
