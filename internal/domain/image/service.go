package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxFileSize          = 10 * 1024 * 1024 // 10 MB
	MaxImagesPerProperty = 50
	propertiesSubdir     = "properties"
)

// AllowedMimeTypes defines which image types are accepted.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// PropertyResolver supplies the storage folder name for a property.
// Implemented by the property repository.
type PropertyResolver interface {
	StorageKey(ctx context.Context, propertyID int64) (string, error)
}

// Service owns the lifecycle of property image files and their metadata
// records: files are written before rows are inserted, and a failed insert
// rolls the files back so storage never holds unrecorded files.
type Service struct {
	repo       Repository
	properties PropertyResolver
	baseDir    string
}

type UploadOptions struct {
	IsMain    bool
	SortOrder int
	AltText   string
}

type DeleteResult struct {
	DeletedFiles int `json:"deleted_files"`
	FailedFiles  int `json:"failed_files"`
}

func NewService(repo Repository, properties PropertyResolver, baseDir string) *Service {
	return &Service{repo: repo, properties: properties, baseDir: baseDir}
}

// Upload validates the file, stores it under the property's folder and
// inserts the metadata record. The first image for a property always
// becomes main; otherwise main is set only when requested, clearing any
// previous main in the same transaction. If the insert fails every file
// written here is removed again.
func (s *Service) Upload(ctx context.Context, propertyID int64, fileHeader *multipart.FileHeader, opts UploadOptions) (*PropertyImage, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Detect MIME type from first 512 bytes
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if !AllowedMimeTypes[mimeType] {
		return nil, ErrInvalidMimeType
	}
	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	key, err := s.properties.StorageKey(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to resolve property: %w", err)
	}

	count, err := s.repo.CountByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count images: %w", err)
	}
	if count >= MaxImagesPerProperty {
		return nil, ErrTooManyImages
	}

	absDir := filepath.Join(s.baseDir, propertiesSubdir, key)
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", absDir, err)
	}

	// Generated names cannot collide, so no suffix loop is needed.
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = mimeToExt(mimeType)
	}
	filename := uuid.New().String() + ext
	absPath := filepath.Join(absDir, filename)

	if err := writeFile(absPath, file); err != nil {
		return nil, err
	}

	// Post-condition: the file must actually exist at the target path.
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("uploaded file missing after write: %w", err)
	}

	// Optimization and thumbnailing are best-effort enhancements.
	thumbName, err := processImage(absPath, mimeType)
	if err != nil {
		log.Printf("image_process_failed property_id=%d file=%s error=%q", propertyID, filename, err)
		thumbName = ""
	}

	relPath := joinRel(propertiesSubdir, key, filename)
	img := &PropertyImage{
		PropertyID: propertyID,
		ImagePath:  relPath,
		AltText:    opts.AltText,
		SortOrder:  opts.SortOrder,
		FileSize:   fileHeader.Size,
		MimeType:   mimeType,
	}
	if thumbName != "" {
		img.ThumbnailPath = joinRel(propertiesSubdir, key, thumbName)
	}

	var insertErr error
	if count == 0 || opts.IsMain {
		insertErr = s.repo.CreateAsMain(ctx, img)
	} else {
		insertErr = s.repo.Create(ctx, img)
	}
	if insertErr != nil {
		// Rollback every file written above; storage must not hold
		// files with no corresponding record.
		s.removeFiles(img)
		return nil, fmt.Errorf("failed to save image record: %w", insertErr)
	}

	return img, nil
}

// Delete removes the metadata record first and only then attempts the file
// cleanup. A file that is already gone counts as neither deleted nor failed;
// an existing but undeletable file is logged as a warning and counted as
// failed without reversing the record deletion.
func (s *Service) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteAndRepromote(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to delete image record: %w", err)
	}

	res := &DeleteResult{}
	for _, rel := range []string{img.ImagePath, img.ThumbnailPath} {
		if rel == "" {
			continue
		}
		abs := filepath.Join(s.baseDir, filepath.FromSlash(rel))
		switch err := os.Remove(abs); {
		case err == nil:
			res.DeletedFiles++
		case os.IsNotExist(err):
			// already gone, nothing to count
		default:
			res.FailedFiles++
			log.Printf("image_file_cleanup_failed image_id=%d path=%s error=%q", id, abs, err)
		}
	}

	return res, nil
}

// SetMain designates the image as the property's main image. The image must
// belong to the given property. Calling it twice leaves the same end state.
func (s *Service) SetMain(ctx context.Context, propertyID, imageID int64) error {
	img, err := s.repo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img.PropertyID != propertyID {
		return ErrImageMismatch
	}
	return s.repo.SetMain(ctx, propertyID, imageID)
}

// ListByProperty returns the property's images in gallery order.
func (s *Service) ListByProperty(ctx context.Context, propertyID int64) ([]PropertyImage, error) {
	return s.repo.ListByProperty(ctx, propertyID)
}

// CleanupProperty removes all image records for a deleted property and
// best-effort removes its storage folder. Satisfies the property service's
// asset cleaner interface.
func (s *Service) CleanupProperty(ctx context.Context, propertyID int64, storageKey string) {
	if err := s.repo.DeleteByProperty(ctx, propertyID); err != nil {
		log.Printf("image_cleanup_rows_failed property_id=%d error=%q", propertyID, err)
	}
	dir := filepath.Join(s.baseDir, propertiesSubdir, storageKey)
	if err := os.RemoveAll(dir); err != nil {
		log.Printf("image_cleanup_dir_failed property_id=%d dir=%s error=%q", propertyID, dir, err)
	}
}

func (s *Service) removeFiles(img *PropertyImage) {
	for _, rel := range []string{img.ImagePath, img.ThumbnailPath} {
		if rel == "" {
			continue
		}
		abs := filepath.Join(s.baseDir, filepath.FromSlash(rel))
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			log.Printf("image_rollback_failed path=%s error=%q", abs, err)
		}
	}
}

func writeFile(absPath string, src io.Reader) error {
	dst, err := os.Create(absPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(absPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func joinRel(parts ...string) string {
	return filepath.ToSlash(filepath.Join(parts...))
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
