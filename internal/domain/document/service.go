package document

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
	MaxFileSize     = 10 * 1024 * 1024 // 10 MB
	documentsSubdir = "documents"
)

// PropertyResolver supplies the storage folder name for a property.
type PropertyResolver interface {
	StorageKey(ctx context.Context, propertyID int64) (string, error)
}

// Service mirrors the image upload contract for PDF attachments: no
// thumbnailing, a single allowed MIME type, and the same insert-or-rollback
// guarantee on upload.
type Service struct {
	repo       Repository
	properties PropertyResolver
	baseDir    string
}

func NewService(repo Repository, properties PropertyResolver, baseDir string) *Service {
	return &Service{repo: repo, properties: properties, baseDir: baseDir}
}

func (s *Service) Upload(ctx context.Context, propertyID int64, fileHeader *multipart.FileHeader) (*PropertyDocument, error) {
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

	// The sniffed type must be exactly application/pdf; the client-supplied
	// Content-Type header is not trusted.
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if mimeType != "application/pdf" {
		return nil, ErrNotPDF
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

	absDir := filepath.Join(s.baseDir, documentsSubdir, key)
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create document directory %s: %w", absDir, err)
	}

	filename := uuid.New().String() + ".pdf"
	absPath := filepath.Join(absDir, filename)

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	dst.Close()

	doc := &PropertyDocument{
		PropertyID:   propertyID,
		FileName:     filename,
		OriginalName: filepath.Base(fileHeader.Filename),
		FilePath:     filepath.ToSlash(filepath.Join(documentsSubdir, key, filename)),
		FileSize:     fileHeader.Size,
		MimeType:     mimeType,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		_ = os.Remove(absPath) // rollback file on DB error
		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	return doc, nil
}

// Resolve returns the document record and the absolute path of its file,
// for streaming by the handler.
func (s *Service) Resolve(ctx context.Context, id int64) (*PropertyDocument, string, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	abs := filepath.Join(s.baseDir, filepath.FromSlash(doc.FilePath))
	if _, err := os.Stat(abs); err != nil {
		return nil, "", fmt.Errorf("document file unavailable: %w", err)
	}
	return doc, abs, nil
}

// Delete removes the file first and then the record. A file that is
// already gone does not block record removal.
func (s *Service) Delete(ctx context.Context, id int64) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	abs := filepath.Join(s.baseDir, filepath.FromSlash(doc.FilePath))
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document file: %w", err)
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByProperty(ctx context.Context, propertyID int64) ([]PropertyDocument, error) {
	return s.repo.ListByProperty(ctx, propertyID)
}

// CleanupProperty removes all document records and files for a deleted
// property. Satisfies the property service's asset cleaner interface.
func (s *Service) CleanupProperty(ctx context.Context, propertyID int64, storageKey string) {
	if err := s.repo.DeleteByProperty(ctx, propertyID); err != nil {
		log.Printf("document_cleanup_rows_failed property_id=%d error=%q", propertyID, err)
	}
	dir := filepath.Join(s.baseDir, documentsSubdir, storageKey)
	if err := os.RemoveAll(dir); err != nil {
		log.Printf("document_cleanup_dir_failed property_id=%d dir=%s error=%q", propertyID, dir, err)
	}
}
