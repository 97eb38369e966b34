package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"estateportal/internal/database"

	"gorm.io/gorm"
)

// pngBytes carries a real PNG signature so MIME sniffing accepts it. It is
// not a decodable image, which also exercises the best-effort thumbnail path.
var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, bytes.Repeat([]byte{0x42}, 64)...)

type fakeResolver struct {
	key string
	err error
}

func (r *fakeResolver) StorageKey(_ context.Context, _ int64) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.key, nil
}

func setupImageService(t *testing.T) (*Service, Repository, string) {
	t.Helper()
	dsn := fmt.Sprintf("file:image_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&PropertyImage{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	repo := NewRepository(db)
	baseDir := t.TempDir()
	return NewService(repo, &fakeResolver{key: "AP-100"}, baseDir), repo, baseDir
}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestUploadFirstImageBecomesMain(t *testing.T) {
	svc, _, baseDir := setupImageService(t)
	ctx := context.Background()

	img, err := svc.Upload(ctx, 1, makeFileHeader(t, "kitchen.png", pngBytes), UploadOptions{})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if !img.IsMain {
		t.Fatal("expected first image to become main")
	}

	abs := filepath.Join(baseDir, filepath.FromSlash(img.ImagePath))
	if _, err := os.Stat(abs); err != nil {
		t.Fatalf("expected stored file at %s: %v", abs, err)
	}
}

func TestUploadAsMainClearsPrevious(t *testing.T) {
	svc, repo, _ := setupImageService(t)
	ctx := context.Background()

	a, err := svc.Upload(ctx, 1, makeFileHeader(t, "a.png", pngBytes), UploadOptions{})
	if err != nil {
		t.Fatalf("upload A returned error: %v", err)
	}
	b, err := svc.Upload(ctx, 1, makeFileHeader(t, "b.png", pngBytes), UploadOptions{IsMain: true})
	if err != nil {
		t.Fatalf("upload B returned error: %v", err)
	}
	if !b.IsMain {
		t.Fatal("expected B to be main")
	}

	stored, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.IsMain {
		t.Fatal("expected A's main flag cleared by B's upload")
	}
}

func TestSetMainSwitchesAndIsIdempotent(t *testing.T) {
	svc, repo, _ := setupImageService(t)
	ctx := context.Background()

	a, _ := svc.Upload(ctx, 1, makeFileHeader(t, "a.png", pngBytes), UploadOptions{})
	b, _ := svc.Upload(ctx, 1, makeFileHeader(t, "b.png", pngBytes), UploadOptions{})

	assertMain := func(wantMain int64) {
		t.Helper()
		images, err := repo.ListByProperty(ctx, 1)
		if err != nil {
			t.Fatalf("ListByProperty returned error: %v", err)
		}
		mains := 0
		for _, img := range images {
			if img.IsMain {
				mains++
				if img.ID != wantMain {
					t.Fatalf("expected image %d to be main, got %d", wantMain, img.ID)
				}
			}
		}
		if mains != 1 {
			t.Fatalf("expected exactly one main image, got %d", mains)
		}
	}

	assertMain(a.ID)

	if err := svc.SetMain(ctx, 1, b.ID); err != nil {
		t.Fatalf("SetMain returned error: %v", err)
	}
	assertMain(b.ID)

	// Repeating the call leaves the same end state.
	if err := svc.SetMain(ctx, 1, b.ID); err != nil {
		t.Fatalf("repeated SetMain returned error: %v", err)
	}
	assertMain(b.ID)
}

func TestSetMainRejectsForeignImage(t *testing.T) {
	svc, _, _ := setupImageService(t)
	ctx := context.Background()

	a, _ := svc.Upload(ctx, 1, makeFileHeader(t, "a.png", pngBytes), UploadOptions{})

	if err := svc.SetMain(ctx, 2, a.ID); !errors.Is(err, ErrImageMismatch) {
		t.Fatalf("expected ErrImageMismatch, got %v", err)
	}
	if err := svc.SetMain(ctx, 1, 9999); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}

func TestUploadRejections(t *testing.T) {
	svc, _, _ := setupImageService(t)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, 1, makeFileHeader(t, "empty.png", nil), UploadOptions{}); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}

	huge := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, MaxFileSize)...)
	if _, err := svc.Upload(ctx, 1, makeFileHeader(t, "huge.png", huge), UploadOptions{}); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}

	if _, err := svc.Upload(ctx, 1, makeFileHeader(t, "notes.txt", []byte("just text")), UploadOptions{}); !errors.Is(err, ErrInvalidMimeType) {
		t.Fatalf("expected ErrInvalidMimeType, got %v", err)
	}
}

func TestUploadUnknownProperty(t *testing.T) {
	_, repo, baseDir := setupImageService(t)
	svc := NewService(repo, &fakeResolver{err: gorm.ErrRecordNotFound}, baseDir)

	_, err := svc.Upload(context.Background(), 42, makeFileHeader(t, "a.png", pngBytes), UploadOptions{})
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

// countStubRepo pretends the property already holds the maximum number of
// images without seeding fifty rows.
type countStubRepo struct {
	Repository
}

func (r *countStubRepo) CountByProperty(context.Context, int64) (int64, error) {
	return MaxImagesPerProperty, nil
}

func TestUploadEnforcesImageCap(t *testing.T) {
	_, repo, baseDir := setupImageService(t)
	svc := NewService(&countStubRepo{Repository: repo}, &fakeResolver{key: "AP-100"}, baseDir)

	_, err := svc.Upload(context.Background(), 1, makeFileHeader(t, "a.png", pngBytes), UploadOptions{})
	if !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("expected ErrTooManyImages, got %v", err)
	}
}

// failingInsertRepo lets the file writes succeed and then fails the record
// insert, which must trigger the file rollback.
type failingInsertRepo struct {
	Repository
}

var errInsertBoom = errors.New("insert boom")

func (r *failingInsertRepo) Create(context.Context, *PropertyImage) error {
	return errInsertBoom
}

func (r *failingInsertRepo) CreateAsMain(context.Context, *PropertyImage) error {
	return errInsertBoom
}

func TestUploadRollsBackFilesOnInsertFailure(t *testing.T) {
	_, repo, baseDir := setupImageService(t)
	svc := NewService(&failingInsertRepo{Repository: repo}, &fakeResolver{key: "AP-100"}, baseDir)

	_, err := svc.Upload(context.Background(), 1, makeFileHeader(t, "a.png", pngBytes), UploadOptions{})
	if !errors.Is(err, errInsertBoom) {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}

	dir := filepath.Join(baseDir, propertiesSubdir, "AP-100")
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("failed to read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files left after rollback, found %d", len(entries))
	}
}

func TestDeleteCountsFiles(t *testing.T) {
	svc, _, baseDir := setupImageService(t)
	ctx := context.Background()

	img, err := svc.Upload(ctx, 1, makeFileHeader(t, "a.png", pngBytes), UploadOptions{})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	res, err := svc.Delete(ctx, img.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if res.DeletedFiles != 1 || res.FailedFiles != 0 {
		t.Fatalf("expected 1 deleted / 0 failed, got %d / %d", res.DeletedFiles, res.FailedFiles)
	}

	// A record whose file is already gone still deletes cleanly, with the
	// missing file counted as neither deleted nor failed.
	img2, err := svc.Upload(ctx, 1, makeFileHeader(t, "b.png", pngBytes), UploadOptions{})
	if err != nil {
		t.Fatalf("second Upload returned error: %v", err)
	}
	if err := os.Remove(filepath.Join(baseDir, filepath.FromSlash(img2.ImagePath))); err != nil {
		t.Fatalf("failed to remove file out of band: %v", err)
	}

	res, err = svc.Delete(ctx, img2.ID)
	if err != nil {
		t.Fatalf("Delete of fileless record returned error: %v", err)
	}
	if res.DeletedFiles != 0 || res.FailedFiles != 0 {
		t.Fatalf("expected 0 deleted / 0 failed, got %d / %d", res.DeletedFiles, res.FailedFiles)
	}

	if _, err := svc.Delete(ctx, img.ID); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound for repeated delete, got %v", err)
	}
}

func TestDeleteMainRepromotesNext(t *testing.T) {
	svc, repo, _ := setupImageService(t)
	ctx := context.Background()

	a, _ := svc.Upload(ctx, 1, makeFileHeader(t, "a.png", pngBytes), UploadOptions{SortOrder: 1})
	b, _ := svc.Upload(ctx, 1, makeFileHeader(t, "b.png", pngBytes), UploadOptions{SortOrder: 2})
	c, _ := svc.Upload(ctx, 1, makeFileHeader(t, "c.png", pngBytes), UploadOptions{SortOrder: 3})

	if !a.IsMain {
		t.Fatal("expected A to start as main")
	}

	if _, err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	images, err := repo.ListByProperty(ctx, 1)
	if err != nil {
		t.Fatalf("ListByProperty returned error: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images left, got %d", len(images))
	}
	if !images[0].IsMain || images[0].ID != b.ID {
		t.Fatalf("expected B (%d) promoted to main, got main=%v id=%d", b.ID, images[0].IsMain, images[0].ID)
	}
	if images[1].IsMain {
		t.Fatalf("expected C (%d) to stay non-main", c.ID)
	}

	// Removing a non-main image must not touch the main flag.
	if _, err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete of C returned error: %v", err)
	}
	images, _ = repo.ListByProperty(ctx, 1)
	if len(images) != 1 || !images[0].IsMain {
		t.Fatal("expected B to remain the single main image")
	}
}

func TestCleanupProperty(t *testing.T) {
	svc, repo, baseDir := setupImageService(t)
	ctx := context.Background()

	img, err := svc.Upload(ctx, 1, makeFileHeader(t, "a.png", pngBytes), UploadOptions{})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	svc.CleanupProperty(ctx, 1, "AP-100")

	if _, err := repo.GetByID(ctx, img.ID); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected rows removed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(baseDir, propertiesSubdir, "AP-100")); !os.IsNotExist(err) {
		t.Fatalf("expected storage folder removed, got %v", err)
	}
}
