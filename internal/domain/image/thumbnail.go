package image

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	jpegQuality     = 85
	thumbnailSize   = 480
	thumbnailSuffix = "_thumb.jpg"
)

// processImage re-encodes the stored file at a fixed quality and writes a
// thumbnail next to it, returning the thumbnail filename. Formats the codec
// cannot handle are kept as uploaded, with no thumbnail.
func processImage(absPath, mimeType string) (string, error) {
	if mimeType != "image/jpeg" && mimeType != "image/png" {
		return "", nil
	}

	img, err := imaging.Open(absPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	if mimeType == "image/jpeg" {
		if err := imaging.Save(img, absPath, imaging.JPEGQuality(jpegQuality)); err != nil {
			return "", fmt.Errorf("re-encode: %w", err)
		}
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	base := strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
	thumbName := base + thumbnailSuffix
	if err := imaging.Save(thumb, filepath.Join(filepath.Dir(absPath), thumbName), imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("thumbnail: %w", err)
	}

	return thumbName, nil
}
