package image

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"estateportal/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload accepts multipart form data with an "image" file, "property_id"
// and optional "sort_order", "is_main" and "alt_text" fields.
func (h *Handler) Upload(c *gin.Context) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Multipart form data required")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No image file provided")
		return
	}

	propertyID, err := strconv.ParseInt(c.PostForm("property_id"), 10, 64)
	if err != nil || propertyID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_PROPERTY_ID", "A valid property_id is required")
		return
	}

	opts := UploadOptions{AltText: c.PostForm("alt_text")}
	if v := c.PostForm("sort_order"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.SortOrder = n
		}
	}
	if v := c.PostForm("is_main"); v != "" {
		opts.IsMain, _ = strconv.ParseBool(v)
	}

	img, err := h.service.Upload(c.Request.Context(), propertyID, fileHeader, opts)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile):
			response.Error(c, http.StatusBadRequest, "EMPTY_FILE", err.Error())
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
		case errors.Is(err, ErrInvalidMimeType):
			response.Error(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", err.Error())
		case errors.Is(err, ErrPropertyNotFound):
			response.Error(c, http.StatusBadRequest, "INVALID_PROPERTY_ID", err.Error())
		case errors.Is(err, ErrTooManyImages):
			response.Error(c, http.StatusBadRequest, "TOO_MANY_IMAGES", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Upload failed")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":            img.ID,
		"property_id":   img.PropertyID,
		"url":           img.PublicPath(),
		"thumbnail_url": img.ThumbnailPublicPath(),
		"alt_text":      img.AltText,
		"sort_order":    img.SortOrder,
		"is_main":       img.IsMain,
		"file_size":     img.FileSize,
		"mime_type":     img.MimeType,
		"created_at":    img.CreatedAt,
	})
}

// Delete removes an image record and best-effort cleans up its files.
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid image ID")
		return
	}

	res, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Image not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Delete failed")
		return
	}

	response.Success(c, http.StatusOK, res)
}

// SetMain designates an image as its property's main image.
func (h *Handler) SetMain(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return
	}
	imageID, err := strconv.ParseInt(c.Param("imageID"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid image ID")
		return
	}

	if err := h.service.SetMain(c.Request.Context(), propertyID, imageID); err != nil {
		switch {
		case errors.Is(err, ErrImageNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Image not found")
		case errors.Is(err, ErrImageMismatch):
			response.Error(c, http.StatusBadRequest, "IMAGE_MISMATCH", "Image belongs to a different property")
		default:
			response.Error(c, http.StatusInternalServerError, "SET_MAIN_FAILED", "Failed to set main image")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"main_image_id": imageID})
}

// ListByProperty returns a property's gallery in display order.
func (h *Handler) ListByProperty(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return
	}

	images, err := h.service.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list images")
		return
	}

	items := make([]gin.H, 0, len(images))
	for i := range images {
		img := &images[i]
		items = append(items, gin.H{
			"id":            img.ID,
			"url":           img.PublicPath(),
			"thumbnail_url": img.ThumbnailPublicPath(),
			"alt_text":      img.AltText,
			"sort_order":    img.SortOrder,
			"is_main":       img.IsMain,
			"created_at":    img.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, items)
}

// Integrity runs a consistency scan; with ?repair=true it also deletes
// orphaned and missing-file rows.
func (h *Handler) Integrity(c *gin.Context) {
	repair, _ := strconv.ParseBool(c.Query("repair"))

	if repair {
		report, result, err := h.service.Repair(c.Request.Context())
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTEGRITY_FAILED", "Integrity repair failed")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"report": report, "repair": result})
		return
	}

	report, err := h.service.Scan(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTEGRITY_FAILED", "Integrity scan failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}
