package document

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

// Upload accepts multipart form data with a "document" file and a
// "property_id" field. Only PDF files are accepted.
func (h *Handler) Upload(c *gin.Context) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Multipart form data required")
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No document file provided")
		return
	}

	propertyID, err := strconv.ParseInt(c.PostForm("property_id"), 10, 64)
	if err != nil || propertyID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_PROPERTY_ID", "A valid property_id is required")
		return
	}

	doc, err := h.service.Upload(c.Request.Context(), propertyID, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile):
			response.Error(c, http.StatusBadRequest, "EMPTY_FILE", err.Error())
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
		case errors.Is(err, ErrNotPDF):
			response.Error(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", err.Error())
		case errors.Is(err, ErrPropertyNotFound):
			response.Error(c, http.StatusBadRequest, "INVALID_PROPERTY_ID", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Upload failed")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":            doc.ID,
		"property_id":   doc.PropertyID,
		"file_name":     doc.FileName,
		"original_name": doc.OriginalName,
		"file_size":     doc.FileSize,
		"mime_type":     doc.MimeType,
		"created_at":    doc.CreatedAt,
	})
}

// Serve streams the PDF inline with caching disabled.
func (h *Handler) Serve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid document ID")
		return
	}

	doc, absPath, err := h.service.Resolve(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "SERVE_FAILED", "Failed to serve document")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+doc.OriginalName+`"`)
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.File(absPath)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid document ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Document not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Delete failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListByProperty returns a property's documents.
func (h *Handler) ListByProperty(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return
	}

	docs, err := h.service.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list documents")
		return
	}

	response.Success(c, http.StatusOK, docs)
}
