package content

import (
	"errors"
	"net/http"
	"strconv"

	"estateportal/internal/pkg/response"
	"estateportal/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type PageRequest struct {
	Slug      string `json:"slug" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

type SectionRequest struct {
	PageID    int64  `json:"page_id" validate:"required,gt=0"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	SortOrder int    `json:"sort_order"`
}

type ServiceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
	Active      *bool  `json:"active,omitempty"`
}

/* -------- Pages -------- */

func (h *Handler) ListPages(c *gin.Context) {
	includeUnpublished := c.GetString("role") != ""
	pages, err := h.repo.ListPages(c.Request.Context(), includeUnpublished)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list pages")
		return
	}
	response.Success(c, http.StatusOK, pages)
}

func (h *Handler) GetPage(c *gin.Context) {
	includeUnpublished := c.GetString("role") != ""
	page, err := h.repo.GetPageBySlug(c.Request.Context(), c.Param("slug"), includeUnpublished)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Page not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to load page")
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) CreatePage(c *gin.Context) {
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	page := &Page{Slug: req.Slug, Title: req.Title, Body: req.Body, Published: req.Published}
	if err := h.repo.CreatePage(c.Request.Context(), page); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			response.Error(c, http.StatusConflict, "DUPLICATE_SLUG", "Page slug already in use")
			return
		}
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create page")
		return
	}
	response.Success(c, http.StatusCreated, page)
}

func (h *Handler) UpdatePage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid page ID")
		return
	}

	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	page, err := h.repo.GetPageByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Page not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to load page")
		return
	}

	page.Slug = req.Slug
	page.Title = req.Title
	page.Body = req.Body
	page.Published = req.Published
	if err := h.repo.UpdatePage(c.Request.Context(), page); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update page")
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) DeletePage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid page ID")
		return
	}
	if err := h.repo.DeletePage(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Page not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete page")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

/* -------- Sections -------- */

func (h *Handler) CreateSection(c *gin.Context) {
	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	section := &Section{PageID: req.PageID, Title: req.Title, Body: req.Body, SortOrder: req.SortOrder}
	if err := h.repo.CreateSection(c.Request.Context(), section); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Page not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create section")
		return
	}
	response.Success(c, http.StatusCreated, section)
}

func (h *Handler) UpdateSection(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid section ID")
		return
	}

	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	section, err := h.repo.GetSectionByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Section not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to load section")
		return
	}

	section.Title = req.Title
	section.Body = req.Body
	section.SortOrder = req.SortOrder
	if err := h.repo.UpdateSection(c.Request.Context(), section); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update section")
		return
	}
	response.Success(c, http.StatusOK, section)
}

func (h *Handler) DeleteSection(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid section ID")
		return
	}
	if err := h.repo.DeleteSection(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Section not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete section")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

/* -------- Service items -------- */

func (h *Handler) ListServices(c *gin.Context) {
	includeInactive := c.GetString("role") != ""
	items, err := h.repo.ListServices(c.Request.Context(), includeInactive)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list services")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	item := &ServiceItem{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
		Active:      active,
	}
	if err := h.repo.CreateService(c.Request.Context(), item); err != nil {
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create service")
		return
	}
	response.Success(c, http.StatusCreated, item)
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	item, err := h.repo.GetServiceByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to load service")
		return
	}

	item.Title = req.Title
	item.Description = req.Description
	item.Icon = req.Icon
	item.SortOrder = req.SortOrder
	if req.Active != nil {
		item.Active = *req.Active
	}
	if err := h.repo.UpdateService(c.Request.Context(), item); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update service")
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}
	if err := h.repo.DeleteService(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete service")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
