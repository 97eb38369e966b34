package property

import (
	"errors"
	"net/http"
	"strconv"

	"estateportal/internal/pkg/response"
	"estateportal/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// filterAll is the sentinel value that disables an enum filter.
const filterAll = "all"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Search returns a filtered, paginated page of listings.
func (h *Handler) Search(c *gin.Context) {
	f := parseFilters(c)

	summaries, total, err := h.service.Search(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Paginated(c, http.StatusOK, summaries, response.NewMeta(f.Page, f.Limit, total))
}

// Featured is a shortcut for the home page carousel.
func (h *Handler) Featured(c *gin.Context) {
	featured := true
	f := parseFilters(c)
	f.Featured = &featured

	summaries, total, err := h.service.Search(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Paginated(c, http.StatusOK, summaries, response.NewMeta(f.Page, f.Limit, total))
}

// GetByID returns a single listing. Inactive listings are visible only to
// authenticated back-office callers.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return
	}

	includeInactive := c.GetString("role") != ""

	summary, err := h.service.GetByID(c.Request.Context(), id, includeInactive)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// GetTypes returns the accepted property_type values.
func (h *Handler) GetTypes(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"property_types": PropertyTypes()})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"property": p})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"property": p})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid property ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// parseFilters reads the optional query parameters. Non-numeric numeric
// values and the "all" sentinel are treated as absent filters.
func parseFilters(c *gin.Context) Filters {
	f := Filters{
		Keyword:    c.Query("keyword"),
		CityRegion: c.Query("city_region"),
		District:   c.Query("district"),
	}

	if v := c.Query("transaction_type"); v != "" && v != filterAll {
		f.TransactionType = v
	}
	if v := c.Query("property_type"); v != "" && v != filterAll {
		f.PropertyType = v
	}

	f.PriceMin = parseFloat(c.Query("price_min"))
	f.PriceMax = parseFloat(c.Query("price_max"))
	f.AreaMin = parseFloat(c.Query("area_min"))
	f.AreaMax = parseFloat(c.Query("area_max"))

	if v := c.Query("featured"); v != "" && v != filterAll {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Featured = &b
		}
	}

	// Inactive listings are excluded unless explicitly asked for.
	active := true
	f.Active = &active
	if v := c.Query("active"); v != "" {
		if v == filterAll {
			f.Active = nil
		} else if b, err := strconv.ParseBool(v); err == nil {
			f.Active = &b
		}
	}

	f.Page = 1
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Page = n
		}
	}

	f.Limit = 16
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			f.Limit = n
		}
	}

	return f
}

func parseFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func handleError(c *gin.Context, err error) {
	var conflict *ConflictError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Property not found")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrDuplicateCode):
		response.Error(c, http.StatusConflict, "DUPLICATE_CODE", "Property code already in use")
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, "UPDATE_CONFLICT",
			"Property was modified by another user",
			gin.H{"current_updated_at": conflict.CurrentUpdatedAt})
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
