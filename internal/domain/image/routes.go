package image

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the public, read-only image routes.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/properties/:id/images", h.ListByProperty)
}

// RegisterProtectedRoutes registers the mutating routes (back office only).
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/images", h.Upload)
	r.DELETE("/images/:id", h.Delete)
	r.POST("/properties/:id/images/:imageID/main", h.SetMain)
	r.GET("/images/integrity", h.Integrity)
}
