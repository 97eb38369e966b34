package document

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the public document routes.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/properties/:id/documents", h.ListByProperty)
	r.GET("/documents/:id", h.Serve)
}

// RegisterProtectedRoutes registers the mutating routes (back office only).
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/documents", h.Upload)
	r.DELETE("/documents/:id", h.Delete)
}
