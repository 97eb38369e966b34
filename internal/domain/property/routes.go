package property

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the public catalog routes.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/properties", h.Search)
	r.GET("/properties/featured", h.Featured)
	r.GET("/properties/:id", h.GetByID)
	r.GET("/property-types", h.GetTypes)
}

// RegisterProtectedRoutes registers the back-office mutation routes.
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/properties", h.Create)
	r.PUT("/properties/:id", h.Update)
	r.DELETE("/properties/:id", h.Delete)
}
