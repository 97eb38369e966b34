package content

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the public, read-only content routes.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/pages", h.ListPages)
	r.GET("/pages/:slug", h.GetPage)
	r.GET("/services", h.ListServices)
}

// RegisterProtectedRoutes registers the mutating routes (back office only).
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/pages", h.CreatePage)
	r.PUT("/pages/:id", h.UpdatePage)
	r.DELETE("/pages/:id", h.DeletePage)

	r.POST("/sections", h.CreateSection)
	r.PUT("/sections/:id", h.UpdateSection)
	r.DELETE("/sections/:id", h.DeleteSection)

	r.POST("/services", h.CreateService)
	r.PUT("/services/:id", h.UpdateService)
	r.DELETE("/services/:id", h.DeleteService)
}
