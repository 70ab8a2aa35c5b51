package inventory

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	inv := protected.Group("/inventory")
	{
		inv.GET("", h.List)
		inv.GET("/:id", h.Get)
		inv.POST("", h.Create)
		inv.PUT("/:id", h.Update)
		inv.DELETE("/:id", h.Delete)
		inv.POST("/:id/consume", h.Consume)
	}
}
