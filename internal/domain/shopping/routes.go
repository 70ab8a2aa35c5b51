package shopping

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	list := protected.Group("/shopping-list")
	{
		list.GET("", h.List)
		list.POST("", h.Create)
		list.PUT("/:id", h.Update)
		list.PATCH("/:id/toggle", h.Toggle)
		list.DELETE("/:id", h.Delete)
		list.DELETE("/checked", h.ClearChecked)
		list.POST("/checkout", h.Checkout)
	}
}

// RegisterSocketRoute mounts the websocket endpoint on a group whose auth
// middleware also accepts ?token=.
func (h *Handler) RegisterSocketRoute(ws *gin.RouterGroup) {
	ws.GET("/shopping-list/ws", h.WebSocket)
}
