package catalog

import "github.com/gin-gonic/gin"

func (h *NamedHandler[T, PT]) RegisterRoutes(protected *gin.RouterGroup, path string) {
	g := protected.Group(path)
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
}

func (h *ProductHandler) RegisterRoutes(protected *gin.RouterGroup) {
	products := protected.Group("/products")
	{
		products.GET("", h.ListProducts)           // GET /api/v1/products?q=&categoryId=
		products.GET("/_search", h.SearchProducts) // GET /api/v1/products/_search?q=&take=
		products.GET("/:id", h.GetProduct)
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

// Handlers bundles every catalog endpoint so the router wires them in one call.
type Handlers struct {
	Categories *NamedHandler[Category, *Category]
	Locations  *NamedHandler[Location, *Location]
	Stores     *NamedHandler[Store, *Store]
	Units      *NamedHandler[Unit, *Unit]
	Products   *ProductHandler
}

func (h Handlers) RegisterRoutes(protected *gin.RouterGroup) {
	h.Categories.RegisterRoutes(protected, "/categories")
	h.Locations.RegisterRoutes(protected, "/locations")
	h.Stores.RegisterRoutes(protected, "/stores")
	h.Units.RegisterRoutes(protected, "/units")
	h.Products.RegisterRoutes(protected)
}
