package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pantry/internal/config"
	"pantry/internal/domain/auth"
	"pantry/internal/domain/catalog"
	"pantry/internal/domain/inventory"
	"pantry/internal/domain/recipe"
	"pantry/internal/domain/shopping"
	"pantry/internal/middleware"
	jwtsvc "pantry/internal/pkg/jwt"
	"pantry/internal/pkg/mailer"
	"pantry/internal/pkg/storage"
)

// Deps are the long-lived collaborators the router wires into handlers.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	JWT     *jwtsvc.Service
	Mailer  mailer.Mailer
	Storage storage.Storage
	Hub     *shopping.Hub
}

// NewRouter builds the /api/v1 engine.
func NewRouter(d Deps) *gin.Engine {
	if d.Hub == nil {
		d.Hub = shopping.NewHub()
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(d.Config.CORSAllowedOrigins))
	r.MaxMultipartMemory = 8 << 20

	if local, ok := d.Storage.(*storage.LocalStorage); ok {
		r.Static(d.Config.Storage.UploadsURL, local.BaseDir())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userRepo := auth.NewUserRepository(d.DB)
	authService := auth.NewService(userRepo, d.JWT, d.Mailer, d.Config.AppURL, d.Config.ResetTokenTTL)
	authHandler := auth.NewHandler(authService)

	products := catalog.NewProductService(d.DB)
	catalogHandlers := catalog.Handlers{
		Categories: catalog.NewNamedHandler(catalog.NewCategoryService(d.DB)),
		Locations:  catalog.NewNamedHandler(catalog.NewLocationService(d.DB)),
		Stores:     catalog.NewNamedHandler(catalog.NewStoreService(d.DB)),
		Units:      catalog.NewNamedHandler(catalog.NewUnitService(d.DB)),
		Products:   catalog.NewProductHandler(products),
	}

	inventoryService := inventory.NewService(d.DB)
	inventoryHandler := inventory.NewHandler(inventoryService)

	shoppingService := shopping.NewService(d.DB, inventoryService, d.Hub)
	shoppingHandler := shopping.NewHandler(shoppingService, d.Hub)

	recipeService := recipe.NewService(d.DB, products, inventoryService, shoppingService, d.Storage)
	recipeHandler := recipe.NewHandler(recipeService)

	limiter := middleware.NewRateLimiter(d.Config.AuthRateLimit, d.Config.AuthRateBurst)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1, limiter.Limit())

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(d.JWT))
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandlers.RegisterRoutes(protected)
			inventoryHandler.RegisterRoutes(protected)
			shoppingHandler.RegisterRoutes(protected)
			recipeHandler.RegisterRoutes(protected)
		}

		ws := v1.Group("")
		ws.Use(middleware.JWTAuth(d.JWT, true))
		shoppingHandler.RegisterSocketRoute(ws)
	}

	return r
}
