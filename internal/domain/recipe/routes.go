package recipe

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	recipes := protected.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/taxonomy", h.GetTaxonomy)
		recipes.GET("/_search/products", h.SearchProducts)
		recipes.GET("/slug/:slug", h.GetRecipeBySlug)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.PATCH("/:id/favorite", h.SetFavorite)
		recipes.PATCH("/:id/ingredients/:ingredientId/link", h.LinkIngredient)
		recipes.GET("/:id/availability", h.GetAvailability)
		recipes.POST("/:id/shopping-list", h.AddToShoppingList)
		recipes.POST("/:id/image", h.UploadImage)
	}
}
