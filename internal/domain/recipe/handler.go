package recipe

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pantry/internal/middleware"
	"pantry/internal/pkg/response"
	"pantry/internal/pkg/storage"
	"pantry/internal/pkg/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func ownerOf(c *gin.Context) *int64 {
	id := middleware.UserID(c)
	return &id
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Tags Recipes
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "title missing"
// @Router /api/v1/recipes [post]
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	rec, err := h.service.Create(c.Request.Context(), ownerOf(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rec)
}

// UpdateRecipe godoc
// @Summary Replace a recipe
// @Description Omitted nullable fields are cleared. Ingredients, steps and tags are replaced as a whole.
// @Tags Recipes
// @Router /api/v1/recipes/{id} [put]
func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe id")
		return
	}

	var req RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	rec, err := h.service.Update(c.Request.Context(), ownerOf(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// ListRecipes handles GET /recipes?q=&tag=&course=&cuisine=&favorite=&page=&limit=
func (h *Handler) ListRecipes(c *gin.Context) {
	page := utils.PageFromQuery(c)
	f := ListFilter{
		Query:    c.Query("q"),
		Tag:      c.Query("tag"),
		Course:   c.Query("course"),
		Cuisine:  c.Query("cuisine"),
		Favorite: utils.QueryBool(c, "favorite"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}

	recipes, total, err := h.service.List(c.Request.Context(), ownerOf(c), f)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"recipes":    recipes,
		"pagination": page.Meta(total),
	})
}

func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe id")
		return
	}

	rec, err := h.service.Get(c.Request.Context(), ownerOf(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

func (h *Handler) GetRecipeBySlug(c *gin.Context) {
	rec, err := h.service.GetBySlug(c.Request.Context(), ownerOf(c), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerOf(c), id); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) SetFavorite(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe id")
		return
	}

	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	rec, err := h.service.SetFavorite(c.Request.Context(), ownerOf(c), id, *req.Favorite)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// LinkIngredient handles PATCH /recipes/:id/ingredients/:ingredientId/link
func (h *Handler) LinkIngredient(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe id")
		return
	}
	ingredientID, ok := utils.ParamID(c, "ingredientId")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ingredient id")
		return
	}

	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	rec, err := h.service.LinkIngredient(c.Request.Context(), ownerOf(c), id, ingredientID, req.ProductID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

func (h *Handler) GetTaxonomy(c *gin.Context) {
	t, err := h.service.Taxonomy(c.Request.Context(), ownerOf(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) GetAvailability(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe id")
		return
	}

	avail, err := h.service.Availability(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, avail)
}

// AddToShoppingList handles POST /recipes/:id/shopping-list
func (h *Handler) AddToShoppingList(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe id")
		return
	}

	items, err := h.service.AddMissingToShoppingList(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"added": len(items), "items": items})
}

// UploadImage handles POST /recipes/:id/image (multipart field "file")
func (h *Handler) UploadImage(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe id")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "file is required")
		return
	}

	rec, err := h.service.UploadImage(c.Request.Context(), ownerOf(c), id, fh)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// SearchProducts handles GET /recipes/_search/products?q=&take=
func (h *Handler) SearchProducts(c *gin.Context) {
	take, _ := strconv.Atoi(c.Query("take"))

	hits, err := h.service.SearchProducts(c.Request.Context(), middleware.UserID(c), c.Query("q"), take)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTitleRequired):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Title is required")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
	case errors.Is(err, ErrIngredientNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Ingredient not found")
	case errors.Is(err, ErrNotLinkable):
		response.Error(c, http.StatusBadRequest, "NOT_LINKABLE", "Heading rows cannot be linked")
	case errors.Is(err, ErrInvalidReference):
		response.Error(c, http.StatusBadRequest, "INVALID_REFERENCE", "Referenced record does not exist")
	case errors.Is(err, storage.ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Image exceeds 10 MB")
	case errors.Is(err, storage.ErrInvalidMimeType), errors.Is(err, storage.ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
	default:
		response.Internal(c, err)
	}
}
