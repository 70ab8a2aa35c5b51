package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pantry/internal/middleware"
	"pantry/internal/pkg/response"
	"pantry/internal/pkg/utils"
)

// NamedHandler serves one of the simple named collections.
type NamedHandler[T namedEntity, PT namedPtr[T]] struct {
	service *NamedService[T, PT]
}

func NewNamedHandler[T namedEntity, PT namedPtr[T]](service *NamedService[T, PT]) *NamedHandler[T, PT] {
	return &NamedHandler[T, PT]{service: service}
}

func (h *NamedHandler[T, PT]) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *NamedHandler[T, PT]) Create(c *gin.Context) {
	var req NamedInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	row, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, row)
}

func (h *NamedHandler[T, PT]) Update(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	var req NamedInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	row, err := h.service.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, row)
}

func (h *NamedHandler[T, PT]) Delete(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

type ProductHandler struct {
	service *ProductService
}

func NewProductHandler(service *ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// ListProducts handles GET /products?q=&categoryId=&page=&limit=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page := utils.PageFromQuery(c)
	filter := ProductFilter{
		Query:      c.Query("q"),
		CategoryID: utils.QueryID(c, "categoryId"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}

	products, total, err := h.service.List(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"products":   products,
		"pagination": page.Meta(total),
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	p, err := h.service.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	p, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	var req ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	p, err := h.service.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// SearchProducts handles GET /products/_search?q=&take=
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	take, _ := strconv.Atoi(c.Query("take"))

	hits, err := h.service.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"), take)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrNameRequired):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name is required")
	case errors.Is(err, ErrNameTaken):
		response.Error(c, http.StatusConflict, "NAME_TAKEN", "Name is already in use")
	case errors.Is(err, ErrInvalidReference):
		response.Error(c, http.StatusBadRequest, "INVALID_REFERENCE", "Referenced record does not exist")
	default:
		response.Internal(c, err)
	}
}
