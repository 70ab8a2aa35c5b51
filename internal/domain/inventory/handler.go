package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pantry/internal/domain/catalog"
	"pantry/internal/middleware"
	"pantry/internal/pkg/response"
	"pantry/internal/pkg/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /inventory?locationId=&productId=&expiringWithinDays=
func (h *Handler) List(c *gin.Context) {
	f := Filter{
		LocationID: utils.QueryID(c, "locationId"),
		ProductID:  utils.QueryID(c, "productId"),
	}
	if raw := c.Query("expiringWithinDays"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "expiringWithinDays must be a non-negative integer")
			return
		}
		f.ExpiringWithinDays = &days
	}

	items, err := h.service.List(c.Request.Context(), middleware.UserID(c), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	item, err := h.service.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) Create(c *gin.Context) {
	var req ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	item, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	var req ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	item, err := h.service.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) Delete(c *gin.Context) {
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

// Consume handles POST /inventory/:id/consume
func (h *Handler) Consume(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	var req ConsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	res, err := h.service.Consume(c.Request.Context(), middleware.UserID(c), id, req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Inventory item not found")
	case errors.Is(err, ErrInvalidQuantity):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Quantity must be greater than zero")
	case errors.Is(err, ErrInsufficientQuantity):
		response.Error(c, http.StatusBadRequest, "INSUFFICIENT_QUANTITY", "Not enough stock to consume")
	case errors.Is(err, catalog.ErrInvalidReference):
		response.Error(c, http.StatusBadRequest, "INVALID_REFERENCE", "Referenced record does not exist")
	default:
		response.Internal(c, err)
	}
}
