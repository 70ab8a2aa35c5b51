package shopping

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pantry/internal/domain/catalog"
	"pantry/internal/middleware"
	"pantry/internal/pkg/response"
	"pantry/internal/pkg/utils"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// List handles GET /shopping-list?storeId=&checked=
func (h *Handler) List(c *gin.Context) {
	f := Filter{
		StoreID: utils.QueryID(c, "storeId"),
		Checked: utils.QueryBool(c, "checked"),
	}

	items, err := h.service.List(c.Request.Context(), middleware.UserID(c), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
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

func (h *Handler) Toggle(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return
	}

	item, err := h.service.Toggle(c.Request.Context(), middleware.UserID(c), id)
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

func (h *Handler) ClearChecked(c *gin.Context) {
	removed, err := h.service.ClearChecked(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}

// Checkout handles POST /shopping-list/checkout
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
			return
		}
	}

	res, err := h.service.Checkout(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// WebSocket handles GET /shopping-list/ws
func (h *Handler) WebSocket(c *gin.Context) {
	ownerID := middleware.UserID(c)
	if err := h.hub.ServeWS(c.Writer, c.Request, ownerID); err != nil {
		// Upgrade has already written the HTTP error.
		log.Printf("shopping_ws upgrade_failed owner_id=%d err=%v", ownerID, err)
	}
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Shopping list item not found")
	case errors.Is(err, ErrNameRequired):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name or productId is required")
	case errors.Is(err, catalog.ErrInvalidReference):
		response.Error(c, http.StatusBadRequest, "INVALID_REFERENCE", "Referenced record does not exist")
	default:
		response.Internal(c, err)
	}
}
