package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/haylacafe/backend/internal/application/inventory"
	"github.com/haylacafe/backend/internal/interfaces/http/middleware"
)

// InventoryHandler handles stock ledger API endpoints
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService}
}

// SubmitStockEventsRequest carries a batch of ledger entries
type SubmitStockEventsRequest struct {
	Events []inventoryapp.StockEventRequest `json:"events" binding:"required,min=1,dive"`
}

// SubmitStockEventsResponse reports how many entries were appended
type SubmitStockEventsResponse struct {
	Recorded int `json:"recorded"`
}

// SubmitStockEvents appends a batch of ledger entries all-or-nothing. The
// actor and the timestamp are stamped server-side.
func (h *InventoryHandler) SubmitStockEvents(c *gin.Context) {
	var req SubmitStockEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	recorded, err := h.stockService.Submit(c.Request.Context(), middleware.GetActor(c), req.Events)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, SubmitStockEventsResponse{Recorded: recorded})
}

// ListStockEvents returns ledger entries newest first. Non-admin callers
// see only their own entries from the last seven days.
func (h *InventoryHandler) ListStockEvents(c *gin.Context) {
	locations, err := parseLocationsQuery(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.stockService.ListEvents(c.Request.Context(), middleware.GetRole(c), middleware.GetActor(c), locations)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// StockRemainders reports per-ingredient remaining stock ascending by what
// is left
func (h *InventoryHandler) StockRemainders(c *gin.Context) {
	locations, err := parseLocationsQuery(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.stockService.Remainders(c.Request.Context(), locations)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReconcileStock checks the ledger between the two most recent
// physical-count days (admin only)
func (h *InventoryHandler) ReconcileStock(c *gin.Context) {
	locations, err := parseLocationsQuery(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.stockService.Reconcile(c.Request.Context(), middleware.GetRole(c), locations)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all stock ledger routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.POST("/events", h.SubmitStockEvents)
		stock.GET("/events", h.ListStockEvents)
		stock.GET("/remainders", h.StockRemainders)
		stock.GET("/reconciliation", h.ReconcileStock)
	}
}
