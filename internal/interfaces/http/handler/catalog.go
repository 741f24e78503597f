package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/haylacafe/backend/internal/application/catalog"
	"github.com/haylacafe/backend/internal/interfaces/http/dto"
	"github.com/haylacafe/backend/internal/interfaces/http/middleware"
)

// CatalogHandler handles ingredient, drink and fixed cost API endpoints
type CatalogHandler struct {
	BaseHandler
	service *catalogapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *catalogapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// CreateRawIngredient creates a raw ingredient
func (h *CatalogHandler) CreateRawIngredient(c *gin.Context) {
	var req catalogapp.CreateRawIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.CreateRawIngredient(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListRawIngredients lists raw ingredients. Disabled entries are included
// only when include_disabled is set; for callers without cost visibility
// the cost fields are zeroed and the locations query narrows the listing
// to their own shop.
func (h *CatalogHandler) ListRawIngredients(c *gin.Context) {
	includeDisabled := c.Query("include_disabled") == "true"
	locations, err := parseLocationsQuery(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.service.ListRawIngredients(c.Request.Context(), middleware.GetRole(c), includeDisabled, locations)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetRawIngredient returns one raw ingredient by code
func (h *CatalogHandler) GetRawIngredient(c *gin.Context) {
	var uri dto.CodeRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.GetRawIngredient(c.Request.Context(), middleware.GetRole(c), uri.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateRawIngredient applies a partial update to a raw ingredient
func (h *CatalogHandler) UpdateRawIngredient(c *gin.Context) {
	var uri dto.CodeRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindingError(c, err)
		return
	}
	var req catalogapp.UpdateRawIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.UpdateRawIngredient(c.Request.Context(), uri.Code, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateProcessedIngredient creates a processed ingredient and resolves its
// constituents against the raw catalog
func (h *CatalogHandler) CreateProcessedIngredient(c *gin.Context) {
	var req catalogapp.CreateProcessedIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.CreateProcessedIngredient(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListProcessedIngredients lists processed ingredients with resolved costs
func (h *CatalogHandler) ListProcessedIngredients(c *gin.Context) {
	resp, err := h.service.ListProcessedIngredients(c.Request.Context(), middleware.GetRole(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetProcessedIngredient returns one processed ingredient by code
func (h *CatalogHandler) GetProcessedIngredient(c *gin.Context) {
	var uri dto.CodeRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.GetProcessedIngredient(c.Request.Context(), middleware.GetRole(c), uri.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateProcessedIngredient applies a partial update to a processed ingredient
func (h *CatalogHandler) UpdateProcessedIngredient(c *gin.Context) {
	var uri dto.CodeRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindingError(c, err)
		return
	}
	var req catalogapp.UpdateProcessedIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.UpdateProcessedIngredient(c.Request.Context(), uri.Code, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateDrink creates a drink and returns its compiled cost view
func (h *CatalogHandler) CreateDrink(c *gin.Context) {
	var req catalogapp.CreateDrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.CreateDrink(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateDrink applies a partial update to a drink
func (h *CatalogHandler) UpdateDrink(c *gin.Context) {
	var uri dto.CodeRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindingError(c, err)
		return
	}
	var req catalogapp.UpdateDrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.UpdateDrink(c.Request.Context(), uri.Code, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CompileCatalog compiles every enabled drink. Drinks that fail to resolve
// are reported per entry instead of failing the batch.
func (h *CatalogHandler) CompileCatalog(c *gin.Context) {
	resp, err := h.service.CompileCatalog(c.Request.Context(), middleware.GetRole(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateFixedCost creates a fixed monthly cost entry
func (h *CatalogHandler) CreateFixedCost(c *gin.Context) {
	var req catalogapp.CreateFixedCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.CreateFixedCost(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListFixedCosts lists fixed cost entries (admin only)
func (h *CatalogHandler) ListFixedCosts(c *gin.Context) {
	resp, err := h.service.ListFixedCosts(c.Request.Context(), middleware.GetRole(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateFixedCost applies a partial update to a fixed cost entry
func (h *CatalogHandler) UpdateFixedCost(c *gin.Context) {
	var uri dto.CodeRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.HandleBindingError(c, err)
		return
	}
	var req catalogapp.UpdateFixedCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resp, err := h.service.UpdateFixedCost(c.Request.Context(), uri.Code, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		raw := catalog.Group("/raw-ingredients")
		{
			raw.POST("", h.CreateRawIngredient)
			raw.GET("", h.ListRawIngredients)
			raw.GET("/:code", h.GetRawIngredient)
			raw.PUT("/:code", h.UpdateRawIngredient)
		}

		processed := catalog.Group("/processed-ingredients")
		{
			processed.POST("", h.CreateProcessedIngredient)
			processed.GET("", h.ListProcessedIngredients)
			processed.GET("/:code", h.GetProcessedIngredient)
			processed.PUT("/:code", h.UpdateProcessedIngredient)
		}

		drinks := catalog.Group("/drinks")
		{
			drinks.POST("", h.CreateDrink)
			drinks.PUT("/:code", h.UpdateDrink)
		}

		catalog.GET("/compiled", h.CompileCatalog)

		fixed := catalog.Group("/fixed-costs")
		{
			fixed.POST("", h.CreateFixedCost)
			fixed.GET("", h.ListFixedCosts)
			fixed.PUT("/:code", h.UpdateFixedCost)
		}
	}
}
