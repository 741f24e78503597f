package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/haylacafe/backend/internal/application/report"
	"github.com/haylacafe/backend/internal/interfaces/http/middleware"
)

// ReportHandler handles report-related API endpoints
type ReportHandler struct {
	BaseHandler
	cashflowService *reportapp.CashflowService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(cashflowService *reportapp.CashflowService) *ReportHandler {
	return &ReportHandler{cashflowService: cashflowService}
}

// Cashflow builds the period-over-period cash flow comparison: a daily
// chart series with synthetic forecast days, the two window totals, the
// raw-ingredient usage pivot and the drink margin report.
func (h *ReportHandler) Cashflow(c *gin.Context) {
	var req reportapp.CashflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	resp, err := h.cashflowService.Compare(c.Request.Context(), middleware.GetRole(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.POST("/cashflow", h.Cashflow)
	}
}
