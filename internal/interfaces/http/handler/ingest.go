package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/haylacafe/backend/internal/application/ingest"
)

// IngestHandler handles receipt upload API endpoints
type IngestHandler struct {
	BaseHandler
	importService *ingest.ReceiptImportService
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(importService *ingest.ReceiptImportService) *IngestHandler {
	return &IngestHandler{importService: importService}
}

// ImportReceipts ingests one point-of-sale xlsx export uploaded as the
// "file" multipart field. The upsert is insert-if-absent on the receipt
// natural key, so re-uploading the same export is idempotent.
func (h *IngestHandler) ImportReceipts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing \"file\" upload field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.importService.Import(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RegisterRoutes registers all receipt ingestion routes
func (h *IngestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/receipts")
	{
		receipts.POST("/import", h.ImportReceipts)
	}
}
