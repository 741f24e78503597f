package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/haylacafe/backend/internal/application/ingest"
	"github.com/haylacafe/backend/internal/domain/costing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newIngestTestRouter(repo *memReceiptRepo) *gin.Engine {
	svc := ingest.NewReceiptImportService(repo, zap.NewNop())
	h := NewIngestHandler(svc)
	return newTestRouter(costing.RoleStaff, "vy", h.RegisterRoutes)
}

// performUpload posts content as the named multipart field
func performUpload(t *testing.T, r http.Handler, field string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "export.xlsx")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/v1/receipts/import", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// exportWorkbook renders sale rows the way the point-of-sale system
// exports them: seven banner rows, the header on row 8, data below.
func exportWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	book := excelize.NewFile()
	defer book.Close()
	sheet := book.GetSheetName(0)

	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"Haylà cafe - sales export"}))
	header := []any{
		"Shop name", "Day", "Order code", "Status", "Payment time",
		"Product code", "Quantity", "Unit", "Topping",
		"Amount after invoice discount", "Payment method",
	}
	require.NoError(t, book.SetSheetRow(sheet, "A8", &header))
	for i, row := range rows {
		require.NoError(t, book.SetSheetRow(sheet, fmt.Sprintf("A%d", 9+i), &row))
	}

	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestIngestHandler_ImportReceipts(t *testing.T) {
	repo := &memReceiptRepo{}
	r := newIngestTestRouter(repo)

	upload := exportWorkbook(t, [][]any{
		{"Haylà cafe", "2026-03-14", "ORD001", "Hoàn thành", "2026-03-14 10:30:00",
			"DRK001", "2", "Size M", "", "40,000", "Tiền mặt"},
		{"Haylà cafe", "2026-03-14", "ORD001", "Hoàn thành", "2026-03-14 10:30:00",
			"DRK002", "1", "Size L", "Trân châu", "25,000", "Tiền mặt"},
		{"Haylà. express", "2026-03-14", "ORD002", "Hoàn thành", "2026-03-14 11:00:00",
			"DRK001", "1", "Size M", "", "18,000", "Chuyển khoản"},
	})

	w := performUpload(t, r, "file", upload)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	// two lines fold into ORD001, ORD002 stands alone
	assert.Equal(t, float64(2), data["receipts"])
	assert.Equal(t, float64(3), data["rows"])
	assert.Equal(t, float64(0), data["skipped"])
	assert.Equal(t, float64(2), data["upserted"])

	require.Len(t, repo.receipts, 2)
	assert.Equal(t, "65000", repo.receipts[0].Amount.String())
}

func TestIngestHandler_ImportReceipts_MissingFileField(t *testing.T) {
	r := newIngestTestRouter(&memReceiptRepo{})

	w := performUpload(t, r, "attachment", []byte("whatever"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "ERR_BAD_REQUEST", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "file")
}

func TestIngestHandler_ImportReceipts_NotAWorkbook(t *testing.T) {
	r := newIngestTestRouter(&memReceiptRepo{})

	w := performUpload(t, r, "file", []byte(strings.Repeat("garbage,", 64)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION", decodeResponse(t, w).Error.Code)
}

func TestIngestHandler_ImportReceipts_NoUsableRows(t *testing.T) {
	r := newIngestTestRouter(&memReceiptRepo{})

	// a single cancelled order parses but yields nothing to store
	upload := exportWorkbook(t, [][]any{
		{"Haylà cafe", "2026-03-14", "ORD001", "Hủy", "2026-03-14 10:30:00",
			"DRK001", "2", "Size M", "", "40,000", "Tiền mặt"},
	})

	w := performUpload(t, r, "file", upload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION", decodeResponse(t, w).Error.Code)
}
