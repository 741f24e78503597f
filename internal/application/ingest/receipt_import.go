package ingest

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/sales"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// headerRow is the zero-based sheet row carrying the column names. The
// point-of-sale export puts seven banner rows above it.
const headerRow = 7

// cancelledStatus marks voided orders in the export
const cancelledStatus = "Hủy"

// exportColumns maps the export's column names to the fields we keep.
// Status is read for filtering but not stored.
var exportColumns = []string{
	"Shop name",
	"Day",
	"Order code",
	"Status",
	"Payment time",
	"Product code",
	"Quantity",
	"Unit",
	"Topping",
	"Amount after invoice discount",
	"Payment method",
}

var shopNames = map[string]catalog.Location{
	"Haylà cafe":     catalog.LocationSGN,
	"Haylà. express": catalog.LocationNTR,
}

var paymentTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01-02-06 15:04",
}

// ImportResult reports how an upload landed. Re-importing the same file
// matches every receipt and upserts none.
type ImportResult struct {
	Receipts int `json:"receipts"`
	Rows     int `json:"rows"`
	Skipped  int `json:"skipped"`
	Matched  int `json:"matched"`
	Upserted int `json:"upserted"`
}

// ReceiptImportService ingests point-of-sale xlsx exports into the
// receipt store.
type ReceiptImportService struct {
	receiptRepo sales.Repository
	logger      *zap.Logger
}

// NewReceiptImportService creates a new ReceiptImportService
func NewReceiptImportService(receiptRepo sales.Repository, logger *zap.Logger) *ReceiptImportService {
	return &ReceiptImportService{receiptRepo: receiptRepo, logger: logger}
}

// Import parses one xlsx export, normalizes its rows, groups them into
// receipts keyed by (location, order day, order code) and upserts the
// batch insert-if-absent. The whole upload is parsed before anything is
// written.
func (s *ReceiptImportService) Import(ctx context.Context, upload io.Reader) (*ImportResult, error) {
	receipts, result, err := s.parse(upload)
	if err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		return nil, shared.NewValidationError("upload contains no usable receipt rows")
	}

	upserted, err := s.receiptRepo.UpsertBatch(ctx, receipts)
	if err != nil {
		return nil, err
	}
	result.Receipts = len(receipts)
	result.Matched = upserted.Matched
	result.Upserted = upserted.Upserted

	s.logger.Info("receipt upload ingested",
		zap.Int("rows", result.Rows),
		zap.Int("skipped", result.Skipped),
		zap.Int("receipts", result.Receipts),
		zap.Int("upserted", result.Upserted))
	return result, nil
}

// rawRow is one normalized sheet row before grouping
type rawRow struct {
	location    catalog.Location
	orderDay    string
	orderCode   string
	paymentTime time.Time
	method      sales.PaymentMethod
	amount      decimal.Decimal
	item        sales.ReceiptItem
}

type receiptKey struct {
	location  catalog.Location
	orderDay  string
	orderCode string
}

func (s *ReceiptImportService) parse(upload io.Reader) ([]*sales.Receipt, *ImportResult, error) {
	book, err := excelize.OpenReader(upload)
	if err != nil {
		return nil, nil, shared.NewValidationError("could not open workbook: %v", err)
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, nil, shared.NewValidationError("could not read sheet %q: %v", sheet, err)
	}
	if len(rows) <= headerRow {
		return nil, nil, shared.NewValidationError("sheet %q has no header row", sheet)
	}

	colIdx := make(map[string]int, len(exportColumns))
	for idx, name := range rows[headerRow] {
		colIdx[strings.TrimSpace(name)] = idx
	}
	for _, name := range exportColumns {
		if _, ok := colIdx[name]; !ok {
			return nil, nil, shared.NewValidationError("missing column %q in header row", name)
		}
	}
	cell := func(row []string, name string) string {
		idx := colIdx[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	result := &ImportResult{}
	var parsed []rawRow
	for _, row := range rows[headerRow+1:] {
		result.Rows++

		if cell(row, "Payment time") == "" || cell(row, "Status") == cancelledStatus {
			result.Skipped++
			continue
		}
		productCode := cell(row, "Product code")
		if !strings.HasPrefix(productCode, "DRK") {
			result.Skipped++
			continue
		}

		location, ok := shopNames[cell(row, "Shop name")]
		if !ok {
			return nil, nil, shared.NewValidationError("unknown shop name %q", cell(row, "Shop name"))
		}
		paymentTime, err := parsePaymentTime(cell(row, "Payment time"))
		if err != nil {
			return nil, nil, err
		}
		amount, err := parseAmount(cell(row, "Amount after invoice discount"))
		if err != nil {
			return nil, nil, err
		}
		quantity, err := decimal.NewFromString(cell(row, "Quantity"))
		if err != nil {
			return nil, nil, shared.NewValidationError("invalid quantity %q", cell(row, "Quantity"))
		}
		size, err := normalizeSize(cell(row, "Unit"))
		if err != nil {
			return nil, nil, err
		}

		parsed = append(parsed, rawRow{
			location:    location,
			orderDay:    cell(row, "Day"),
			orderCode:   cell(row, "Order code"),
			paymentTime: paymentTime,
			method:      normalizeMethod(cell(row, "Payment method")),
			amount:      amount,
			item: sales.ReceiptItem{
				ProductCode: productCode,
				Quantity:    quantity,
				Size:        size,
				Topping:     cell(row, "Topping"),
			},
		})
	}

	return groupReceipts(parsed, result)
}

// groupReceipts folds parsed rows into one receipt per natural key,
// summing the amount across the order's lines. Payment time and method
// come from the order's first row. Input order is preserved.
func groupReceipts(rows []rawRow, result *ImportResult) ([]*sales.Receipt, *ImportResult, error) {
	type group struct {
		first rawRow
		total decimal.Decimal
		items []sales.ReceiptItem
	}

	groups := make(map[receiptKey]*group)
	var order []receiptKey
	for _, row := range rows {
		key := receiptKey{location: row.location, orderDay: row.orderDay, orderCode: row.orderCode}
		g, ok := groups[key]
		if !ok {
			g = &group{first: row, total: decimal.Zero}
			groups[key] = g
			order = append(order, key)
		}
		g.total = g.total.Add(row.amount)
		g.items = append(g.items, row.item)
	}

	receipts := make([]*sales.Receipt, 0, len(order))
	for _, key := range order {
		g := groups[key]
		receipt, err := sales.NewReceipt(key.location, key.orderDay, key.orderCode,
			g.first.paymentTime, g.first.method, g.total, g.items)
		if err != nil {
			return nil, nil, err
		}
		receipts = append(receipts, receipt)
	}
	return receipts, result, nil
}

// normalizeMethod maps the export's Vietnamese payment labels onto the
// stored methods. Mixed orders settle under the method that actually
// carried the money, so a zero-amount label flips to the other one.
func normalizeMethod(raw string) sales.PaymentMethod {
	switch {
	case strings.Contains(raw, "Chuyển khoản: 0"):
		return sales.PaymentMethodCash
	case strings.Contains(raw, "Tiền mặt: 0"):
		return sales.PaymentMethodTransfer
	case strings.Contains(raw, "Chuyển khoản"):
		return sales.PaymentMethodTransfer
	default:
		return sales.PaymentMethodCash
	}
}

// normalizeSize maps the export's unit labels onto size tiers. Drinks
// sold by the glass ("ly") have a single size, stored as M.
func normalizeSize(raw string) (catalog.Size, error) {
	if raw == "ly" {
		return catalog.SizeM, nil
	}
	size := catalog.Size(strings.TrimPrefix(raw, "Size "))
	if !size.IsValid() {
		return "", shared.NewValidationError("unknown size label %q", raw)
	}
	return size, nil
}

func parsePaymentTime(raw string) (time.Time, error) {
	for _, layout := range paymentTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, shared.NewValidationError("invalid payment time %q", raw)
}

// parseAmount strips the export's thousands separators
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, shared.NewValidationError("invalid amount %q", raw)
	}
	return amount, nil
}
