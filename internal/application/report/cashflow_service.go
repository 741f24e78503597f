package report

import (
	"context"
	"sort"
	"sync"
	"time"

	appcatalog "github.com/haylacafe/backend/internal/application/catalog"
	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/costing"
	"github.com/haylacafe/backend/internal/domain/inventory"
	"github.com/haylacafe/backend/internal/domain/sales"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// defaultDecomposeWorkers bounds the pool that fans receipt
// decomposition out across a window's receipts.
const defaultDecomposeWorkers = 8

var one = decimal.NewFromInt(1)

// CatalogCompiler supplies the compiled drink catalog the report is priced
// against. This decouples CashflowService from the concrete catalog
// service implementation.
type CatalogCompiler interface {
	Compile(ctx context.Context, role costing.Role) (costing.CompiledCatalog, []appcatalog.CompileError, error)
}

// CashflowService builds period-over-period cash flow comparisons from
// stored receipts, fixed costs and the stock ledger. Every report is
// computed from scratch on request; nothing report-scoped is cached.
type CashflowService struct {
	compiler    CatalogCompiler
	receiptRepo sales.Repository
	fixedRepo   catalog.FixedCostRepository
	stockRepo   inventory.Repository
	logger      *zap.Logger
	workers     int
}

// CashflowOption configures a CashflowService
type CashflowOption func(*CashflowService)

// WithDecomposeWorkers sets the size of the receipt decomposition pool
func WithDecomposeWorkers(n int) CashflowOption {
	return func(s *CashflowService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewCashflowService creates a new CashflowService
func NewCashflowService(
	compiler CatalogCompiler,
	receiptRepo sales.Repository,
	fixedRepo catalog.FixedCostRepository,
	stockRepo inventory.Repository,
	logger *zap.Logger,
	opts ...CashflowOption,
) *CashflowService {
	s := &CashflowService{
		compiler:    compiler,
		receiptRepo: receiptRepo,
		fixedRepo:   fixedRepo,
		stockRepo:   stockRepo,
		logger:      logger,
		workers:     defaultDecomposeWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compare builds the full comparison report for the requested window and
// the equally sized window immediately preceding it. An empty current
// window or an empty drink catalog fails fast with no partial report.
func (s *CashflowService) Compare(ctx context.Context, role costing.Role, req CashflowRequest) (*CashflowResponse, error) {
	current, previous, err := parseWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	locations, err := parseReportLocations(req.Locations)
	if err != nil {
		return nil, err
	}

	compiled, failures, err := s.compiler.Compile(ctx, role)
	if err != nil {
		return nil, err
	}
	for _, f := range failures {
		s.logger.Warn("drink excluded from report",
			zap.String("drink_code", f.DrinkCode),
			zap.String("reason", f.Message))
	}
	if len(compiled) == 0 {
		return nil, shared.ErrEmptyResult
	}

	currentReceipts, err := s.receiptRepo.FindByPaymentWindow(ctx, locations, current.start, current.end)
	if err != nil {
		return nil, err
	}
	if len(currentReceipts) == 0 {
		return nil, shared.ErrEmptyResult
	}
	previousReceipts, err := s.receiptRepo.FindByPaymentWindow(ctx, locations, previous.start, previous.end)
	if err != nil {
		return nil, err
	}

	currentDecomposed, err := decomposeAll(currentReceipts, compiled, s.workers)
	if err != nil {
		return nil, err
	}
	previousDecomposed, err := decomposeAll(previousReceipts, compiled, s.workers)
	if err != nil {
		return nil, err
	}

	fixedCosts, err := s.fixedRepo.FindByLocations(ctx, locations)
	if err != nil {
		return nil, err
	}

	currentDaily := aggregateDaily(currentDecomposed)
	previousDaily := aggregateDaily(previousDecomposed)
	lastObserved := lastObservedDay(currentDaily)

	resp := &CashflowResponse{
		Previous: periodTotal(previous, previousDaily, fixedCosts, previous.lastDay()),
		Current:  periodTotal(current, currentDaily, fixedCosts, lastObserved),
	}
	resp.Chart = chartSeries(current, currentDaily, fixedCosts, lastObserved, resp.Current)

	resp.Usage, err = s.usagePivot(ctx, locations, previousDecomposed, currentDecomposed)
	if err != nil {
		return nil, err
	}
	resp.Margins = marginReport(currentDecomposed)

	s.logger.Info("cash flow report built",
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
		zap.Int("current_receipts", len(currentReceipts)),
		zap.Int("previous_receipts", len(previousReceipts)))
	return resp, nil
}

// decomposeAll fans receipt decomposition out on a bounded worker pool.
// The first failure wins; aggregation never sees a partial set.
func decomposeAll(receipts []*sales.Receipt, compiled costing.CompiledCatalog, workers int) ([]*sales.DecomposedReceipt, error) {
	out := make([]*sales.DecomposedReceipt, len(receipts))
	errs := make([]error, len(receipts))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, receipt := range receipts {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, receipt *sales.Receipt) {
			defer wg.Done()
			defer func() { <-sem }()
			out[i], errs[i] = sales.Decompose(receipt, compiled, sales.DecomposeOptions{ExpandProcessed: true})
		}(i, receipt)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// dailyTotal accumulates one calendar day's observed figures
type dailyTotal struct {
	revenue    decimal.Decimal
	directCost decimal.Decimal
}

// aggregateDaily rolls decomposed receipts up into per-day revenue and
// ingredient cost. Consumption figures on a decomposed item are per unit
// sold, so cost scales by the item quantity here.
func aggregateDaily(receipts []*sales.DecomposedReceipt) map[string]dailyTotal {
	daily := make(map[string]dailyTotal)
	for _, dr := range receipts {
		day := dr.PaymentTime.Format(dayLayout)
		total := daily[day]
		total.revenue = total.revenue.Add(dr.Amount)
		for _, item := range dr.Items {
			total.directCost = total.directCost.Add(item.TotalCostBySize.Mul(item.Quantity))
		}
		daily[day] = total
	}
	return daily
}

// fixedCostOn sums the daily share of every selected fixed cost for one
// calendar day.
func fixedCostOn(fixedCosts []*catalog.FixedCost, day time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, fc := range fixedCosts {
		total = total.Add(fc.DailyShare(day))
	}
	return total
}

// lastObservedDay returns the latest calendar day carrying any receipt,
// or the zero time when the daily map is empty.
func lastObservedDay(daily map[string]dailyTotal) time.Time {
	last := time.Time{}
	for dayStr := range daily {
		day, err := time.ParseInLocation(dayLayout, dayStr, time.Local)
		if err == nil && day.After(last) {
			last = day
		}
	}
	return last
}

// periodTotal sums a window's dailies into one CashFlowPeriod. Fixed
// cost accrues per calendar day, but only through fixedThrough: an
// in-progress window books nothing for days that have not happened yet,
// so its net profit is the profit booked so far.
func periodTotal(w window, daily map[string]dailyTotal, fixedCosts []*catalog.FixedCost, fixedThrough time.Time) CashFlowPeriod {
	p := CashFlowPeriod{
		StartDate:  w.start.Format(dayLayout),
		EndDate:    w.lastDay().Format(dayLayout),
		Revenue:    decimal.Zero,
		DirectCost: decimal.Zero,
		FixedCost:  decimal.Zero,
	}
	for day := w.start; day.Before(w.end); day = day.AddDate(0, 0, 1) {
		total := daily[day.Format(dayLayout)]
		p.Revenue = p.Revenue.Add(total.revenue)
		p.DirectCost = p.DirectCost.Add(total.directCost)
		if !day.After(fixedThrough) {
			p.FixedCost = p.FixedCost.Add(fixedCostOn(fixedCosts, day))
		}
	}
	p.NetProfit = p.Revenue.Sub(p.DirectCost).Sub(p.FixedCost)
	return p
}

// chartSeries builds the ordered daily series over the whole current
// window, appending synthetic forecast days when the window runs past the
// last observed receipt. The synthetic days together carry enough revenue
// to cover the profit already booked plus every remaining day's fixed
// cost at the observed direct cost ratio; with no observed revenue there
// is nothing to extrapolate from and trailing days stay at zero.
func chartSeries(w window, daily map[string]dailyTotal, fixedCosts []*catalog.FixedCost, lastObserved time.Time, currentTotal CashFlowPeriod) []DailyFlow {
	forecastFrom := w.end // sentinel: no synthetic days
	var synthRevenue, synthCost decimal.Decimal
	if lastObserved.Before(w.lastDay()) && currentTotal.Revenue.IsPositive() {
		forecastFrom = lastObserved.AddDate(0, 0, 1)

		// every synthetic day repeats the last observed day's fixed cost
		repeatedFixed := fixedCostOn(fixedCosts, lastObserved)
		gapDays := decimal.NewFromInt(int64(window{start: forecastFrom, end: w.end}.days()))
		gapFixed := repeatedFixed.Mul(gapDays).Sub(currentTotal.NetProfit)

		ratio := currentTotal.DirectCost.Div(currentTotal.Revenue)
		synthRevenue = gapFixed.Mul(one.Add(ratio)).Div(gapDays)
		synthCost = synthRevenue.Mul(ratio)
	}

	series := make([]DailyFlow, 0, w.days())
	for day := w.start; day.Before(w.end); day = day.AddDate(0, 0, 1) {
		fixed := fixedCostOn(fixedCosts, day)
		flow := DailyFlow{Date: day.Format(dayLayout), FixedCost: fixed}

		if !day.Before(forecastFrom) {
			flow.Synthetic = true
			flow.Revenue = synthRevenue
			flow.DirectCost = synthCost
			flow.FixedCost = fixedCostOn(fixedCosts, lastObserved)
		} else {
			total := daily[flow.Date]
			flow.Revenue = total.revenue
			flow.DirectCost = total.directCost
		}
		flow.NetProfit = flow.Revenue.Sub(flow.DirectCost).Sub(flow.FixedCost)
		series = append(series, flow)
	}
	return series
}

// usageKey identifies one row of the usage pivot
type usageKey struct {
	code     string
	location catalog.Location
}

// usagePivot aggregates raw-ingredient draw-down per (ingredient,
// location) across both windows and left-joins remaining stock from the
// ledger. Rows come back sorted by current usage descending.
func (s *CashflowService) usagePivot(ctx context.Context, locations []catalog.Location, previousReceipts, currentReceipts []*sales.DecomposedReceipt) ([]UsageRow, error) {
	rows := make(map[usageKey]*UsageRow)
	accumulate := func(receipts []*sales.DecomposedReceipt, current bool) {
		for _, dr := range receipts {
			for _, item := range dr.Items {
				for _, line := range item.Consumption {
					key := usageKey{code: line.IngredientCode, location: dr.Location}
					row, ok := rows[key]
					if !ok {
						row = &UsageRow{
							IngredientCode:   line.IngredientCode,
							Name:             line.Name,
							Unit:             line.Unit,
							Location:         dr.Location.String(),
							PreviousQuantity: decimal.Zero,
							CurrentQuantity:  decimal.Zero,
							Remaining:        decimal.Zero,
						}
						rows[key] = row
					}
					used := line.Quantity.Mul(item.Quantity)
					if current {
						row.CurrentQuantity = row.CurrentQuantity.Add(used)
					} else {
						row.PreviousQuantity = row.PreviousQuantity.Add(used)
					}
				}
			}
		}
	}
	accumulate(previousReceipts, false)
	accumulate(currentReceipts, true)

	events, err := s.stockRepo.Find(ctx, inventory.EventFilter{Locations: locations})
	if err != nil {
		return nil, err
	}
	for _, rem := range inventory.Remainders(events) {
		if row, ok := rows[usageKey{code: rem.RawCode, location: rem.Location}]; ok {
			row.Remaining = rem.Remaining
		}
	}

	out := make([]UsageRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CurrentQuantity.Equal(out[j].CurrentQuantity) {
			return out[i].CurrentQuantity.GreaterThan(out[j].CurrentQuantity)
		}
		if out[i].IngredientCode != out[j].IngredientCode {
			return out[i].IngredientCode < out[j].IngredientCode
		}
		return out[i].Location < out[j].Location
	})
	return out, nil
}

// marginKey identifies one row of the drink margin report
type marginKey struct {
	code     string
	location catalog.Location
	size     catalog.Size
}

// marginReport rolls the current window up per (drink, location, size):
// units sold, gross profit and the unweighted mean margin across receipt
// lines. Rows come back sorted by quantity descending.
func marginReport(receipts []*sales.DecomposedReceipt) []MarginRow {
	type marginAcc struct {
		row       MarginRow
		marginSum decimal.Decimal
		lineCount int64
	}

	accs := make(map[marginKey]*marginAcc)
	for _, dr := range receipts {
		for _, item := range dr.Items {
			key := marginKey{code: item.ProductCode, location: dr.Location, size: item.Size}
			acc, ok := accs[key]
			if !ok {
				acc = &marginAcc{row: MarginRow{
					DrinkCode:   item.ProductCode,
					DrinkName:   item.DrinkName,
					Location:    dr.Location.String(),
					Size:        item.Size.String(),
					Quantity:    decimal.Zero,
					GrossProfit: decimal.Zero,
				}}
				accs[key] = acc
			}
			acc.row.Quantity = acc.row.Quantity.Add(item.Quantity)
			acc.row.GrossProfit = acc.row.GrossProfit.Add(
				item.PriceBySize.Sub(item.TotalCostBySize).Mul(item.Quantity))
			acc.marginSum = acc.marginSum.Add(item.MarginBySize)
			acc.lineCount++
		}
	}

	out := make([]MarginRow, 0, len(accs))
	for _, acc := range accs {
		acc.row.MeanMargin = acc.marginSum.Div(decimal.NewFromInt(acc.lineCount))
		out = append(out, acc.row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Quantity.Equal(out[j].Quantity) {
			return out[i].Quantity.GreaterThan(out[j].Quantity)
		}
		if out[i].DrinkCode != out[j].DrinkCode {
			return out[i].DrinkCode < out[j].DrinkCode
		}
		if out[i].Location != out[j].Location {
			return out[i].Location < out[j].Location
		}
		return out[i].Size < out[j].Size
	})
	return out
}
