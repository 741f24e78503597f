package catalog

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var fixedCostCodePattern = regexp.MustCompile(`^FIX\d+$`)

// FixedCost is a recurring monthly cost (rent, salaries) attributed to one
// location. Reports allocate it per day as monthly amount / days in month.
type FixedCost struct {
	ID            uuid.UUID
	Code          string // stable business key, FIX###
	Name          string
	Location      Location
	MonthlyAmount decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewFixedCost creates a fixed cost entry
func NewFixedCost(code, name string, loc Location, monthlyAmount decimal.Decimal) (*FixedCost, error) {
	if !fixedCostCodePattern.MatchString(code) {
		return nil, shared.NewValidationError("invalid fixed cost code %q", code)
	}
	if name == "" {
		return nil, shared.NewValidationError("fixed cost name cannot be empty")
	}
	if !loc.IsValid() {
		return nil, shared.NewValidationError("unknown location %q on fixed cost %s", loc, code)
	}
	if monthlyAmount.IsNegative() {
		return nil, shared.NewValidationError("fixed cost %s monthly amount cannot be negative", code)
	}

	now := time.Now()
	return &FixedCost{
		ID:            uuid.New(),
		Code:          code,
		Name:          name,
		Location:      loc,
		MonthlyAmount: monthlyAmount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// DailyShare returns the fixed-cost allocation for one calendar day of the
// month the day falls in.
func (f *FixedCost) DailyShare(day time.Time) decimal.Decimal {
	daysInMonth := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location()).
		AddDate(0, 1, -1).Day()
	return f.MonthlyAmount.Div(decimal.NewFromInt(int64(daysInMonth)))
}
