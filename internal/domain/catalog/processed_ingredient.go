package catalog

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var processedCodePattern = regexp.MustCompile(`^PIG\d+$`)

// Constituent is one raw-ingredient line inside a processed ingredient's
// bill of materials. Name, Unit, CostPerUnit and TotalCost are reference
// fields filled in by the cost resolver.
type Constituent struct {
	RawCode      string // RIG###
	QuantityUsed decimal.Decimal

	Name        string
	Unit        string
	CostPerUnit decimal.Decimal
	TotalCost   decimal.Decimal // QuantityUsed * CostPerUnit
}

// ProcessedIngredient is a batch-prepared intermediate composed of at least
// two raw ingredients. Its unit cost is derived from the resolved constituent
// costs and the batch yield.
type ProcessedIngredient struct {
	ID            uuid.UUID
	Code          string // stable business key, PIG###
	Name          string
	YieldQuantity decimal.Decimal // batch output quantity, > 0
	Unit          string
	Constituents  []Constituent
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Derived by the cost resolver. Zeroed for callers without cost
	// visibility, never omitted.
	TotalCost   decimal.Decimal
	CostPerUnit decimal.Decimal
}

// NewProcessedIngredient creates a processed ingredient definition. Costs are
// left unresolved; the resolver derives them from the raw-ingredient catalog.
func NewProcessedIngredient(code, name string, yield decimal.Decimal, unit string, constituents []Constituent) (*ProcessedIngredient, error) {
	if !processedCodePattern.MatchString(code) {
		return nil, shared.NewValidationError("invalid processed ingredient code %q", code)
	}
	if name == "" {
		return nil, shared.NewValidationError("processed ingredient name cannot be empty")
	}
	if !yield.IsPositive() {
		// Zero yield is a data-integrity failure, not a neutral ratio.
		return nil, shared.NewComputationGuardError("processed ingredient %s yield must be positive", code)
	}
	if len(constituents) < 2 {
		return nil, shared.NewValidationError("processed ingredient %s needs at least two constituents", code)
	}
	for _, c := range constituents {
		if !rawCodePattern.MatchString(c.RawCode) {
			return nil, shared.NewValidationError("processed ingredient %s references invalid raw code %q", code, c.RawCode)
		}
		if !c.QuantityUsed.IsPositive() {
			return nil, shared.NewValidationError("processed ingredient %s line %s quantity must be positive", code, c.RawCode)
		}
	}

	now := time.Now()
	return &ProcessedIngredient{
		ID:            uuid.New(),
		Code:          code,
		Name:          name,
		YieldQuantity: yield,
		Unit:          unit,
		Constituents:  constituents,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
