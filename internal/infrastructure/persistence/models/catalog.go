package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haylacafe/backend/internal/domain/catalog"
)

// RawIngredientModel is the persistence model for the RawIngredient domain entity.
type RawIngredientModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code            string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_raw_ingredient_code"`
	Name            string          `gorm:"type:varchar(200);not null"`
	IngredientGroup string          `gorm:"type:varchar(100)"`
	Locations       string          `gorm:"type:jsonb;not null"`
	Cost            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit            string          `gorm:"type:varchar(20);not null"`
	Enabled         bool            `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RawIngredientModel) TableName() string {
	return "raw_ingredients"
}

// ToDomain converts the persistence model to a domain RawIngredient entity.
func (m *RawIngredientModel) ToDomain() (*catalog.RawIngredient, error) {
	locations, err := decodeLocations(m.Locations)
	if err != nil {
		return nil, fmt.Errorf("raw ingredient %s: %w", m.Code, err)
	}

	ingredient := &catalog.RawIngredient{
		ID:        m.ID,
		Code:      m.Code,
		Name:      m.Name,
		Group:     m.IngredientGroup,
		Locations: locations,
		Cost:      m.Cost,
		Quantity:  m.Quantity,
		Unit:      m.Unit,
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Quantity.IsPositive() {
		ingredient.CostPerUnit = m.Cost.Div(m.Quantity)
	}
	return ingredient, nil
}

// FromDomain populates the persistence model from a domain RawIngredient entity.
func (m *RawIngredientModel) FromDomain(r *catalog.RawIngredient) error {
	locations, err := encodeLocations(r.Locations)
	if err != nil {
		return fmt.Errorf("raw ingredient %s: %w", r.Code, err)
	}

	m.ID = r.ID
	m.Code = r.Code
	m.Name = r.Name
	m.IngredientGroup = r.Group
	m.Locations = locations
	m.Cost = r.Cost
	m.Quantity = r.Quantity
	m.Unit = r.Unit
	m.Enabled = r.Enabled
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
	return nil
}

// RawIngredientModelFromDomain creates a new persistence model from a domain RawIngredient entity.
func RawIngredientModelFromDomain(r *catalog.RawIngredient) (*RawIngredientModel, error) {
	m := &RawIngredientModel{}
	if err := m.FromDomain(r); err != nil {
		return nil, err
	}
	return m, nil
}

// constituentRecord is the jsonb shape of one bill-of-materials line.
// Resolved reference fields are never persisted; the cost resolver
// recomputes them on read.
type constituentRecord struct {
	RawCode      string          `json:"raw_code"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
}

// ProcessedIngredientModel is the persistence model for the ProcessedIngredient domain entity.
type ProcessedIngredientModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code          string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_processed_ingredient_code"`
	Name          string          `gorm:"type:varchar(200);not null"`
	YieldQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	Constituents  string          `gorm:"type:jsonb;not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProcessedIngredientModel) TableName() string {
	return "processed_ingredients"
}

// ToDomain converts the persistence model to a domain ProcessedIngredient entity.
func (m *ProcessedIngredientModel) ToDomain() (*catalog.ProcessedIngredient, error) {
	var records []constituentRecord
	if err := json.Unmarshal([]byte(m.Constituents), &records); err != nil {
		return nil, fmt.Errorf("processed ingredient %s: decode constituents: %w", m.Code, err)
	}

	constituents := make([]catalog.Constituent, len(records))
	for i, rec := range records {
		constituents[i] = catalog.Constituent{
			RawCode:      rec.RawCode,
			QuantityUsed: rec.QuantityUsed,
		}
	}

	return &catalog.ProcessedIngredient{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		YieldQuantity: m.YieldQuantity,
		Unit:          m.Unit,
		Constituents:  constituents,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain ProcessedIngredient entity.
func (m *ProcessedIngredientModel) FromDomain(p *catalog.ProcessedIngredient) error {
	records := make([]constituentRecord, len(p.Constituents))
	for i, c := range p.Constituents {
		records[i] = constituentRecord{
			RawCode:      c.RawCode,
			QuantityUsed: c.QuantityUsed,
		}
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("processed ingredient %s: encode constituents: %w", p.Code, err)
	}

	m.ID = p.ID
	m.Code = p.Code
	m.Name = p.Name
	m.YieldQuantity = p.YieldQuantity
	m.Unit = p.Unit
	m.Constituents = string(encoded)
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
	return nil
}

// ProcessedIngredientModelFromDomain creates a new persistence model from a domain ProcessedIngredient entity.
func ProcessedIngredientModelFromDomain(p *catalog.ProcessedIngredient) (*ProcessedIngredientModel, error) {
	m := &ProcessedIngredientModel{}
	if err := m.FromDomain(p); err != nil {
		return nil, err
	}
	return m, nil
}

// recipeRecord is the jsonb shape of one recipe line at the reference size.
type recipeRecord struct {
	IngredientCode string          `json:"ingredient_code"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// priceRecord is the jsonb shape of one location's size price tiers.
type priceRecord struct {
	S decimal.Decimal `json:"s"`
	M decimal.Decimal `json:"m"`
	L decimal.Decimal `json:"l"`
}

// DrinkModel is the persistence model for the Drink domain entity.
type DrinkModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_drink_code"`
	Name       string    `gorm:"type:varchar(200);not null"`
	DrinkGroup string    `gorm:"type:varchar(100)"`
	Locations  string    `gorm:"type:jsonb;not null"`
	Recipe     string    `gorm:"type:jsonb;not null"`
	Prices     string    `gorm:"type:jsonb;not null"`
	Enabled    bool      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DrinkModel) TableName() string {
	return "drinks"
}

// ToDomain converts the persistence model to a domain Drink entity.
func (m *DrinkModel) ToDomain() (*catalog.Drink, error) {
	locations, err := decodeLocations(m.Locations)
	if err != nil {
		return nil, fmt.Errorf("drink %s: %w", m.Code, err)
	}

	var recipeRecords []recipeRecord
	if err := json.Unmarshal([]byte(m.Recipe), &recipeRecords); err != nil {
		return nil, fmt.Errorf("drink %s: decode recipe: %w", m.Code, err)
	}
	recipe := make([]catalog.RecipeLine, len(recipeRecords))
	for i, rec := range recipeRecords {
		recipe[i] = catalog.RecipeLine{
			IngredientCode: rec.IngredientCode,
			Quantity:       rec.Quantity,
		}
	}

	var priceRecords map[catalog.Location]priceRecord
	if err := json.Unmarshal([]byte(m.Prices), &priceRecords); err != nil {
		return nil, fmt.Errorf("drink %s: decode prices: %w", m.Code, err)
	}
	prices := make(map[catalog.Location]catalog.SizePrices, len(priceRecords))
	for loc, rec := range priceRecords {
		prices[loc] = catalog.SizePrices{S: rec.S, M: rec.M, L: rec.L}
	}

	return &catalog.Drink{
		ID:        m.ID,
		Code:      m.Code,
		Name:      m.Name,
		Group:     m.DrinkGroup,
		Locations: locations,
		Recipe:    recipe,
		Prices:    prices,
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain Drink entity.
func (m *DrinkModel) FromDomain(d *catalog.Drink) error {
	locations, err := encodeLocations(d.Locations)
	if err != nil {
		return fmt.Errorf("drink %s: %w", d.Code, err)
	}

	recipeRecords := make([]recipeRecord, len(d.Recipe))
	for i, line := range d.Recipe {
		recipeRecords[i] = recipeRecord{
			IngredientCode: line.IngredientCode,
			Quantity:       line.Quantity,
		}
	}
	recipe, err := json.Marshal(recipeRecords)
	if err != nil {
		return fmt.Errorf("drink %s: encode recipe: %w", d.Code, err)
	}

	priceRecords := make(map[catalog.Location]priceRecord, len(d.Prices))
	for loc, tiers := range d.Prices {
		priceRecords[loc] = priceRecord{S: tiers.S, M: tiers.M, L: tiers.L}
	}
	prices, err := json.Marshal(priceRecords)
	if err != nil {
		return fmt.Errorf("drink %s: encode prices: %w", d.Code, err)
	}

	m.ID = d.ID
	m.Code = d.Code
	m.Name = d.Name
	m.DrinkGroup = d.Group
	m.Locations = locations
	m.Recipe = string(recipe)
	m.Prices = string(prices)
	m.Enabled = d.Enabled
	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt
	return nil
}

// DrinkModelFromDomain creates a new persistence model from a domain Drink entity.
func DrinkModelFromDomain(d *catalog.Drink) (*DrinkModel, error) {
	m := &DrinkModel{}
	if err := m.FromDomain(d); err != nil {
		return nil, err
	}
	return m, nil
}

// FixedCostModel is the persistence model for the FixedCost domain entity.
type FixedCostModel struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Code          string           `gorm:"type:varchar(20);not null;uniqueIndex:idx_fixed_cost_code"`
	Name          string           `gorm:"type:varchar(200);not null"`
	Location      catalog.Location `gorm:"type:varchar(10);not null;index"`
	MonthlyAmount decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt     time.Time        `gorm:"not null"`
	UpdatedAt     time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FixedCostModel) TableName() string {
	return "fixed_costs"
}

// ToDomain converts the persistence model to a domain FixedCost entity.
func (m *FixedCostModel) ToDomain() *catalog.FixedCost {
	return &catalog.FixedCost{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		Location:      m.Location,
		MonthlyAmount: m.MonthlyAmount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain FixedCost entity.
func (m *FixedCostModel) FromDomain(f *catalog.FixedCost) {
	m.ID = f.ID
	m.Code = f.Code
	m.Name = f.Name
	m.Location = f.Location
	m.MonthlyAmount = f.MonthlyAmount
	m.CreatedAt = f.CreatedAt
	m.UpdatedAt = f.UpdatedAt
}

// FixedCostModelFromDomain creates a new persistence model from a domain FixedCost entity.
func FixedCostModelFromDomain(f *catalog.FixedCost) *FixedCostModel {
	m := &FixedCostModel{}
	m.FromDomain(f)
	return m
}

func encodeLocations(locations []catalog.Location) (string, error) {
	encoded, err := json.Marshal(locations)
	if err != nil {
		return "", fmt.Errorf("encode locations: %w", err)
	}
	return string(encoded), nil
}

func decodeLocations(encoded string) ([]catalog.Location, error) {
	var locations []catalog.Location
	if err := json.Unmarshal([]byte(encoded), &locations); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	return locations, nil
}
