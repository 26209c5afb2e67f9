package domain

import "github.com/shopspring/decimal"

// SCI is a holding entity taxed on a consolidated basis under corporate tax.
type SCI struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	PropertyIDs []string   `yaml:"property_ids" json:"property_ids"`
	RentalType  RentalType `yaml:"rental_type" json:"rental_type"`

	ReducedRate  decimal.Decimal `yaml:"reduced_rate" json:"reduced_rate"`
	StandardRate decimal.Decimal `yaml:"standard_rate" json:"standard_rate"`
	Threshold    decimal.Decimal `yaml:"threshold" json:"threshold"`

	Depreciation   SCIDepreciation `yaml:"depreciation" json:"depreciation"`
	OperatingCosts OperatingCosts  `yaml:"operating_costs" json:"operating_costs"`
	PriorDeficit   decimal.Decimal `yaml:"prior_deficit" json:"prior_deficit"`
}

// SCIDepreciation holds the entity's depreciation horizon per asset category.
type SCIDepreciation struct {
	BuildingYears  int `yaml:"building_years" json:"building_years"`
	FurnitureYears int `yaml:"furniture_years" json:"furniture_years"`
	WorksYears     int `yaml:"works_years" json:"works_years"`
}

// OperatingCosts are the entity's own yearly running costs.
type OperatingCosts struct {
	Accounting decimal.Decimal `yaml:"accounting" json:"accounting"`
	Legal      decimal.Decimal `yaml:"legal" json:"legal"`
	Banking    decimal.Decimal `yaml:"banking" json:"banking"`
	Insurance  decimal.Decimal `yaml:"insurance" json:"insurance"`
	Other      decimal.Decimal `yaml:"other" json:"other"`
}

// Total sums the operating costs.
func (c OperatingCosts) Total() decimal.Decimal {
	return c.Accounting.Add(c.Legal).Add(c.Banking).Add(c.Insurance).Add(c.Other)
}

// Normalize applies the corporate-tax defaults (15% up to 42,500 then 25%;
// 30/7/15 year horizons) and floors negative amounts at zero. An empty
// RentalType is kept: each member property then books its own rent.
func (s SCI) Normalize() SCI {
	out := s
	if !out.ReducedRate.IsPositive() {
		out.ReducedRate = decimal.NewFromInt(15)
	}
	if !out.StandardRate.IsPositive() {
		out.StandardRate = decimal.NewFromInt(25)
	}
	if !out.Threshold.IsPositive() {
		out.Threshold = decimal.NewFromInt(42500)
	}
	out.ReducedRate = decimal.Min(out.ReducedRate, maxPercent)
	out.StandardRate = decimal.Min(out.StandardRate, maxPercent)

	horizon := func(n, def int) int {
		switch {
		case n <= 0:
			return def
		case n > MaxDurationYears:
			return MaxDurationYears
		}
		return n
	}
	out.Depreciation.BuildingYears = horizon(out.Depreciation.BuildingYears, 30)
	out.Depreciation.FurnitureYears = horizon(out.Depreciation.FurnitureYears, 7)
	out.Depreciation.WorksYears = horizon(out.Depreciation.WorksYears, 15)

	c := &out.OperatingCosts
	for _, p := range []*decimal.Decimal{&c.Accounting, &c.Legal, &c.Banking, &c.Insurance, &c.Other, &out.PriorDeficit} {
		if p.IsNegative() {
			*p = decimal.Zero
		}
	}
	return out
}
