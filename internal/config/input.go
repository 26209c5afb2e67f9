package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Structural validation errors. Callers match them with errors.Is.
var (
	ErrNoInvestments        = errors.New("no investments provided")
	ErrDuplicateInvestment  = errors.New("duplicate investment id")
	ErrDuplicateSCI         = errors.New("duplicate sci id")
	ErrDuplicateExpenseYear = errors.New("duplicate expense year")
	ErrUnknownProperty      = errors.New("sci references unknown property")
	ErrPropertyInTwoSCIs    = errors.New("property held by more than one sci")
	ErrRegimeMismatch       = errors.New("regime does not match rental type")
)

// InputParser handles parsing of portfolio files
type InputParser struct {
	// NewID generates identifiers for investments and SCIs that have none.
	NewID func() string
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{NewID: func() string { return uuid.New().String() }}
}

// LoadFromFile loads a portfolio from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Portfolio, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a portfolio document
func (ip *InputParser) Parse(data []byte) (*domain.Portfolio, error) {
	var portfolio domain.Portfolio
	if err := yaml.Unmarshal(data, &portfolio); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.Prepare(&portfolio); err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// Prepare assigns missing identifiers and validates a decoded portfolio
func (ip *InputParser) Prepare(portfolio *domain.Portfolio) error {
	ip.assignIDs(portfolio)
	if err := ip.ValidatePortfolio(portfolio); err != nil {
		return fmt.Errorf("portfolio validation failed: %w", err)
	}
	return nil
}

func (ip *InputParser) assignIDs(portfolio *domain.Portfolio) {
	newID := ip.NewID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}
	for i := range portfolio.Investments {
		if portfolio.Investments[i].ID == "" {
			portfolio.Investments[i].ID = newID()
		}
	}
	for i := range portfolio.SCIs {
		if portfolio.SCIs[i].ID == "" {
			portfolio.SCIs[i].ID = newID()
		}
	}
}

// ValidatePortfolio checks the structure of a portfolio. Out-of-range
// amounts are not errors; the engine clamps them.
func (ip *InputParser) ValidatePortfolio(portfolio *domain.Portfolio) error {
	if len(portfolio.Investments) == 0 {
		return ErrNoInvestments
	}

	ids := make(map[string]bool, len(portfolio.Investments))
	for i := range portfolio.Investments {
		inv := &portfolio.Investments[i]
		if ids[inv.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateInvestment, inv.ID)
		}
		ids[inv.ID] = true
		if err := ip.validateInvestment(inv); err != nil {
			return fmt.Errorf("investment %s validation failed: %w", inv.ID, err)
		}
	}

	sciIDs := make(map[string]bool, len(portfolio.SCIs))
	owner := make(map[string]string)
	for _, sci := range portfolio.SCIs {
		if sciIDs[sci.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateSCI, sci.ID)
		}
		sciIDs[sci.ID] = true
		for _, pid := range sci.PropertyIDs {
			if !ids[pid] {
				return fmt.Errorf("sci %s: %w: %s", sci.ID, ErrUnknownProperty, pid)
			}
			if other, held := owner[pid]; held && other != sci.ID {
				return fmt.Errorf("%w: %s in %s and %s", ErrPropertyInTwoSCIs, pid, other, sci.ID)
			}
			owner[pid] = sci.ID
		}
	}

	return nil
}

// validateInvestment validates a single investment's data
func (ip *InputParser) validateInvestment(inv *domain.Investment) error {
	years := make(map[int]bool, len(inv.Expenses))
	for _, e := range inv.Expenses {
		if years[e.Year] {
			return fmt.Errorf("%w: %d", ErrDuplicateExpenseYear, e.Year)
		}
		years[e.Year] = true
	}

	if inv.Regime != "" && inv.RentalType != "" && inv.Regime.RentalType() != inv.RentalType {
		return fmt.Errorf("%w: %s is not a %s regime", ErrRegimeMismatch, inv.Regime, inv.RentalType)
	}

	return nil
}

// CreateExamplePortfolio creates an example portfolio: a bare flat with a
// partially deferred loan, a furnished studio, and an SCI holding both.
func (ip *InputParser) CreateExamplePortfolio() *domain.Portfolio {
	d := decimal.NewFromInt
	salePrice := d(265000)

	flatExpenses := make([]domain.YearlyExpense, 0, 10)
	studioExpenses := make([]domain.YearlyExpense, 0, 10)
	for y := 2025; y <= 2034; y++ {
		flatExpenses = append(flatExpenses, domain.YearlyExpense{
			Year:                y,
			BareRent:            d(11400),
			TenantCharges:       d(600),
			PropertyTax:         d(1100),
			CondoFees:           d(900),
			Insurance:           d(220),
			ManagementFees:      d(684),
			UnpaidRentInsurance: d(285),
			Repairs:             d(400),
		})
		studioExpenses = append(studioExpenses, domain.YearlyExpense{
			Year:               y,
			FurnishedRent:      d(9600),
			PropertyTax:        d(650),
			CondoFees:          d(540),
			Insurance:          d(150),
			OtherDeductible:    d(300),
			OtherNonDeductible: d(120),
		})
	}

	return &domain.Portfolio{
		TaxRules: domain.DefaultTaxRules(),
		Investments: []domain.Investment{
			{
				ID:         "lyon-flat",
				Name:       "Lyon 3e - T3",
				RentalType: domain.Bare,
				Regime:     domain.ReelFoncier,
				Acquisition: domain.Acquisition{
					PurchasePrice:   d(220000),
					NotaryFees:      d(16500),
					AgencyFees:      d(6000),
					RenovationCosts: d(18000),
				},
				Financing: domain.Financing{
					LoanAmount:     d(200000),
					AnnualRate:     decimal.RequireFromString("3.4"),
					DurationYears:  20,
					InsuranceRate:  decimal.RequireFromString("0.3"),
					DeferralType:   domain.DeferralPartial,
					DeferralMonths: 12,
					StartDate:      "2025-03-01",
				},
				Project: domain.ProjectWindow{StartDate: "2025-03-01", TargetSaleYear: 2034},
				Resale:  domain.Resale{SalePrice: &salePrice, SaleFees: d(8000)},
				Tax: domain.TaxParameters{
					MarginalRate: d(30),
					SocialRate:   decimal.RequireFromString("17.2"),
					PriorDeficit: d(2500),
				},
				Expenses: flatExpenses,
			},
			{
				ID:         "nantes-studio",
				Name:       "Nantes - furnished studio",
				RentalType: domain.Furnished,
				Regime:     domain.ReelBIC,
				Acquisition: domain.Acquisition{
					PurchasePrice: d(120000),
					NotaryFees:    d(9000),
					FurnitureCost: d(6000),
				},
				Financing: domain.Financing{
					LoanAmount:    d(110000),
					AnnualRate:    decimal.RequireFromString("3.6"),
					DurationYears: 15,
					InsuranceRate: decimal.RequireFromString("0.25"),
					StartDate:     "2025-01-01",
				},
				Project: domain.ProjectWindow{StartDate: "2025-01-01", EndDate: "2034-12-31"},
				Resale:  domain.Resale{AnnualAppreciation: decimal.RequireFromString("1.5"), SaleFees: d(5000)},
				Tax: domain.TaxParameters{
					MarginalRate:   d(30),
					SocialRate:     decimal.RequireFromString("17.2"),
					BuildingValue:  d(100000),
					BuildingYears:  30,
					FurnitureValue: d(6000),
					FurnitureYears: 7,
				},
				Expenses: studioExpenses,
			},
		},
		SCIs: []domain.SCI{
			{
				ID:          "family-sci",
				Name:        "SCI Familiale",
				PropertyIDs: []string{"lyon-flat", "nantes-studio"},
				OperatingCosts: domain.OperatingCosts{
					Accounting: d(1200),
					Banking:    d(150),
					Legal:      d(300),
				},
			},
		},
	}
}
