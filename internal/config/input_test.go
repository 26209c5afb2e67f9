package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const minimalPortfolio = `
tax_rules:
  deficit_cap: 15300
investments:
  - id: flat
    name: "Flat"
    rental_type: nue
    regime: reel_foncier
    acquisition:
      purchase_price: 200000
      notary_fees: "15000.50"
    financing:
      loan_amount: 180000
      annual_rate: 3.5
      duration_years: 20
      deferral_type: partiel
      deferral_months: 6
      start_date: "2024-01-01"
    project:
      start_date: "2024-01-01"
      target_sale_year: 2034
    tax:
      marginal_rate: 30
      social_rate: 17.2
    expenses:
      - year: 2024
        bare_rent: 12000
        property_tax: 1200
  - name: "No id yet"
    rental_type: meublé
scis:
  - id: sci
    property_ids: [flat]
`

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
	assert.NotNil(t, parser.NewID)
}

func TestParse_Success(t *testing.T) {
	parser := NewInputParser()
	parser.NewID = func() string { return "generated" }

	p, err := parser.Parse([]byte(minimalPortfolio))
	require.NoError(t, err)
	require.Len(t, p.Investments, 2)
	require.Len(t, p.SCIs, 1)

	flat := p.Investments[0]
	assert.Equal(t, domain.Bare, flat.RentalType)
	assert.Equal(t, domain.ReelFoncier, flat.Regime)
	assert.Equal(t, domain.DeferralPartial, flat.Financing.DeferralType)
	assert.True(t, flat.Acquisition.NotaryFees.Equal(decimal.RequireFromString("15000.50")))
	assert.True(t, flat.Financing.AnnualRate.Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, 2034, flat.Project.TargetSaleYear)
	require.Len(t, flat.Expenses, 1)
	assert.True(t, flat.Expenses[0].BareRent.Equal(decimal.NewFromInt(12000)))

	assert.Equal(t, "generated", p.Investments[1].ID)
	assert.Equal(t, domain.Furnished, p.Investments[1].RentalType)
	assert.True(t, p.TaxRules.DeficitCap.Equal(decimal.NewFromInt(15300)))
}

func TestLoadFromFile_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalPortfolio), 0o600))

	p, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, p.Investments, 2)
	assert.NotEmpty(t, p.Investments[1].ID)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	p, err := NewInputParser().LoadFromFile("nonexistent_file.yaml")
	assert.Error(t, err)
	assert.Nil(t, p)
	assert.Contains(t, err.Error(), "failed to read file")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("investments: [: broken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParse_UnknownEnum(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("investments:\n  - id: a\n    regime: pinel\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tax regime")
}

func TestValidatePortfolio(t *testing.T) {
	inv := func(id string, years ...int) domain.Investment {
		out := domain.Investment{ID: id}
		for _, y := range years {
			out.Expenses = append(out.Expenses, domain.YearlyExpense{Year: y})
		}
		return out
	}

	tests := []struct {
		name      string
		portfolio domain.Portfolio
		wantErr   error
	}{
		{
			name:      "valid",
			portfolio: domain.Portfolio{Investments: []domain.Investment{inv("a", 2024, 2025), inv("b")}, SCIs: []domain.SCI{{ID: "s", PropertyIDs: []string{"a", "b"}}}},
		},
		{
			name:      "empty",
			portfolio: domain.Portfolio{},
			wantErr:   ErrNoInvestments,
		},
		{
			name:      "duplicate investment",
			portfolio: domain.Portfolio{Investments: []domain.Investment{inv("a"), inv("a")}},
			wantErr:   ErrDuplicateInvestment,
		},
		{
			name:      "duplicate expense year",
			portfolio: domain.Portfolio{Investments: []domain.Investment{inv("a", 2024, 2024)}},
			wantErr:   ErrDuplicateExpenseYear,
		},
		{
			name:      "unknown property",
			portfolio: domain.Portfolio{Investments: []domain.Investment{inv("a")}, SCIs: []domain.SCI{{ID: "s", PropertyIDs: []string{"zz"}}}},
			wantErr:   ErrUnknownProperty,
		},
		{
			name:      "duplicate sci",
			portfolio: domain.Portfolio{Investments: []domain.Investment{inv("a")}, SCIs: []domain.SCI{{ID: "s"}, {ID: "s"}}},
			wantErr:   ErrDuplicateSCI,
		},
		{
			name:      "property in two scis",
			portfolio: domain.Portfolio{Investments: []domain.Investment{inv("a")}, SCIs: []domain.SCI{{ID: "s", PropertyIDs: []string{"a"}}, {ID: "t", PropertyIDs: []string{"a"}}}},
			wantErr:   ErrPropertyInTwoSCIs,
		},
		{
			name:      "regime mismatch",
			portfolio: domain.Portfolio{Investments: []domain.Investment{{ID: "a", RentalType: domain.Bare, Regime: domain.MicroBIC}}},
			wantErr:   ErrRegimeMismatch,
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.ValidatePortfolio(&tt.portfolio)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestCreateExamplePortfolio(t *testing.T) {
	parser := NewInputParser()
	example := parser.CreateExamplePortfolio()

	require.NoError(t, parser.ValidatePortfolio(example))
	assert.Len(t, example.Investments, 2)
	assert.Len(t, example.SCIs, 1)

	data, err := yaml.Marshal(example)
	require.NoError(t, err)
	roundTrip, err := parser.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, example.Investments[0].ID, roundTrip.Investments[0].ID)
	assert.Equal(t, domain.DeferralPartial, roundTrip.Investments[0].Financing.DeferralType)
	assert.True(t, roundTrip.Investments[0].Acquisition.PurchasePrice.Equal(example.Investments[0].Acquisition.PurchasePrice))
}
