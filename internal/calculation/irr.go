package calculation

import (
	"math"

	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Search interval and precision of the IRR solver. Rates are annual
// fractions: -0.99 is -99%, 10 is +1000%.
const (
	irrLow           = -0.99
	irrHigh          = 10.0
	irrGridStep      = 0.01
	irrTolerance     = 1e-10
	irrMaxIterations = 200
	irrPlaces        = 6
)

// NPV discounts yearly flows at rate; flows[0] is undiscounted.
func NPV(rate float64, flows []float64) float64 {
	npv := 0.0
	factor := 1.0
	for _, cf := range flows {
		npv += cf / factor
		factor *= 1 + rate
	}
	return npv
}

// SolveIRR finds the rate in [irrLow, irrHigh] at which the NPV of flows is
// zero. The interval is scanned on a grid for the first sign change, which
// is then refined by bisection. ok is false when no sign change exists.
func SolveIRR(flows []float64) (float64, bool) {
	if len(flows) < 2 {
		return 0, false
	}

	lo := irrLow
	npvLo := NPV(lo, flows)
	if npvLo == 0 {
		return lo, true
	}
	for hi := lo + irrGridStep; hi <= irrHigh+irrGridStep/2; hi += irrGridStep {
		npvHi := NPV(hi, flows)
		if npvHi == 0 {
			return hi, true
		}
		if math.Signbit(npvLo) != math.Signbit(npvHi) {
			return bisect(flows, lo, hi, npvLo), true
		}
		lo, npvLo = hi, npvHi
	}
	return 0, false
}

func bisect(flows []float64, lo, hi, npvLo float64) float64 {
	for i := 0; i < irrMaxIterations && hi-lo > irrTolerance; i++ {
		mid := (lo + hi) / 2
		npvMid := NPV(mid, flows)
		if npvMid == 0 {
			return mid
		}
		if math.Signbit(npvMid) == math.Signbit(npvLo) {
			lo, npvLo = mid, npvMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// IRR solves a decimal cash-flow series. The rate is rounded to six places.
func IRR(flows []decimal.Decimal) domain.IRRResult {
	floats := make([]float64, len(flows))
	for i, cf := range flows {
		floats[i] = cf.InexactFloat64()
	}
	res := domain.IRRResult{CashFlows: flows}
	rate, ok := SolveIRR(floats)
	if !ok {
		return res
	}
	res.Rate = decimal.NewFromFloat(rate).Round(irrPlaces)
	res.Finite = true
	return res
}
