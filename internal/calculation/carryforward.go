package calculation

import (
	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// DeficitLayer is the deficit generated in one year, still available.
type DeficitLayer struct {
	Year   int
	Amount decimal.Decimal
}

// DeficitLayers are carried deficits, oldest first.
type DeficitLayers []DeficitLayer

// Total sums the remaining layers.
func (l DeficitLayers) Total() decimal.Decimal {
	total := decimal.Zero
	for _, layer := range l {
		total = total.Add(layer.Amount)
	}
	return total
}

// Expire drops layers that can no longer be used in year: a deficit
// generated in year Y is usable up to year Y+horizon.
func (l DeficitLayers) Expire(year, horizon int) DeficitLayers {
	var out DeficitLayers
	for _, layer := range l {
		if layer.Year+horizon >= year {
			out = append(out, layer)
		}
	}
	return out
}

// Add appends a new layer. Zero amounts are not recorded.
func (l DeficitLayers) Add(year int, amount decimal.Decimal) DeficitLayers {
	if !amount.IsPositive() {
		return l
	}
	out := append(DeficitLayers(nil), l...)
	return append(out, DeficitLayer{Year: year, Amount: amount})
}

// Consume uses up to limit from the layers, oldest first, and returns the
// amount used and the remaining layers.
func (l DeficitLayers) Consume(limit decimal.Decimal) (decimal.Decimal, DeficitLayers) {
	used := decimal.Zero
	var out DeficitLayers
	for _, layer := range l {
		room := limit.Sub(used)
		if !room.IsPositive() {
			out = append(out, layer)
			continue
		}
		take := decimal.Min(room, layer.Amount)
		used = used.Add(take)
		if rest := layer.Amount.Sub(take); rest.IsPositive() {
			out = append(out, DeficitLayer{Year: layer.Year, Amount: rest})
		}
	}
	return used, out
}

// CarryForward is the state handed from one tax year to the next.
// Each real regime owns its fields; the micro regimes carry nothing.
type CarryForward struct {
	FoncierDeficits    DeficitLayers
	BICDeficits        DeficitLayers
	ExcessDepreciation decimal.Decimal
}

// InitialCarryForward seeds both real regimes with the investment's prior
// deficit, dated the year before the project starts.
func InitialCarryForward(inv *domain.Investment) CarryForward {
	prior := inv.Tax.PriorDeficit
	seed := inv.StartYear() - 1
	return CarryForward{
		FoncierDeficits:    DeficitLayers(nil).Add(seed, prior),
		BICDeficits:        DeficitLayers(nil).Add(seed, prior),
		ExcessDepreciation: decimal.Zero,
	}
}
