package domain

import (
	"fmt"
	"strings"
)

// Regime identifies one of the four personal-income tax regimes for a rental.
type Regime string

const (
	MicroFoncier Regime = "micro-foncier"
	ReelFoncier  Regime = "reel-foncier"
	MicroBIC     Regime = "micro-bic"
	ReelBIC      Regime = "reel-bic"
)

// Regimes lists every regime in declaration order. Comparisons and reports
// iterate this slice so their output order is stable.
func Regimes() []Regime {
	return []Regime{MicroFoncier, ReelFoncier, MicroBIC, ReelBIC}
}

// ParseRegime accepts the canonical name plus a few spellings seen in input
// files ("reel_bic", "LMNP-reel", ...).
func ParseRegime(s string) (Regime, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer("_", "-", " ", "-", "é", "e").Replace(n)
	switch n {
	case "micro-foncier":
		return MicroFoncier, nil
	case "reel-foncier", "foncier-reel":
		return ReelFoncier, nil
	case "micro-bic", "lmnp-micro":
		return MicroBIC, nil
	case "reel-bic", "lmnp-reel", "bic-reel":
		return ReelBIC, nil
	}
	return "", fmt.Errorf("unknown tax regime %q", s)
}

// Valid reports whether r is one of the declared regimes.
func (r Regime) Valid() bool {
	for _, known := range Regimes() {
		if r == known {
			return true
		}
	}
	return false
}

// RentalType returns the rental type a regime applies to.
func (r Regime) RentalType() RentalType {
	if r == MicroBIC || r == ReelBIC {
		return Furnished
	}
	return Bare
}

// IsMicro reports whether r is a flat-allowance regime.
func (r Regime) IsMicro() bool {
	return r == MicroFoncier || r == MicroBIC
}

// UnmarshalText lets YAML and JSON decoders accept the lenient spellings.
func (r *Regime) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = ""
		return nil
	}
	parsed, err := ParseRegime(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RentalType selects which rent line feeds revenue.
type RentalType string

const (
	Bare      RentalType = "bare"
	Furnished RentalType = "furnished"
)

// UnmarshalText accepts "bare"/"nue" and "furnished"/"meuble".
func (t *RentalType) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "":
		*t = ""
	case "bare", "nue", "unfurnished":
		*t = Bare
	case "furnished", "meuble", "meublé", "lmnp":
		*t = Furnished
	default:
		return fmt.Errorf("unknown rental type %q", string(text))
	}
	return nil
}

// DeferralType describes how loan repayment is deferred at the start.
type DeferralType string

const (
	DeferralNone    DeferralType = "none"
	DeferralPartial DeferralType = "partial"
	DeferralTotal   DeferralType = "total"
)

// UnmarshalText accepts the English names and the French "partiel"/"total".
func (t *DeferralType) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "none", "aucun":
		*t = DeferralNone
	case "partial", "partiel":
		*t = DeferralPartial
	case "total":
		*t = DeferralTotal
	default:
		return fmt.Errorf("unknown deferral type %q", string(text))
	}
	return nil
}
