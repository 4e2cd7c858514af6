package bonus

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
)

// Weights is the company/area split for a tier. The two always sum to 100.
type Weights struct {
	Company decimal.Decimal
	Area    decimal.Decimal
}

// Validate checks the split sums to 100 and neither side is negative.
func (w Weights) Validate() error {
	if w.Company.IsNegative() || w.Area.IsNegative() {
		return fmt.Errorf("%w: negative weight %s/%s", generic.ErrInvalidInput, w.Company, w.Area)
	}
	if !w.Company.Add(w.Area).Equal(generic.Hundred) {
		return fmt.Errorf("%w: weights %s + %s != 100", generic.ErrInvalidInput, w.Company, w.Area)
	}
	return nil
}

// WeightTable resolves a tier to its split.
type WeightTable interface {
	Lookup(tier Tier) (Weights, bool)
	LowestTier() Tier
}

// TierTable is the in-memory WeightTable built from configuration.
type TierTable struct {
	tiers  map[Tier]Weights
	lowest Tier
}

// NewTierTable validates every split and remembers the lowest tier.
func NewTierTable(tiers map[Tier]Weights) (*TierTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: empty weight table", generic.ErrInvalidInput)
	}
	t := &TierTable{tiers: make(map[Tier]Weights, len(tiers))}
	first := true
	for tier, w := range tiers {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("tier %d: %w", tier, err)
		}
		t.tiers[tier] = w
		if first || tier < t.lowest {
			t.lowest, first = tier, false
		}
	}
	return t, nil
}

func (t *TierTable) Lookup(tier Tier) (Weights, bool) {
	w, ok := t.tiers[tier]
	return w, ok
}

func (t *TierTable) LowestTier() Tier { return t.lowest }

// Tiers returns the configured tiers in ascending order.
func (t *TierTable) Tiers() []Tier {
	out := make([]Tier, 0, len(t.tiers))
	for tier := range t.tiers {
		out = append(out, tier)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// WeightsFor resolves tier, falling back to the lowest tier's split.
// The bool is false when the fallback was used.
func WeightsFor(table WeightTable, tier Tier) (Weights, bool) {
	if w, ok := table.Lookup(tier); ok {
		return w, true
	}
	w, _ := table.Lookup(table.LowestTier())
	return w, false
}

// =============================================================================
// CORPORATE SPLIT - identical for every employee
// =============================================================================

var (
	// BillingWeight is the share of the company component driven by billing.
	BillingWeight = decimal.NewFromInt(70)

	// NPSWeight is the share of the company component driven by NPS.
	NPSWeight = decimal.NewFromInt(30)
)
