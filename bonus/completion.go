package bonus

import (
	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
)

// CompletionCurve turns actual vs. target into credit. Swapping the curve
// changes how attainment is scaled without touching the aggregation.
// Callers only pass strictly positive actual and target.
type CompletionCurve interface {
	// Completion is the percentage of target achieved, capped at capPercent.
	Completion(actual, target, capPercent decimal.Decimal) decimal.Decimal

	// GateMet reports whether actual reaches gatePercent of target.
	GateMet(actual, target, gatePercent decimal.Decimal) bool
}

// LinearCurve credits attainment proportionally: 95 of 100 is 95%.
type LinearCurve struct{}

func (LinearCurve) Completion(actual, target, capPercent decimal.Decimal) decimal.Decimal {
	return decimal.Min(generic.Ratio(actual, target), capPercent)
}

// GateMet compares actual*100 >= target*gate so no division is involved.
func (LinearCurve) GateMet(actual, target, gatePercent decimal.Decimal) bool {
	return actual.Mul(generic.Hundred).GreaterThanOrEqual(target.Mul(gatePercent))
}
