/*
Package generic provides the domain-agnostic primitives of the bonus engine.

PURPOSE:
  This package contains the numeric and calendar building blocks shared by
  every calculator: percentages on decimal.Decimal, nullable values, means
  that skip missing data, and day-granular time points. Nothing here knows
  about employees, objectives or seniority.

KEY CONCEPTS IN THIS FILE (types.go):
  - Percent helpers: Hundred, Clamp, Ratio (percent of a whole)
  - Nullable values: decimal.NullDecimal constructors and guards
  - Mean: arithmetic mean that excludes absent values

DESIGN PRINCIPLES:
  1. Precision: all math on decimal.Decimal, never float64
  2. Determinism: identical inputs yield identical digits
  3. Absence is explicit: a missing value is NullDecimal{Valid: false},
     never a zero that silently drags an average down

USAGE:
  scores := []decimal.NullDecimal{generic.Valid(100), generic.Null(), generic.Valid(0)}
  mean, n := generic.Mean(scores)   // mean = 50, n = 2

SEE ALSO:
  - time.go: TimePoint and calendar helpers
  - period.go: evaluation periods
  - errors.go: sentinel errors
*/
package generic

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PERCENT
// =============================================================================

var (
	// Hundred is 100%, the ceiling for any score that feeds the bonus.
	Hundred = decimal.NewFromInt(100)

	// One is the neutral proration factor.
	One = decimal.NewFromInt(1)
)

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// ClampPercent bounds v to [0, 100].
func ClampPercent(v decimal.Decimal) decimal.Decimal {
	return Clamp(v, decimal.Zero, Hundred)
}

// Ratio returns part/whole expressed as a percentage.
// A non-positive whole yields zero.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(Hundred)
}

// Weighted returns (a*wa + b*wb) / 100, the blend used for every two-way split.
func Weighted(a, wa, b, wb decimal.Decimal) decimal.Decimal {
	return a.Mul(wa).Add(b.Mul(wb)).Div(Hundred)
}

// =============================================================================
// NULLABLE VALUES
// =============================================================================

// Null returns an absent value.
func Null() decimal.NullDecimal { return decimal.NullDecimal{} }

// Valid returns a present value from an int.
func Valid(v int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
}

// ValidDecimal wraps a decimal as a present value.
func ValidDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// FromFloat converts a float crossing the system boundary.
// NaN and ±Inf have no decimal representation and become absent.
func FromFloat(f float64) decimal.NullDecimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(f), Valid: true}
}

// Positive reports whether v is present and strictly greater than zero.
func Positive(v decimal.NullDecimal) bool {
	return v.Valid && v.Decimal.IsPositive()
}

// OrDefault returns v when present, def otherwise.
func OrDefault(v decimal.NullDecimal, def decimal.Decimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return def
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Mean returns the arithmetic mean of the present values and how many were
// counted. Absent values are excluded from both numerator and denominator.
// With no present values it returns (0, 0).
func Mean(values []decimal.NullDecimal) (decimal.Decimal, int) {
	sum := decimal.Zero
	n := 0
	for _, v := range values {
		if !v.Valid {
			continue
		}
		sum = sum.Add(v.Decimal)
		n++
	}
	if n == 0 {
		return decimal.Zero, 0
	}
	return sum.Div(decimal.NewFromInt(int64(n))), n
}
