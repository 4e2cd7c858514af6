package bonus

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func nd(v float64) decimal.NullDecimal { return generic.ValidDecimal(d(v)) }

// assertDecimal compares to 6 places, enough to absorb repeating thirds.
func assertDecimal(t *testing.T, want float64, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, got.Round(6).Equal(d(want).Round(6)), "want %v, got %s", want, got)
}

func billing(year int, target, actual decimal.NullDecimal) CorporateObjective {
	return CorporateObjective{Year: year, Type: ObjectiveBilling, TargetValue: target, ActualValue: actual}
}

func npsQuarter(year, quarter int, target, actual decimal.NullDecimal) CorporateObjective {
	return CorporateObjective{Year: year, Type: ObjectiveNPS, Quarter: quarter, TargetValue: target, ActualValue: actual}
}

func objective(id string, achievement decimal.NullDecimal) PersonalObjective {
	return PersonalObjective{
		ID:          ObjectiveID(id),
		EmployeeID:  "emp-1",
		Year:        2024,
		Title:       id,
		Periodicity: PeriodicityAnnual,
		Achievement: achievement,
	}
}

func child(id, parent string, number int, achievement decimal.NullDecimal) PersonalObjective {
	o := objective(id, achievement)
	o.ParentID = ObjectiveID(parent)
	o.SubObjectiveNumber = number
	return o
}

func strPtr(s string) *string { return &s }

func datePtr(s string) *generic.TimePoint {
	tp := generic.MustParseDate(s)
	return &tp
}

func defaultTable(t *testing.T) *TierTable {
	t.Helper()
	table, err := NewTierTable(map[Tier]Weights{
		1: {Company: d(20), Area: d(80)},
		2: {Company: d(30), Area: d(70)},
		3: {Company: d(40), Area: d(60)},
	})
	if err != nil {
		t.Fatalf("Failed to build tier table: %v", err)
	}
	return table
}

func defaultClassifier() LabelClassifier {
	return NewLabelClassifier(map[string]Tier{"junior": 1, "semi-senior": 2, "senior": 3})
}
