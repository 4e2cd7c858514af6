package bonus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// SENIORITY RESOLUTION
// =============================================================================

func TestResolveSeniority(t *testing.T) {
	promoted := &SeniorityHistoryEntry{EmployeeID: "emp-1", NewLevel: "Semi-senior", EffectiveDate: generic.MustParseDate("2023-06-01")}

	tests := []struct {
		name       string
		current    *string
		year       int
		asOfYear   int
		entry      *SeniorityHistoryEntry
		wantLevel  string
		wantSource SenioritySource
		wantTier   Tier
		wantClass  bool
	}{
		{"current year uses current level", strPtr("Senior"), 2024, 2024, promoted, "Senior", SeniorityCurrent, 3, true},
		{"past year uses history", strPtr("Senior"), 2023, 2024, promoted, "Semi-senior", SeniorityHistory, 2, true},
		{"past year without history falls back", strPtr("Senior"), 2022, 2024, nil, "Senior", SeniorityFallback, 3, true},
		{"no level anywhere", nil, 2022, 2024, nil, "", SeniorityNone, 1, false},
		{"unknown label gets lowest tier", strPtr("Wizard"), 2024, 2024, nil, "Wizard", SeniorityCurrent, 1, false},
		{"label is case and space insensitive", strPtr("  SENIOR "), 2024, 2024, nil, "  SENIOR ", SeniorityCurrent, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := Employee{ID: "emp-1", CurrentSeniorityLevel: tt.current}

			got := ResolveSeniority(emp, tt.year, tt.asOfYear, tt.entry, defaultClassifier(), 1)

			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, tt.wantClass, got.Classified)
		})
	}
}

func TestResolveSeniority_HistoryEffectiveDate(t *testing.T) {
	entry := &SeniorityHistoryEntry{NewLevel: "Junior", EffectiveDate: generic.MustParseDate("2021-02-01")}

	got := ResolveSeniority(Employee{}, 2021, 2025, entry, defaultClassifier(), 1)

	assert.Equal(t, "2021-02-01", got.EffectiveDate)
}

func TestNeedsHistory(t *testing.T) {
	assert.False(t, NeedsHistory(2024, 2024))
	assert.True(t, NeedsHistory(2023, 2024))
	assert.True(t, NeedsHistory(2025, 2024))
}

// =============================================================================
// WEIGHTS
// =============================================================================

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, Weights{Company: d(40), Area: d(60)}.Validate())
	assert.ErrorIs(t, Weights{Company: d(40), Area: d(50)}.Validate(), generic.ErrInvalidInput)
	assert.ErrorIs(t, Weights{Company: d(-10), Area: d(110)}.Validate(), generic.ErrInvalidInput)
}

func TestTierTable(t *testing.T) {
	table := defaultTable(t)

	assert.Equal(t, Tier(1), table.LowestTier())
	assert.Equal(t, []Tier{1, 2, 3}, table.Tiers())

	w, ok := WeightsFor(table, 2)
	assert.True(t, ok)
	assertDecimal(t, 30, w.Company)

	w, ok = WeightsFor(table, 9)
	assert.False(t, ok, "missing tier falls back")
	assertDecimal(t, 20, w.Company)
	assertDecimal(t, 80, w.Area)
}

func TestNewTierTable_Rejects(t *testing.T) {
	_, err := NewTierTable(nil)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)

	_, err = NewTierTable(map[Tier]Weights{1: {Company: d(50), Area: d(40)}})
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

// =============================================================================
// PRORATION
// =============================================================================

func TestProrate(t *testing.T) {
	tests := []struct {
		name        string
		hire        *generic.TimePoint
		wantApplied bool
		wantMonths  int
		wantFactor  float64
	}{
		{"unknown hire date", nil, false, 12, 1},
		{"hired in a previous year", datePtr("2019-07-01"), false, 12, 1},
		{"hired on Jan 1", datePtr("2024-01-01"), false, 12, 1},
		{"hired Jan 2 counts January", datePtr("2024-01-02"), true, 12, 1},
		{"hired Mar 15", datePtr("2024-03-15"), true, 10, 10.0 / 12},
		{"hired Dec 31", datePtr("2024-12-31"), true, 1, 1.0 / 12},
		{"hired after the year", datePtr("2025-02-01"), false, 12, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prorate(tt.hire, 2024)

			assert.Equal(t, tt.wantApplied, got.Applied)
			assert.Equal(t, tt.wantMonths, got.MonthsWorked)
			assert.InDelta(t, tt.wantFactor, got.Factor.InexactFloat64(), 1e-9)
		})
	}
}

func TestProrate_ReportsHireDate(t *testing.T) {
	got := Prorate(datePtr("2024-03-15"), 2024)
	require.True(t, got.Applied)
	assert.Equal(t, "2024-03-15", got.HireDate)
}
