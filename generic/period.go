package generic

// =============================================================================
// PERIOD - The evaluated window
// =============================================================================

// Period is a closed range of days [Start, End].
//
// Bonuses are always evaluated over a calendar year; Period exists so the
// proration and seniority code can ask "is this date inside the year" without
// re-deriving the bounds.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// CalendarYear returns Jan 1 - Dec 31 of year.
func CalendarYear(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
