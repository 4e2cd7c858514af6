/*
seniority.go - Seniority resolution for an evaluated year

PURPOSE:
  A bonus paid after a promotion (or a departure) must use the seniority
  held during the evaluated year, not today's. This file picks the level
  label that was effective and maps it to a weight Tier.

RULES:
  - Evaluated year == as-of year: the employee's current level.
  - Otherwise: the latest history entry effective on or before Dec 31 of
    the evaluated year; without one, the current level again.
  - Labels the classifier does not know (or no label at all) fall to the
    lowest tier of the weight table.

SEE ALSO:
  - weights.go: Tier -> company/area split
  - factory/weights.go: builds LabelClassifier from config
*/
package bonus

import (
	"strings"
)

// Tier is a seniority bucket selecting a weight split. Higher is more senior.
type Tier int

// Classifier maps a seniority label to a tier.
type Classifier interface {
	Classify(label string) (Tier, bool)
}

// LabelClassifier is a case-insensitive label -> tier map.
type LabelClassifier map[string]Tier

// Classify implements Classifier. Surrounding whitespace and case are ignored.
func (c LabelClassifier) Classify(label string) (Tier, bool) {
	t, ok := c[normalizeLabel(label)]
	return t, ok
}

// NewLabelClassifier normalizes keys so lookups are case-insensitive.
func NewLabelClassifier(labels map[string]Tier) LabelClassifier {
	c := make(LabelClassifier, len(labels))
	for label, tier := range labels {
		c[normalizeLabel(label)] = tier
	}
	return c
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// SenioritySource says where the resolved level came from.
type SenioritySource string

const (
	SeniorityCurrent  SenioritySource = "current"  // evaluated year is the as-of year
	SeniorityHistory  SenioritySource = "history"  // history entry effective by Dec 31
	SeniorityFallback SenioritySource = "fallback" // past year without history, current level used
	SeniorityNone     SenioritySource = "none"     // no level anywhere
)

// SeniorityResolution is the audited outcome of seniority lookup.
type SeniorityResolution struct {
	Level      string
	Source     SenioritySource
	Tier       Tier
	Classified bool // false when Tier is the lowest-tier default

	// EffectiveDate is set when Source is SeniorityHistory.
	EffectiveDate string
}

// NeedsHistory reports whether resolving year as of asOfYear consults the log.
func NeedsHistory(year, asOfYear int) bool {
	return year != asOfYear
}

// ResolveSeniority picks the level effective during year and classifies it.
// entry is the latest history row effective on or before Dec 31 of year,
// or nil when none exists (or when it was not fetched because year is current).
func ResolveSeniority(emp Employee, year, asOfYear int, entry *SeniorityHistoryEntry, classifier Classifier, lowest Tier) SeniorityResolution {
	res := SeniorityResolution{Source: SeniorityNone}

	switch {
	case !NeedsHistory(year, asOfYear):
		if emp.CurrentSeniorityLevel != nil {
			res.Level, res.Source = *emp.CurrentSeniorityLevel, SeniorityCurrent
		}
	case entry != nil:
		res.Level, res.Source = entry.NewLevel, SeniorityHistory
		res.EffectiveDate = entry.EffectiveDate.String()
	case emp.CurrentSeniorityLevel != nil:
		res.Level, res.Source = *emp.CurrentSeniorityLevel, SeniorityFallback
	}

	res.Tier = lowest
	if res.Level != "" && classifier != nil {
		if t, ok := classifier.Classify(res.Level); ok {
			res.Tier, res.Classified = t, true
		}
	}
	return res
}
