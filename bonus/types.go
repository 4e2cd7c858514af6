/*
Package bonus implements the annual compensation bonus engine.

PURPOSE:
  Turns raw performance inputs (company objectives, personal objectives,
  seniority, hire date) into one audited bonus percentage. Every
  intermediate figure is kept on the Result so HR and finance can review
  how the number was reached, not just the number.

PIPELINE:
  1. Seniority:  resolve the level held during the evaluated year -> Tier
  2. Weights:    Tier -> company/area split (sums to 100)
  3. Corporate:  billing (gated, capped, clamped) + NPS (binary per quarter)
  4. Personal:   main objectives, sub-objectives averaged up to their parent
  5. Proration:  months worked in the evaluated year / 12
  6. Aggregate:  (company*companyWeight + personal*areaWeight)/100 * proration

PURITY:
  Calculator is a pure function of its Inputs. It never reads the clock
  (the "as of" date is injected) and never touches storage. Service does
  the fetching; BatchRunner fans Service out over a cohort.

MISSING DATA:
  A missing corporate objective, personal objective or seniority record
  degrades to a visible zero/null on the Result. Only a missing employee
  stops a computation, and only that one.

SEE ALSO:
  - calculator.go: Calculate, the pure entry point
  - service.go: fetch + calculate for one employee
  - batch.go: cohort runs with shared corporate objectives
*/
package bonus

import (
	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type ObjectiveID string

// =============================================================================
// EMPLOYEE & SENIORITY HISTORY
// =============================================================================

// Employee is the read-only snapshot the engine needs from the HR record.
type Employee struct {
	ID                    EmployeeID
	Name                  string
	HireDate              *generic.TimePoint // nil when unknown
	CurrentSeniorityLevel *string            // nil when never assigned
	Department            string
}

// SeniorityHistoryEntry is one row of the append-only seniority log.
type SeniorityHistoryEntry struct {
	EmployeeID    EmployeeID
	NewLevel      string
	EffectiveDate generic.TimePoint
}

// =============================================================================
// CORPORATE OBJECTIVES
// =============================================================================

type CorporateObjectiveType string

const (
	ObjectiveBilling CorporateObjectiveType = "billing"
	ObjectiveNPS     CorporateObjectiveType = "nps"
)

var (
	// DefaultGatePercentage applies when an objective carries no gate.
	DefaultGatePercentage = decimal.NewFromInt(90)

	// DefaultCapPercentage applies when an objective carries no cap.
	DefaultCapPercentage = decimal.NewFromInt(150)
)

// CorporateObjective is a company-wide target for one year.
// At most one billing objective and one NPS objective per quarter exist per year.
type CorporateObjective struct {
	Year           int
	Type           CorporateObjectiveType
	Quarter        int // 1..4 for NPS, 0 for billing
	TargetValue    decimal.NullDecimal
	ActualValue    decimal.NullDecimal
	GatePercentage decimal.NullDecimal // absent -> DefaultGatePercentage
	CapPercentage  decimal.NullDecimal // absent -> DefaultCapPercentage
}

// Gate returns the effective gate percentage.
func (o CorporateObjective) Gate() decimal.Decimal {
	return generic.OrDefault(o.GatePercentage, DefaultGatePercentage)
}

// Cap returns the effective cap percentage.
func (o CorporateObjective) Cap() decimal.Decimal {
	return generic.OrDefault(o.CapPercentage, DefaultCapPercentage)
}

// =============================================================================
// PERSONAL OBJECTIVES
// =============================================================================

type Periodicity string

const (
	PeriodicityAnnual     Periodicity = "annual"
	PeriodicitySemestral  Periodicity = "semestral"
	PeriodicityTrimestral Periodicity = "trimestral"
)

// ExpectedChildren returns how many sub-objectives a main objective of this
// periodicity is split into, or 0 when it is not split.
func (p Periodicity) ExpectedChildren() int {
	switch p {
	case PeriodicitySemestral:
		return 2
	case PeriodicityTrimestral:
		return 4
	default:
		return 0
	}
}

// PersonalObjective is one node of an employee's objective tree.
// A main objective has an empty ParentID; sub-objectives point at it.
type PersonalObjective struct {
	ID                 ObjectiveID
	EmployeeID         EmployeeID
	Year               int
	Title              string
	ParentID           ObjectiveID
	Periodicity        Periodicity
	Achievement        decimal.NullDecimal // absent until evaluated
	SubObjectiveNumber int
}

// IsMain reports whether the objective is a root of the tree.
func (o PersonalObjective) IsMain() bool { return o.ParentID == "" }
