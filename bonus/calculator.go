package bonus

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// INPUTS & RESULT
// =============================================================================

// Inputs is the immutable snapshot one calculation runs on.
type Inputs struct {
	Employee Employee
	Year     int
	AsOf     generic.TimePoint

	// SeniorityEntry is the latest history row effective by Dec 31 of Year.
	// Ignored when Year is the as-of year.
	SeniorityEntry *SeniorityHistoryEntry

	CorporateObjectives []CorporateObjective
	PersonalObjectives  []PersonalObjective
}

// Result is the fully itemized bonus for one employee and year.
type Result struct {
	EmployeeID   EmployeeID
	EmployeeName string
	Department   string
	Year         int
	AsOf         string

	Seniority     SeniorityResolution
	Weights       Weights
	WeightsForced bool // tier missing from the table, lowest tier used

	Corporate CorporateBreakdown
	Personal  PersonalBreakdown
	Proration Proration

	CompanyScore  decimal.Decimal
	PersonalScore decimal.Decimal
	WeightedBase  decimal.Decimal // before proration
	FinalBonus    decimal.Decimal // after proration
	Provisional   bool            // an evaluation or corporate target is still missing
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator holds immutable configuration and is safe for concurrent use.
type Calculator struct {
	classifier Classifier
	weights    WeightTable
	curve      CompletionCurve
	policy     SubObjectivePolicy
}

// Option customizes a Calculator.
type Option func(*Calculator)

// WithCurve swaps the billing completion curve.
func WithCurve(c CompletionCurve) Option {
	return func(calc *Calculator) { calc.curve = c }
}

// WithSubObjectivePolicy selects how split objectives roll up.
func WithSubObjectivePolicy(p SubObjectivePolicy) Option {
	return func(calc *Calculator) { calc.policy = p }
}

// NewCalculator builds a Calculator. The weight table is required.
func NewCalculator(classifier Classifier, weights WeightTable, opts ...Option) (*Calculator, error) {
	if weights == nil {
		return nil, fmt.Errorf("%w: weight table is required", generic.ErrInvalidInput)
	}
	if _, ok := weights.Lookup(weights.LowestTier()); !ok {
		return nil, fmt.Errorf("%w: lowest tier %d has no weights", generic.ErrInvalidInput, weights.LowestTier())
	}
	c := &Calculator{
		classifier: classifier,
		weights:    weights,
		curve:      LinearCurve{},
		policy:     PolicyAverageEvaluated,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.policy.Valid() {
		return nil, fmt.Errorf("%w: sub-objective policy %q", generic.ErrInvalidInput, c.policy)
	}
	if c.curve == nil {
		c.curve = LinearCurve{}
	}
	return c, nil
}

// Policy returns the configured sub-objective policy.
func (c *Calculator) Policy() SubObjectivePolicy { return c.policy }

// Calculate is pure: same Inputs, same Result, digit for digit.
func (c *Calculator) Calculate(in Inputs) Result {
	emp := in.Employee

	seniority := ResolveSeniority(emp, in.Year, in.AsOf.Year(), in.SeniorityEntry, c.classifier, c.weights.LowestTier())
	weights, found := WeightsFor(c.weights, seniority.Tier)

	corporate := ScoreCorporate(in.CorporateObjectives, in.Year, c.curve)
	personal := ScorePersonal(in.PersonalObjectives, emp.ID, in.Year, c.policy)
	proration := Prorate(emp.HireDate, in.Year)

	base := generic.Weighted(corporate.Score, weights.Company, personal.Completion, weights.Area)

	return Result{
		EmployeeID:    emp.ID,
		EmployeeName:  emp.Name,
		Department:    emp.Department,
		Year:          in.Year,
		AsOf:          in.AsOf.String(),
		Seniority:     seniority,
		Weights:       weights,
		WeightsForced: !found,
		Corporate:     corporate,
		Personal:      personal,
		Proration:     proration,
		CompanyScore:  corporate.Score,
		PersonalScore: personal.Completion,
		WeightedBase:  base,
		FinalBonus:    base.Mul(proration.Factor),
		Provisional:   personal.Provisional() || personal.TotalCount == 0 || !corporate.Billing.Configured,
	}
}
