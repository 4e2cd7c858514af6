/*
corporate.go - Company score from billing and NPS objectives

BILLING (70% of the company score):
  - Gate: actual must reach gate% of target, otherwise the whole billing
    credit is 0. There is no partial credit below the gate.
  - RawCompletion is the curve's output, capped at cap% (default 150).
  - Completion, the value that feeds the score, is RawCompletion clamped
    to 100. Overachievement is reported but not paid.

NPS (30% of the company score):
  - Each configured quarter scores 100 when actual >= target, else 0.
  - Quarters without an objective are left out of the mean entirely.

EXAMPLE:
  billing 950k/1M gate 90  -> gate met, raw 95, completion 95
  NPS Q1 met, Q2 missed    -> (100 + 0) / 2 = 50
  company = (95*70 + 50*30) / 100 = 81.5
*/
package bonus

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
)

// BillingBreakdown itemizes the billing component.
type BillingBreakdown struct {
	Configured     bool
	TargetValue    decimal.NullDecimal
	ActualValue    decimal.NullDecimal
	GatePercentage decimal.Decimal
	CapPercentage  decimal.Decimal
	GateMet        bool
	RawCompletion  decimal.Decimal // capped at CapPercentage
	Completion     decimal.Decimal // 0 below the gate, else min(raw, 100)
	Ignored        int             // extra billing rows for the same year
}

// QuarterScore itemizes one configured NPS quarter.
type QuarterScore struct {
	Quarter     int
	TargetValue decimal.NullDecimal
	ActualValue decimal.NullDecimal
	Evaluable   bool
	Met         bool
	Score       decimal.Decimal // 100 or 0
}

// NPSBreakdown itemizes the NPS component.
type NPSBreakdown struct {
	Quarters   []QuarterScore // configured quarters only, ascending
	Completion decimal.Decimal
	Ignored    int // duplicate or out-of-range quarter rows
}

// CorporateBreakdown is the full company component.
type CorporateBreakdown struct {
	Billing       BillingBreakdown
	NPS           NPSBreakdown
	BillingWeight decimal.Decimal
	NPSWeight     decimal.Decimal
	Score         decimal.Decimal
}

// ScoreCorporate scores the objectives of one year. Objectives for other
// years are ignored. Input order decides which row wins on duplicates.
func ScoreCorporate(objectives []CorporateObjective, year int, curve CompletionCurve) CorporateBreakdown {
	if curve == nil {
		curve = LinearCurve{}
	}

	var billing *CorporateObjective
	billingIgnored := 0
	npsByQuarter := make(map[int]CorporateObjective, 4)
	npsIgnored := 0

	for _, o := range objectives {
		if o.Year != year {
			continue
		}
		switch o.Type {
		case ObjectiveBilling:
			if billing != nil {
				billingIgnored++
				continue
			}
			b := o
			billing = &b
		case ObjectiveNPS:
			if o.Quarter < 1 || o.Quarter > 4 {
				npsIgnored++
				continue
			}
			if _, dup := npsByQuarter[o.Quarter]; dup {
				npsIgnored++
				continue
			}
			npsByQuarter[o.Quarter] = o
		}
	}

	out := CorporateBreakdown{
		Billing:       scoreBilling(billing, curve),
		NPS:           scoreNPS(npsByQuarter),
		BillingWeight: BillingWeight,
		NPSWeight:     NPSWeight,
	}
	out.Billing.Ignored = billingIgnored
	out.NPS.Ignored = npsIgnored
	out.Score = generic.Weighted(out.Billing.Completion, BillingWeight, out.NPS.Completion, NPSWeight)
	return out
}

func scoreBilling(o *CorporateObjective, curve CompletionCurve) BillingBreakdown {
	if o == nil {
		return BillingBreakdown{
			GatePercentage: DefaultGatePercentage,
			CapPercentage:  DefaultCapPercentage,
			RawCompletion:  decimal.Zero,
			Completion:     decimal.Zero,
		}
	}

	b := BillingBreakdown{
		Configured:     true,
		TargetValue:    o.TargetValue,
		ActualValue:    o.ActualValue,
		GatePercentage: o.Gate(),
		CapPercentage:  o.Cap(),
		RawCompletion:  decimal.Zero,
		Completion:     decimal.Zero,
	}
	// Missing, zero or negative values are not evaluable; curves never see them.
	if !generic.Positive(o.TargetValue) || !generic.Positive(o.ActualValue) {
		return b
	}

	actual, target := o.ActualValue.Decimal, o.TargetValue.Decimal
	b.GateMet = curve.GateMet(actual, target, b.GatePercentage)
	b.RawCompletion = curve.Completion(actual, target, b.CapPercentage)
	if b.GateMet {
		b.Completion = generic.ClampPercent(b.RawCompletion)
	}
	return b
}

func scoreNPS(byQuarter map[int]CorporateObjective) NPSBreakdown {
	quarters := make([]int, 0, len(byQuarter))
	for q := range byQuarter {
		quarters = append(quarters, q)
	}
	sort.Ints(quarters)

	out := NPSBreakdown{Quarters: make([]QuarterScore, 0, len(quarters))}
	scores := make([]decimal.NullDecimal, 0, len(quarters))
	for _, q := range quarters {
		o := byQuarter[q]
		qs := QuarterScore{
			Quarter:     q,
			TargetValue: o.TargetValue,
			ActualValue: o.ActualValue,
			Evaluable:   o.TargetValue.Valid && o.ActualValue.Valid,
			Score:       decimal.Zero,
		}
		// NPS may legitimately be negative, so only absence makes a quarter unevaluable.
		if qs.Evaluable && o.ActualValue.Decimal.GreaterThanOrEqual(o.TargetValue.Decimal) {
			qs.Met = true
			qs.Score = generic.Hundred
		}
		out.Quarters = append(out.Quarters, qs)
		scores = append(scores, generic.ValidDecimal(qs.Score))
	}
	out.Completion, _ = generic.Mean(scores)
	return out
}
