/*
service.go - Fetch inputs and run the calculator for one employee

CONTROL FLOW:
  1. Load the employee; absent -> EmployeeNotFoundError
  2. Load seniority history only when the year is not the as-of year
  3. Use the prefetched corporate snapshot, or load objectives for the year
  4. Load the employee's personal objectives
  5. Calculator.Calculate

Data-layer failures are returned wrapped. Missing records are not errors:
the calculator turns them into visible zeros and nulls.
*/
package bonus

import (
	"context"
	"fmt"

	"github.com/warp/bonus-engine/generic"
)

// CorporateSnapshot is a year's corporate objectives fetched once and shared
// read-only by every computation in a batch.
type CorporateSnapshot struct {
	Year       int
	Objectives []CorporateObjective
}

// Service wires a Calculator to its data sources.
type Service struct {
	Sources    Sources
	Calculator *Calculator
}

// NewService returns a Service over src.
func NewService(src Sources, calc *Calculator) *Service {
	return &Service{Sources: src, Calculator: calc}
}

// PrefetchCorporate loads the corporate objectives of year once.
func (s *Service) PrefetchCorporate(ctx context.Context, year int) (*CorporateSnapshot, error) {
	if s.Sources == nil {
		return nil, generic.ErrSourceRequired
	}
	if err := validateYear(year); err != nil {
		return nil, err
	}
	objs, err := s.Sources.CorporateObjectives(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("load corporate objectives %d: %w", year, err)
	}
	return &CorporateSnapshot{Year: year, Objectives: objs}, nil
}

// Compute returns the bonus of one employee for year, evaluated as of asOf.
// prefetched may be nil; a snapshot for another year is ignored.
func (s *Service) Compute(ctx context.Context, id EmployeeID, year int, asOf generic.TimePoint, prefetched *CorporateSnapshot) (*Result, error) {
	in, err := s.Gather(ctx, id, year, asOf, prefetched)
	if err != nil {
		return nil, err
	}
	res := s.Calculator.Calculate(*in)
	return &res, nil
}

// Gather assembles the input snapshot without calculating.
func (s *Service) Gather(ctx context.Context, id EmployeeID, year int, asOf generic.TimePoint, prefetched *CorporateSnapshot) (*Inputs, error) {
	if s.Sources == nil {
		return nil, generic.ErrSourceRequired
	}
	if err := validateYear(year); err != nil {
		return nil, err
	}

	emp, err := s.Sources.GetEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load employee %s: %w", id, err)
	}
	if emp == nil {
		return nil, &EmployeeNotFoundError{EmployeeID: id, Year: year}
	}

	in := &Inputs{Employee: *emp, Year: year, AsOf: asOf}

	if NeedsHistory(year, asOf.Year()) {
		entry, err := s.Sources.LatestSeniorityAsOf(ctx, id, generic.EndOfYear(year))
		if err != nil {
			return nil, fmt.Errorf("load seniority history %s: %w", id, err)
		}
		in.SeniorityEntry = entry
	}

	if prefetched != nil && prefetched.Year == year {
		in.CorporateObjectives = prefetched.Objectives
	} else {
		objs, err := s.Sources.CorporateObjectives(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("load corporate objectives %d: %w", year, err)
		}
		in.CorporateObjectives = objs
	}

	personal, err := s.Sources.PersonalObjectives(ctx, id, year)
	if err != nil {
		return nil, fmt.Errorf("load personal objectives %s: %w", id, err)
	}
	in.PersonalObjectives = personal

	return in, nil
}
