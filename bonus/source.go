package bonus

import (
	"context"

	"github.com/warp/bonus-engine/generic"
)

// =============================================================================
// SOURCES - read-only ports owned by the HR CRUD side
// =============================================================================

// EmployeeSource returns employee snapshots.
type EmployeeSource interface {
	// GetEmployee returns (nil, nil) when the employee does not exist.
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)

	// ListEmployees returns every employee, ordered by id.
	ListEmployees(ctx context.Context) ([]Employee, error)
}

// SeniorityHistorySource reads the append-only seniority log.
type SeniorityHistorySource interface {
	// LatestSeniorityAsOf returns the most recent entry effective on or before
	// date, or (nil, nil) when there is none.
	LatestSeniorityAsOf(ctx context.Context, id EmployeeID, date generic.TimePoint) (*SeniorityHistoryEntry, error)
}

// CorporateObjectiveSource reads company-wide objectives.
type CorporateObjectiveSource interface {
	CorporateObjectives(ctx context.Context, year int) ([]CorporateObjective, error)
}

// PersonalObjectiveSource reads an employee's objective tree as a flat list.
type PersonalObjectiveSource interface {
	PersonalObjectives(ctx context.Context, id EmployeeID, year int) ([]PersonalObjective, error)
}

// Sources bundles every port the engine reads from.
type Sources interface {
	EmployeeSource
	SeniorityHistorySource
	CorporateObjectiveSource
	PersonalObjectiveSource
}
