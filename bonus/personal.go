/*
personal.go - Personal (area) score from the objective tree

TREE AS ARENA:
  Objectives arrive flat. Children are grouped by ParentID in one pass,
  so scoring is O(n) with no per-node lookups.

MAIN OBJECTIVE ACHIEVEMENT:
  - No children: its own achievement (absent until evaluated).
  - With children: the mean of the children's achievements, subject to
    the SubObjectivePolicy:
      PolicyAverageEvaluated  mean over evaluated children; absent if none
      PolicyRequireAll        absent until every child is evaluated

PERSONAL COMPLETION:
  Mean of clamp(achievement, 0, 100) over main objectives that have an
  achievement. Unevaluated ones are excluded, not zeroed. EvaluatedCount
  vs TotalCount lets callers flag a provisional result.
*/
package bonus

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/generic"
)

// SubObjectivePolicy decides when a split objective counts.
type SubObjectivePolicy string

const (
	PolicyAverageEvaluated SubObjectivePolicy = "average_evaluated"
	PolicyRequireAll       SubObjectivePolicy = "require_all"
)

// Valid reports whether p is a known policy.
func (p SubObjectivePolicy) Valid() bool {
	return p == PolicyAverageEvaluated || p == PolicyRequireAll
}

// SubObjectiveScore itemizes one sub-objective.
type SubObjectiveScore struct {
	ID          ObjectiveID
	Number      int
	Title       string
	Achievement decimal.NullDecimal
}

// ObjectiveScore itemizes one main objective.
type ObjectiveScore struct {
	ID                ObjectiveID
	Title             string
	Periodicity       Periodicity
	Achievement       decimal.NullDecimal // own or derived from children
	Clamped           decimal.NullDecimal // what feeds the completion
	SubObjectives     []SubObjectiveScore
	EvaluatedChildren int
	TotalChildren     int
}

// PersonalBreakdown is the full personal component.
type PersonalBreakdown struct {
	Policy         SubObjectivePolicy
	Objectives     []ObjectiveScore
	EvaluatedCount int
	TotalCount     int
	Completion     decimal.Decimal
	Orphans        int // sub-objectives whose parent is not in the set
}

// Provisional reports whether some main objective is not yet evaluated.
func (p PersonalBreakdown) Provisional() bool {
	return p.EvaluatedCount < p.TotalCount
}

// ScorePersonal scores the objectives of one employee and year.
// Rows for other employees or years are ignored.
func ScorePersonal(objectives []PersonalObjective, employeeID EmployeeID, year int, policy SubObjectivePolicy) PersonalBreakdown {
	if !policy.Valid() {
		policy = PolicyAverageEvaluated
	}

	var mains []PersonalObjective
	children := make(map[ObjectiveID][]PersonalObjective)
	for _, o := range objectives {
		if o.EmployeeID != employeeID || o.Year != year {
			continue
		}
		if o.IsMain() {
			mains = append(mains, o)
		} else {
			children[o.ParentID] = append(children[o.ParentID], o)
		}
	}

	out := PersonalBreakdown{
		Policy:     policy,
		Objectives: make([]ObjectiveScore, 0, len(mains)),
		TotalCount: len(mains),
	}

	known := make(map[ObjectiveID]bool, len(mains))
	clamped := make([]decimal.NullDecimal, 0, len(mains))
	for _, m := range mains {
		known[m.ID] = true
		s := scoreMain(m, children[m.ID], policy)
		out.Objectives = append(out.Objectives, s)
		clamped = append(clamped, s.Clamped)
	}
	for parent, kids := range children {
		if !known[parent] {
			out.Orphans += len(kids)
		}
	}

	out.Completion, out.EvaluatedCount = generic.Mean(clamped)
	return out
}

func scoreMain(m PersonalObjective, kids []PersonalObjective, policy SubObjectivePolicy) ObjectiveScore {
	s := ObjectiveScore{
		ID:            m.ID,
		Title:         m.Title,
		Periodicity:   m.Periodicity,
		TotalChildren: len(kids),
	}

	if len(kids) == 0 {
		s.Achievement = m.Achievement
	} else {
		sort.SliceStable(kids, func(i, j int) bool {
			return kids[i].SubObjectiveNumber < kids[j].SubObjectiveNumber
		})
		achievements := make([]decimal.NullDecimal, 0, len(kids))
		s.SubObjectives = make([]SubObjectiveScore, 0, len(kids))
		for _, k := range kids {
			s.SubObjectives = append(s.SubObjectives, SubObjectiveScore{
				ID:          k.ID,
				Number:      k.SubObjectiveNumber,
				Title:       k.Title,
				Achievement: k.Achievement,
			})
			achievements = append(achievements, k.Achievement)
		}

		mean, n := generic.Mean(achievements)
		s.EvaluatedChildren = n
		switch {
		case n == 0:
		case policy == PolicyRequireAll && n < len(kids):
		default:
			s.Achievement = generic.ValidDecimal(mean)
		}
	}

	if s.Achievement.Valid {
		s.Clamped = generic.ValidDecimal(generic.ClampPercent(s.Achievement.Decimal))
	}
	return s
}
