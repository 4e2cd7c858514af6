package bonus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bonus-engine/generic"
)

func TestPersonal_NullsExcludedFromMean(t *testing.T) {
	// GIVEN: Three mains, one not yet evaluated
	objs := []PersonalObjective{
		objective("a", nd(80)),
		objective("b", generic.Null()),
		objective("c", nd(100)),
	}

	// WHEN
	got := ScorePersonal(objs, "emp-1", 2024, PolicyAverageEvaluated)

	// THEN: mean(80, 100), not mean(80, 0, 100)
	assertDecimal(t, 90, got.Completion)
	assert.Equal(t, 2, got.EvaluatedCount)
	assert.Equal(t, 3, got.TotalCount)
	assert.True(t, got.Provisional())
}

func TestPersonal_NothingEvaluated(t *testing.T) {
	objs := []PersonalObjective{objective("a", generic.Null())}

	got := ScorePersonal(objs, "emp-1", 2024, PolicyAverageEvaluated)

	assert.True(t, got.Completion.IsZero())
	assert.Equal(t, 0, got.EvaluatedCount)
}

func TestPersonal_NoObjectives(t *testing.T) {
	got := ScorePersonal(nil, "emp-1", 2024, PolicyAverageEvaluated)

	assert.True(t, got.Completion.IsZero())
	assert.Empty(t, got.Objectives)
	assert.False(t, got.Provisional())
}

func TestPersonal_AchievementsClamped(t *testing.T) {
	objs := []PersonalObjective{
		objective("over", nd(130)),
		objective("under", nd(-20)),
	}

	got := ScorePersonal(objs, "emp-1", 2024, PolicyAverageEvaluated)

	require.Len(t, got.Objectives, 2)
	assertDecimal(t, 130, got.Objectives[0].Achievement.Decimal)
	assertDecimal(t, 100, got.Objectives[0].Clamped.Decimal)
	assertDecimal(t, 0, got.Objectives[1].Clamped.Decimal)
	assertDecimal(t, 50, got.Completion)
}

func TestPersonal_FiltersEmployeeAndYear(t *testing.T) {
	other := objective("other", nd(0))
	other.EmployeeID = "emp-2"
	lastYear := objective("last", nd(0))
	lastYear.Year = 2023

	got := ScorePersonal([]PersonalObjective{objective("mine", nd(60)), other, lastYear}, "emp-1", 2024, PolicyAverageEvaluated)

	assert.Equal(t, 1, got.TotalCount)
	assertDecimal(t, 60, got.Completion)
}

// =============================================================================
// SUB-OBJECTIVES
// =============================================================================

func trimestral() []PersonalObjective {
	main := objective("main", generic.Null())
	main.Periodicity = PeriodicityTrimestral
	return []PersonalObjective{
		child("q3", "main", 3, nd(80)),
		main,
		child("q1", "main", 1, nd(100)),
		child("q4", "main", 4, generic.Null()),
		child("q2", "main", 2, nd(90)),
	}
}

func TestSubObjectives_AverageEvaluated(t *testing.T) {
	// GIVEN: A trimestral main with Q4 not yet evaluated
	// WHEN: Averaging evaluated children
	got := ScorePersonal(trimestral(), "emp-1", 2024, PolicyAverageEvaluated)

	// THEN: mean(100, 90, 80), children ordered by number
	require.Len(t, got.Objectives, 1)
	main := got.Objectives[0]
	assertDecimal(t, 90, main.Achievement.Decimal)
	assert.Equal(t, 3, main.EvaluatedChildren)
	assert.Equal(t, 4, main.TotalChildren)
	require.Len(t, main.SubObjectives, 4)
	for i, s := range main.SubObjectives {
		assert.Equal(t, i+1, s.Number)
	}
	assertDecimal(t, 90, got.Completion)
	assert.Equal(t, 1, got.EvaluatedCount)
}

func TestSubObjectives_RequireAll(t *testing.T) {
	// GIVEN: The same tree
	// WHEN: Every child must be evaluated
	got := ScorePersonal(trimestral(), "emp-1", 2024, PolicyRequireAll)

	// THEN: The main is not evaluated yet
	assert.False(t, got.Objectives[0].Achievement.Valid)
	assert.Equal(t, 0, got.EvaluatedCount)
	assert.True(t, got.Completion.IsZero())
	assert.Equal(t, PolicyRequireAll, got.Policy)
}

func TestSubObjectives_RequireAllComplete(t *testing.T) {
	objs := trimestral()
	objs[3] = child("q4", "main", 4, nd(70))

	got := ScorePersonal(objs, "emp-1", 2024, PolicyRequireAll)

	assertDecimal(t, 85, got.Objectives[0].Achievement.Decimal)
}

func TestSubObjectives_ChildrenOverrideOwnValue(t *testing.T) {
	main := objective("main", nd(10))
	objs := []PersonalObjective{main, child("s1", "main", 1, nd(70)), child("s2", "main", 2, nd(90))}

	got := ScorePersonal(objs, "emp-1", 2024, PolicyAverageEvaluated)

	assertDecimal(t, 80, got.Completion)
}

func TestSubObjectives_Orphans(t *testing.T) {
	objs := []PersonalObjective{objective("a", nd(50)), child("lost", "missing", 1, nd(100))}

	got := ScorePersonal(objs, "emp-1", 2024, PolicyAverageEvaluated)

	assert.Equal(t, 1, got.Orphans)
	assert.Equal(t, 1, got.TotalCount)
	assertDecimal(t, 50, got.Completion)
}

func TestSubObjectives_UnknownPolicyFallsBack(t *testing.T) {
	got := ScorePersonal(trimestral(), "emp-1", 2024, SubObjectivePolicy("bogus"))

	assert.Equal(t, PolicyAverageEvaluated, got.Policy)
}
