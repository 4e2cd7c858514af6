package bonus_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bonus-engine/bonus"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// countingSources records how often each port is hit and can fail one
// employee's personal objectives.
type countingSources struct {
	*memory.Memory
	historyCalls   atomic.Int32
	corporateCalls atomic.Int32
	failPersonal   bonus.EmployeeID
}

func (c *countingSources) LatestSeniorityAsOf(ctx context.Context, id bonus.EmployeeID, date generic.TimePoint) (*bonus.SeniorityHistoryEntry, error) {
	c.historyCalls.Add(1)
	return c.Memory.LatestSeniorityAsOf(ctx, id, date)
}

func (c *countingSources) CorporateObjectives(ctx context.Context, year int) ([]bonus.CorporateObjective, error) {
	c.corporateCalls.Add(1)
	return c.Memory.CorporateObjectives(ctx, year)
}

func (c *countingSources) PersonalObjectives(ctx context.Context, id bonus.EmployeeID, year int) ([]bonus.PersonalObjective, error) {
	if id == c.failPersonal {
		return nil, errors.New("connection reset")
	}
	return c.Memory.PersonalObjectives(ctx, id, year)
}

func level(s string) *string { return &s }

func hired(s string) *generic.TimePoint {
	tp := generic.MustParseDate(s)
	return &tp
}

func pct(v int64) decimal.NullDecimal { return generic.Valid(v) }

func newSources() *countingSources {
	m := memory.NewMemory()

	m.PutEmployee(bonus.Employee{ID: "emp-1", Name: "Ana", HireDate: hired("2018-01-01"), CurrentSeniorityLevel: level("Senior")})
	m.PutEmployee(bonus.Employee{ID: "emp-2", Name: "Bruno", HireDate: hired("2024-07-01"), CurrentSeniorityLevel: level("Junior")})
	m.PutEmployee(bonus.Employee{ID: "emp-3", Name: "Carla", HireDate: hired("2015-01-01"), CurrentSeniorityLevel: level("Senior")})

	m.AppendSeniority(bonus.SeniorityHistoryEntry{EmployeeID: "emp-3", NewLevel: "Junior", EffectiveDate: generic.MustParseDate("2015-01-01")})
	m.AppendSeniority(bonus.SeniorityHistoryEntry{EmployeeID: "emp-3", NewLevel: "Senior", EffectiveDate: generic.MustParseDate("2025-01-01")})

	m.AddCorporateObjective(bonus.CorporateObjective{Year: 2024, Type: bonus.ObjectiveBilling, TargetValue: pct(100), ActualValue: pct(100)})

	for _, id := range []bonus.EmployeeID{"emp-1", "emp-2", "emp-3"} {
		m.AddPersonalObjective(bonus.PersonalObjective{
			ID:          bonus.ObjectiveID(string(id) + "-obj"),
			EmployeeID:  id,
			Year:        2024,
			Periodicity: bonus.PeriodicityAnnual,
			Achievement: pct(50),
		})
	}

	return &countingSources{Memory: m}
}

func newService(t *testing.T, src bonus.Sources) *bonus.Service {
	t.Helper()
	table, err := bonus.NewTierTable(map[bonus.Tier]bonus.Weights{
		1: {Company: decimal.NewFromInt(20), Area: decimal.NewFromInt(80)},
		3: {Company: decimal.NewFromInt(40), Area: decimal.NewFromInt(60)},
	})
	require.NoError(t, err)
	calc, err := bonus.NewCalculator(bonus.NewLabelClassifier(map[string]bonus.Tier{"junior": 1, "senior": 3}), table)
	require.NoError(t, err)
	return bonus.NewService(src, calc)
}

// =============================================================================
// SERVICE
// =============================================================================

func TestService_Compute(t *testing.T) {
	// GIVEN: A senior, billing on target, no NPS, personal 50
	src := newSources()
	svc := newService(t, src)

	// WHEN
	res, err := svc.Compute(context.Background(), "emp-1", 2024, generic.MustParseDate("2024-12-31"), nil)

	// THEN: company 70, 70*0.4 + 50*0.6 = 58
	require.NoError(t, err)
	assert.True(t, res.FinalBonus.Equal(decimal.NewFromInt(58)), res.FinalBonus.String())
	assert.Equal(t, int32(0), src.historyCalls.Load(), "current year must not read history")
}

func TestService_PastYearReadsHistory(t *testing.T) {
	// GIVEN: Carla was Junior through 2024 and became Senior in 2025
	src := newSources()
	svc := newService(t, src)

	// WHEN: 2024 is evaluated from 2025
	res, err := svc.Compute(context.Background(), "emp-3", 2024, generic.MustParseDate("2025-02-01"), nil)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.historyCalls.Load())
	assert.Equal(t, "Junior", res.Seniority.Level)
	assert.Equal(t, bonus.SeniorityHistory, res.Seniority.Source)
}

func TestService_EmployeeNotFound(t *testing.T) {
	svc := newService(t, newSources())

	_, err := svc.Compute(context.Background(), "ghost", 2024, generic.MustParseDate("2024-12-31"), nil)

	var nf *bonus.EmployeeNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, bonus.EmployeeID("ghost"), nf.EmployeeID)
	assert.True(t, bonus.IsEmployeeNotFound(err))
	assert.True(t, generic.IsNotFound(err))
}

func TestService_InvalidYear(t *testing.T) {
	svc := newService(t, newSources())

	_, err := svc.Compute(context.Background(), "emp-1", 0, generic.MustParseDate("2024-12-31"), nil)

	assert.ErrorIs(t, err, bonus.ErrInvalidYear)
	assert.True(t, generic.IsClientError(err))
}

func TestService_DataErrorIsWrapped(t *testing.T) {
	src := newSources()
	boom := errors.New("disk on fire")
	src.FailReads(boom)
	svc := newService(t, src)

	_, err := svc.Compute(context.Background(), "emp-1", 2024, generic.MustParseDate("2024-12-31"), nil)

	assert.ErrorIs(t, err, boom)
	assert.False(t, bonus.IsEmployeeNotFound(err))
}

func TestService_UsesPrefetchedSnapshot(t *testing.T) {
	src := newSources()
	svc := newService(t, src)
	ctx := context.Background()

	snap, err := svc.PrefetchCorporate(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, snap.Objectives, 1)

	_, err = svc.Compute(ctx, "emp-1", 2024, generic.MustParseDate("2024-12-31"), snap)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.corporateCalls.Load(), "snapshot reused")

	// A snapshot for another year is ignored
	_, err = svc.Compute(ctx, "emp-1", 2023, generic.MustParseDate("2024-12-31"), snap)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.corporateCalls.Load())
}

func TestService_RequiresSources(t *testing.T) {
	svc := &bonus.Service{}

	_, err := svc.Compute(context.Background(), "emp-1", 2024, generic.MustParseDate("2024-12-31"), nil)

	assert.ErrorIs(t, err, generic.ErrSourceRequired)
}
