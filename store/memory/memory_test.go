package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bonus-engine/bonus"
	"github.com/warp/bonus-engine/generic"
)

func TestMemory_LatestSeniorityAsOf(t *testing.T) {
	// GIVEN: History appended out of order
	m := NewMemory()
	m.AppendSeniority(bonus.SeniorityHistoryEntry{EmployeeID: "emp-1", NewLevel: "Senior", EffectiveDate: generic.MustParseDate("2023-07-01")})
	m.AppendSeniority(bonus.SeniorityHistoryEntry{EmployeeID: "emp-1", NewLevel: "Junior", EffectiveDate: generic.MustParseDate("2019-01-01")})
	m.AppendSeniority(bonus.SeniorityHistoryEntry{EmployeeID: "emp-1", NewLevel: "Semi-senior", EffectiveDate: generic.MustParseDate("2021-03-01")})
	ctx := context.Background()

	tests := []struct {
		date string
		want string
	}{
		{"2018-12-31", ""},
		{"2019-01-01", "Junior"},
		{"2022-12-31", "Semi-senior"},
		{"2023-12-31", "Senior"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := m.LatestSeniorityAsOf(ctx, "emp-1", generic.MustParseDate(tt.date))
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.NewLevel)
		})
	}
}

func TestMemory_EmployeesAndObjectives(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.PutEmployee(bonus.Employee{ID: "emp-b"})
	m.PutEmployee(bonus.Employee{ID: "emp-a"})
	m.AddCorporateObjective(bonus.CorporateObjective{Year: 2024, Type: bonus.ObjectiveBilling})
	m.AddPersonalObjective(bonus.PersonalObjective{ID: "o1", EmployeeID: "emp-a", Year: 2024})
	m.AddPersonalObjective(bonus.PersonalObjective{ID: "o2", EmployeeID: "emp-a", Year: 2023})

	missing, err := m.GetEmployee(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := m.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, bonus.EmployeeID("emp-a"), list[0].ID)

	corp, err := m.CorporateObjectives(ctx, 2024)
	require.NoError(t, err)
	assert.Len(t, corp, 1)

	// Returned slices are copies
	corp[0].Year = 1999
	again, _ := m.CorporateObjectives(ctx, 2024)
	assert.Equal(t, 2024, again[0].Year)

	personal, err := m.PersonalObjectives(ctx, "emp-a", 2024)
	require.NoError(t, err)
	require.Len(t, personal, 1)
	assert.Equal(t, bonus.ObjectiveID("o1"), personal[0].ID)
}

func TestMemory_FailReads(t *testing.T) {
	m := NewMemory()
	m.FailReads(assert.AnError)

	_, err := m.ListEmployees(context.Background())
	assert.ErrorIs(t, err, assert.AnError)

	m.FailReads(nil)
	_, err = m.ListEmployees(context.Background())
	assert.NoError(t, err)
}
