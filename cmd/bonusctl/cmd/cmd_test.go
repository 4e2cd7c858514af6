package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bonus-engine/api"
	"github.com/warp/bonus-engine/bonus"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/store/sqlite"
)

func seedDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bonus.db")

	store, err := sqlite.New(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	hire := generic.MustParseDate("2020-01-01")
	level := "Senior"
	require.NoError(t, store.SaveEmployee(ctx, bonus.Employee{
		ID:                    "emp-1",
		Name:                  "Test User",
		HireDate:              &hire,
		CurrentSeniorityLevel: &level,
	}))
	require.NoError(t, store.SaveCorporateObjective(ctx, bonus.CorporateObjective{
		Year:        2024,
		Type:        bonus.ObjectiveBilling,
		TargetValue: generic.Valid(100),
		ActualValue: generic.Valid(100),
	}))
	require.NoError(t, store.SavePersonalObjective(ctx, bonus.PersonalObjective{
		ID:          "obj-1",
		EmployeeID:  "emp-1",
		Year:        2024,
		Title:       "Deliver",
		Periodicity: bonus.PeriodicityAnnual,
		Achievement: generic.Valid(50),
	}))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		asOfFlag = ""
		weightsFile = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCompute(t *testing.T) {
	// GIVEN: One senior employee, billing at 100%, no NPS, personal 50%
	db := seedDatabase(t)

	// WHEN
	out, err := execute(t, "compute", "emp-1", "--year", "2024", "--as-of", "2024-12-31", "--db", db)

	// THEN: company 70, base (70*40 + 50*60)/100 = 58
	require.NoError(t, err)
	var res api.BonusResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "emp-1", res.EmployeeID)
	assert.Equal(t, "2024-12-31", res.AsOf)
	assert.Equal(t, 70.0, res.CompanyScore)
	assert.Equal(t, 58.0, res.FinalBonus)
}

func TestCompute_UnknownEmployee(t *testing.T) {
	db := seedDatabase(t)

	_, err := execute(t, "compute", "ghost", "--year", "2024", "--as-of", "2024-12-31", "--db", db)

	require.Error(t, err)
	assert.True(t, bonus.IsEmployeeNotFound(err))
}

func TestCompute_BadAsOf(t *testing.T) {
	db := seedDatabase(t)

	_, err := execute(t, "compute", "emp-1", "--year", "2024", "--as-of", "31/12/2024", "--db", db)

	assert.ErrorContains(t, err, "invalid --as-of")
}

func TestBatch_WithWeightsFile(t *testing.T) {
	// GIVEN: A weights file putting everyone on a 50/50 split
	db := seedDatabase(t)
	weights := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(weights, []byte(`
tiers:
  - tier: 1
    company_weight: 50
    area_weight: 50
    labels: [senior]
`), 0o600))

	// WHEN
	out, err := execute(t, "batch", "--year", "2024", "--as-of", "2024-12-31", "--db", db, "--weights", weights, "emp-1", "ghost")

	// THEN: (70*50 + 50*50)/100 = 60, ghost skipped
	require.NoError(t, err)
	var report api.BatchReportDTO
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 1)
	assert.Equal(t, 60.0, report.Results[0].FinalBonus)
	assert.Equal(t, []string{"ghost"}, report.Skipped)
}
