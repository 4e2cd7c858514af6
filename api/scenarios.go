/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built cohorts that populate the database with realistic
	engine inputs. Each scenario creates employees, seniority history,
	corporate objectives and personal objective trees that exercise a
	specific part of the calculation.

AVAILABLE SCENARIOS:

	year-end-2024:  Four employees, gate met, partial NPS, one mid-year hire
	gate-missed:    Same cohort with billing below the 90% gate
	unconfigured:   No corporate objectives, no personal evaluations yet

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create employees and seniority history
 3. Create corporate objectives for the year
 4. Create personal objectives and sub-objectives

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "year-end-2024"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: GetBonus, CreateRun
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/bonus"
	"github.com/warp/bonus-engine/generic"
)

// ScenarioYear is the evaluated year of every demo scenario.
const ScenarioYear = 2024

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "year-end-2024",
		Name:        "Year-End 2024",
		Description: "Billing gate met, NPS configured for three quarters, one mid-year hire and one promotion",
	},
	{
		ID:          "gate-missed",
		Name:        "Billing Gate Missed",
		Description: "Billing closes at 85% of target: the billing component drops to zero",
	},
	{
		ID:          "unconfigured",
		Name:        "Unconfigured Year",
		Description: "No corporate objectives and no evaluations yet: provisional zeros",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var load func(context.Context) error
	switch req.ScenarioID {
	case "year-end-2024":
		load = func(ctx context.Context) error { return h.loadCohortScenario(ctx, 950_000) }
	case "gate-missed":
		load = func(ctx context.Context) error { return h.loadCohortScenario(ctx, 850_000) }
	case "unconfigured":
		load = h.loadUnconfiguredScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := load(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadCohortScenario seeds four employees. billingActual is measured against
// a target of 1,000,000.
func (h *Handler) loadCohortScenario(ctx context.Context, billingActual int64) error {
	employees := []bonus.Employee{
		employee("emp-ana", "Ana Torres", "2019-04-01", "Senior", "Engineering"),
		employee("emp-bruno", "Bruno Diaz", "2024-03-15", "Junior", "Engineering"),
		employee("emp-carla", "Carla Mendez", "2017-09-01", "Lead", "Sales"),
		employee("emp-diego", "Diego Ruiz", "2021-01-10", "Wizard", "Operations"),
	}
	for _, e := range employees {
		if err := h.Store.SaveEmployee(ctx, e); err != nil {
			return err
		}
	}

	// Carla was a Senior through 2024 and promoted in February 2025.
	history := []bonus.SeniorityHistoryEntry{
		{EmployeeID: "emp-carla", NewLevel: "Semi-senior", EffectiveDate: generic.MustParseDate("2018-06-01")},
		{EmployeeID: "emp-carla", NewLevel: "Senior", EffectiveDate: generic.MustParseDate("2021-03-01")},
		{EmployeeID: "emp-carla", NewLevel: "Lead", EffectiveDate: generic.MustParseDate("2025-02-01")},
	}
	for _, e := range history {
		if err := h.Store.AppendSeniority(ctx, e); err != nil {
			return err
		}
	}

	corporate := []bonus.CorporateObjective{
		{
			Year:        ScenarioYear,
			Type:        bonus.ObjectiveBilling,
			TargetValue: generic.Valid(1_000_000),
			ActualValue: generic.Valid(billingActual),
		},
		nps(1, 40, 45),
		nps(2, 40, 38),
		nps(3, 40, 52),
	}
	if err := h.Store.SaveCorporateObjectives(ctx, corporate); err != nil {
		return err
	}

	personal := []bonus.PersonalObjective{
		mainObjective("ana-1", "emp-ana", "Ship billing service v2", bonus.PeriodicityAnnual, generic.Valid(90)),
		mainObjective("ana-2", "emp-ana", "Mentor two engineers", bonus.PeriodicityAnnual, generic.Valid(100)),
		mainObjective("bruno-1", "emp-bruno", "Onboarding track", bonus.PeriodicityAnnual, generic.Valid(80)),
		mainObjective("bruno-2", "emp-bruno", "Test coverage", bonus.PeriodicityAnnual, generic.Null()),
		mainObjective("carla-1", "emp-carla", "Regional revenue", bonus.PeriodicitySemestral, generic.Null()),
		subObjective("carla-1a", "carla-1", "emp-carla", 1, generic.Valid(70)),
		subObjective("carla-1b", "carla-1", "emp-carla", 2, generic.Valid(100)),
		mainObjective("carla-2", "emp-carla", "Key accounts retention", bonus.PeriodicityTrimestral, generic.Null()),
		subObjective("carla-2a", "carla-2", "emp-carla", 1, generic.Valid(100)),
		subObjective("carla-2b", "carla-2", "emp-carla", 2, generic.Valid(90)),
		subObjective("carla-2c", "carla-2", "emp-carla", 3, generic.Valid(80)),
		subObjective("carla-2d", "carla-2", "emp-carla", 4, generic.Null()),
		mainObjective("diego-1", "emp-diego", "Warehouse automation", bonus.PeriodicityAnnual, generic.Valid(110)),
	}
	for _, o := range personal {
		if err := h.Store.SavePersonalObjective(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadUnconfiguredScenario(ctx context.Context) error {
	return h.Store.SaveEmployee(ctx, employee("emp-eva", "Eva Lopez", "2020-02-03", "Senior", "Finance"))
}

// =============================================================================
// FIXTURE HELPERS
// =============================================================================

func employee(id, name, hired, level, dept string) bonus.Employee {
	hire := generic.MustParseDate(hired)
	return bonus.Employee{
		ID:                    bonus.EmployeeID(id),
		Name:                  name,
		HireDate:              &hire,
		CurrentSeniorityLevel: &level,
		Department:            dept,
	}
}

func nps(quarter int, target, actual int64) bonus.CorporateObjective {
	return bonus.CorporateObjective{
		Year:        ScenarioYear,
		Type:        bonus.ObjectiveNPS,
		Quarter:     quarter,
		TargetValue: generic.Valid(target),
		ActualValue: generic.Valid(actual),
	}
}

func mainObjective(id, emp, title string, p bonus.Periodicity, achievement decimal.NullDecimal) bonus.PersonalObjective {
	return bonus.PersonalObjective{
		ID:          bonus.ObjectiveID(id),
		EmployeeID:  bonus.EmployeeID(emp),
		Year:        ScenarioYear,
		Title:       title,
		Periodicity: p,
		Achievement: achievement,
	}
}

func subObjective(id, parent, emp string, number int, achievement decimal.NullDecimal) bonus.PersonalObjective {
	return bonus.PersonalObjective{
		ID:                 bonus.ObjectiveID(id),
		EmployeeID:         bonus.EmployeeID(emp),
		Year:               ScenarioYear,
		Title:              fmt.Sprintf("Period %d", number),
		ParentID:           bonus.ObjectiveID(parent),
		Periodicity:        bonus.PeriodicityAnnual,
		Achievement:        achievement,
		SubObjectiveNumber: number,
	}
}
