/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The engine's Result
  keeps full decimal precision; DTOs round every figure to 2 places for
  display and render absent achievements as null.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Bonus:
    BonusResultDTO, CorporateDTO, BillingDTO, QuarterDTO,
    PersonalDTO, ObjectiveDTO, SubObjectiveDTO, ProrationDTO

  Runs:
    RunBonusRequest, BatchReportDTO, BatchFailureDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - bonus/calculator.go: Result
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/bonus"
)

// DisplayPlaces is the rounding applied to every figure in a response.
const DisplayPlaces = 2

// =============================================================================
// BONUS RESULT
// =============================================================================

// BonusResultDTO is one employee's itemized bonus.
type BonusResultDTO struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	Year         int    `json:"year"`
	AsOf         string `json:"as_of"`

	Seniority SeniorityDTO `json:"seniority"`
	Weights   WeightsDTO   `json:"weights"`
	Corporate CorporateDTO `json:"corporate"`
	Personal  PersonalDTO  `json:"personal"`
	Proration ProrationDTO `json:"proration"`

	CompanyScore  float64 `json:"company_score"`
	PersonalScore float64 `json:"personal_score"`
	BonusBase     float64 `json:"bonus_before_proration"`
	FinalBonus    float64 `json:"bonus_percentage"`
	Provisional   bool    `json:"provisional"`
}

type SeniorityDTO struct {
	Level         string `json:"level"`
	Source        string `json:"source"`
	EffectiveDate string `json:"effective_date,omitempty"`
	Tier          int    `json:"tier"`
	Classified    bool   `json:"classified"`
}

type WeightsDTO struct {
	Company           float64 `json:"company"`
	Area              float64 `json:"area"`
	LowestTierDefault bool    `json:"lowest_tier_default"`
}

type CorporateDTO struct {
	Billing       BillingDTO `json:"billing"`
	NPS           NPSDTO     `json:"nps"`
	BillingWeight float64    `json:"billing_weight"`
	NPSWeight     float64    `json:"nps_weight"`
	Score         float64    `json:"score"`
}

type BillingDTO struct {
	Configured     bool     `json:"configured"`
	TargetValue    *float64 `json:"target_value"`
	ActualValue    *float64 `json:"actual_value"`
	GatePercentage float64  `json:"gate_percentage"`
	CapPercentage  float64  `json:"cap_percentage"`
	GateMet        bool     `json:"gate_met"`
	RawCompletion  float64  `json:"raw_completion"`
	Completion     float64  `json:"completion"`
}

type NPSDTO struct {
	Quarters   []QuarterDTO `json:"quarters"`
	Completion float64      `json:"completion"`
}

type QuarterDTO struct {
	Quarter     int      `json:"quarter"`
	TargetValue *float64 `json:"target_value"`
	ActualValue *float64 `json:"actual_value"`
	Met         bool     `json:"met"`
	Score       float64  `json:"score"`
}

type PersonalDTO struct {
	Policy         string         `json:"sub_objective_policy"`
	Objectives     []ObjectiveDTO `json:"objectives"`
	EvaluatedCount int            `json:"evaluated_count"`
	TotalCount     int            `json:"total_count"`
	Completion     float64        `json:"completion"`
}

type ObjectiveDTO struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Periodicity   string            `json:"periodicity"`
	Achievement   *float64          `json:"achievement"`
	Counted       *float64          `json:"counted_achievement"`
	SubObjectives []SubObjectiveDTO `json:"sub_objectives,omitempty"`
}

type SubObjectiveDTO struct {
	ID          string   `json:"id"`
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	Achievement *float64 `json:"achievement"`
}

type ProrationDTO struct {
	Applied      bool    `json:"applied"`
	HireDate     string  `json:"hire_date,omitempty"`
	MonthsWorked int     `json:"months_worked"`
	Factor       float64 `json:"factor"`
}

// =============================================================================
// BATCH RUNS
// =============================================================================

// RunBonusRequest starts a cohort run. EmployeeIDs empty means everyone.
type RunBonusRequest struct {
	Year        int      `json:"year"`
	AsOf        string   `json:"as_of,omitempty"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

type BatchReportDTO struct {
	RunID   string            `json:"run_id"`
	Year    int               `json:"year"`
	AsOf    string            `json:"as_of"`
	Results []BonusResultDTO  `json:"results"`
	Skipped []string          `json:"skipped"`
	Failed  []BatchFailureDTO `json:"failed"`
}

type BatchFailureDTO struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION
// =============================================================================

func display(d decimal.Decimal) float64 {
	return d.Round(DisplayPlaces).InexactFloat64()
}

func displayNull(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	v := display(d.Decimal)
	return &v
}

// ToBonusResultDTO converts an engine Result for display.
func ToBonusResultDTO(r bonus.Result) BonusResultDTO {
	dto := BonusResultDTO{
		EmployeeID:   string(r.EmployeeID),
		EmployeeName: r.EmployeeName,
		Department:   r.Department,
		Year:         r.Year,
		AsOf:         r.AsOf,
		Seniority: SeniorityDTO{
			Level:         r.Seniority.Level,
			Source:        string(r.Seniority.Source),
			EffectiveDate: r.Seniority.EffectiveDate,
			Tier:          int(r.Seniority.Tier),
			Classified:    r.Seniority.Classified,
		},
		Weights: WeightsDTO{
			Company:           display(r.Weights.Company),
			Area:              display(r.Weights.Area),
			LowestTierDefault: r.WeightsForced,
		},
		Corporate: CorporateDTO{
			Billing: BillingDTO{
				Configured:     r.Corporate.Billing.Configured,
				TargetValue:    displayNull(r.Corporate.Billing.TargetValue),
				ActualValue:    displayNull(r.Corporate.Billing.ActualValue),
				GatePercentage: display(r.Corporate.Billing.GatePercentage),
				CapPercentage:  display(r.Corporate.Billing.CapPercentage),
				GateMet:        r.Corporate.Billing.GateMet,
				RawCompletion:  display(r.Corporate.Billing.RawCompletion),
				Completion:     display(r.Corporate.Billing.Completion),
			},
			NPS: NPSDTO{
				Quarters:   make([]QuarterDTO, 0, len(r.Corporate.NPS.Quarters)),
				Completion: display(r.Corporate.NPS.Completion),
			},
			BillingWeight: display(r.Corporate.BillingWeight),
			NPSWeight:     display(r.Corporate.NPSWeight),
			Score:         display(r.Corporate.Score),
		},
		Personal: PersonalDTO{
			Policy:         string(r.Personal.Policy),
			Objectives:     make([]ObjectiveDTO, 0, len(r.Personal.Objectives)),
			EvaluatedCount: r.Personal.EvaluatedCount,
			TotalCount:     r.Personal.TotalCount,
			Completion:     display(r.Personal.Completion),
		},
		Proration: ProrationDTO{
			Applied:      r.Proration.Applied,
			HireDate:     r.Proration.HireDate,
			MonthsWorked: r.Proration.MonthsWorked,
			Factor:       r.Proration.Factor.Round(4).InexactFloat64(),
		},
		CompanyScore:  display(r.CompanyScore),
		PersonalScore: display(r.PersonalScore),
		BonusBase:     display(r.WeightedBase),
		FinalBonus:    display(r.FinalBonus),
		Provisional:   r.Provisional,
	}

	for _, q := range r.Corporate.NPS.Quarters {
		dto.Corporate.NPS.Quarters = append(dto.Corporate.NPS.Quarters, QuarterDTO{
			Quarter:     q.Quarter,
			TargetValue: displayNull(q.TargetValue),
			ActualValue: displayNull(q.ActualValue),
			Met:         q.Met,
			Score:       display(q.Score),
		})
	}

	for _, o := range r.Personal.Objectives {
		od := ObjectiveDTO{
			ID:          string(o.ID),
			Title:       o.Title,
			Periodicity: string(o.Periodicity),
			Achievement: displayNull(o.Achievement),
			Counted:     displayNull(o.Clamped),
		}
		for _, s := range o.SubObjectives {
			od.SubObjectives = append(od.SubObjectives, SubObjectiveDTO{
				ID:          string(s.ID),
				Number:      s.Number,
				Title:       s.Title,
				Achievement: displayNull(s.Achievement),
			})
		}
		dto.Personal.Objectives = append(dto.Personal.Objectives, od)
	}

	return dto
}

// ToBatchReportDTO converts a batch report for display.
func ToBatchReportDTO(r *bonus.BatchReport) BatchReportDTO {
	dto := BatchReportDTO{
		RunID:   r.RunID,
		Year:    r.Year,
		AsOf:    r.AsOf,
		Results: make([]BonusResultDTO, 0, len(r.Results)),
		Skipped: make([]string, 0, len(r.Skipped)),
		Failed:  make([]BatchFailureDTO, 0, len(r.Failed)),
	}
	for _, res := range r.Results {
		dto.Results = append(dto.Results, ToBonusResultDTO(res))
	}
	for _, id := range r.Skipped {
		dto.Skipped = append(dto.Skipped, string(id))
	}
	for _, f := range r.Failed {
		dto.Failed = append(dto.Failed, BatchFailureDTO{EmployeeID: string(f.EmployeeID), Error: f.Err.Error()})
	}
	return dto
}
