package bonus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/warp/bonus-engine/generic"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds parallel computations when none is configured.
const DefaultBatchConcurrency = 8

// BatchFailure records an employee whose inputs could not be read.
type BatchFailure struct {
	EmployeeID EmployeeID
	Err        error
}

// BatchReport is the outcome of one cohort run. A single bad row never
// aborts the run; it lands in Skipped or Failed instead.
type BatchReport struct {
	RunID   string
	Year    int
	AsOf    string
	Results []Result       // ordered by employee id
	Skipped []EmployeeID   // employee record absent
	Failed  []BatchFailure // data-layer errors
}

// BatchRunner computes many employees in parallel over one shared corporate snapshot.
type BatchRunner struct {
	Service     *Service
	Concurrency int
	Logger      *slog.Logger
}

// NewBatchRunner returns a runner; concurrency <= 0 uses DefaultBatchConcurrency.
func NewBatchRunner(svc *Service, concurrency int, logger *slog.Logger) *BatchRunner {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchRunner{Service: svc, Concurrency: concurrency, Logger: logger}
}

// Run computes ids for year as of asOf. Empty ids means every employee.
// Only a failure to read the shared inputs (employee list, corporate
// objectives) or ctx cancellation returns an error.
func (b *BatchRunner) Run(ctx context.Context, year int, asOf generic.TimePoint, ids []EmployeeID) (*BatchReport, error) {
	if b.Service == nil || b.Service.Sources == nil {
		return nil, generic.ErrSourceRequired
	}

	runID := uuid.NewString()
	log := b.Logger.With("run_id", runID, "year", year, "as_of", asOf.String())

	if len(ids) == 0 {
		emps, err := b.Service.Sources.ListEmployees(ctx)
		if err != nil {
			return nil, fmt.Errorf("list employees: %w", err)
		}
		ids = make([]EmployeeID, 0, len(emps))
		for _, e := range emps {
			ids = append(ids, e.ID)
		}
	}

	snapshot, err := b.Service.PrefetchCorporate(ctx, year)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{RunID: runID, Year: year, AsOf: asOf.String()}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Concurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := b.Service.Compute(gctx, id, year, asOf, snapshot)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Results = append(report.Results, *res)
			case IsEmployeeNotFound(err):
				log.Warn("employee not found, skipped", "employee_id", id)
				report.Skipped = append(report.Skipped, id)
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				log.Warn("bonus computation failed", "employee_id", id, "error", err)
				report.Failed = append(report.Failed, BatchFailure{EmployeeID: id, Err: err})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bonus run %s: %w", runID, err)
	}

	sort.Slice(report.Results, func(i, j int) bool { return report.Results[i].EmployeeID < report.Results[j].EmployeeID })
	sort.Slice(report.Skipped, func(i, j int) bool { return report.Skipped[i] < report.Skipped[j] })
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].EmployeeID < report.Failed[j].EmployeeID })

	log.Info("bonus run complete",
		"computed", len(report.Results),
		"skipped", len(report.Skipped),
		"failed", len(report.Failed),
	)
	return report, nil
}
