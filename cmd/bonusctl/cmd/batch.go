package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/warp/bonus-engine/api"
	"github.com/warp/bonus-engine/bonus"
)

//nolint:gochecknoglobals // Cobra boilerplate
var batchYear int

//nolint:gochecknoglobals // Cobra boilerplate
var batchConcurrency int

//nolint:gochecknoglobals // Cobra boilerplate
var batchCmd = &cobra.Command{
	Use:   "batch [employee-id...]",
	Short: "Compute bonuses for a cohort",
	Long: `Compute the bonus of every employee (or only the given ids) for a year.

Corporate objectives are read once and shared by every computation. Unknown
employees are reported as skipped and data errors as failed; neither stops
the run.

Example:
  bonusctl batch --year 2024
  bonusctl batch --year 2024 --concurrency 16 emp-ana emp-bruno`,
	RunE: runBatch,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntVar(&batchYear, "year", 0, "Evaluated year")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", bonus.DefaultBatchConcurrency, "Parallel computations")
	_ = batchCmd.MarkFlagRequired("year")
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	var e *engine
	e, err = openEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ids := make([]bonus.EmployeeID, 0, len(args))
	for _, a := range args {
		ids = append(ids, bonus.EmployeeID(a))
	}

	runner := bonus.NewBatchRunner(e.service, batchConcurrency, e.logger)

	var report *bonus.BatchReport
	report, err = runner.Run(cmd.Context(), batchYear, e.asOf, ids)
	if err != nil {
		err = errors.Wrap(err, "bonus run failed")
		return err
	}

	return printJSON(cmd.OutOrStdout(), api.ToBatchReportDTO(report))
}
