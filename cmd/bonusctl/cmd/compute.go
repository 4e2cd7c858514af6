package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/warp/bonus-engine/api"
	"github.com/warp/bonus-engine/bonus"
)

//nolint:gochecknoglobals // Cobra boilerplate
var computeYear int

//nolint:gochecknoglobals // Cobra boilerplate
var computeCmd = &cobra.Command{
	Use:   "compute <employee-id>",
	Short: "Compute one employee's bonus",
	Long: `Compute the itemized bonus of one employee for a year and print it as JSON.

Example:
  bonusctl compute emp-ana --year 2024
  bonusctl compute emp-ana --year 2024 --as-of 2025-03-01 --db ./bonus.db`,
	Args: cobra.ExactArgs(1),
	RunE: runCompute,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(computeCmd)
	computeCmd.Flags().IntVar(&computeYear, "year", 0, "Evaluated year")
	_ = computeCmd.MarkFlagRequired("year")
}

func runCompute(cmd *cobra.Command, args []string) (err error) {
	var e *engine
	e, err = openEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	var res *bonus.Result
	res, err = e.service.Compute(cmd.Context(), bonus.EmployeeID(args[0]), computeYear, e.asOf, nil)
	if err != nil {
		err = errors.Wrapf(err, "failed to compute bonus for %s", args[0])
		return err
	}

	return printJSON(cmd.OutOrStdout(), api.ToBonusResultDTO(*res))
}
