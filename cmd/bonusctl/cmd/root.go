package cmd

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/warp/bonus-engine/bonus"
	"github.com/warp/bonus-engine/config"
	"github.com/warp/bonus-engine/factory"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/store/sqlite"
)

//nolint:gochecknoglobals // Cobra boilerplate
var dbPath string

//nolint:gochecknoglobals // Cobra boilerplate
var weightsFile string

//nolint:gochecknoglobals // Cobra boilerplate
var asOfFlag string

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var now = time.Now

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "bonusctl",
	Short: "Compute annual compensation bonuses",
	Long: `bonusctl computes the annual bonus percentage of employees from the
corporate objectives, personal objectives and seniority stored in the bonus
engine database.

The seniority weight table is read from --weights (YAML or JSON) or the
built-in default. The as-of date defaults to today.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	cfg := config.Load()
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&weightsFile, "weights", cfg.WeightsFile, "weight table file (default is the built-in table)")
	rootCmd.PersistentFlags().StringVar(&asOfFlag, "as-of", "", "evaluation date YYYY-MM-DD (default is today)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

// engine is what every subcommand needs: an open store and a service over it.
type engine struct {
	store   *sqlite.Store
	service *bonus.Service
	asOf    generic.TimePoint
	logger  *slog.Logger
}

func (e *engine) Close() error {
	return e.store.Close()
}

func openEngine(cmd *cobra.Command) (e *engine, err error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := config.InitLoggerTo(cmd.ErrOrStderr(), level)

	asOf := generic.FromTime(now())
	if asOfFlag != "" {
		asOf, err = generic.ParseDate(asOfFlag)
		if err != nil {
			err = errors.Wrapf(err, "invalid --as-of %q", asOfFlag)
			return e, err
		}
	}

	weights := factory.DefaultWeightConfig()
	if weightsFile != "" {
		weights, err = factory.LoadWeightConfig(weightsFile)
		if err != nil {
			err = errors.Wrap(err, "failed to load weights")
			return e, err
		}
	}

	var calc *bonus.Calculator
	calc, err = weights.NewCalculator()
	if err != nil {
		err = errors.Wrap(err, "failed to build calculator")
		return e, err
	}

	var store *sqlite.Store
	store, err = sqlite.New(dbPath)
	if err != nil {
		err = errors.Wrap(err, "failed to open database")
		return e, err
	}

	e = &engine{
		store:   store,
		service: bonus.NewService(store, calc),
		asOf:    asOf,
		logger:  logger,
	}
	return e, err
}

func printJSON(w io.Writer, v any) (err error) {
	var data []byte
	data, err = json.MarshalIndent(v, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to encode output")
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
