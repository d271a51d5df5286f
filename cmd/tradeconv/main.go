// Command tradeconv converts trade-compliance spreadsheets into the
// fixed-width and CSV layouts expected by the customs system.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tradedoc/internal/catalog"
	"github.com/JonMunkholm/tradedoc/internal/config"
	"github.com/JonMunkholm/tradedoc/internal/core"
	"github.com/JonMunkholm/tradedoc/internal/core/tables"
	"github.com/JonMunkholm/tradedoc/internal/logging"
)

// app is the state shared by every subcommand.
type app struct {
	envFile   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tradeconv",
		Short: "Convert trade-compliance documents",
		Long: `tradeconv reads finished goods, raw material, bill of materials and
packing list spreadsheets (.xlsx, .csv or fixed-width .txt), detects the
document type, normalizes and validates every record and writes the
customs layout.

Settings come from the environment (and an optional .env file); flags
override them per run.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load settings from this file instead of ./.env")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "text or json (default from LOG_FORMAT)")

	root.AddCommand(
		newConvertCmd(a),
		newDetectCmd(a),
		newSchemaCmd(a),
		newIngestCmd(a),
	)
	return root
}

// setup loads the environment, configuration and logger before any
// subcommand runs. Logs go to stderr so stdout stays machine readable.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, format := cfg.Logging.Level, cfg.Logging.Format
	if a.logLevel != "" {
		level = a.logLevel
	}
	if a.logFormat != "" {
		format = a.logFormat
	}
	a.logger = logging.New(cmd.ErrOrStderr(), level, format)
	return nil
}

// catalogs loads the country and unit catalogs, preferring the given overlay
// paths over the configured ones.
func (a *app) catalogs(countryPath, uomPath string) (*catalog.Countries, *catalog.Units, error) {
	if countryPath == "" {
		countryPath = a.cfg.Catalog.CountryPath
	}
	if uomPath == "" {
		uomPath = a.cfg.Catalog.UOMPath
	}

	countries, err := catalog.LoadCountries(countryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("country catalog: %w", err)
	}
	units, err := catalog.LoadUnits(uomPath)
	if err != nil {
		return nil, nil, fmt.Errorf("unit catalog: %w", err)
	}
	return countries, units, nil
}

// registry returns the built-in document definitions.
func (a *app) registry() *core.Registry {
	return tables.MustRegistry()
}
