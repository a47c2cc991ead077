package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/pvgo/internal/calculation"
	"github.com/rgehrsitz/pvgo/internal/catalog"
	"github.com/rgehrsitz/pvgo/internal/config"
	"github.com/rgehrsitz/pvgo/internal/domain"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pvgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pvgo",
		Short: "Solar PV sizing and proposal calculator",
		Long: `Sizes grid-tie photovoltaic systems from a consumption history, prices
them and projects the financial return under the Brazilian distributed
generation rules.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("settings", "", "Path to settings YAML (default: $PVGO_SETTINGS or built-in assumptions)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to kit catalog YAML (default: settings data.catalog_file or the embedded catalog)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(calculateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(decomposeCmd())
	rootCmd.AddCommand(irradianceCmd())
	rootCmd.AddCommand(kitsCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(breakEvenCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

// loadSettings reads --settings, then $PVGO_SETTINGS, then the defaults
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, _ := cmd.Flags().GetString("settings")
	if path == "" {
		path = os.Getenv("PVGO_SETTINGS")
	}
	if path == "" {
		return config.DefaultSettings(), nil
	}
	return config.LoadSettings(path)
}

// newEngine builds the proposal engine over the data files the settings name
func newEngine(cmd *cobra.Command, settings config.Settings) (*calculation.ProposalEngine, error) {
	engine, err := calculation.NewProposalEngineFromSources(settings.Assumptions)
	if err != nil {
		return nil, err
	}
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	return engine, nil
}

// loadCatalog reads --catalog, then the settings catalog file, then the embedded kits
func loadCatalog(cmd *cobra.Command, settings config.Settings) (*catalog.StaticCatalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = settings.Data.CatalogFile
	}
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// setup loads settings and the engine shared by most commands
func setup(cmd *cobra.Command) (config.Settings, *calculation.ProposalEngine, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return settings, nil, err
	}
	engine, err := newEngine(cmd, settings)
	if err != nil {
		return settings, nil, err
	}
	return settings, engine, nil
}

// loadInput parses and validates a proposal input file
func loadInput(path string) (*domain.ProposalInput, error) {
	return config.NewInputParser().LoadFromFile(path)
}

// warnEstimated lists the documented defaults a proposal relied on
func warnEstimated(cmd *cobra.Command, subs []domain.Substitution) {
	for _, s := range subs {
		fmt.Fprintf(cmd.ErrOrStderr(), "WARNING: estimated %s (%s): %s\n", s.Field, s.Value, s.Reason)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
