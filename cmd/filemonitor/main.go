package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/IvanShishkin/filemonitor/internal/config"
	"github.com/IvanShishkin/filemonitor/internal/core"
	"github.com/IvanShishkin/filemonitor/internal/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var version = "0.1.0"

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	grayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand
type globalFlags struct {
	verbose    bool
	configFile string
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "filemonitor",
		Short: "FileMonitor - report files modified within a date range",
		Long: `Walks a directory tree and exports every file whose modification time falls
inside a date range to a spreadsheet, grouped by top-level folder.`,
		Version:       version,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			printBanner(cmd.OutOrStdout())
			cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "Config file (yaml, toml or json)")

	// Add commands
	rootCmd.AddCommand(scanCmd(flags))
	rootCmd.AddCommand(configCmd(flags))

	return rootCmd
}

// printBanner prints the main banner
func printBanner(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bannerStyle.Render("FILEMONITOR"))
	fmt.Fprintln(w, grayStyle.Render("Date-range file audit v"+version))
	fmt.Fprintln(w)
}

// newLogger builds a development logger when verbose, otherwise an
// error-only JSON logger on stderr
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	return cfg.Build()
}

// scanOptions holds scan flag values
type scanOptions struct {
	root    string
	begin   string
	end     string
	output  string
	exclude []string
	summary bool
}

// apply overrides cfg with the flags the user actually set
func (o *scanOptions) apply(cmd *cobra.Command, args []string, cfg *config.Config) {
	if len(args) > 0 {
		cfg.Root = args[0]
	}
	if o.root != "" {
		cfg.Root = o.root
	}
	if o.begin != "" {
		cfg.Begin = o.begin
	}
	if o.end != "" {
		cfg.End = o.end
	}
	if o.output != "" {
		cfg.Output = o.output
	}
	if len(o.exclude) > 0 {
		cfg.Exclude = o.exclude
	}
	if cmd.Flags().Changed("summary") {
		cfg.Summary = o.summary
	}
}

// scanCmd creates the scan command
func scanCmd(flags *globalFlags) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan a directory and export files modified in a date range",
		Long: `Recursively scan a directory and write every file whose modification time
lies in [begin, end] (both inclusive) to an .xlsx report.

Dates accept YYYY-MM-DD, YYYY-MM-DD HH:MM:SS or RFC 3339, in local time.
A date without a time means midnight.`,
		Example: `  filemonitor scan /srv/share --begin 2024-01-01 --end "2024-12-31 23:59:59" -o audit.xlsx
  FILEMONITOR_BEGIN=2024-01-01 FILEMONITOR_END=2024-06-30 filemonitor scan /srv/share`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(flags.verbose)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
				return err
			}
			defer logger.Sync()
			logger = logger.With(zap.String("run_id", uuid.NewString()))

			// Load configuration
			cfg, err := config.LoadConfig(flags.configFile)
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}

			// Override config with CLI flags
			opts.apply(cmd, args, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			begin, err := cfg.BeginTime()
			if err != nil {
				return err
			}
			end, err := cfg.EndTime()
			if err != nil {
				return err
			}

			// Run scan
			scanner := core.NewScanner(cfg, logger)
			records, err := scanner.Scan(cmd.Context(), cfg.Root, begin, end)
			if err != nil {
				return err
			}

			// Generate report
			out := cmd.OutOrStdout()
			generator := report.NewGenerator(logger)
			generator.SetOutput(out)
			reportPath, err := generator.Generate(records, cfg.Output)
			if err != nil {
				logger.Error("Failed to generate report", zap.Error(err))
				return err
			}

			results := scanner.Results()
			results.ReportPath = reportPath
			if cfg.Summary {
				report.PrintSummary(out, results)
			}

			return nil
		},
	}

	// Flags
	cmd.Flags().StringVar(&opts.root, "root", "", "Directory to scan (alternative to the positional argument)")
	cmd.Flags().StringVarP(&opts.begin, "begin", "b", "", "Start of the date range, inclusive")
	cmd.Flags().StringVarP(&opts.end, "end", "e", "", "End of the date range, inclusive")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Report path (default: FILE-REPORT-<timestamp>.xlsx)")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "Directory names to skip (comma-separated)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print per-folder counts after the report")

	return cmd
}

// configCmd creates the config command
func configCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:          "config",
		Short:        "Print the effective configuration as YAML",
		Long:         `Merge defaults, the config file and FILEMONITOR_* environment variables and print the result.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags.configFile)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			return enc.Close()
		},
	}
}
