// Package main provides the CLI entrypoint for cubestats.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cubestats/internal/config"
	"github.com/verte-zerg/cubestats/internal/cstimer"
	"github.com/verte-zerg/cubestats/internal/generator"
	"github.com/verte-zerg/cubestats/internal/logger"
	"github.com/verte-zerg/cubestats/internal/model"
	"github.com/verte-zerg/cubestats/internal/period"
	"github.com/verte-zerg/cubestats/internal/stats"
	"github.com/verte-zerg/cubestats/internal/statsui"
)

const (
	defaultCurveWindow  = 12
	defaultPBWindow     = 5
	defaultPeriodsLimit = 30
	defaultLogLevel     = "warn"
)

var (
	globalTZ       string
	globalLogLevel string

	statsSession     string
	statsSince       string
	statsGap         time.Duration
	statsWindows     []int
	statsCurveWindow int

	pbsWindow    int
	periodsLimit int
	exportOut    string

	sampleOut      string
	sampleSessions int
	sampleSolves   int
	sampleSeed     int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "cubestats [export.json]",
		Short:             "Statistics for csTimer exports",
		SilenceUsage:      true,
		SilenceErrors:     false,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: setupLogging,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runBrowseCmd(cmd, args)
		},
	}
	rootCmd.PersistentFlags().StringVar(&globalTZ, "tz", "", "IANA time zone for calendar stats (default: local)")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")
	addStatsFlags(rootCmd)

	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newPBsCmd())
	rootCmd.AddCommand(newPeriodsCmd())
	rootCmd.AddCommand(newActivityCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func addStatsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&statsSession, "session", "", "session name or id")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().DurationVar(&statsGap, "gap", period.DefaultGap, "idle gap that ends a cubing period")
	cmd.Flags().IntSliceVar(&statsWindows, "windows", stats.DefaultWindows, "average sizes to report")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "average size plotted in curves")
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &globalLogLevel, fileCfg.Log.Level)
	logger.Init(cmd.ErrOrStderr())
	return logger.SetLevelString(globalLogLevel)
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <export.json>",
		Short: "Print totals, per-session averages and highlights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, _, err := loadReport(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, render := range []func(io.Writer, stats.Report) error{
				stats.RenderSummary,
				stats.RenderSessions,
				stats.RenderTimeSpent,
				stats.RenderHighlights,
			} {
				if err := render(out, report); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
	addStatsFlags(cmd)
	return cmd
}

func newPBsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pbs <export.json>",
		Short: "Show PB progression and rolling average curves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pbsWindow < 1 {
				return fmt.Errorf("--window must be >= 1")
			}
			report, _, err := loadReport(cmd, args[0])
			if err != nil {
				return err
			}
			sessions := report.Sessions
			if statsSession == "" {
				sessions = nil
				for _, name := range stats.TopSessionsBySolves(report.Sessions, 1) {
					s, _ := stats.FindSession(report.Sessions, name)
					sessions = append(sessions, s)
				}
			}
			out := cmd.OutOrStdout()
			for _, s := range sessions {
				if err := stats.RenderCurves(out, s, []int{1, pbsWindow}); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				if err := stats.RenderPBs(out, s, pbsWindow); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
	addStatsFlags(cmd)
	cmd.Flags().IntVar(&pbsWindow, "window", defaultPBWindow, "average size (1 for singles)")
	return cmd
}

func newPeriodsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods <export.json>",
		Short: "List cubing periods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, _, err := loadReport(cmd, args[0])
			if err != nil {
				return err
			}
			if err := stats.RenderPeriods(cmd.OutOrStdout(), report, periodsLimit); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
	addStatsFlags(cmd)
	cmd.Flags().IntVar(&periodsLimit, "last", defaultPeriodsLimit, "show only the last N periods (0 for all)")
	return cmd
}

func newActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity <export.json>",
		Short: "Show time spent by hour of day and weekday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, _, err := loadReport(cmd, args[0])
			if err != nil {
				return err
			}
			if err := stats.RenderActivity(cmd.OutOrStdout(), report.Activity); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
	addStatsFlags(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <export.json>",
		Short: "Write every aggregate as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, _, err := loadReport(cmd, args[0])
			if err != nil {
				return err
			}
			if exportOut == "" || exportOut == "-" {
				return stats.WriteJSON(cmd.OutOrStdout(), report)
			}
			return writeFileAtomic(exportOut, func(w io.Writer) error {
				return stats.WriteJSON(w, report)
			})
		},
	}
	addStatsFlags(cmd)
	cmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse <export.json>",
		Short: "Browse stats interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runBrowseCmd,
	}
	addStatsFlags(cmd)
	return cmd
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	batch, cfg, err := loadBatch(cmd, args[0])
	if err != nil {
		return err
	}
	program := tea.NewProgram(statsui.NewModel(batch, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newSampleCmd() *cobra.Command {
	defaults := generator.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic csTimer export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sampleSessions < 1 || sampleSolves < 0 {
				return fmt.Errorf("--sessions must be >= 1 and --solves >= 0")
			}
			opts := generator.DefaultOptions()
			opts.Sessions = sampleSessions
			opts.Solves = sampleSolves
			gen := generator.New()
			if cmd.Flags().Changed("seed") {
				gen = generator.NewSeeded(sampleSeed)
			}
			export := gen.Generate(opts)
			if sampleOut == "" || sampleOut == "-" {
				return export.Write(cmd.OutOrStdout())
			}
			if err := writeFileAtomic(sampleOut, export.Write); err != nil {
				return err
			}
			logger.Named("sample").Info("wrote export", logger.String("path", sampleOut),
				logger.Int("sessions", opts.Sessions), logger.Int("solves", opts.Solves))
			return nil
		},
	}
	cmd.Flags().StringVarP(&sampleOut, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&sampleSessions, "sessions", defaults.Sessions, "number of sessions")
	cmd.Flags().IntVar(&sampleSolves, "solves", defaults.Solves, "solves per session")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed for reproducible output")
	return cmd
}

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List scramble type codes and display names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cats := model.DefaultCategories().WithOverrides(fileCfg.Categories)
			for _, code := range cats.Codes() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", code, cats.Name(code)); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// loadBatch reads the export and resolves the stats settings from flags and
// the config file.
func loadBatch(cmd *cobra.Command, path string) (model.Batch, model.StatsConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Batch{}, model.StatsConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "tz", &globalTZ, fileCfg.Stats.Timezone)
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)
	if fileCfg.Stats.GapSeconds != nil && !cmd.Flags().Changed("gap") {
		statsGap = time.Duration(*fileCfg.Stats.GapSeconds) * time.Second
	}
	if len(fileCfg.Stats.Windows) > 0 && !cmd.Flags().Changed("windows") {
		statsWindows = fileCfg.Stats.Windows
	}

	loc := time.Local
	if globalTZ != "" {
		loc, err = time.LoadLocation(globalTZ)
		if err != nil {
			return model.Batch{}, model.StatsConfig{}, fmt.Errorf("invalid --tz value: %w", err)
		}
	}

	cfg := model.StatsConfig{
		Session:     statsSession,
		Gap:         statsGap,
		Windows:     statsWindows,
		CurveWindow: statsCurveWindow,
		Categories:  model.DefaultCategories().WithOverrides(fileCfg.Categories),
	}
	if err := validateConfig(cfg); err != nil {
		return model.Batch{}, model.StatsConfig{}, err
	}
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, loc)
		if err != nil {
			return model.Batch{}, model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}

	log := logger.Named("cstimer")
	started := time.Now()
	batch, err := cstimer.LoadFile(path, cstimer.Options{Location: loc})
	if err != nil {
		return model.Batch{}, model.StatsConfig{}, fmt.Errorf("failed to load export: %w", err)
	}
	log.Info("loaded export",
		logger.String("path", path),
		logger.String("batch", batch.ID.String()),
		logger.Int("sessions", len(batch.Sessions)),
		logger.Int("solves", batch.SolveCount()),
		logger.Duration("took", time.Since(started)),
	)
	return batch, cfg, nil
}

func loadReport(cmd *cobra.Command, path string) (stats.Report, model.Batch, error) {
	batch, cfg, err := loadBatch(cmd, path)
	if err != nil {
		return stats.Report{}, model.Batch{}, err
	}
	report, err := stats.BuildReport(batch, cfg)
	if err != nil {
		return stats.Report{}, model.Batch{}, err
	}
	logger.Named("stats").Debug("built report",
		logger.Int("periods", len(report.Periods)),
		logger.Any("windows", cfg.Windows),
		logger.Duration("gap", cfg.Gap),
	)
	return report, batch, nil
}

func validateConfig(cfg model.StatsConfig) error {
	if cfg.Gap <= 0 {
		return fmt.Errorf("--gap must be > 0")
	}
	if len(cfg.Windows) == 0 {
		return fmt.Errorf("--windows must not be empty")
	}
	for _, n := range cfg.Windows {
		if n < 1 {
			return fmt.Errorf("--windows must contain sizes >= 1")
		}
	}
	if cfg.CurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	return nil
}

func writeFileAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "cubestats-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if err := write(tmpFile); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cubestats configuration
# Uncomment a value to enable it. CLI flags override config values.

[stats]
# gap-seconds = %d        # Idle gap that ends a cubing period
# windows = [5, 12, 100]  # Average sizes to report
# curve-window = %d       # Average size plotted in curves
# timezone = "Europe/Berlin"

[log]
# level = %q

[categories]
# "333mbf" = "Multi-Blind"
`,
		int(period.DefaultGap.Seconds()),
		defaultCurveWindow,
		defaultLogLevel,
	)
}
