// Package main provides the CLI entrypoint for matchlog.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/matchlog/internal/config"
	"github.com/verte-zerg/matchlog/internal/matchlog"
	"github.com/verte-zerg/matchlog/internal/model"
	"github.com/verte-zerg/matchlog/internal/report"
	"github.com/verte-zerg/matchlog/internal/resultsui"
	"github.com/verte-zerg/matchlog/internal/stats"
	"github.com/verte-zerg/matchlog/internal/store"
)

var (
	configPath string

	analysisHistMin  float64
	analysisHistMax  float64
	analysisHistStep float64
	analysisBarScale int
	analysisArchive  bool

	showGames bool
	showColor bool
	showPlot  bool

	historyPlayer string
	historyLast   int
	historyPlot   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "matchlog FILE.dat",
		Short:         "Analyze Go engine match results",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAnalyzeCmd,
	}

	defaults := matchlog.DefaultConfig()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().Float64Var(&analysisHistMin, "hist-min", defaults.HistMin, "lower bound of the score histogram")
	rootCmd.PersistentFlags().Float64Var(&analysisHistMax, "hist-max", defaults.HistMax, "upper bound of the score histogram")
	rootCmd.PersistentFlags().Float64Var(&analysisHistStep, "hist-step", defaults.HistStep, "score histogram bucket width")
	rootCmd.PersistentFlags().IntVar(&analysisBarScale, "bar-scale", defaults.BarScale, "width of a full HTML histogram bar")
	rootCmd.Flags().BoolVar(&analysisArchive, "archive", false, "record the run summary in the archive")

	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	input := args[0]
	if err := report.CheckOutputs(report.Paths(input)); err != nil {
		return err
	}
	a, err := analyze(input, cfg)
	if err != nil {
		return err
	}

	out, err := report.Generate(input, a, cfg.BarScale)
	if err != nil {
		return err
	}
	logErrf("Wrote %s\n", out.HTML)
	logErrf("Wrote %s\n", out.Summary)

	if !cfg.Archive {
		return nil
	}
	return archiveRun(cmd.Context(), input, a)
}

func analyze(input string, cfg model.AnalysisConfig) (*matchlog.Analysis, error) {
	log, err := matchlog.ReadFile(input)
	if err != nil {
		return nil, err
	}
	a, err := matchlog.Aggregate(log, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", input, err)
	}
	if n := a.Black.Margin.Clamped() + a.White.Margin.Clamped(); n > 0 {
		logErrf("%d scores outside the histogram range were counted in the edge buckets\n", n)
	}
	return a, nil
}

func archiveRun(ctx context.Context, input string, a *matchlog.Analysis) error {
	abs, err := filepath.Abs(input)
	if err != nil {
		abs = input
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	run := model.RunRecord{
		AnalyzedAt: time.Now(),
		InputPath:  abs,
		Metadata:   a.Metadata,
		Summary:    a.Summary(),
	}
	id, err := st.InsertRun(ctx, run)
	if err != nil {
		return fmt.Errorf("failed to archive run: %w", err)
	}
	logErrf("Archived run %d\n", id)
	return nil
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show FILE.dat",
		Short: "Print match statistics to the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
	cmd.Flags().BoolVar(&showGames, "games", false, "include the per-game table")
	cmd.Flags().BoolVar(&showColor, "color", false, "force colored output")
	cmd.Flags().BoolVar(&showPlot, "plot", false, "plot the score trend of both sides")
	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	a, err := analyze(args[0], cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	opts := report.ConsoleOptions{
		Width:    stats.TerminalWidth(),
		UseColor: stats.ShouldUseColor(out, showColor),
		Games:    showGames,
		Plot:     showPlot,
	}
	if err := report.RenderConsole(out, a, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view FILE.dat",
		Short: "Browse match statistics interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runViewCmd,
	}
}

func runViewCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	a, err := analyze(args[0], cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(resultsui.NewModel(a, args[0]), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyPlayer, "player", "", "only runs involving this player")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().BoolVar(&historyPlot, "plot", false, "plot win rates across the listed runs")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(cmd.Context(), model.RunFilter{Player: historyPlayer, Last: historyLast})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		logErrln("No archived runs. Analyze with: matchlog --archive FILE.dat")
		return nil
	}
	out := cmd.OutOrStdout()
	for _, line := range historyLines(runs) {
		if _, err := fmt.Fprintln(out, strings.TrimRight(line, " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if !historyPlot || len(runs) < 2 {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	opts := stats.PlotOptions{Width: stats.TerminalWidth(), UseColor: stats.ShouldUseColor(out, false)}
	if err := stats.PlotLines(out, "Black win rate per run", historySeries(runs), opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func historySeries(runs []model.RunRecord) []stats.Line {
	black := stats.Line{Name: "Result [black]", Values: make([]float64, len(runs))}
	white := stats.Line{Name: "Result [white]", Values: make([]float64, len(runs))}
	for i, run := range runs {
		black.Values[i] = run.Summary.Black.WinRate
		white.Values[i] = run.Summary.White.WinRate
	}
	return []stats.Line{black, white}
}

func historyLines(runs []model.RunRecord) []string {
	headers := []string{"ID", "Date", "Black", "White", "Size", "Games", "Used", "ResB", "WinB", "ResW", "WinW", "File"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		s := run.Summary
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.AnalyzedAt.Local().Format("2006-01-02 15:04"),
			run.Metadata.Black,
			run.Metadata.White,
			run.Metadata.Size,
			strconv.Itoa(s.Games),
			strconv.Itoa(s.Used),
			strconv.FormatFloat(s.Black.Mean, 'f', 1, 64),
			strconv.FormatFloat(s.Black.WinRate, 'f', 2, 64),
			strconv.FormatFloat(s.White.Mean, 'f', 1, 64),
			strconv.FormatFloat(s.White.WinRate, 'f', 2, 64),
			filepath.Base(run.InputPath),
		})
	}
	rightAlign := map[int]bool{0: true, 5: true, 6: true, 7: true, 8: true, 9: true, 10: true}
	return stats.FormatTable(headers, rows, rightAlign)
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
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
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

// loadAnalysisConfig merges defaults, the config file and explicit flags.
func loadAnalysisConfig(cmd *cobra.Command) (model.AnalysisConfig, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return model.AnalysisConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "hist-min", &analysisHistMin, fileCfg.Analysis.HistMin)
	applyFloatConfig(cmd, "hist-max", &analysisHistMax, fileCfg.Analysis.HistMax)
	applyFloatConfig(cmd, "hist-step", &analysisHistStep, fileCfg.Analysis.HistStep)
	applyIntConfig(cmd, "bar-scale", &analysisBarScale, fileCfg.Analysis.BarScale)
	applyBoolConfig(cmd, "archive", &analysisArchive, fileCfg.Analysis.Archive)

	cfg := model.AnalysisConfig{
		HistMin:  analysisHistMin,
		HistMax:  analysisHistMax,
		HistStep: analysisHistStep,
		BarScale: analysisBarScale,
		Archive:  analysisArchive,
	}
	if err := config.Validate(cfg); err != nil {
		return model.AnalysisConfig{}, err
	}
	return cfg, nil
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := matchlog.DefaultConfig()
	return fmt.Sprintf(`# matchlog configuration
# Uncomment a value to enable it. CLI flags override config values.

[analysis]
# hist-min = %g           # Lower bound of the score histogram
# hist-max = %g            # Upper bound of the score histogram
# hist-step = %g            # Score histogram bucket width
# bar-scale = %d           # Width of a full HTML histogram bar
# archive = false          # Record every analyzed run in the archive
`,
		defaults.HistMin,
		defaults.HistMax,
		defaults.HistStep,
		defaults.BarScale,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
