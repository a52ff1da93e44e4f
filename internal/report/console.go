package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/stat"

	"github.com/verte-zerg/matchlog/internal/matchlog"
	"github.com/verte-zerg/matchlog/internal/stats"
)

const trendWindow = 10

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// ConsoleOptions controls terminal rendering.
type ConsoleOptions struct {
	Width    int
	UseColor bool
	Games    bool
	Plot     bool
}

// RenderConsole prints the analysis as terminal text.
func RenderConsole(w io.Writer, a *matchlog.Analysis, opts ConsoleOptions) error {
	meta := a.Metadata
	if _, err := fmt.Fprintf(w, "%s - %s\n", meta.Black, meta.White); err != nil {
		return err
	}
	if info := runInfo(a); info != "" {
		if _, err := fmt.Fprintln(w, info); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, SummaryCards(a, opts.Width)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Game length: %s  median %s\n", withError(a.Length.Mean(), a.Length.StdError()), formatOneDecimal(MedianLength(a))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "CPU time: %s %s  %s %s\n\n",
		meta.Black, withError(a.CPUBlack.Mean(), a.CPUBlack.StdError()),
		meta.White, withError(a.CPUWhite.Mean(), a.CPUWhite.StdError())); err != nil {
		return err
	}
	for _, side := range []struct {
		name string
		side *matchlog.Side
	}{{meta.Black, &a.Black}, {meta.White, &a.White}} {
		if err := RenderSide(w, side.name, side.side, a.Used, opts); err != nil {
			return err
		}
	}
	if opts.Plot {
		if err := RenderTrendPlot(w, a, opts); err != nil {
			return err
		}
	}
	if opts.Games {
		return RenderGameTable(w, a)
	}
	return nil
}

// RenderTrendPlot plots the moving average of both sides' margins in log
// order. Nothing is written when neither side has two valid margins.
func RenderTrendPlot(w io.Writer, a *matchlog.Analysis, opts ConsoleOptions) error {
	lines := make([]stats.Line, 0, 2)
	for _, side := range []struct {
		name    string
		margins []float64
	}{{a.Metadata.Black, a.Black.Margins}, {a.Metadata.White, a.White.Margins}} {
		if len(side.margins) < 2 {
			continue
		}
		lines = append(lines, stats.Line{Name: side.name, Values: stats.MovingAverage(side.margins, trendWindow)})
	}
	if len(lines) == 0 {
		return nil
	}
	title := fmt.Sprintf("Black score, moving average over %d games", trendWindow)
	if err := stats.PlotLines(w, title, lines, stats.PlotOptions{Width: opts.Width, UseColor: opts.UseColor}); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderSide prints one side's statistics followed by its histogram.
func RenderSide(w io.Writer, name string, side *matchlog.Side, used int, opts ConsoleOptions) error {
	lines := []string{
		fmt.Sprintf("Result [%s]", name),
		fmt.Sprintf("Black score: %s", withError(side.Margin.Mean(), side.Margin.StdError())),
		fmt.Sprintf("Black wins:  %s (±%s)", formatPercent(side.Win.Mean()), formatOneDecimal(side.Win.StdError()*100)),
		fmt.Sprintf("Unknown:     %s", formatPercent(side.Unknown.Mean())),
	}
	if n := side.Margin.Clamped(); n > 0 {
		lines = append(lines, fmt.Sprintf("Outside histogram range: %d", n))
	}
	if trend := MarginTrend(side.Margins, opts.Width); trend != "" {
		lines = append(lines, "Trend: "+trend)
	}
	if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return err
	}
	if err := stats.RenderBars(w, side.Margin, used, opts.Width, opts.UseColor); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderGameTable prints every record as an aligned text table.
func RenderGameTable(w io.Writer, a *matchlog.Analysis) error {
	headers := []string{"Game", "Result B", "Result W", "Alt", "Dup", "Length", "Cpu B", "Cpu W", "Err", "Message"}
	rows := GameRows(a)
	rightAlign := map[int]bool{0: true, 5: true, 6: true, 7: true}
	for _, line := range stats.FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// GameRows returns the display fields of every record.
func GameRows(a *matchlog.Analysis) [][]string {
	rows := make([][]string, 0, len(a.Records))
	for _, rec := range a.Records {
		errFlag := ""
		if rec.Error {
			errFlag = "1"
		}
		rows = append(rows, []string{
			strconv.Itoa(rec.GameIndex),
			rec.ResultBlack,
			rec.ResultWhite,
			boolDigit(rec.Alternated),
			rec.DuplicateOf,
			strconv.Itoa(rec.Length),
			formatCPU(rec.CPUBlack),
			formatCPU(rec.CPUWhite),
			errFlag,
			rec.ErrorMessage,
		})
	}
	return rows
}

// SummaryCards renders the game counts and win rates as lipgloss cards.
func SummaryCards(a *matchlog.Analysis, width int) string {
	cards := []string{
		metricCard("Games", strconv.Itoa(a.Games)),
		metricCard("Used", strconv.Itoa(a.Used)),
		metricCard("Errors", strconv.Itoa(a.Errors)),
		metricCard("Duplicates", strconv.Itoa(a.Duplicates)),
		metricCard("Wins ["+a.Metadata.Black+"]", formatPercent(a.Black.Win.Mean())),
		metricCard("Wins ["+a.Metadata.White+"]", formatPercent(a.White.Win.Mean())),
	}
	if width > 0 && width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// MarginTrend renders a sparkline of the moving average of margins, at most
// width characters long.
func MarginTrend(margins []float64, width int) string {
	if len(margins) < 2 {
		return ""
	}
	if width <= 0 {
		width = 60
	}
	smoothed := stats.MovingAverage(margins, trendWindow)
	return stats.Sparkline(stats.Resample(smoothed, max(width-len("Trend: "), 1)))
}

// MedianLength returns the median length of counted games, or 0 if none.
func MedianLength(a *matchlog.Analysis) float64 {
	if len(a.Lengths) == 0 {
		return 0
	}
	sorted := append([]float64(nil), a.Lengths...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

func runInfo(a *matchlog.Analysis) string {
	meta := a.Metadata
	parts := make([]string, 0, 4)
	for _, kv := range [][2]string{
		{"size", meta.Size},
		{"komi", meta.Komi},
		{"date", meta.Date},
		{"host", meta.Host},
	} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	return strings.Join(parts, "  ")
}
