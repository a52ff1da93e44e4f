package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/matchlog/internal/model"
)

// SummaryColumns names the columns of the summary artifact.
var SummaryColumns = []string{
	"Games", "Err", "Dup", "Used",
	"ResB", "ErrResB", "WinB", "ErrWinB", "UnknB",
	"ResW", "ErrResW", "WinW", "ErrWinW", "UnknW",
}

// WriteSummary writes the "#"-prefixed header and the single data row.
func WriteSummary(w io.Writer, s model.Summary) error {
	if _, err := fmt.Fprintf(w, "# %s\n", strings.Join(SummaryColumns, "\t")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, strings.Join(SummaryRow(s), "\t"))
	return err
}

// SummaryRow formats the summary values in column order.
func SummaryRow(s model.Summary) []string {
	row := []string{
		strconv.Itoa(s.Games),
		strconv.Itoa(s.Errors),
		strconv.Itoa(s.Duplicates),
		strconv.Itoa(s.Used),
	}
	row = append(row, sideRow(s.Black)...)
	return append(row, sideRow(s.White)...)
}

func sideRow(s model.SideSummary) []string {
	return []string{
		formatMargin(s.Mean),
		formatMargin(s.MeanErr),
		formatRate(s.WinRate),
		formatRate(s.WinRateErr),
		formatRate(s.Unknown),
	}
}

func formatMargin(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
