// Package report renders analysis results as HTML, tab-separated summaries
// and terminal text.
package report

import "strings"

const (
	inputExt   = ".dat"
	htmlExt    = ".html"
	summaryExt = ".summary.dat"
)

// Paths derives the report and summary paths from the match log path by
// replacing a trailing ".dat".
func Paths(input string) (htmlPath, summaryPath string) {
	base := strings.TrimSuffix(input, inputExt)
	return base + htmlExt, base + summaryExt
}
