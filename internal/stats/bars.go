package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	barFull      = "█"
	colorBar     = "\x1b[34m"
	colorReset   = "\x1b[0m"
	minBarWidth  = 10
	barLabelPad  = 2
	barCountPad  = 1
	defaultWidth = 60
)

// RenderBars prints h as horizontal text bars, one line per bucket between the
// first and last non-empty bucket. totalWidth bounds the whole line.
func RenderBars(w io.Writer, h *Histogram, total, totalWidth int, useColor bool) error {
	first, last, ok := h.Range()
	if !ok || total <= 0 {
		_, err := fmt.Fprintln(w, "(no values)")
		return err
	}
	labels := make([]string, 0, last-first+1)
	labelWidth := 0
	countWidth := len(strconv.Itoa(total))
	for i := first; i <= last; i++ {
		label := FormatBucket(h.BucketStart(i))
		labels = append(labels, label)
		labelWidth = max(labelWidth, displayWidth(label))
	}
	barWidth := defaultWidth
	if totalWidth > 0 {
		barWidth = totalWidth - labelWidth - barLabelPad - countWidth - barCountPad
	}
	barWidth = max(barWidth, minBarWidth)

	buckets := h.Buckets()
	for i := first; i <= last; i++ {
		count := buckets[i]
		n := count * barWidth / total
		bar := strings.Repeat(barFull, n)
		if useColor && n > 0 {
			bar = colorBar + bar + colorReset
		}
		label := padCell(labels[i-first], labelWidth, true)
		if _, err := fmt.Fprintf(w, "%s  %s %d\n", label, bar, count); err != nil {
			return err
		}
	}
	return nil
}

// FormatBucket prints a bucket lower bound without a trailing ".0" for whole
// numbers.
func FormatBucket(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
