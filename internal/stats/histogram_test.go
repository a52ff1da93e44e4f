package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func mustHistogram(t *testing.T, min, max, step float64) *Histogram {
	t.Helper()
	h, err := NewHistogram(min, max, step)
	if err != nil {
		t.Fatalf("new histogram: %v", err)
	}
	return h
}

func TestNewHistogramSize(t *testing.T) {
	h := mustHistogram(t, -400, 400, 10)
	if h.Size() != 81 {
		t.Fatalf("expected 81 buckets, got %d", h.Size())
	}
	if h.BucketStart(0) != -400 || h.BucketStart(40) != 0 {
		t.Fatalf("unexpected bucket starts %v %v", h.BucketStart(0), h.BucketStart(40))
	}
}

func TestNewHistogramRejectsBadRange(t *testing.T) {
	if _, err := NewHistogram(0, 10, 0); err == nil {
		t.Fatalf("expected error for zero step")
	}
	if _, err := NewHistogram(10, 10, 1); err == nil {
		t.Fatalf("expected error for empty range")
	}
	if _, err := NewHistogram(-400, 400, 1e-15); err == nil {
		t.Fatalf("expected error for too many buckets")
	}
	if _, err := NewHistogram(math.Inf(-1), 400, 10); err == nil {
		t.Fatalf("expected error for infinite range")
	}
}

func TestHistogramClampsHugeValues(t *testing.T) {
	h := mustHistogram(t, -400, 400, 10)
	h.Add(1e300)
	h.Add(-1e300)
	buckets := h.Buckets()
	if buckets[0] != 1 || buckets[len(buckets)-1] != 1 {
		t.Fatalf("expected one value at each edge, got first=%d last=%d", buckets[0], buckets[len(buckets)-1])
	}
	if h.Clamped() != 2 {
		t.Fatalf("expected 2 clamped values, got %d", h.Clamped())
	}
}

func TestHistogramBucketsSumToCount(t *testing.T) {
	h := mustHistogram(t, -400, 400, 10)
	values := []float64{-400, -399.5, -5, -0.5, 0, 0.5, 5, 9.99, 10, 250, 399}
	for _, v := range values {
		h.Add(v)
	}
	sum := 0
	for _, c := range h.Buckets() {
		sum += c
	}
	if sum != h.Count() || sum != len(values) {
		t.Fatalf("bucket sum %d, count %d, values %d", sum, h.Count(), len(values))
	}
	buckets := h.Buckets()
	if buckets[39] != 2 {
		t.Fatalf("expected -5 and -0.5 in bucket 39, got %d", buckets[39])
	}
	if buckets[40] != 4 {
		t.Fatalf("expected 0, 0.5, 5, 9.99 in bucket 40, got %d", buckets[40])
	}
	if h.Clamped() != 0 {
		t.Fatalf("expected no clamped values, got %d", h.Clamped())
	}
}

func TestHistogramClampsOutOfRange(t *testing.T) {
	h := mustHistogram(t, -10, 10, 5)
	h.Add(-100)
	h.Add(100)
	buckets := h.Buckets()
	if buckets[0] != 1 || buckets[len(buckets)-1] != 1 {
		t.Fatalf("expected edge buckets to hold clamped values: %v", buckets)
	}
	if h.Clamped() != 2 {
		t.Fatalf("expected 2 clamped values, got %d", h.Clamped())
	}
	if h.Mean() != 0 {
		t.Fatalf("statistics must see raw values, mean=%v", h.Mean())
	}
}

func TestHistogramRangeAndBars(t *testing.T) {
	h := mustHistogram(t, -400, 400, 10)
	if _, _, ok := h.Range(); ok {
		t.Fatalf("expected empty range")
	}
	h.Add(5)
	h.Add(25)
	h.Add(27)
	first, last, ok := h.Range()
	if !ok || first != 40 || last != 42 {
		t.Fatalf("unexpected range %d..%d ok=%v", first, last, ok)
	}
	bars := h.Bars(3, 630)
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if bars[0].Width != 210 || bars[1].Count != 0 || bars[1].Width != 0 || bars[2].Width != 420 {
		t.Fatalf("unexpected bars %+v", bars)
	}
	if bars[2].Start != 20 {
		t.Fatalf("unexpected bar start %v", bars[2].Start)
	}
}

func TestRenderBars(t *testing.T) {
	h := mustHistogram(t, -400, 400, 10)
	h.Add(-5)
	h.Add(5)
	h.Add(6)
	var buf bytes.Buffer
	if err := RenderBars(&buf, h, 3, 40, false); err != nil {
		t.Fatalf("render bars: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "-10  ") || !strings.HasSuffix(lines[0], " 1") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  0  ") || !strings.HasSuffix(lines[1], " 2") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
	if strings.Count(lines[1], barFull) <= strings.Count(lines[0], barFull) {
		t.Fatalf("larger bucket must have longer bar: %q", buf.String())
	}
}

func TestRenderBarsEmpty(t *testing.T) {
	h := mustHistogram(t, 0, 10, 1)
	var buf bytes.Buffer
	if err := RenderBars(&buf, h, 0, 80, false); err != nil {
		t.Fatalf("render bars: %v", err)
	}
	if !strings.Contains(buf.String(), "no values") {
		t.Fatalf("expected placeholder, got %q", buf.String())
	}
}
