package stats

import (
	"fmt"
	"math"
)

// Histogram counts values in fixed-width buckets over [min, max] and keeps
// running statistics of every value it sees.
type Histogram struct {
	Accumulator

	min     float64
	max     float64
	step    float64
	buckets []int
	clamped int
}

// MaxBuckets bounds the number of buckets a histogram may allocate.
const MaxBuckets = 1_000_000

// BucketCount returns int((max-min)/step)+1, or an error when the range is
// empty, the step is not positive or the count exceeds MaxBuckets.
func BucketCount(min, max, step float64) (int, error) {
	if !(step > 0) {
		return 0, fmt.Errorf("histogram step must be > 0, got %v", step)
	}
	if !(max > min) {
		return 0, fmt.Errorf("histogram max (%v) must be greater than min (%v)", max, min)
	}
	n := (max - min) / step
	if !(n < MaxBuckets) {
		return 0, fmt.Errorf("histogram range [%v, %v] with step %v needs more than %d buckets", min, max, step, MaxBuckets)
	}
	return int(n) + 1, nil
}

// NewHistogram creates a histogram with int((max-min)/step)+1 buckets.
func NewHistogram(min, max, step float64) (*Histogram, error) {
	size, err := BucketCount(min, max, step)
	if err != nil {
		return nil, err
	}
	return &Histogram{
		min:     min,
		max:     max,
		step:    step,
		buckets: make([]int, size),
	}, nil
}

// Add feeds a value to the statistics and to its bucket. Values outside the
// bucket range land in the nearest edge bucket.
func (h *Histogram) Add(value float64) {
	h.Accumulator.Add(value)
	// Compare as float: huge values overflow int conversion.
	q := math.Floor((value - h.min) / h.step)
	var idx int
	switch {
	case q < 0:
		idx = 0
		h.clamped++
	case q >= float64(len(h.buckets)):
		idx = len(h.buckets) - 1
		h.clamped++
	case math.IsNaN(q):
		return
	default:
		idx = int(q)
	}
	h.buckets[idx]++
}

// Buckets returns a copy of the bucket counts.
func (h *Histogram) Buckets() []int {
	out := make([]int, len(h.buckets))
	copy(out, h.buckets)
	return out
}

// Size returns the number of buckets.
func (h *Histogram) Size() int {
	return len(h.buckets)
}

// BucketStart returns the lower bound of bucket i.
func (h *Histogram) BucketStart(i int) float64 {
	return h.min + float64(i)*h.step
}

// Clamped returns how many values fell outside the bucket range.
func (h *Histogram) Clamped() int {
	return h.clamped
}

// Range returns the first and last non-empty bucket.
func (h *Histogram) Range() (first, last int, ok bool) {
	first = -1
	for i, c := range h.buckets {
		if c == 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return 0, 0, false
	}
	return first, last, true
}

// Bar is one histogram row prepared for rendering.
type Bar struct {
	Start float64
	Count int
	Width int
}

// Bars returns one bar per bucket between the first and last non-empty
// bucket. Widths are scaled so that a bucket holding total values spans scale.
func (h *Histogram) Bars(total, scale int) []Bar {
	first, last, ok := h.Range()
	if !ok || total <= 0 {
		return nil
	}
	bars := make([]Bar, 0, last-first+1)
	for i := first; i <= last; i++ {
		c := h.buckets[i]
		bars = append(bars, Bar{
			Start: h.BucketStart(i),
			Count: c,
			Width: c * scale / total,
		})
	}
	return bars
}
