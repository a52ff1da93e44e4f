package matchlog

import (
	"math"
	"strconv"
	"strings"
)

const unknownResult = "?"

// ParseResult interprets a result token such as "B+3.5" or "W+R". A black
// win yields a positive margin, a white win a negative one. ok is false for
// "?" and for tokens without a numeric margin.
func ParseResult(token string) (value float64, ok bool) {
	s := strings.TrimSpace(token)
	if s == unknownResult {
		return 0, false
	}
	sign := 1.0
	idx := strings.Index(s, "B+")
	if idx < 0 {
		idx = strings.Index(s, "W+")
		sign = -1
	}
	if idx < 0 {
		return 0, false
	}
	margin, err := strconv.ParseFloat(s[idx+2:], 64)
	if err != nil || math.IsNaN(margin) || math.IsInf(margin, 0) {
		return 0, false
	}
	return sign * margin, true
}
