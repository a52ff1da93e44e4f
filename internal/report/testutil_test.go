package report

import (
	"strings"
	"testing"

	"github.com/verte-zerg/matchlog/internal/matchlog"
)

const threeGameLog = "#Black: Alpha\n" +
	"#White: Beta <dev>\n" +
	"#Size: 9\n" +
	"#BlackCommand: alpha --gtp\n" +
	"1\tB+5\tW+5\t0\t-\t120\t10.0\t9.0\t0\n" +
	"2\tB+50\tB+50\t0\t-\t100\t1.0\t1.0\t1\tcrash\n" +
	"3\tW+7\tW+7\t1\t1\t90\t2.0\t2.5\t0\n"

func analyze(t *testing.T, input string) *matchlog.Analysis {
	t.Helper()
	log, err := matchlog.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	a, err := matchlog.Aggregate(log, matchlog.DefaultConfig())
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	return a
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
