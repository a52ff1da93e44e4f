package matchlog

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRecordNineFields(t *testing.T) {
	rec, err := ParseRecord("1\tB+5\tW+5\t0\t-\t120\t10.0\t9.0\t0", 3)
	if err != nil {
		t.Fatalf("parse record: %v", err)
	}
	if rec.GameIndex != 1 || rec.ResultBlack != "B+5" || rec.ResultWhite != "W+5" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Alternated || rec.Duplicate() || rec.Error {
		t.Fatalf("unexpected flags %+v", rec)
	}
	if rec.Length != 120 || rec.CPUBlack != 10 || rec.CPUWhite != 9 {
		t.Fatalf("unexpected numbers %+v", rec)
	}
	if rec.Line != 3 || rec.ErrorMessage != "" {
		t.Fatalf("unexpected line or message %+v", rec)
	}
}

func TestParseRecordTenFields(t *testing.T) {
	rec, err := ParseRecord("7\t?\t?\t1\t3\t0\t0\t0.5\t2\tprogram died", 1)
	if err != nil {
		t.Fatalf("parse record: %v", err)
	}
	if !rec.Alternated || !rec.Error || rec.DuplicateOf != "3" {
		t.Fatalf("unexpected flags %+v", rec)
	}
	if rec.ErrorMessage != "program died" {
		t.Fatalf("unexpected message %q", rec.ErrorMessage)
	}
}

func TestParseRecordFailures(t *testing.T) {
	cases := map[string]string{
		"too few":      "1\tB+5\tW+5\t0\t-\t120\t10.0\t9.0",
		"too many":     "1\tB+5\tW+5\t0\t-\t120\t10.0\t9.0\t0\tmsg\textra",
		"blank":        "",
		"bad index":    "x\tB+5\tW+5\t0\t-\t120\t10.0\t9.0\t0",
		"bad flag":     "1\tB+5\tW+5\tyes\t-\t120\t10.0\t9.0\t0",
		"bad length":   "1\tB+5\tW+5\t0\t-\t12.5\t10.0\t9.0\t0",
		"bad cpu":      "1\tB+5\tW+5\t0\t-\t120\tfast\t9.0\t0",
		"bad error":    "1\tB+5\tW+5\t0\t-\t120\t10.0\t9.0\t",
		"space padded": "1\tB+5\tW+5\t0\t-\t 120\t10.0\t9.0\t0",
	}
	for name, line := range cases {
		_, err := ParseRecord(line, 42)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("%s: expected ErrMalformedRecord, got %v", name, err)
		}
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Line != 42 {
			t.Fatalf("%s: expected ParseError at line 42, got %v", name, err)
		}
		if !strings.HasPrefix(err.Error(), "line 42: ") {
			t.Fatalf("%s: unexpected message %q", name, err.Error())
		}
	}
}
