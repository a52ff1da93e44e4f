package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateWritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "run.dat")
	out, err := Generate(input, analyze(t, threeGameLog), 0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.HTML != filepath.Join(dir, "run.html") || out.Summary != filepath.Join(dir, "run.summary.dat") {
		t.Fatalf("unexpected outputs %+v", out)
	}
	summary, err := os.ReadFile(out.Summary)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.HasPrefix(string(summary), "# Games\t") {
		t.Fatalf("unexpected summary %q", summary)
	}
	html, err := os.ReadFile(out.HTML)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(html), `href="run-1.sgf"`) {
		t.Fatalf("expected game links relative to the report")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestGenerateFailsWhenOutputExists(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "run.dat")
	a := analyze(t, threeGameLog)
	out, err := Generate(input, a, 0)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	before, err := os.ReadFile(out.HTML)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}

	_, err = Generate(input, analyze(t, "1\tW+1\tW+1\t0\t-\t1\t1\t1\t0\n"), 0)
	if !errors.Is(err, ErrOutputExists) {
		t.Fatalf("expected ErrOutputExists, got %v", err)
	}
	after, err := os.ReadFile(out.HTML)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("existing report must be left untouched")
	}
}

func TestGenerateChecksSummaryPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "run.dat")
	if err := os.WriteFile(filepath.Join(dir, "run.summary.dat"), []byte("old"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Generate(input, analyze(t, threeGameLog), 0)
	if !errors.Is(err, ErrOutputExists) {
		t.Fatalf("expected ErrOutputExists, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "run.html")); !os.IsNotExist(err) {
		t.Fatalf("html report must not be written when summary exists")
	}
}

func TestGenerateMissingDirectory(t *testing.T) {
	input := filepath.Join(t.TempDir(), "missing", "run.dat")
	if _, err := Generate(input, analyze(t, threeGameLog), 0); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestLinkIntoKeepsExistingTarget(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, ".run.html-1.tmp")
	target := filepath.Join(dir, "run.html")
	if err := os.WriteFile(tmp, []byte("new"), 0o644); err != nil {
		t.Fatalf("write tmp: %v", err)
	}
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}
	err := linkInto(tmp, target)
	if !errors.Is(err, ErrOutputExists) {
		t.Fatalf("expected ErrOutputExists, got %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(data) != "old" {
		t.Fatalf("target was replaced: %q", data)
	}

	if err := os.Remove(target); err != nil {
		t.Fatalf("remove target: %v", err)
	}
	if err := linkInto(tmp, target); err != nil {
		t.Fatalf("link: %v", err)
	}
	if data, _ := os.ReadFile(target); string(data) != "new" {
		t.Fatalf("unexpected target content %q", data)
	}
}
