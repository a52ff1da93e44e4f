package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/matchlog/internal/report"
)

const sampleLog = `# Black: GNU Go
# White: Fuego
0	B+5.5	B+5.5	0	-	120	1.5	2.0	0
1	W+R	W+R	1	-	98	1.0	1.2	0
2	?	?	0	-	10	0	0	1	engine crashed
`

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	input := filepath.Join(dir, "run.dat")
	if err := os.WriteFile(input, []byte(sampleLog), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return input
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeWritesOutputsOnce(t *testing.T) {
	input := setupEnv(t)
	if _, err := execute(t, input); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	htmlPath, summaryPath := report.Paths(input)
	summary, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.HasPrefix(string(summary), "#") {
		t.Fatalf("unexpected summary %q", summary)
	}
	if _, err := os.Stat(htmlPath); err != nil {
		t.Fatalf("expected html output: %v", err)
	}

	_, err = execute(t, input)
	if !errors.Is(err, report.ErrOutputExists) {
		t.Fatalf("expected ErrOutputExists, got %v", err)
	}
}

func TestExistingOutputsCheckedBeforeParsing(t *testing.T) {
	input := setupEnv(t)
	if err := os.WriteFile(input, []byte("garbage line\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	htmlPath, _ := report.Paths(input)
	if err := os.WriteFile(htmlPath, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write html: %v", err)
	}
	_, err := execute(t, input)
	if !errors.Is(err, report.ErrOutputExists) {
		t.Fatalf("expected ErrOutputExists, got %v", err)
	}
}

func TestTinyHistogramStepRejected(t *testing.T) {
	input := setupEnv(t)
	_, err := execute(t, "show", "--hist-step", "1e-15", input)
	if err == nil || !strings.Contains(err.Error(), "buckets") {
		t.Fatalf("expected bucket limit error, got %v", err)
	}
}

func TestArchiveAndHistory(t *testing.T) {
	input := setupEnv(t)
	if _, err := execute(t, "--archive", input); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	out, err := execute(t, "history", "--player", "fuego")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "GNU Go") || !strings.Contains(out, "run.dat") {
		t.Fatalf("unexpected history output:\n%s", out)
	}
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	input := setupEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[analysis]\nhist-step = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := execute(t, "show", "--config", cfgPath, input); err == nil {
		t.Fatalf("expected invalid hist-step from config to fail")
	}
	out, err := execute(t, "show", "--config", cfgPath, "--hist-step", "5", input)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Result [GNU Go]") {
		t.Fatalf("unexpected show output:\n%s", out)
	}
	htmlPath, _ := report.Paths(input)
	if _, err := os.Stat(htmlPath); !os.IsNotExist(err) {
		t.Fatalf("show must not write outputs")
	}
}

func TestDefaultConfigTemplateMentionsKeys(t *testing.T) {
	tmpl := defaultConfigTemplate()
	for _, key := range []string{"[analysis]", "hist-min = -400", "hist-max = 400", "hist-step = 10", "bar-scale = 630", "archive"} {
		if !strings.Contains(tmpl, key) {
			t.Fatalf("template missing %q:\n%s", key, tmpl)
		}
	}
}

func TestHistoryPlot(t *testing.T) {
	input := setupEnv(t)
	if _, err := execute(t, "--archive", input); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	second := filepath.Join(filepath.Dir(input), "second.dat")
	if err := os.WriteFile(second, []byte(sampleLog), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	if _, err := execute(t, "--archive", second); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	out, err := execute(t, "history", "--plot", "--last", "2")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "second.dat") || !strings.Contains(out, "Black win rate per run") {
		t.Fatalf("unexpected history output:\n%s", out)
	}
}
