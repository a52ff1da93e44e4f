package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/verte-zerg/matchlog/internal/matchlog"
)

// ErrOutputExists is returned when a derived output file is already present.
var ErrOutputExists = errors.New("output file exists")

// Outputs names the files written by Generate.
type Outputs struct {
	HTML    string
	Summary string
}

// CheckOutputs fails with ErrOutputExists if any of paths is present.
func CheckOutputs(paths ...string) error {
	for _, path := range paths {
		_, err := os.Lstat(path)
		if err == nil {
			return fmt.Errorf("file %s: %w", path, ErrOutputExists)
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return nil
}

// Generate writes the HTML report and the summary next to the match log.
// Both files are written to temporary files first and only linked into
// place once both are complete.
func Generate(input string, a *matchlog.Analysis, barScale int) (Outputs, error) {
	htmlPath, summaryPath := Paths(input)
	out := Outputs{HTML: htmlPath, Summary: summaryPath}
	if err := CheckOutputs(htmlPath, summaryPath); err != nil {
		return Outputs{}, err
	}

	opts := HTMLOptions{GamePrefix: GamePrefix(htmlPath), BarScale: barScale}
	htmlTmp, err := writeTemp(htmlPath, func(w io.Writer) error {
		return WriteHTML(w, a, opts)
	})
	if err != nil {
		return Outputs{}, err
	}
	defer removeQuietly(htmlTmp)

	summaryTmp, err := writeTemp(summaryPath, func(w io.Writer) error {
		return WriteSummary(w, a.Summary())
	})
	if err != nil {
		return Outputs{}, err
	}
	defer removeQuietly(summaryTmp)

	if err := CheckOutputs(htmlPath, summaryPath); err != nil {
		return Outputs{}, err
	}
	if err := linkInto(htmlTmp, htmlPath); err != nil {
		return Outputs{}, err
	}
	if err := linkInto(summaryTmp, summaryPath); err != nil {
		removeQuietly(htmlPath)
		return Outputs{}, err
	}
	return out, nil
}

// linkInto hard-links tmp to target, failing with ErrOutputExists instead of
// replacing a file that appeared after the last check. tmp is left in place.
func linkInto(tmp, target string) error {
	err := os.Link(tmp, target)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("file %s: %w", target, ErrOutputExists)
	default:
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
}

// writeTemp renders into a temporary file in the directory of target and
// returns its path. The temporary file is removed on failure.
func writeTemp(target string, render func(io.Writer) error) (string, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", target, err)
	}
	tmpPath := tmpFile.Name()
	ok := false
	defer func() {
		if !ok {
			_ = tmpFile.Close()
			removeQuietly(tmpPath)
		}
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := render(writer); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush %s: %w", target, err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		return "", fmt.Errorf("failed to chmod %s: %w", target, err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", target, err)
	}
	ok = true
	return tmpPath, nil
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil {
		// Never created.
		_ = err
	}
}
