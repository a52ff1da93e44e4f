package matchlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/matchlog/internal/model"
)

const maxLineSize = 1 << 20

// Log is a fully read match log.
type Log struct {
	Metadata model.RunMetadata
	Records  []model.GameRecord
}

// ReadFile reads the match log at path.
func ReadFile(path string) (Log, error) {
	file, err := os.Open(path)
	if err != nil {
		return Log{}, fmt.Errorf("failed to open match log: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only log.
			_ = cerr
		}
	}()
	log, err := Read(file)
	if err != nil {
		return Log{}, fmt.Errorf("%s: %w", path, err)
	}
	return log, nil
}

// Read parses every line of r. Comment lines update the metadata, all other
// lines must be game records. The first malformed line aborts the read.
func Read(r io.Reader) (Log, error) {
	log := Log{Metadata: model.DefaultMetadata()}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, commentMarker) {
			ApplyComment(&log.Metadata, line[len(commentMarker):])
			continue
		}
		rec, err := ParseRecord(line, lineNo)
		if err != nil {
			return Log{}, err
		}
		log.Records = append(log.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return Log{}, fmt.Errorf("failed to read match log: %w", err)
	}
	return log, nil
}
