package matchlog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/matchlog/internal/model"
)

const (
	minFields = 9
	maxFields = 10

	noDuplicate = "-"
)

// ParseRecord parses one tab-separated data line. lineNo is only used for
// error reporting.
func ParseRecord(line string, lineNo int) (model.GameRecord, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < minFields || len(fields) > maxFields {
		return model.GameRecord{}, &ParseError{
			Line:   lineNo,
			Reason: fmt.Sprintf("expected %d or %d fields, got %d", minFields, maxFields, len(fields)),
		}
	}
	p := fieldParser{fields: fields, line: lineNo}
	rec := model.GameRecord{
		Line:        lineNo,
		GameIndex:   p.atoi(0, "game index"),
		ResultBlack: fields[1],
		ResultWhite: fields[2],
		Alternated:  p.atoi(3, "alternated flag") != 0,
		DuplicateOf: fields[4],
		Length:      p.atoi(5, "length"),
		CPUBlack:    p.parseFloat(6, "cpu black"),
		CPUWhite:    p.parseFloat(7, "cpu white"),
		Error:       p.atoi(8, "error flag") != 0,
	}
	if p.err != nil {
		return model.GameRecord{}, p.err
	}
	if rec.DuplicateOf == noDuplicate {
		rec.DuplicateOf = ""
	}
	if len(fields) == maxFields {
		rec.ErrorMessage = fields[9]
	}
	return rec, nil
}

// fieldParser keeps the first conversion error so that a record can be read
// field by field without checking after each one.
type fieldParser struct {
	fields []string
	line   int
	err    error
}

func (p *fieldParser) atoi(i int, name string) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.fields[i])
	if err != nil {
		p.fail(i, name)
	}
	return v
}

func (p *fieldParser) parseFloat(i int, name string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.fields[i], 64)
	if err != nil {
		p.fail(i, name)
	}
	return v
}

func (p *fieldParser) fail(i int, name string) {
	p.err = &ParseError{
		Line:   p.line,
		Reason: fmt.Sprintf("invalid %s %q", name, p.fields[i]),
	}
}
