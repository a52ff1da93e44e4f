package matchlog

import (
	"fmt"

	"github.com/verte-zerg/matchlog/internal/model"
	"github.com/verte-zerg/matchlog/internal/stats"
)

// Default analysis range for score margins and the pixel width of a full
// histogram bar in the HTML report.
const (
	DefaultHistMin  = -400
	DefaultHistMax  = 400
	DefaultHistStep = 10
	DefaultBarScale = 630
)

// Side holds the statistics of the results reported by one program.
type Side struct {
	Margin  *stats.Histogram
	Win     stats.Accumulator
	Unknown stats.Accumulator
	// Margins lists valid margins in log order.
	Margins []float64
}

func (s *Side) add(token string) {
	value, ok := ParseResult(token)
	if ok {
		s.Margin.Add(value)
		win := 0.0
		if value > 0 {
			win = 1
		}
		s.Win.Add(win)
		s.Margins = append(s.Margins, value)
	}
	unknown := 1.0
	if ok {
		unknown = 0
	}
	s.Unknown.Add(unknown)
}

// Summary returns the summary columns of the side.
func (s *Side) Summary() model.SideSummary {
	return model.SideSummary{
		Mean:       s.Margin.Mean(),
		MeanErr:    s.Margin.StdError(),
		WinRate:    s.Win.Mean(),
		WinRateErr: s.Win.StdError(),
		Unknown:    s.Unknown.Mean(),
	}
}

// Analysis is the result of one aggregation pass.
type Analysis struct {
	Metadata model.RunMetadata
	Records  []model.GameRecord

	Games      int
	Errors     int
	Duplicates int
	Used       int

	Black    Side
	White    Side
	CPUBlack stats.Accumulator
	CPUWhite stats.Accumulator
	Length   stats.Accumulator
	// Lengths lists the lengths of counted games in log order.
	Lengths []float64
}

// Aggregate classifies every record and feeds the counted ones into fresh
// accumulators. Errors take priority over duplicates.
func Aggregate(log Log, cfg model.AnalysisConfig) (*Analysis, error) {
	black, err := stats.NewHistogram(cfg.HistMin, cfg.HistMax, cfg.HistStep)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis range: %w", err)
	}
	white, err := stats.NewHistogram(cfg.HistMin, cfg.HistMax, cfg.HistStep)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis range: %w", err)
	}
	a := &Analysis{
		Metadata: log.Metadata,
		Records:  log.Records,
		Black:    Side{Margin: black},
		White:    Side{Margin: white},
	}
	for _, rec := range log.Records {
		a.Games++
		switch {
		case rec.Error:
			a.Errors++
		case rec.Duplicate():
			a.Duplicates++
		default:
			a.Used++
			a.Black.add(rec.ResultBlack)
			a.White.add(rec.ResultWhite)
			a.CPUBlack.Add(rec.CPUBlack)
			a.CPUWhite.Add(rec.CPUWhite)
			a.Length.Add(float64(rec.Length))
			a.Lengths = append(a.Lengths, float64(rec.Length))
		}
	}
	return a, nil
}

// Summary returns the aggregate row of the summary artifact.
func (a *Analysis) Summary() model.Summary {
	return model.Summary{
		Games:      a.Games,
		Errors:     a.Errors,
		Duplicates: a.Duplicates,
		Used:       a.Used,
		Black:      a.Black.Summary(),
		White:      a.White.Summary(),
	}
}

// DefaultConfig returns the analysis settings used when nothing is configured.
func DefaultConfig() model.AnalysisConfig {
	return model.AnalysisConfig{
		HistMin:  DefaultHistMin,
		HistMax:  DefaultHistMax,
		HistStep: DefaultHistStep,
		BarScale: DefaultBarScale,
	}
}
