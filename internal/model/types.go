// Package model defines shared data structures.
package model

import "time"

// GameRecord is one data line of a match log.
type GameRecord struct {
	Line         int
	GameIndex    int
	ResultBlack  string
	ResultWhite  string
	Alternated   bool
	DuplicateOf  string
	Length       int
	CPUBlack     float64
	CPUWhite     float64
	Error        bool
	ErrorMessage string
}

// Duplicate reports whether the record repeats an earlier game.
func (r GameRecord) Duplicate() bool {
	return r.DuplicateOf != ""
}

// RunMetadata holds the key/value pairs found in comment lines.
type RunMetadata struct {
	Black        string
	White        string
	BlackCommand string
	WhiteCommand string
	Size         string
	Komi         string
	Date         string
	Host         string
}

// DefaultMetadata returns metadata with the placeholder program names.
func DefaultMetadata() RunMetadata {
	return RunMetadata{Black: "Black", White: "White"}
}

// SideSummary is the per-side part of the summary row.
type SideSummary struct {
	Mean       float64
	MeanErr    float64
	WinRate    float64
	WinRateErr float64
	Unknown    float64
}

// Summary is the single aggregate row of the summary artifact.
type Summary struct {
	Games      int
	Errors     int
	Duplicates int
	Used       int
	Black      SideSummary
	White      SideSummary
}

// AnalysisConfig defines histogram and rendering options.
type AnalysisConfig struct {
	HistMin  float64
	HistMax  float64
	HistStep float64
	BarScale int
	Archive  bool
}

// RunRecord is an archived analysis run.
type RunRecord struct {
	ID         int64
	AnalyzedAt time.Time
	InputPath  string
	Metadata   RunMetadata
	Summary    Summary
}

// RunFilter narrows archived runs for listing.
type RunFilter struct {
	Player string
	Last   int
}
