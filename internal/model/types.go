// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/sinkbrookstein/Cryptography/internal/freq"
)

// ReferenceModel holds the language statistics the analysis is scored against.
// It is built once at startup and only read afterwards.
type ReferenceModel struct {
	Frequencies freq.Distribution
	EnglishIC   float64
	MinSamples  int
}

// AnalyzeConfig defines settings for a single analysis run.
type AnalyzeConfig struct {
	Source  string
	Workers int
	Save    bool
	Format  string
	Plot    bool
	Details bool
	Strict  bool
	Inspect bool
}

// HistoryConfig defines filters for stored analyses.
type HistoryConfig struct {
	Source string
	Since  *time.Time
	Last   int
}

// KeyLengthCandidate pairs a candidate key length with the average self-IC
// of its interleaved partitions.
type KeyLengthCandidate struct {
	Length int
	AvgIC  float64
}

// PositionScore records the shift search outcome for one key position.
type PositionScore struct {
	Position  int
	Shift     int
	MutualIC  float64
	RunnerUp  float64
	Recovered bool
}

// Margin is the gap between the winning and the runner-up mutual IC.
func (p PositionScore) Margin() float64 {
	return p.MutualIC - p.RunnerUp
}

// Estimate is the outcome of key-length estimation.
type Estimate struct {
	Length     int
	RawBest    int
	Shortlist  []int
	Candidates []KeyLengthCandidate
}

// Result is the outcome of a full analysis.
type Result struct {
	Estimate
	Key       []int
	KeyString string
	Positions []PositionScore
	Plaintext string
}

// AnalysisRecord is a stored analysis run.
type AnalysisRecord struct {
	ID            int64
	RunID         string
	CreatedAt     time.Time
	Source        string
	CipherLen     int
	KeyLength     int
	Key           string
	EnglishIC     float64
	MinSamples    int
	DurationMs    int64
	Partial       bool
	PlainPreview  string
	ShortlistSize int
}
