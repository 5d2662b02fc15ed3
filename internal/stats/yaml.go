package stats

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sinkbrookstein/Cryptography/internal/model"
)

type yamlCandidate struct {
	Length int     `yaml:"length"`
	AvgIC  float64 `yaml:"avg_ic"`
}

type yamlPosition struct {
	Position  int     `yaml:"position"`
	Letter    string  `yaml:"letter"`
	MutualIC  float64 `yaml:"mutual_ic"`
	RunnerUp  float64 `yaml:"runner_up"`
	Recovered bool    `yaml:"recovered"`
}

type yamlResult struct {
	KeyLength  int             `yaml:"key_length"`
	Key        string          `yaml:"key"`
	Partial    bool            `yaml:"partial,omitempty"`
	RawBest    int             `yaml:"raw_best"`
	Shortlist  []int           `yaml:"shortlist,flow"`
	EnglishIC  float64         `yaml:"english_ic"`
	MinSamples int             `yaml:"min_samples"`
	Candidates []yamlCandidate `yaml:"candidates"`
	Positions  []yamlPosition  `yaml:"positions"`
	Plaintext  string          `yaml:"plaintext"`
}

// RenderYAML writes the result as a YAML document.
func RenderYAML(w io.Writer, res model.Result, ref *model.ReferenceModel, partial bool) error {
	doc := yamlResult{
		KeyLength:  res.Length,
		Key:        res.KeyString,
		Partial:    partial,
		RawBest:    res.RawBest,
		Shortlist:  res.Shortlist,
		EnglishIC:  ref.EnglishIC,
		MinSamples: ref.MinSamples,
		Plaintext:  res.Plaintext,
	}
	for _, c := range res.Candidates {
		doc.Candidates = append(doc.Candidates, yamlCandidate{Length: c.Length, AvgIC: c.AvgIC})
	}
	for _, p := range res.Positions {
		doc.Positions = append(doc.Positions, yamlPosition{
			Position:  p.Position,
			Letter:    string(rune('a' + p.Shift)),
			MutualIC:  p.MutualIC,
			RunnerUp:  p.RunnerUp,
			Recovered: p.Recovered,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
