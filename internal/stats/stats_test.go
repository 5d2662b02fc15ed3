package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sinkbrookstein/Cryptography/internal/model"
)

func sampleResult() model.Result {
	return model.Result{
		Estimate: model.Estimate{
			Length:    3,
			RawBest:   6,
			Shortlist: []int{3},
			Candidates: []model.KeyLengthCandidate{
				{Length: 1, AvgIC: 0.041},
				{Length: 2, AvgIC: 0.043},
				{Length: 3, AvgIC: 0.064},
				{Length: 4, AvgIC: 0.042},
				{Length: 5, AvgIC: 0.041},
				{Length: 6, AvgIC: 0.066},
			},
		},
		Key:       []int{10, 4, 24},
		KeyString: "key",
		Positions: []model.PositionScore{
			{Position: 0, Shift: 10, MutualIC: 0.066, RunnerUp: 0.044, Recovered: true},
			{Position: 1, Shift: 4, MutualIC: 0.050, RunnerUp: 0.048, Recovered: true},
			{Position: 2, Shift: 24, MutualIC: 0.063, RunnerUp: 0.041, Recovered: true},
		},
		Plaintext: "meetmeatnoon",
	}
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderResult(&buf, sampleResult()); err != nil {
		t.Fatalf("RenderResult failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Key length: 3", "Key: key", "meetmeatnoon"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestRenderCandidatesMarksChoices(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCandidates(&buf, sampleResult(), 0.065); err != nil {
		t.Fatalf("RenderCandidates failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	var three, six string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "3":
			three = line
		case "6":
			six = line
		}
	}
	if !strings.Contains(three, "divisor, chosen") {
		t.Fatalf("expected length 3 to be marked chosen divisor: %q", three)
	}
	if !strings.Contains(six, "raw best") || strings.Contains(six, "chosen") {
		t.Fatalf("expected length 6 to be marked raw best only: %q", six)
	}
	if !strings.Contains(six, "+0.0010") {
		t.Fatalf("expected english delta for length 6: %q", six)
	}
}

func TestRenderPositionsFlagsUncertain(t *testing.T) {
	res := sampleResult()
	var buf bytes.Buffer
	if err := RenderPositions(&buf, res.Positions, UncertainPositions(res.Positions, 1)); err != nil {
		t.Fatalf("RenderPositions failed: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "uncertain") != 1 {
		t.Fatalf("expected exactly one uncertain position: %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "uncertain") && !strings.HasPrefix(strings.TrimSpace(line), "1 ") {
			t.Fatalf("expected position 1 to be uncertain: %q", line)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	records := []model.AnalysisRecord{
		{CreatedAt: time.Now(), Source: "a.txt", CipherLen: 837, KeyLength: 6, Key: "crypto", PlainPreview: "theharbor"},
		{CreatedAt: time.Now(), Source: "stdin", CipherLen: 120, KeyLength: 2, Key: "ab", Partial: true, PlainPreview: strings.Repeat("x", 100)},
	}
	if err := RenderHistory(&buf, records); err != nil {
		t.Fatalf("RenderHistory failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "crypto") || !strings.Contains(out, "ab*") {
		t.Fatalf("unexpected history output: %q", out)
	}
	if strings.Contains(out, strings.Repeat("x", 100)) {
		t.Fatalf("expected long preview to be shortened")
	}

	buf.Reset()
	if err := RenderHistory(&buf, nil); err != nil {
		t.Fatalf("RenderHistory failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No analyses found.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestUncertainPositions(t *testing.T) {
	positions := []model.PositionScore{
		{Position: 0, MutualIC: 0.06, RunnerUp: 0.04, Recovered: true},
		{Position: 1, MutualIC: 0.05, RunnerUp: 0.049, Recovered: true},
		{Position: 2, Recovered: false},
		{Position: 3, MutualIC: 0.06, RunnerUp: 0.05, Recovered: true},
	}
	got := UncertainPositions(positions, 2)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected uncertain positions: %v", got)
	}
	if got := UncertainPositions(positions, 0); got != nil {
		t.Fatalf("expected nil for zero top, got %v", got)
	}
	if got := UncertainPositions(positions, 10); len(got) != 4 {
		t.Fatalf("expected all positions, got %v", got)
	}
}

func TestTopCandidates(t *testing.T) {
	cands := []model.KeyLengthCandidate{
		{Length: 1, AvgIC: 0.041},
		{Length: 2, AvgIC: 0.066},
		{Length: 3, AvgIC: 0.050},
		{Length: 4, AvgIC: 0.066},
	}
	top := TopCandidates(cands, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(top))
	}
	if top[0].Length != 2 || top[1].Length != 4 || top[2].Length != 3 {
		t.Fatalf("unexpected order: %+v", top)
	}
	if cands[1].Length != 2 || cands[0].Length != 1 {
		t.Fatalf("input was reordered: %+v", cands)
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	ref := &model.ReferenceModel{EnglishIC: 0.065, MinSamples: 40}
	if err := RenderYAML(&buf, sampleResult(), ref, false); err != nil {
		t.Fatalf("RenderYAML failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"key_length: 3", "key: key", "shortlist: [3]", "letter: k", "plaintext: meetmeatnoon"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in yaml: %q", want, out)
		}
	}
	if strings.Contains(out, "partial") {
		t.Fatalf("expected partial to be omitted: %q", out)
	}
}
