// Package stats renders analysis results and stored history.
package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/sinkbrookstein/Cryptography/internal/model"
)

const previewLen = 48

// RenderResult prints the recovered key length, key, and plaintext.
func RenderResult(w io.Writer, res model.Result) error {
	lines := []string{
		fmt.Sprintf("Key length: %d", res.Length),
		fmt.Sprintf("Key: %s", res.KeyString),
		"Plaintext:",
		res.Plaintext,
		"",
	}
	return writeLines(w, lines)
}

// RenderCandidates prints every scored key length. The raw best length, the
// divisor shortlist and the chosen length are marked.
func RenderCandidates(w io.Writer, res model.Result, englishIC float64) error {
	if len(res.Candidates) == 0 {
		_, err := fmt.Fprintln(w, "No key-length candidates.")
		return err
	}
	shortlisted := map[int]bool{}
	for _, k := range res.Shortlist {
		shortlisted[k] = true
	}
	tbl := newTable(right("Length"), right("Avg IC"), right("vs English"), left("Note"))
	for _, c := range res.Candidates {
		var notes []string
		if c.Length == res.RawBest {
			notes = append(notes, "raw best")
		}
		if shortlisted[c.Length] {
			notes = append(notes, "divisor")
		}
		if c.Length == res.Length {
			notes = append(notes, "chosen")
		}
		tbl.add(
			fmt.Sprintf("%d", c.Length),
			fmt.Sprintf("%.4f", c.AvgIC),
			fmt.Sprintf("%+.4f", c.AvgIC-englishIC),
			strings.Join(notes, ", "),
		)
	}
	lines := append([]string{"Key-Length Candidates"}, tbl.lines()...)
	return writeLines(w, append(lines, ""))
}

// RenderPositions prints the shift search outcome for every key position.
// The uncertain positions are flagged.
func RenderPositions(w io.Writer, positions []model.PositionScore, uncertain []int) error {
	if len(positions) == 0 {
		return nil
	}
	flagged := map[int]bool{}
	for _, p := range uncertain {
		flagged[p] = true
	}
	tbl := newTable(right("Pos"), left("Letter"), right("Mutual IC"), right("Runner-up"), right("Margin"), left(""))
	for _, p := range positions {
		note := ""
		switch {
		case !p.Recovered:
			note = "not recovered"
		case flagged[p.Position]:
			note = "uncertain"
		}
		tbl.add(
			fmt.Sprintf("%d", p.Position),
			string(rune('a'+p.Shift)),
			fmt.Sprintf("%.4f", p.MutualIC),
			fmt.Sprintf("%.4f", p.RunnerUp),
			fmt.Sprintf("%.4f", p.Margin()),
			note,
		)
	}
	lines := append([]string{"Key Positions"}, tbl.lines()...)
	return writeLines(w, append(lines, ""))
}

// RenderICPlot charts the average IC per candidate length against the
// English IC level.
func RenderICPlot(w io.Writer, cands []model.KeyLengthCandidate, englishIC float64, totalWidth, height int, forceColor bool) error {
	if len(cands) == 0 {
		return nil
	}
	ics := make([]float64, len(cands))
	level := make([]float64, len(cands))
	for i, c := range cands {
		ics[i] = c.AvgIC
		level[i] = englishIC
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	title := fmt.Sprintf("Average IC by key length (1..%d)", cands[len(cands)-1].Length)
	return PlotSeries(w, title, []Series{
		{Name: "avg IC", Values: ics},
		{Name: "English IC", Values: level, Dashed: true},
	}, width, height, forceColor)
}

// RenderHistory prints a table of stored analyses.
func RenderHistory(w io.Writer, records []model.AnalysisRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No analyses found.")
		return err
	}
	tbl := newTable(left("When"), left("Source"), right("Letters"), right("Length"), left("Key"), left("Preview"))
	for _, r := range records {
		key := r.Key
		if r.Partial {
			key += "*"
		}
		tbl.add(
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Source,
			fmt.Sprintf("%d", r.CipherLen),
			fmt.Sprintf("%d", r.KeyLength),
			key,
			Preview(r.PlainPreview),
		)
	}
	return writeLines(w, tbl.lines())
}

// Preview shortens plaintext for one-line display.
func Preview(text string) string {
	if len(text) <= previewLen {
		return text
	}
	return text[:previewLen-1] + "…"
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
