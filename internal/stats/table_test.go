package stats

import "testing"

func TestTableAlignsColumns(t *testing.T) {
	tbl := newTable(right("Length"), right("Avg IC"), left("Note"))
	tbl.add("6", "0.0661", "chosen")
	tbl.add("12", "0.0670", "raw best")

	lines := tbl.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Length Avg IC Note    " {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "     6 0.0661 chosen  " {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "    12 0.0670 raw best" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTableShortAndLongRows(t *testing.T) {
	tbl := newTable(left("Key"), right("Len"))
	tbl.add("ab")
	tbl.add("crypto", "6", "extra")

	lines := tbl.lines()
	want := []string{
		"Key    Len",
		"ab        ",
		"crypto   6",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTableWideRunes(t *testing.T) {
	tbl := newTable(left("Source"), right("N"))
	tbl.add("日本", "1")

	lines := tbl.lines()
	if lines[0] != "Source N" || lines[1] != "日本   1" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestTableNoColumns(t *testing.T) {
	if lines := newTable().lines(); lines != nil {
		t.Fatalf("expected nil, got %q", lines)
	}
}
