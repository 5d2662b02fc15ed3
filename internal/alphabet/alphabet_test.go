package alphabet

import "testing"

func TestShiftRoundTrip(t *testing.T) {
	for c := 'a'; c <= 'z'; c++ {
		for k := 0; k < Size; k++ {
			enc := ShiftEncode(c, k)
			if enc < 'A' || enc > 'Z' {
				t.Fatalf("ShiftEncode(%q, %d) = %q, want upper case", c, k, enc)
			}
			if got := ShiftDecode(enc, k); got != c {
				t.Fatalf("ShiftDecode(ShiftEncode(%q, %d)) = %q", c, k, got)
			}
		}
	}
}

func TestShiftWraps(t *testing.T) {
	cases := []struct {
		letter rune
		key    int
		enc    rune
		dec    rune
	}{
		{'a', 0, 'A', 'a'},
		{'z', 1, 'A', 'y'},
		{'y', 3, 'B', 'v'},
		{'A', 25, 'Z', 'b'},
		{'c', 26, 'C', 'c'},
	}
	for _, c := range cases {
		if got := ShiftEncode(c.letter, c.key); got != c.enc {
			t.Errorf("ShiftEncode(%q, %d) == %q, want %q", c.letter, c.key, got, c.enc)
		}
		if got := ShiftDecode(c.letter, c.key); got != c.dec {
			t.Errorf("ShiftDecode(%q, %d) == %q, want %q", c.letter, c.key, got, c.dec)
		}
	}
}

func TestClean(t *testing.T) {
	got := Clean("Hello, World! 42 ñ")
	if got != "helloworld" {
		t.Fatalf("unexpected clean output: %q", got)
	}
}

func TestParseKey(t *testing.T) {
	shifts, err := ParseKey("Lemon")
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}
	want := []int{11, 4, 12, 14, 13}
	if len(shifts) != len(want) {
		t.Fatalf("expected %d shifts, got %d", len(want), len(shifts))
	}
	for i := range want {
		if shifts[i] != want[i] {
			t.Fatalf("shift %d: expected %d, got %d", i, want[i], shifts[i])
		}
	}
	if FormatKey(shifts) != "lemon" {
		t.Fatalf("unexpected formatted key: %q", FormatKey(shifts))
	}
	for _, bad := range []string{"", "le mon", "k3y"} {
		if _, err := ParseKey(bad); err == nil {
			t.Fatalf("expected error for key %q", bad)
		}
	}
}
