package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes splits plaintext into blocks of keyLen letters, one block
// per key period, and styles each letter by the key position that
// decrypted it.
func buildStyledRunes(plaintext string, keyLen, selected int, uncertain map[int]bool) []styledRune {
	out := make([]styledRune, 0, len(plaintext)+len(plaintext)/max(keyLen, 1))
	for i, r := range plaintext {
		if keyLen > 0 && i > 0 && i%keyLen == 0 {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		style := plainStyle
		if keyLen > 0 {
			switch pos := i % keyLen; {
			case pos == selected:
				style = selectedStyle
			case uncertain[pos]:
				style = uncertainStyle
			}
		}
		out = append(out, styledRune{
			s:     style.Render(string(r)),
			width: runewidth.RuneWidth(r),
		})
	}
	return out
}

// renderKey shows the key with the selected letter upper-cased.
func renderKey(key []int, selected int, uncertain map[int]bool) string {
	var b strings.Builder
	for j, k := range key {
		letter := string(rune('a' + k))
		var style lipgloss.Style
		switch {
		case j == selected:
			letter = strings.ToUpper(letter)
			style = selectedStyle
		case uncertain[j]:
			style = uncertainStyle
		default:
			style = plainStyle
		}
		b.WriteString(style.Render(letter))
	}
	return b.String()
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at block boundaries, or mid-block when a
// single block is wider than the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, width)
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpace]))
				line = append([]styledRune{}, line[lastSpace+1:]...)
			} else {
				out.WriteString(renderStyledRunes(line))
				line = line[:0]
			}
			out.WriteByte('\n')
			lineWidth, lastSpace = measure(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func measure(line []styledRune) (width, lastSpace int) {
	lastSpace = -1
	for i, item := range line {
		width += item.width
		if item.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
