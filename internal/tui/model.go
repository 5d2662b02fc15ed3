// Package tui provides the Bubble Tea key inspector.
package tui

import (
	"fmt"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sinkbrookstein/Cryptography/internal/alphabet"
	"github.com/sinkbrookstein/Cryptography/internal/cipher"
	"github.com/sinkbrookstein/Cryptography/internal/model"
)

// Model lets the user walk the recovered key, rotate single key letters, and
// watch the plaintext re-decrypt.
type Model struct {
	ciphertext string
	original   []int
	key        []int
	plaintext  string
	selected   int
	uncertain  map[int]bool
	accepted   bool

	width  int
	height int
}

var (
	plainStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	uncertainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel starts the inspector on a finished analysis of ciphertext.
// Positions in uncertain are highlighted.
func NewModel(res model.Result, ciphertext string, uncertain []int) *Model {
	m := &Model{
		ciphertext: ciphertext,
		original:   append([]int(nil), res.Key...),
		key:        append([]int(nil), res.Key...),
		plaintext:  res.Plaintext,
		uncertain:  map[int]bool{},
	}
	for _, p := range uncertain {
		m.uncertain[p] = true
	}
	return m
}

// Key returns the key as currently edited.
func (m *Model) Key() []int {
	return append([]int(nil), m.key...)
}

// Plaintext returns the decryption under the current key.
func (m *Model) Plaintext() string {
	return m.plaintext
}

// Accepted reports whether the user confirmed the edited key.
func (m *Model) Accepted() bool {
	return m.accepted
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter":
			m.accepted = true
			return m, tea.Quit
		case "left", "h":
			m.moveSelection(-1)
		case "right", "l", "tab":
			m.moveSelection(1)
		case "up", "k":
			m.rotate(1)
		case "down", "j":
			m.rotate(-1)
		case "r":
			copy(m.key, m.original)
			m.redecrypt()
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.key) == 0 {
		return ""
	}
	runes := buildStyledRunes(m.plaintext, len(m.key), m.selected, m.uncertain)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(runes) + "\n" + m.renderFooter()
	}
	contentWidth := max(int(float64(m.width)*0.80), 1)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(runes, contentWidth))
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	return body + "\n" + footer
}

func (m *Model) moveSelection(delta int) {
	n := len(m.key)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+delta)%n + n) % n
}

func (m *Model) rotate(delta int) {
	if len(m.key) == 0 {
		return
	}
	m.key[m.selected] = ((m.key[m.selected]+delta)%alphabet.Size + alphabet.Size) % alphabet.Size
	m.redecrypt()
}

func (m *Model) redecrypt() {
	plaintext, err := cipher.DecryptShifts(m.ciphertext, m.key)
	if err != nil {
		logErrf("failed to decrypt: %v\n", err)
		return
	}
	m.plaintext = plaintext
}

func (m *Model) renderFooter() string {
	segments := []string{
		"Key " + renderKey(m.key, m.selected, m.uncertain),
		fmt.Sprintf("Length %d", len(m.key)),
		fmt.Sprintf("Position %d", m.selected),
	}
	if len(m.uncertain) > 0 {
		segments = append(segments, "Uncertain "+joinPositions(m.uncertain, len(m.key)))
	}
	if !slices.Equal(m.key, m.original) {
		segments = append(segments, "edited")
	}
	segments = append(segments, footerStyle.Render("←/→ select  ↑/↓ rotate  r reset  enter accept  q quit"))
	return strings.Join(segments, "  ")
}

func joinPositions(set map[int]bool, n int) string {
	parts := make([]string, 0, len(set))
	for j := 0; j < n; j++ {
		if set[j] {
			parts = append(parts, fmt.Sprintf("%d", j))
		}
	}
	return strings.Join(parts, ",")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
