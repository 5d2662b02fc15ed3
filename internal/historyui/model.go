// Package historyui provides the Bubble Tea browser for stored analyses.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sinkbrookstein/Cryptography/internal/model"
	"github.com/sinkbrookstein/Cryptography/internal/stats"
	"github.com/sinkbrookstein/Cryptography/internal/store"
)

const (
	tabRuns = iota
	tabCandidates
)

const (
	plotHeight    = 10
	topCandidates = 5
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea history browser.
type Model struct {
	store *store.Store
	cfg   model.HistoryConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	runs      table.Model
	detail    viewport.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a history browser over st filtered by cfg.
func NewModel(st *store.Store, cfg model.HistoryConfig) *Model {
	m := &Model{
		store:  st,
		cfg:    cfg,
		tabs:   []string{"Runs", "Candidates"},
		detail: viewport.New(0, 0),
	}
	m.filterInputs = []textinput.Model{
		newFilterInput("Source: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
	}
	m.runs = table.New(
		table.WithColumns(runColumns()),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	m.runs.SetStyles(tableStyles())
	m.refreshReport()
	return m
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
		m.updateLayout()
		m.renderDetail()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "enter":
			if m.activeTab == tabRuns {
				m.moveTab(1)
				return m, tea.ClearScreen
			}
			return m, nil
		case "/":
			return m.startFilter()
		}
		var cmd tea.Cmd
		if m.activeTab == tabRuns {
			m.runs, cmd = m.runs.Update(msg)
			m.renderDetail()
			return m, cmd
		}
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func runColumns() []table.Column {
	return []table.Column{
		{Title: "When", Width: 16},
		{Title: "Source", Width: 16},
		{Title: "Letters", Width: 7},
		{Title: "Length", Width: 6},
		{Title: "Key", Width: 12},
		{Title: "Preview", Width: 30},
	}
}

func runRows(records []model.AnalysisRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	// Newest first.
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		key := r.Key
		if r.Partial {
			key += "*"
		}
		rows = append(rows, table.Row{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Source,
			strconv.Itoa(r.CipherLen),
			strconv.Itoa(r.KeyLength),
			key,
			stats.Preview(r.PlainPreview),
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(lipgloss.Height(activeNavStyle.Render("X")), 1) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.detail.Width = m.width
	m.detail.Height = bodyHeight
	m.runs.SetWidth(m.width)
	// One line for the header row, one for its border.
	m.runs.SetHeight(max(bodyHeight-2, 1))
	for i := range m.filterInputs {
		m.filterInputs[i].Width = max(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = ((m.activeTab+delta)%count + count) % count
	if m.activeTab == tabRuns {
		m.runs.Focus()
	} else {
		m.runs.Blur()
		m.detail.GotoTop()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
		m.runs.SetRows(nil)
		m.detail.SetContent("Failed to load history.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.runs.SetRows(runRows(report.Records))
	m.runs.GotoTop()
	m.renderDetail()
}

// selectedRecord maps the table cursor back to a record; rows are listed
// newest first.
func (m *Model) selectedRecord() (model.AnalysisRecord, bool) {
	n := len(m.report.Records)
	idx := m.runs.Cursor()
	if n == 0 || idx < 0 || idx >= n {
		return model.AnalysisRecord{}, false
	}
	return m.report.Records[n-1-idx], true
}

func (m *Model) renderDetail() {
	if m.errMsg != "" {
		return
	}
	rec, ok := m.selectedRecord()
	if !ok {
		m.detail.SetContent("No analyses found.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.detail.SetContent(renderRun(rec, m.report.Candidates[rec.ID], width))
}

func renderRun(rec model.AnalysisRecord, cands []model.KeyLengthCandidate, width int) string {
	status := "complete"
	if rec.Partial {
		status = "partial"
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Key %q  length %d  (%s)", rec.Key, rec.KeyLength, status)),
		headerStyle.Render(fmt.Sprintf("run %s  source %s  %d letters  %d ms", rec.RunID, rec.Source, rec.CipherLen, rec.DurationMs)),
		headerStyle.Render(fmt.Sprintf("english IC %.4f  min samples %d  shortlist %d", rec.EnglishIC, rec.MinSamples, rec.ShortlistSize)),
		truncateLine(rec.PlainPreview, width),
		"",
	}
	if len(cands) == 0 {
		return strings.Join(append(lines, "No candidates stored."), "\n")
	}
	var buf bytes.Buffer
	if err := stats.RenderICPlot(&buf, cands, rec.EnglishIC, width, plotHeight, true); err != nil {
		lines = append(lines, fmt.Sprintf("Failed to render plot: %v", err))
	} else {
		lines = append(lines, strings.TrimRight(buf.String(), "\n"), "")
	}
	lines = append(lines, "Top lengths by average IC")
	for _, c := range stats.TopCandidates(cands, topCandidates) {
		marker := " "
		if c.Length == rec.KeyLength {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %3d  %.4f", marker, c.Length, c.AvgIC))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := padLines(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
	return tabs + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	source := m.cfg.Source
	if source == "" {
		source = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filters: source=%s  since=%s  last=%s  runs=%d", source, since, last, len(m.report.Records))
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Select: up/down  Details: enter  Filters: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.filterMode {
		lines := []string{"Filters (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return strings.Join(lines, "\n")
	}
	if m.activeTab == tabRuns {
		if len(m.report.Records) == 0 {
			return "No analyses found."
		}
		return tableMutedStyle.Render(m.runs.View())
	}
	return m.detail.View()
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.filterInputs[0].SetValue(m.cfg.Source)
	m.filterInputs[1].SetValue("")
	if m.cfg.Since != nil {
		m.filterInputs[1].SetValue(m.cfg.Since.Format("2006-01-02"))
	}
	m.filterInputs[2].SetValue("")
	if m.cfg.Last > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.Last))
	}
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilter(m.filterInputs[0].Value(), m.filterInputs[1].Value(), m.filterInputs[2].Value())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx%count + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func parseFilter(sourceInput, sinceInput, lastInput string) (model.HistoryConfig, error) {
	cfg := model.HistoryConfig{Source: strings.TrimSpace(sourceInput)}
	if s := strings.TrimSpace(sinceInput); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if s := strings.TrimSpace(lastInput); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 0 {
			return model.HistoryConfig{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}
	return cfg, nil
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
