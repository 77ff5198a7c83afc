// Package viewer provides the Bubble Tea interface for browsing the summaries.
package viewer

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/fatalstats/internal/aggregate"
	"github.com/verte-zerg/fatalstats/internal/dataset"
	"github.com/verte-zerg/fatalstats/internal/model"
	"github.com/verte-zerg/fatalstats/internal/report"
)

const (
	tabRaces = iota
	tabYears
	tabStates
)

const minTableHeight = 3

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
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea summary browser.
type Model struct {
	res     *dataset.Result
	display model.DisplayConfig

	tabs      []string
	activeTab int
	tables    []table.Model
	keys      [][]string
	detail    viewport.Model

	width  int
	height int
}

// NewModel constructs a viewer over a loaded result.
func NewModel(res *dataset.Result, display model.DisplayConfig) *Model {
	m := &Model{
		res:     res,
		display: display,
		tabs:    []string{"Races", "Years", "States"},
		detail:  viewport.New(0, 0),
	}
	m.initTables()
	m.refreshDetail()
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
		m.refreshDetail()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "g", "home":
			m.tables[m.activeTab].GotoTop()
			m.refreshDetail()
			return m, nil
		case "G", "end":
			m.tables[m.activeTab].GotoBottom()
			m.refreshDetail()
			return m, nil
		default:
			var cmd tea.Cmd
			m.tables[m.activeTab], cmd = m.tables[m.activeTab].Update(msg)
			m.refreshDetail()
			return m, cmd
		}
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

// ActiveTab returns the index of the visible tab.
func (m *Model) ActiveTab() int {
	return m.activeTab
}

// SelectedKey returns the key of the selected row in the visible tab.
func (m *Model) SelectedKey() string {
	keys := m.keys[m.activeTab]
	idx := m.tables[m.activeTab].Cursor()
	if idx < 0 || idx >= len(keys) {
		return ""
	}
	return keys[idx]
}

func (m *Model) initTables() {
	agg := m.res.Agg
	m.tables = make([]table.Model, len(m.tabs))
	m.keys = make([][]string, len(m.tabs))

	races := aggregate.TopByTotal(agg.ByRace.Stats, 0, aggregate.AgeTotal)
	total := agg.Records()
	raceRows := make([]table.Row, 0, len(races))
	raceKeys := make([]string, 0, len(races))
	for _, r := range races {
		share := 0.0
		if total > 0 {
			share = float64(r.Total) / float64(total) * 100
		}
		raceRows = append(raceRows, table.Row{r.Key.Label(), fmt.Sprintf("%d", r.Total), fmt.Sprintf("%.1f%%", share)})
		raceKeys = append(raceKeys, r.Key.Code())
	}
	m.tables[tabRaces] = newTable([]table.Column{
		{Title: "Race", Width: 16},
		{Title: "Total", Width: 7},
		{Title: "Share", Width: 7},
	}, raceRows)
	m.keys[tabRaces] = raceKeys

	years := aggregate.SortedKeys(agg.ByYear.Stats)
	yearRows := make([]table.Row, 0, len(years))
	yearKeys := make([]string, 0, len(years))
	for _, y := range years {
		yearRows = append(yearRows, table.Row{fmt.Sprintf("%d", y), fmt.Sprintf("%d", agg.ByYear.Stats[y].Total)})
		yearKeys = append(yearKeys, fmt.Sprintf("%d", y))
	}
	m.tables[tabYears] = newTable([]table.Column{
		{Title: "Year", Width: 6},
		{Title: "Total", Width: 7},
	}, yearRows)
	m.keys[tabYears] = yearKeys

	states := aggregate.SortedKeys(agg.ByState.Stats)
	if len(states) > 0 && states[0] == aggregate.UnknownState {
		states = append(states[1:], aggregate.UnknownState)
	}
	stateRows := make([]table.Row, 0, len(states))
	for _, s := range states {
		code := s
		if code == aggregate.UnknownState {
			code = "-"
		}
		stateRows = append(stateRows, table.Row{code, report.RegionName(m.display.Regions, s), fmt.Sprintf("%d", agg.ByState.Stats[s].Total)})
	}
	m.tables[tabStates] = newTable([]table.Column{
		{Title: "State", Width: 5},
		{Title: "Name", Width: 20},
		{Title: "Total", Width: 7},
	}, stateRows)
	m.keys[tabStates] = states
}

func newTable(cols []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(minTableHeight),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#5A3E12")).
		Bold(true)
	return styles
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	tableHeight := maxInt(minTableHeight, bodyHeight-2)
	for i := range m.tables {
		m.tables[i].SetHeight(tableHeight)
	}
	m.detail.Width = maxInt(20, m.width-lipgloss.Width(m.tables[m.activeTab].View())-6)
	m.detail.Height = maxInt(1, bodyHeight-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.updateLayout()
	m.refreshDetail()
}

func (m *Model) refreshDetail() {
	m.detail.SetContent(m.renderDetail())
	m.detail.GotoTop()
}

func (m *Model) renderDetail() string {
	key := m.SelectedKey()
	if len(m.keys[m.activeTab]) == 0 {
		return "No records found."
	}
	agg := m.res.Agg
	var buf bytes.Buffer
	var err error
	switch m.activeTab {
	case tabRaces:
		race := model.ParseRace(key)
		err = report.RenderAgeGroups(&buf, race, agg.ByRace.Stats[race])
	case tabYears:
		var year int
		if _, serr := fmt.Sscanf(key, "%d", &year); serr != nil {
			return fmt.Sprintf("Invalid year %q", key)
		}
		err = report.RenderTopStates(&buf, year, agg.ByYear.Stats[year], m.display.Regions, m.top())
	case tabStates:
		s := agg.ByState.Stats[key]
		if key != aggregate.UnknownState && s != nil {
			maxTotal := 0
			for k, v := range agg.ByState.Stats {
				if k != aggregate.UnknownState && v.Total > maxTotal {
					maxTotal = v.Total
				}
			}
			swatch := lipgloss.NewStyle().Background(lipgloss.Color(report.ShadeHex(s.Total, maxTotal))).Render("    ")
			buf.WriteString(swatch + fmt.Sprintf(" %d of max %d\n", s.Total, maxTotal))
		}
		err = report.RenderStateRaces(&buf, key, s, m.display.Regions)
	}
	if err != nil {
		return fmt.Sprintf("Failed to render details: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) top() int {
	if m.display.Top <= 0 {
		return report.DefaultTop
	}
	return m.display.Top
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLines(m.renderSummary(), m.width)
}

func (m *Model) renderSummary() string {
	agg := m.res.Agg
	caption := report.UpdatedCaption(time.Time{})
	if m.res.HasUpdated() {
		caption = report.UpdatedCaption(m.res.Updated)
	}
	summary := fmt.Sprintf("Records: %d  Skipped: %d  %s", agg.Records(), agg.ByYear.Skipped, caption)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	return headerStyle.Render("Nav: left/right  Select: up/down  Top/Bottom: g/G  Quit: q")
}

func (m *Model) renderBody() string {
	tableView := tableMutedStyle.Render(m.tables[m.activeTab].View())
	detail := cardStyle.Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, tableView, "  ", detail)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
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
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
