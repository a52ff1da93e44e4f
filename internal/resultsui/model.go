// Package resultsui provides the Bubble Tea match results viewer.
package resultsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/matchlog/internal/matchlog"
	"github.com/verte-zerg/matchlog/internal/report"
)

const (
	tabOverview = iota
	tabBlack
	tabWhite
	tabGames
	tabCount
)

type keyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Top, k.Bottom, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Prev:   key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "prev tab")),
	Next:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next tab")),
	Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	tabBase = lipgloss.NewStyle().
		Padding(0, 2).
		Border(lipgloss.RoundedBorder(), true)
	tabActive = tabBase.
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			BorderForeground(lipgloss.Color("#5FAFD7"))
	tabIdle = tabBase.
		Foreground(lipgloss.Color("#9E9E9E")).
		BorderForeground(lipgloss.Color("#3A3A3A"))
	mutedText = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
	labelText = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")).Width(15)
)

// Model is the results viewer. Tab contents are rendered once per resize.
type Model struct {
	analysis *matchlog.Analysis
	path     string

	titles []string
	tab    int
	pages  [tabCount - 1]viewport.Model
	games  table.Model
	help   help.Model

	width  int
	height int
}

// NewModel returns a viewer for a. path is shown in the header only.
func NewModel(a *matchlog.Analysis, path string) *Model {
	m := &Model{
		analysis: a,
		path:     path,
		titles: []string{
			"Overview",
			"Result [" + a.Metadata.Black + "]",
			"Result [" + a.Metadata.White + "]",
			"Games",
		},
		games: newGameTable(a),
		help:  help.New(),
	}
	for i := range m.pages {
		m.pages[i] = viewport.New(0, 0)
	}
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
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Prev):
			m.selectTab(m.tab - 1)
			return m, tea.ClearScreen
		case key.Matches(msg, keys.Next):
			m.selectTab(m.tab + 1)
			return m, tea.ClearScreen
		case key.Matches(msg, keys.Top):
			if m.tab == tabGames {
				m.games.GotoTop()
			} else {
				m.pages[m.tab].GotoTop()
			}
			return m, nil
		case key.Matches(msg, keys.Bottom):
			if m.tab == tabGames {
				m.games.GotoBottom()
			} else {
				m.pages[m.tab].GotoBottom()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.tab == tabGames {
		m.games, cmd = m.games.Update(msg)
	} else {
		m.pages[m.tab], cmd = m.pages[m.tab].Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.header()
	footer := mutedText.Render(m.help.View(keys))
	bodyHeight := m.bodyHeight()

	var body string
	switch {
	case m.tab != tabGames:
		body = m.pages[m.tab].View()
	case len(m.analysis.Records) == 0:
		body = "No games in this log."
	default:
		body = m.games.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		fit(header, m.width, lipgloss.Height(header)),
		fit(body, m.width, bodyHeight),
		fit(footer, m.width, 1),
	)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	h := m.bodyHeight()
	for i := range m.pages {
		m.pages[i].Width = width
		m.pages[i].Height = h
	}
	m.games.SetWidth(width)
	m.games.SetHeight(max(h, 2))

	a := m.analysis
	m.pages[tabOverview].SetContent(overview(a, width))
	m.pages[tabBlack].SetContent(sidePage(a.Metadata.Black, &a.Black, a.Used, width))
	m.pages[tabWhite].SetContent(sidePage(a.Metadata.White, &a.White, a.Used, width))
}

func (m *Model) bodyHeight() int {
	return max(m.height-lipgloss.Height(m.header())-1, 1)
}

func (m *Model) selectTab(i int) {
	m.tab = (i + tabCount) % tabCount
	if m.tab == tabGames {
		m.games.Focus()
	} else {
		m.games.Blur()
	}
}

func (m *Model) header() string {
	tabs := make([]string, len(m.titles))
	for i, title := range m.titles {
		style := tabIdle
		if i == m.tab {
			style = tabActive
		}
		tabs[i] = style.Render(title)
	}
	a := m.analysis
	status := fmt.Sprintf("%s  %d games, %d used, %d errors, %d duplicates",
		m.path, a.Games, a.Used, a.Errors, a.Duplicates)
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...) + "\n" +
		mutedText.Render(runewidth.Truncate(status, max(m.width, 1), "..."))
}

func overview(a *matchlog.Analysis, width int) string {
	meta := a.Metadata
	fields := []struct{ label, value string }{
		{"Black", meta.Black},
		{"White", meta.White},
		{"Size", meta.Size},
		{"Komi", meta.Komi},
		{"Date", meta.Date},
		{"Host", meta.Host},
		{"Black command", meta.BlackCommand},
		{"White command", meta.WhiteCommand},
		{"Game length", fmt.Sprintf("%.1f (±%.1f), median %.1f", a.Length.Mean(), a.Length.StdError(), report.MedianLength(a))},
		{"CpuTime Black", fmt.Sprintf("%.1f (±%.1f)", a.CPUBlack.Mean(), a.CPUBlack.StdError())},
		{"CpuTime White", fmt.Sprintf("%.1f (±%.1f)", a.CPUWhite.Mean(), a.CPUWhite.StdError())},
	}
	var b strings.Builder
	b.WriteString(report.SummaryCards(a, width))
	b.WriteString("\n\n")
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		b.WriteString(labelText.Render(f.label) + f.value + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func sidePage(name string, side *matchlog.Side, used, width int) string {
	var buf bytes.Buffer
	if err := report.RenderSide(&buf, name, side, used, report.ConsoleOptions{Width: width, UseColor: true}); err != nil {
		return "render failed: " + err.Error()
	}
	return strings.TrimRight(buf.String(), "\n")
}

func newGameTable(a *matchlog.Analysis) table.Model {
	headers := []struct {
		title string
		width int
	}{
		{"Game", 6}, {"Result B", 9}, {"Result W", 9}, {"Alt", 3}, {"Dup", 5},
		{"Length", 6}, {"Cpu B", 8}, {"Cpu W", 8}, {"Err", 3}, {"Message", 30},
	}
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		columns[i] = table.Column{Title: h.title, Width: h.width}
	}
	gameRows := report.GameRows(a)
	rows := make([]table.Row, len(gameRows))
	for i, r := range gameRows {
		rows[i] = table.Row(r)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(lipgloss.Color("#D0D0D0")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#3A3A3A"))
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#005F87"))
	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithStyles(styles),
	)
}

// fit pads or cuts s to exactly height lines no wider than width.
func fit(s string, width, height int) string {
	return lipgloss.NewStyle().
		MaxWidth(width).
		Height(height).
		MaxHeight(height).
		Render(s)
}
