// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/cubestats/internal/model"
	"github.com/verte-zerg/cubestats/internal/stats"
)

const (
	tabOverview = iota
	tabSessions
	tabCurves
	tabActivity
)

const (
	plotHeight         = 10
	defaultCurveWindow = 12
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
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI over one loaded export.
type Model struct {
	batch model.Batch
	cfg   model.StatsConfig

	report stats.Report
	errMsg string
	// curveSession is the session plotted on the curves tab.
	curveSession string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	sessionTable table.Model
	tableLayout  tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
	colCount int
}

// NewModel constructs a stats UI model and computes the first report.
func NewModel(batch model.Batch, cfg model.StatsConfig) *Model {
	if cfg.CurveWindow < 1 {
		cfg.CurveWindow = defaultCurveWindow
	}
	m := &Model{
		batch: batch,
		cfg:   cfg,
		tabs:  []string{"Overview", "Sessions", "Curves", "Activity"},
	}
	m.initInputs()
	m.sessionTable = table.New(table.WithHeight(1))
	m.sessionTable.SetStyles(sessionTableStyles())
	m.initViewports()
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
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		case "enter":
			if m.activeTab == tabSessions {
				m.selectSession()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabSessions {
				m.sessionTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSessions {
				m.sessionTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabSessions {
				var cmd tea.Cmd
				m.sessionTable, cmd = m.sessionTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
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
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Session: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Gap (minutes): "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[0].SetValue(strings.TrimSpace(m.cfg.Session))
	if m.cfg.Since != nil {
		m.filterInputs[1].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[1].SetValue("")
	}
	if m.cfg.Gap > 0 {
		m.filterInputs[2].SetValue(strconv.FormatFloat(m.cfg.Gap.Minutes(), 'f', -1, 64))
	} else {
		m.filterInputs[2].SetValue("")
	}
	m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := maxInt(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabSessions {
		m.sessionTable.Focus()
	} else {
		m.sessionTable.Blur()
	}
}

func (m *Model) selectSession() {
	row := m.sessionTable.SelectedRow()
	if len(row) == 0 {
		return
	}
	m.curveSession = row[0]
	m.renderTabContents()
	m.activeTab = tabCurves
	m.sessionTable.Blur()
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
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	session := m.cfg.Session
	if session == "" {
		session = "all"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	gap := m.report.Config.Gap
	summary := fmt.Sprintf("Settings: session=%s  since=%s  gap=%s  window=ao%d", session, since, gap, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	if m.activeTab == tabSessions {
		help = "Nav: left/right  Select: up/down  Plot session: enter  Window: -/=  Settings: /  Quit: q"
	}
	help = headerStyle.Render(help)
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabSessions {
		if len(m.report.Sessions) == 0 {
			return fitLines("No sessions found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.sessionTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

// refreshReport builds a new report for the current settings and swaps it in.
// On failure the previous report stays visible.
func (m *Model) refreshReport() {
	report, err := stats.BuildReport(m.batch, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.report = report
	if _, ok := stats.FindSession(report.Sessions, m.curveSession); !ok {
		m.curveSession = ""
		if top := stats.TopSessionsBySolves(report.Sessions, 1); len(top) > 0 {
			m.curveSession = top[0]
		}
	}
	cols, rows := buildSessionTableData(report)
	m.sessionTable.SetRows(nil)
	m.sessionTable.SetColumns(cols)
	m.sessionTable.SetRows(rows)
	m.tableLayout.rowCount = len(rows)
	m.tableLayout.colCount = len(cols)
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabCurves].SetContent(renderCurves(m.report, m.curveSession, m.cfg.CurveWindow, width))
	m.viewports[tabActivity].SetContent(renderActivity(m.report))
}

func renderOverview(r stats.Report, width int) string {
	if len(r.Sessions) == 0 {
		return "No sessions found."
	}
	var buf bytes.Buffer
	buf.WriteString(renderSummaryCards(r, width))
	buf.WriteString("\n\n")
	if err := stats.RenderHighlights(&buf, r); err != nil {
		return fmt.Sprintf("Failed to render highlights: %v", err)
	}
	if err := stats.RenderTimeSpent(&buf, r); err != nil {
		return fmt.Sprintf("Failed to render time spent: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderSummaryCards(r stats.Report, width int) string {
	solves := 0
	for _, s := range r.Sessions {
		solves += len(s.Solves)
	}
	var spent time.Duration
	for _, p := range r.Periods {
		spent += p.Duration()
	}
	best := "-"
	if r.PBDensity.BestDate != "" {
		best = fmt.Sprintf("%s (%d)", r.PBDensity.BestDate, r.PBDensity.Counts[r.PBDensity.BestDate])
	}
	cards := []string{
		metricCard("Sessions", humanize.Comma(int64(len(r.Sessions)))),
		metricCard("Solves", humanize.Comma(int64(solves))),
		metricCard("Periods", humanize.Comma(int64(len(r.Periods)))),
		metricCard("Time Cubing", stats.FormatDuration(spent)),
		metricCard("Per Day", stats.FormatDuration(r.AveragePerDay)),
		metricCard("Most PBs", best),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(r stats.Report, sessionName string, window, width int) string {
	session, ok := stats.FindSession(r.Sessions, sessionName)
	if !ok {
		return "No sessions found."
	}
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, session, []int{1, window}, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	if err := stats.RenderPBs(&buf, session, window); err != nil {
		return fmt.Sprintf("Failed to render PBs: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderActivity(r stats.Report) string {
	var buf bytes.Buffer
	if err := stats.RenderActivity(&buf, r.Activity); err != nil {
		return fmt.Sprintf("Failed to render activity: %v", err)
	}
	if len(r.Monthly.Months) > 0 {
		totals := make([]float64, len(r.Monthly.Months))
		for i, month := range r.Monthly.Months {
			for _, hours := range r.Monthly.Hours[month] {
				totals[i] += hours
			}
		}
		fmt.Fprintf(&buf, "Monthly hours %s to %s\n%s\n", r.Monthly.Months[0], r.Monthly.Months[len(r.Monthly.Months)-1], stats.Sparkline(totals))
		for i, month := range r.Monthly.Months {
			fmt.Fprintf(&buf, "%s  %6.1fh\n", month, math.Round(totals[i]*10)/10)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildSessionTableData(r stats.Report) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Session", Width: 16},
		{Title: "Event", Width: 20},
		{Title: "Solves", Width: 7},
		{Title: "DNF", Width: 5},
		{Title: "Best", Width: 8},
		{Title: "Mean", Width: 8},
	}
	for _, n := range r.Config.Windows {
		columns = append(columns,
			table.Column{Title: fmt.Sprintf("ao%d", n), Width: 8},
			table.Column{Title: fmt.Sprintf("PB ao%d", n), Width: 9},
		)
	}
	rows := make([]table.Row, 0, len(r.Summaries))
	for _, s := range r.Summaries {
		row := table.Row{
			s.Name,
			r.Config.Categories.Name(s.Category),
			humanize.Comma(int64(s.Solves)),
			strconv.Itoa(s.DNFs),
			stats.FormatTime(s.BestSingle),
			stats.FormatTime(s.Mean),
		}
		for _, ws := range s.Windows {
			current, best := "-", "-"
			if ws.HasCurrent {
				current = stats.FormatTime(ws.Current)
			}
			if ws.HasBest {
				best = stats.FormatTime(ws.Best)
			}
			row = append(row, current, best)
		}
		rows = append(rows, row)
	}
	return columns, rows
}

func (m *Model) setTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.sessionTable.SetWidth(width)
	m.sessionTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustTableHeight(height)
	if m.tableLayout.height != viewportHeight {
		m.tableLayout.height = viewportHeight
		m.sessionTable.SetHeight(viewportHeight)
	}
}

// adjustTableHeight corrects for the header border so the rendered table
// fills the body exactly.
func (m *Model) adjustTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.sessionTable.Height()
	for i := 0; i < 2; i++ {
		viewHeight := lipgloss.Height(m.sessionTable.View())
		if viewHeight == target {
			return height
		}
		height = maxInt(1, height+target-viewHeight)
		m.sessionTable.SetHeight(height)
	}
	return height
}

func sessionTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := m.parseFilter()
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.cfg = cfg
		m.refreshReport()
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

// parseFilter returns a copy of the config with the form values applied.
func (m *Model) parseFilter() (model.StatsConfig, error) {
	cfg := m.cfg
	cfg.Session = strings.TrimSpace(m.filterInputs[0].Value())
	if cfg.Session != "" {
		if _, ok := stats.FindSession(m.batch.Sessions, cfg.Session); !ok {
			return cfg, fmt.Errorf("unknown session %q", cfg.Session)
		}
	}

	cfg.Since = nil
	if sinceInput := strings.TrimSpace(m.filterInputs[1].Value()); sinceInput != "" {
		loc := m.batch.Location
		if loc == nil {
			loc = time.Local
		}
		parsed, err := time.ParseInLocation("2006-01-02", sinceInput, loc)
		if err != nil {
			return cfg, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}

	cfg.Gap = 0
	if gapInput := strings.TrimSpace(m.filterInputs[2].Value()); gapInput != "" {
		minutes, err := strconv.ParseFloat(gapInput, 64)
		if err != nil || minutes <= 0 {
			return cfg, fmt.Errorf("invalid gap (use minutes > 0)")
		}
		cfg.Gap = time.Duration(minutes * float64(time.Minute))
	}

	if windowInput := strings.TrimSpace(m.filterInputs[3].Value()); windowInput != "" {
		parsed, err := strconv.Atoi(windowInput)
		if err != nil || parsed < 1 {
			return cfg, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		cfg.CurveWindow = parsed
	}
	return cfg, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
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
