// Package ui renders terminal views for long cfmt runs.
package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cfmt/internal/driver"
)

const (
	// maxRows bounds the file rows shown under the header.
	maxRows     = 12
	statusWidth = 10
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	moreStyle  = lipgloss.NewStyle().Faint(true)

	statusStyles = map[string]lipgloss.Style{
		"formatted":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"unchanged":  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		"cached":     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		"error":      lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		"reading":    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"formatting": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"writing":    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
	defaultStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model

	files  []fileRow
	byPath map[string]int
	// recent holds the rows updated last, oldest first.
	recent   []int
	failures []int
	tally    tally
	// advance is the sum of every row's completion in [0, len(files)].
	advance float64

	width int
	done  bool
}

type fileRow struct {
	path   string
	status string
	stage  driver.Stage
}

func (r fileRow) completion() float64 {
	if finished(r.status) {
		return 1
	}
	return progressFromStage(r.stage)
}

type tally struct {
	done, changed, cached, failed int
}

func (t *tally) count(status string, delta int) {
	switch status {
	case "formatted":
		t.changed += delta
	case "cached":
		t.cached += delta
	case "error":
		t.failed += delta
	}
	if finished(status) {
		t.done += delta
	}
}

func (t tally) summary(total int) string {
	s := fmt.Sprintf("%d/%d, %d formatted", t.done, total, t.changed)
	if t.failed > 0 {
		s += fmt.Sprintf(", %d failed", t.failed)
	}
	return s
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders formatting
// progress. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		files:   make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.files[i] = fileRow{path: file, status: "queued"}
		m.byPath[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s (%s)", m.title, m.tally.summary(len(m.files)))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	rows := m.visibleRows()
	for _, i := range rows {
		row := m.files[i]
		status := statusStyle(row.status).Render(fmt.Sprintf("%*s", statusWidth, row.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(row.path, nameWidth))
	}
	if hidden := len(m.files) - len(rows); hidden > 0 {
		b.WriteString(moreStyle.Render(fmt.Sprintf("  %*s %d more", statusWidth, "", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visibleRows lists the failures followed by the most recently updated rows,
// at most maxRows of them unless failures alone exceed that.
func (m *progressModel) visibleRows() []int {
	rows := slices.Clone(m.failures)
	room := maxRows - len(rows)
	for i := len(m.recent) - 1; i >= 0 && room > 0; i-- {
		idx := m.recent[i]
		if m.files[idx].status == "error" {
			continue
		}
		rows = append(rows, idx)
		room--
	}
	slices.Reverse(rows[len(m.failures):])
	return rows
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	label := statusLabel(ev.Stage, ev.Status, ev.Changed)
	if label == "" {
		return nil
	}

	row := &m.files[idx]
	m.tally.count(row.status, -1)
	m.advance -= row.completion()
	row.status, row.stage = label, ev.Stage
	m.tally.count(row.status, 1)
	m.advance += row.completion()

	m.touch(idx)
	if label == "error" && !slices.Contains(m.failures, idx) {
		m.failures = append(m.failures, idx)
	}
	return m.bar.SetPercent(m.advance / float64(len(m.files)))
}

// touch moves idx to the end of the recent list.
func (m *progressModel) touch(idx int) {
	if i := slices.Index(m.recent, idx); i >= 0 {
		m.recent = slices.Delete(m.recent, i, i+1)
	}
	m.recent = append(m.recent, idx)
	if len(m.recent) > maxRows {
		m.recent = slices.Delete(m.recent, 0, len(m.recent)-maxRows)
	}
}

func progressFromStage(stage driver.Stage) float64 {
	switch stage {
	case driver.StageRead:
		return 0.1
	case driver.StageFormat:
		return 0.5
	case driver.StageWrite:
		return 0.9
	}
	return 0
}

func statusLabel(stage driver.Stage, status driver.Status, changed bool) string {
	switch status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusDone:
		if changed {
			return "formatted"
		}
		return "unchanged"
	case driver.StatusCached:
		return "cached"
	case driver.StatusError:
		return "error"
	case driver.StatusWorking:
		switch stage {
		case driver.StageRead:
			return "reading"
		case driver.StageFormat:
			return "formatting"
		case driver.StageWrite:
			return "writing"
		}
	}
	return ""
}

func finished(status string) bool {
	switch status {
	case "formatted", "unchanged", "cached", "error":
		return true
	}
	return false
}

func statusStyle(status string) lipgloss.Style {
	if st, ok := statusStyles[status]; ok {
		return st
	}
	return defaultStatusStyle
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
