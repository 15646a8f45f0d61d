// Package tui renders a read-only board over the task ledger. It queries
// the reporter and never mutates tasks.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aurda012/cursor10x/internal/models"
	"github.com/aurda012/cursor10x/internal/report"
)

var (
	boardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	statusPending    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
	statusInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan
	statusDone       = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // Green
	statusSkipped    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")) // Grey
)

var filters = []models.TaskStatus{
	"",
	models.TaskStatusPending,
	models.TaskStatusInProgress,
	models.TaskStatusDone,
	models.TaskStatusSkipped,
}
var filterLabels = []string{"all", "pending", "in-progress", "done", "skipped"}

// taskItem implements list.Item for the board.
type taskItem struct {
	task models.Task
}

func (i taskItem) FilterValue() string { return i.task.Title }
func (i taskItem) Title() string       { return fmt.Sprintf("%s  %s", i.task.ID, i.task.Title) }
func (i taskItem) Description() string {
	status := formatStatus(i.task.Status)
	if i.task.AssignedAgent != "" {
		return fmt.Sprintf("%s • %s", status, i.task.AssignedAgent)
	}
	return status
}

func formatStatus(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusPending:
		return statusPending.Render("● pending")
	case models.TaskStatusInProgress:
		return statusInProgress.Render("● in-progress")
	case models.TaskStatusDone:
		return statusDone.Render("● done")
	case models.TaskStatusSkipped:
		return statusSkipped.Render("● skipped")
	default:
		return string(status)
	}
}

type tasksLoadedMsg struct {
	tasks   []models.Task
	summary report.Summary
}

type errMsg struct {
	err error
}

// Model is the board's top-level bubbletea model.
type Model struct {
	reporter    *report.Reporter
	list        list.Model
	summary     report.Summary
	filterIndex int
	showDetail  bool
	detail      *models.Task
	width       int
	height      int
	err         error
}

// NewModel creates the board model over a reporter.
func NewModel(r *report.Reporter) *Model {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 80, 20)
	l.Title = "Tasks [all]"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = boardTitleStyle

	return &Model{reporter: r, list: l}
}

// Run starts the board program.
func Run(r *report.Reporter) error {
	p := tea.NewProgram(NewModel(r), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init loads the first snapshot.
func (m *Model) Init() tea.Cmd {
	return m.refresh()
}

// refresh reloads tasks and the summary from the ledger.
func (m *Model) refresh() tea.Cmd {
	filter := filters[m.filterIndex]
	return func() tea.Msg {
		tasks, err := m.reporter.List(filter)
		if err != nil {
			return errMsg{err}
		}
		sum, err := m.reporter.Summary()
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks: tasks, summary: sum}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tasksLoadedMsg:
		m.err = nil
		m.summary = msg.summary
		items := make([]list.Item, len(msg.tasks))
		for i, t := range msg.tasks {
			items[i] = taskItem{task: t}
		}
		m.list.SetItems(items)
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		// Don't steal keys while the list's fuzzy filter is open.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.showDetail {
				m.showDetail = false
				m.detail = nil
				return m, nil
			}
		case "enter":
			if item, ok := m.list.SelectedItem().(taskItem); ok {
				task := item.task
				m.detail = &task
				m.showDetail = true
			}
			return m, nil
		case "f":
			m.filterIndex = (m.filterIndex + 1) % len(filters)
			m.list.Title = fmt.Sprintf("Tasks [%s]", filterLabels[m.filterIndex])
			return m, m.refresh()
		case "r":
			return m, m.refresh()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the board.
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit.", m.err)
	}
	if m.showDetail && m.detail != nil {
		return m.detailView()
	}
	return m.list.View() + "\n" + m.statusBar()
}

func (m *Model) statusBar() string {
	s := m.summary
	bar := fmt.Sprintf("%d pending • %d in-progress • %d done • %d skipped",
		s.Pending, s.InProgress, s.Done, s.Skipped)
	if s.Current != "" {
		bar += fmt.Sprintf(" • current: %s", s.Current)
	}
	bar += "  (f filter, enter details, r refresh, q quit)"
	return statusBarStyle.Render(bar)
}

func (m *Model) detailView() string {
	t := m.detail
	var b strings.Builder

	b.WriteString(detailTitleStyle.Render(fmt.Sprintf("Task %s — %s", t.ID, t.Title)))
	b.WriteString("\n\n")
	b.WriteString(detailLabelStyle.Render("Status: "))
	b.WriteString(formatStatus(t.Status))
	b.WriteString("\n")
	if t.File != "" {
		b.WriteString(detailLabelStyle.Render("File:   "))
		b.WriteString(t.File)
		b.WriteString("\n")
	}
	if t.AssignedAgent != "" {
		b.WriteString(detailLabelStyle.Render("Agent:  "))
		b.WriteString(t.AssignedAgent)
		b.WriteString("\n")
	}
	b.WriteString(detailLabelStyle.Render("Updated: "))
	b.WriteString(t.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	b.WriteString("\n\n")
	b.WriteString(detailLabelStyle.Render("Prompt"))
	b.WriteString("\n")
	b.WriteString(t.Prompt)
	b.WriteString("\n\n")
	b.WriteString(statusBarStyle.Render("(esc back, q quit)"))

	return b.String()
}
