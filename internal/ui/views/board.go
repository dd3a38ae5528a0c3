package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pmckit/pmboard/internal/domain"
	"github.com/pmckit/pmboard/internal/services/board"
)

type rowKind int

const (
	rowCategory rowKind = iota
	rowSubCategory
	rowTask
)

// row is one selectable line of the flattened project tree.
type row struct {
	kind rowKind
	id   uint
	text string
}

type boardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Cycle   key.Binding
	Archive key.Binding
	Reopen  key.Binding
	History key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Cycle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "cycle status")),
		Archive: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
		Reopen:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reopen")),
		History: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// BackToProjects is emitted when the board view is dismissed.
type BackToProjects struct{}

type overviewLoadedMsg struct {
	node *board.ProjectNode
}

type historyLoadedMsg struct {
	taskID  uint
	records []domain.TaskHistory
}

// BoardView shows one project as a category / sub-category / task tree.
type BoardView struct {
	deps      *Deps
	projectID uint
	keys      boardKeyMap
	node      *board.ProjectNode
	rows      []row
	cursor    int
	width     int
	height    int

	historyFor uint
	history    []domain.TaskHistory
}

func NewBoardView(deps *Deps, projectID uint) *BoardView {
	return &BoardView{
		deps:      deps,
		projectID: projectID,
		keys:      defaultBoardKeys(),
	}
}

func (v *BoardView) Init() tea.Cmd {
	return v.loadOverview
}

func (v *BoardView) loadOverview() tea.Msg {
	node, err := v.deps.Board.ProjectOverview(v.projectID)
	if err != nil {
		return err
	}
	return overviewLoadedMsg{node: node}
}

func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case overviewLoadedMsg:
		v.node = msg.node
		v.rebuildRows()
		if v.cursor >= len(v.rows) {
			v.cursor = len(v.rows) - 1
		}
		if v.cursor < 0 {
			v.cursor = 0
		}
		return v, nil

	case historyLoadedMsg:
		v.historyFor = msg.taskID
		v.history = msg.records
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *BoardView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if v.historyFor != 0 {
			v.historyFor = 0
			v.history = nil
			return v, nil
		}
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Cycle):
		if r, ok := v.selected(); ok && r.kind == rowTask {
			return v, v.cycleStatus(r.id)
		}
		return v, nil

	case key.Matches(msg, v.keys.Archive):
		if r, ok := v.selected(); ok {
			return v, v.archiveRow(r)
		}
		return v, nil

	case key.Matches(msg, v.keys.Reopen):
		if r, ok := v.selected(); ok {
			return v, v.reopenRow(r)
		}
		return v, nil

	case key.Matches(msg, v.keys.History):
		if r, ok := v.selected(); ok && r.kind == rowTask {
			return v, v.loadHistory(r.id)
		}
		return v, nil
	}

	return v, nil
}

func (v *BoardView) selected() (row, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return row{}, false
	}
	return v.rows[v.cursor], true
}

func (v *BoardView) cycleStatus(taskID uint) tea.Cmd {
	task := v.findTask(taskID)
	if task == nil {
		return nil
	}
	next := nextStatus(task.Status)
	return func() tea.Msg {
		if _, err := v.deps.Board.UpdateTask(taskID, board.TaskPatch{Status: &next}); err != nil {
			return err
		}
		return v.loadOverview()
	}
}

func nextStatus(s domain.TaskStatus) domain.TaskStatus {
	switch s {
	case domain.TaskTodo:
		return domain.TaskInProgress
	case domain.TaskInProgress:
		return domain.TaskDone
	default:
		return domain.TaskTodo
	}
}

func (v *BoardView) archiveRow(r row) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch r.kind {
		case rowCategory:
			err = v.deps.Archive.ArchiveCategory(r.id)
		case rowSubCategory:
			err = v.deps.Archive.ArchiveSubCategory(r.id)
		case rowTask:
			err = v.deps.Archive.ArchiveTask(r.id)
		}
		if err != nil {
			return err
		}
		return v.loadOverview()
	}
}

func (v *BoardView) reopenRow(r row) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch r.kind {
		case rowCategory:
			err = v.deps.Board.ReopenCategory(r.id)
		case rowSubCategory:
			err = v.deps.Board.ReopenSubCategory(r.id)
		default:
			return nil
		}
		if err != nil {
			return err
		}
		return v.loadOverview()
	}
}

func (v *BoardView) loadHistory(taskID uint) tea.Cmd {
	return func() tea.Msg {
		records, err := v.deps.Board.TaskHistory(taskID)
		if err != nil {
			return err
		}
		return historyLoadedMsg{taskID: taskID, records: records}
	}
}

func (v *BoardView) findTask(id uint) *domain.Task {
	if v.node == nil {
		return nil
	}
	for ci := range v.node.Categories {
		for si := range v.node.Categories[ci].SubCategories {
			tasks := v.node.Categories[ci].SubCategories[si].Tasks
			for ti := range tasks {
				if tasks[ti].ID == id {
					return &tasks[ti]
				}
			}
		}
	}
	return nil
}

func (v *BoardView) rebuildRows() {
	v.rows = v.rows[:0]
	s := v.deps.Styles
	for _, cat := range v.node.Categories {
		header := s.EpicHeader
		if cat.Status.Completed() {
			header = s.EpicCompleted
		}
		v.rows = append(v.rows, row{
			kind: rowCategory,
			id:   cat.ID,
			text: header.Render(fmt.Sprintf("▸ %s", cat.Name)) +
				s.Progress.Render(fmt.Sprintf("  %d%%", cat.Progress)),
		})
		for _, sub := range cat.SubCategories {
			group := s.GroupHeader
			if sub.Status.Completed() {
				group = s.GroupCompleted
			}
			v.rows = append(v.rows, row{
				kind: rowSubCategory,
				id:   sub.ID,
				text: "  " + group.Render(sub.Name) +
					s.Progress.Render(fmt.Sprintf("  %d%%", sub.Progress)),
			})
			for _, task := range sub.Tasks {
				v.rows = append(v.rows, row{
					kind: rowTask,
					id:   task.ID,
					text: fmt.Sprintf("    %s %s %s",
						s.StatusBadge(task.Status).Render(statusGlyph(task.Status)),
						task.Title,
						s.PriorityBadge(task.Priority).Render(string(task.Priority))),
				})
			}
		}
	}
}

func statusGlyph(s domain.TaskStatus) string {
	switch s {
	case domain.TaskDone:
		return "[x]"
	case domain.TaskInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

func (v *BoardView) View() string {
	if v.node == nil {
		return "loading..."
	}

	s := v.deps.Styles
	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("%s  %d/%d done",
		v.node.Name, v.node.DoneCount, v.node.TaskCount)))
	b.WriteString("\n\n")

	for i, r := range v.rows {
		line := r.text
		if i == v.cursor {
			line = s.TaskSelected.Render("›") + line
		} else {
			line = " " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if v.historyFor != 0 {
		b.WriteString("\n")
		b.WriteString(s.Title.Render("History"))
		b.WriteString("\n")
		if len(v.history) == 0 {
			b.WriteString(s.HelpDesc.Render("  no changes recorded"))
			b.WriteString("\n")
		}
		for _, h := range v.history {
			b.WriteString(s.HelpDesc.Render(fmt.Sprintf("  %s  %s: %s → %s",
				h.ChangedAt.Format("2006-01-02 15:04"), h.Field, h.OldValue, h.NewValue)))
			b.WriteString("\n")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.String(), v.helpLine())
}

func (v *BoardView) helpLine() string {
	s := v.deps.Styles
	return s.StatusBar.Width(v.width).Render(
		s.HelpKey.Render("space") + s.HelpDesc.Render(" status  ") +
			s.HelpKey.Render("a") + s.HelpDesc.Render(" archive  ") +
			s.HelpKey.Render("r") + s.HelpDesc.Render(" reopen  ") +
			s.HelpKey.Render("h") + s.HelpDesc.Render(" history  ") +
			s.HelpKey.Render("u") + s.HelpDesc.Render(" undo  ") +
			s.HelpKey.Render("esc") + s.HelpDesc.Render(" back"))
}
