package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pmckit/pmboard/internal/notify"
	"github.com/pmckit/pmboard/internal/ui/styles"
	"github.com/pmckit/pmboard/internal/ui/toast"
	"github.com/pmckit/pmboard/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewBoard
	ViewArchive
)

type tickMsg time.Time

// App is the root model. It switches between the project list, the
// per-project board and the archive bin, and overlays toasts from the
// notification queue on whatever is active.
type App struct {
	deps        *views.Deps
	queue       *notify.Queue
	currentView View
	projectList *views.ProjectListView
	board       *views.BoardView
	archive     *views.ArchiveView
	toasts      *toast.Renderer
	width       int
	height      int
}

// NewApp creates the root model.
func NewApp(deps *views.Deps, queue *notify.Queue) *App {
	if deps.Styles == nil {
		deps.Styles = styles.New()
	}
	return &App{
		deps:        deps,
		queue:       queue,
		currentView: ViewProjects,
		projectList: views.NewProjectListView(deps),
		toasts:      toast.New(deps.Styles),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.projectList.Init(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) openBoard(projectID uint) tea.Cmd {
	a.currentView = ViewBoard
	a.board = views.NewBoardView(a.deps, projectID)

	return tea.Batch(
		a.board.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update project list size since it persists
		a.projectList.Update(msg)

	case tickMsg:
		// Expired toasts are dropped on the next Active call
		return a, tick()

	case views.SelectedProject:
		return a, a.openBoard(msg.ProjectID)

	case views.OpenArchive:
		a.currentView = ViewArchive
		a.archive = views.NewArchiveView(a.deps)
		return a, tea.Batch(
			a.archive.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)

	case views.BackToProjects:
		a.currentView = ViewProjects
		return a, tea.Batch(
			a.projectList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)

	case views.StatusMsg:
		a.queue.Notify(notify.Notification{
			Level:   notify.LevelSuccess,
			Message: msg.Text,
		})
		return a, nil

	case error:
		a.queue.Notify(notify.Notification{
			Level:   notify.LevelError,
			Message: msg.Error(),
		})
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "u" && a.currentView != ViewProjects {
			if cmd := a.runUndo(); cmd != nil {
				return a, cmd
			}
		}
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewBoard:
		_, cmd = a.board.Update(msg)
	case ViewArchive:
		_, cmd = a.archive.Update(msg)
	}

	return a, cmd
}

// runUndo fires the action of the newest actionable toast, if any.
func (a *App) runUndo() tea.Cmd {
	for _, n := range a.queue.Active(time.Now()) {
		if n.Action == nil {
			continue
		}
		id, fn := n.ID, n.Action.Fn
		return func() tea.Msg {
			a.queue.Dismiss(id)
			if err := fn(); err != nil {
				return err
			}
			if a.currentView == ViewBoard && a.board != nil {
				return a.board.Init()()
			}
			return nil
		}
	}
	return nil
}

func (a *App) View() string {
	var base string
	switch a.currentView {
	case ViewBoard:
		if a.board != nil {
			base = a.board.View()
		}
	case ViewArchive:
		if a.archive != nil {
			base = a.archive.View()
		}
	default:
		base = a.projectList.View()
	}

	overlay := a.toasts.Render(a.queue.Active(time.Now()), a.width)
	if overlay == "" {
		return base
	}
	return lipgloss.JoinVertical(lipgloss.Right, base, overlay)
}
