package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pmckit/pmboard/internal/domain"
	"github.com/pmckit/pmboard/internal/services/archive"
	"github.com/pmckit/pmboard/internal/services/backup"
	"github.com/pmckit/pmboard/internal/services/board"
	"github.com/pmckit/pmboard/internal/store"
	"github.com/pmckit/pmboard/internal/ui/styles"
)

type projectItem struct {
	project domain.Project
}

func (i projectItem) Title() string       { return i.project.Name }
func (i projectItem) Description() string { return i.project.Description }
func (i projectItem) FilterValue() string { return i.project.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	width := d.width - 4
	if width < 20 {
		width = 20
	}

	var titleStyle, descStyle lipgloss.Style
	if index == m.Index() {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListDim.Width(width)
	}

	title := fmt.Sprintf("%s  [%s]", p.project.Name, p.project.Status)
	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(title), descStyle.Render(p.project.Description))
}

type projectKeyMap struct {
	Open    key.Binding
	New     key.Binding
	Archive key.Binding
	Export  key.Binding
	Quit    key.Binding
}

func defaultProjectKeys() projectKeyMap {
	return projectKeyMap{
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new project")),
		Archive: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive bin")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export backup")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// SelectedProject is emitted when a project is opened.
type SelectedProject struct {
	ProjectID uint
}

// OpenArchive is emitted when the archive bin is requested.
type OpenArchive struct{}

type projectsLoadedMsg struct {
	projects []domain.Project
}

// ProjectListView lists the active projects.
type ProjectListView struct {
	deps     *Deps
	list     list.Model
	delegate *projectDelegate
	keys     projectKeyMap
	width    int
	height   int

	creating bool
	newName  textinput.Model
}

// Deps bundles everything the views operate on.
type Deps struct {
	Store     *store.Store
	Board     *board.Service
	Archive   *archive.Service
	Backup    *backup.Service
	BackupDir string
	Styles    *styles.Styles
}

func NewProjectListView(deps *Deps) *ProjectListView {
	delegate := &projectDelegate{styles: deps.Styles, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = deps.Styles.Title

	name := textinput.New()
	name.Placeholder = "Project name"
	name.CharLimit = 120

	return &ProjectListView{
		deps:     deps,
		list:     l,
		delegate: delegate,
		keys:     defaultProjectKeys(),
		newName:  name,
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

func (v *ProjectListView) loadProjects() tea.Msg {
	projects, err := store.ListProjects(v.deps.Store.DB(), false)
	if err != nil {
		return err
	}
	return projectsLoadedMsg{projects: projects}
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.delegate.width = msg.Width
		v.list.SetSize(msg.Width-4, msg.Height-4)
		return v, nil

	case projectsLoadedMsg:
		items := make([]list.Item, len(msg.projects))
		for i, p := range msg.projects {
			items[i] = projectItem{project: p}
		}
		v.list.SetItems(items)
		return v, nil

	case tea.KeyMsg:
		if v.creating {
			return v.updateCreating(msg)
		}
		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Open):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return v, func() tea.Msg {
					return SelectedProject{ProjectID: item.project.ID}
				}
			}

		case key.Matches(msg, v.keys.New):
			v.creating = true
			v.newName.SetValue("")
			v.newName.Focus()
			return v, textinput.Blink

		case key.Matches(msg, v.keys.Archive):
			return v, func() tea.Msg { return OpenArchive{} }

		case key.Matches(msg, v.keys.Export):
			return v, v.exportBackup
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.creating = false
		return v, nil
	case "enter":
		name := v.newName.Value()
		v.creating = false
		if name == "" {
			return v, nil
		}
		return v, func() tea.Msg {
			if _, err := v.deps.Board.CreateProject(board.ProjectDraft{Name: name}); err != nil {
				return err
			}
			return v.loadProjects()
		}
	}

	var cmd tea.Cmd
	v.newName, cmd = v.newName.Update(msg)
	return v, cmd
}

func (v *ProjectListView) exportBackup() tea.Msg {
	path, err := v.deps.Backup.WriteFile(v.deps.BackupDir)
	if err != nil {
		return err
	}
	return StatusMsg{Text: "backup written to " + path}
}

// StatusMsg carries a one-line result for the notification queue.
type StatusMsg struct {
	Text string
}

func (v *ProjectListView) View() string {
	if v.creating {
		return lipgloss.JoinVertical(lipgloss.Left,
			v.deps.Styles.Title.Render("New project"),
			v.newName.View(),
			v.deps.Styles.HelpDesc.Render("enter save · esc cancel"),
		)
	}

	help := v.helpLine()
	return lipgloss.JoinVertical(lipgloss.Left, v.list.View(), help)
}

func (v *ProjectListView) helpLine() string {
	s := v.deps.Styles
	return s.StatusBar.Width(v.width).Render(
		s.HelpKey.Render("enter") + s.HelpDesc.Render(" open  ") +
			s.HelpKey.Render("n") + s.HelpDesc.Render(" new  ") +
			s.HelpKey.Render("a") + s.HelpDesc.Render(" archive  ") +
			s.HelpKey.Render("e") + s.HelpDesc.Render(" export  ") +
			s.HelpKey.Render("q") + s.HelpDesc.Render(" quit"))
}
