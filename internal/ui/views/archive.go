package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pmckit/pmboard/internal/domain"
)

type archiveKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Restore key.Binding
	Delete  key.Binding
	Purge   key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func defaultArchiveKeys() archiveKeyMap {
	return archiveKeyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Restore: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete forever")),
		Purge:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type archiveLoadedMsg struct {
	items []domain.ArchiveItem
}

// ArchiveView lists archived entities across all projects.
type ArchiveView struct {
	deps   *Deps
	keys   archiveKeyMap
	items  []domain.ArchiveItem
	cursor int
	width  int
	height int

	confirming bool
	purgeAll   bool
}

func NewArchiveView(deps *Deps) *ArchiveView {
	return &ArchiveView{
		deps: deps,
		keys: defaultArchiveKeys(),
	}
}

func (v *ArchiveView) Init() tea.Cmd {
	return v.loadItems
}

func (v *ArchiveView) loadItems() tea.Msg {
	items, err := v.deps.Archive.ListArchived()
	if err != nil {
		return err
	}
	return archiveLoadedMsg{items: items}
}

func (v *ArchiveView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case archiveLoadedMsg:
		v.items = msg.items
		if v.cursor >= len(v.items) {
			v.cursor = len(v.items) - 1
		}
		if v.cursor < 0 {
			v.cursor = 0
		}
		return v, nil

	case tea.KeyMsg:
		if v.confirming {
			return v.updateConfirming(msg)
		}
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *ArchiveView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.items)-1 {
			v.cursor++
		}

	case key.Matches(msg, v.keys.Restore):
		if item, ok := v.selected(); ok {
			return v, v.restore(item)
		}

	case key.Matches(msg, v.keys.Delete):
		if _, ok := v.selected(); ok {
			v.confirming = true
			v.purgeAll = false
		}

	case key.Matches(msg, v.keys.Purge):
		if len(v.items) > 0 {
			v.confirming = true
			v.purgeAll = true
		}
	}

	return v, nil
}

func (v *ArchiveView) updateConfirming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirming = false
		if v.purgeAll {
			return v, v.purge(v.items)
		}
		if item, ok := v.selected(); ok {
			return v, v.purge([]domain.ArchiveItem{item})
		}
		return v, nil
	default:
		v.confirming = false
		return v, nil
	}
}

func (v *ArchiveView) selected() (domain.ArchiveItem, bool) {
	if v.cursor < 0 || v.cursor >= len(v.items) {
		return domain.ArchiveItem{}, false
	}
	return v.items[v.cursor], true
}

func (v *ArchiveView) restore(item domain.ArchiveItem) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch item.Kind {
		case domain.KindProject:
			err = v.deps.Archive.RestoreProject(item.ID)
		case domain.KindCategory:
			err = v.deps.Archive.RestoreCategory(item.ID)
		case domain.KindSubCategory:
			err = v.deps.Archive.RestoreSubCategory(item.ID)
		case domain.KindTask:
			err = v.deps.Archive.RestoreTask(item.ID)
		}
		if err != nil {
			return err
		}
		return v.loadItems()
	}
}

func (v *ArchiveView) purge(items []domain.ArchiveItem) tea.Cmd {
	return func() tea.Msg {
		failures := v.deps.Archive.BulkPermanentlyDelete(items)
		if len(failures) > 0 {
			return fmt.Errorf("%d of %d items could not be deleted", len(failures), len(items))
		}
		return v.loadItems()
	}
}

func (v *ArchiveView) View() string {
	s := v.deps.Styles
	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("Archive (%d)", len(v.items))))
	b.WriteString("\n\n")

	if len(v.items) == 0 {
		b.WriteString(s.HelpDesc.Render("  nothing archived"))
		b.WriteString("\n")
	}

	for i, item := range v.items {
		line := fmt.Sprintf("%-8s %-30s %s  %s",
			item.Kind, truncate(item.Name, 30), item.ProjectName,
			item.ArchivedAt.Format("2006-01-02 15:04"))
		if item.ParentArchivedAt != nil {
			line += s.HelpDesc.Render("  (via parent)")
		}
		if i == v.cursor {
			b.WriteString(s.ListSelected.Render(line))
		} else {
			b.WriteString(s.ListItem.Render(line))
		}
		b.WriteString("\n")
	}

	if v.confirming {
		prompt := "Permanently delete the selected item? y/n"
		if v.purgeAll {
			prompt = fmt.Sprintf("Permanently delete all %d archived items? y/n", len(v.items))
		}
		b.WriteString("\n")
		b.WriteString(s.HelpKey.Render(prompt))
		b.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.String(), v.helpLine())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func (v *ArchiveView) helpLine() string {
	s := v.deps.Styles
	return s.StatusBar.Width(v.width).Render(
		s.HelpKey.Render("r") + s.HelpDesc.Render(" restore  ") +
			s.HelpKey.Render("d") + s.HelpDesc.Render(" delete  ") +
			s.HelpKey.Render("D") + s.HelpDesc.Render(" delete all  ") +
			s.HelpKey.Render("esc") + s.HelpDesc.Render(" back"))
}
