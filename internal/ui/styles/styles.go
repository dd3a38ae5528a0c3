package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pmckit/pmboard/internal/domain"
)

// Styles holds all the UI styles
type Styles struct {
	// Chrome
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style

	// Lists
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	ListDim      lipgloss.Style

	// Tree
	EpicHeader     lipgloss.Style
	EpicCompleted  lipgloss.Style
	GroupHeader    lipgloss.Style
	GroupCompleted lipgloss.Style
	TaskRow        lipgloss.Style
	TaskSelected   lipgloss.Style
	Progress       lipgloss.Style

	// Badges
	PriorityBadge func(p domain.TaskPriority) lipgloss.Style
	StatusBadge   func(s domain.TaskStatus) lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
	ToastAction  lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(Lavender).
			Bold(true).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(Overlay1),

		ListItem: lipgloss.NewStyle().
			Foreground(Text).
			Padding(0, 1),

		ListSelected: lipgloss.NewStyle().
			Foreground(Base).
			Background(Lavender).
			Padding(0, 1),

		ListDim: lipgloss.NewStyle().
			Foreground(Overlay0).
			Padding(0, 1),

		EpicHeader: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		EpicCompleted: lipgloss.NewStyle().
			Foreground(Green).
			Bold(true),

		GroupHeader: lipgloss.NewStyle().
			Foreground(Teal),

		GroupCompleted: lipgloss.NewStyle().
			Foreground(Green),

		TaskRow: lipgloss.NewStyle().
			Foreground(Text),

		TaskSelected: lipgloss.NewStyle().
			Foreground(Base).
			Background(Mauve),

		Progress: lipgloss.NewStyle().
			Foreground(Subtext0),

		PriorityBadge: func(p domain.TaskPriority) lipgloss.Style {
			color, ok := PriorityColors[p]
			if !ok {
				color = Overlay0
			}
			return lipgloss.NewStyle().
				Foreground(Base).
				Background(color).
				Padding(0, 1).
				Bold(true)
		},

		StatusBadge: func(s domain.TaskStatus) lipgloss.Style {
			color, ok := StatusColors[s]
			if !ok {
				color = Overlay0
			}
			return lipgloss.NewStyle().
				Foreground(color)
		},

		ToastInfo: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Foreground(Blue).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Foreground(Green).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Yellow).
			Foreground(Yellow).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1),

		ToastAction: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),
	}
}
