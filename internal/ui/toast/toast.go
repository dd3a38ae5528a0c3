package toast

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pmckit/pmboard/internal/notify"
	"github.com/pmckit/pmboard/internal/ui/styles"
)

// Renderer handles rendering of toast notifications
type Renderer struct {
	styles *styles.Styles
}

// New creates a new Renderer with the given styles
func New(styles *styles.Styles) *Renderer {
	return &Renderer{
		styles: styles,
	}
}

// Render renders a stack of toasts in the bottom-right corner
// Returns empty string if no toasts to display
func (r *Renderer) Render(toasts []notify.Notification, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	var rendered []string
	toastWidth := width / 3
	if toastWidth > 44 {
		toastWidth = 44 // Cap maximum toast width
	}

	for _, t := range toasts {
		style := r.styleForLevel(t.Level)
		body := t.Message
		if t.Action != nil {
			body = fmt.Sprintf("%s\n%s", t.Message,
				r.styles.ToastAction.Render("[u] "+t.Action.Label))
		}
		rendered = append(rendered, style.Width(toastWidth).Render(body))
	}

	// Stack toasts vertically, aligned to the right
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// styleForLevel returns the appropriate style for a toast level
func (r *Renderer) styleForLevel(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelSuccess:
		return r.styles.ToastSuccess
	case notify.LevelWarning:
		return r.styles.ToastWarning
	case notify.LevelError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}
