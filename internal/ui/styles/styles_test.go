package styles

import (
	"testing"

	"github.com/pmckit/pmboard/internal/domain"
)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
}

func TestPriorityBadge(t *testing.T) {
	s := New()

	tests := []struct {
		name     string
		priority domain.TaskPriority
	}{
		{"low", domain.PriorityLow},
		{"medium", domain.PriorityMedium},
		{"high", domain.PriorityHigh},
		{"critical", domain.PriorityCritical},
		{"unknown falls back", domain.TaskPriority("BACKLOG")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := s.PriorityBadge(tt.priority)
			rendered := style.Render(string(tt.priority))
			if len(rendered) == 0 {
				t.Error("PriorityBadge rendered empty string")
			}
		})
	}
}

func TestThemeColors(t *testing.T) {
	colors := []struct {
		name  string
		color string
	}{
		{"Base", string(Base)},
		{"Blue", string(Blue)},
		{"Red", string(Red)},
		{"Green", string(Green)},
		{"Yellow", string(Yellow)},
	}

	for _, c := range colors {
		t.Run(c.name, func(t *testing.T) {
			if c.color == "" {
				t.Errorf("%s color is empty", c.name)
			}
			// Catppuccin colors start with #
			if c.color[0] != '#' {
				t.Errorf("%s color doesn't start with #: %s", c.name, c.color)
			}
		})
	}
}
