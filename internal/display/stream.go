package display

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Stream writes one styled line per progress change. It is the display used
// when output is not an interactive terminal, e.g. in CI logs.
type Stream struct {
	w     io.Writer
	width int

	label lipgloss.Style
	chunk lipgloss.Style
	track lipgloss.Style

	status    string
	completed int
	total     int
	open      bool
}

// NewStream creates a stream display with a progress bar width cells wide.
func NewStream(w io.Writer, theme Theme, width int) *Stream {
	theme = theme.WithDefaults()
	r := lipgloss.NewRenderer(w)
	if width <= 0 {
		width = MinWidth / CellWidth
	}
	return &Stream{
		w:     w,
		width: width,
		label: r.NewStyle().Foreground(lipgloss.Color(theme.Text)).Background(lipgloss.Color(theme.Background)),
		chunk: r.NewStyle().Foreground(lipgloss.Color(theme.Bar)),
		track: r.NewStyle().Foreground(lipgloss.Color(theme.Background)),
	}
}

// Open prints the initial status.
func (s *Stream) Open(ctx context.Context, total int) error {
	s.open = true
	s.status = InitialStatus
	s.total = total
	s.render()
	return nil
}

// SetStatus records the status; it is printed with the next progress line.
func (s *Stream) SetStatus(text string) {
	s.status = text
}

// SetProgress prints the current line.
func (s *Stream) SetProgress(completed, total int) {
	s.completed, s.total = completed, total
	s.render()
}

// Close implements Display.
func (s *Stream) Close() error {
	s.open = false
	return nil
}

func (s *Stream) render() {
	if !s.open {
		return
	}
	n := filled(s.width, s.completed, s.total)
	bar := s.chunk.Render(strings.Repeat("█", n)) + s.track.Render(strings.Repeat("░", s.width-n))
	fmt.Fprintf(s.w, "%s %s %d/%d\n", bar, s.label.Render(" "+s.status+" "), s.completed, s.total)
}
