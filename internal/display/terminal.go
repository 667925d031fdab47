package display

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/afero"
)

// Screen is the subset of tcell.Screen the terminal display draws on.
type Screen interface {
	Init() error
	Fini()
	Clear()
	Show()
	Size() (width, height int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Terminal draws the loader window centred on a terminal screen: the
// optional banner image, then the status line, then the progress bar.
type Terminal struct {
	screen Screen
	geom   Geometry
	banner []string

	label tcell.Style
	track tcell.Style
	chunk tcell.Style

	status    string
	completed int
	total     int
	open      bool
}

// NewTerminal creates a terminal display. banner lines are drawn in the
// image area; they may be nil.
func NewTerminal(screen Screen, geom Geometry, theme Theme, banner []string) *Terminal {
	theme = theme.WithDefaults()
	text := tcell.GetColor(theme.Text)
	bg := tcell.GetColor(theme.Background)
	bar := tcell.GetColor(theme.Bar)

	return &Terminal{
		screen: screen,
		geom:   geom,
		banner: banner,
		label:  tcell.StyleDefault.Foreground(text).Background(bg),
		track:  tcell.StyleDefault.Foreground(bg).Background(bg),
		chunk:  tcell.StyleDefault.Foreground(bar).Background(bar),
	}
}

// NewTerminalScreen allocates the process terminal screen.
func NewTerminalScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate terminal screen: %w", err)
	}
	return screen, nil
}

// Open initialises the screen and draws the first frame.
func (t *Terminal) Open(ctx context.Context, total int) error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise terminal screen: %w", err)
	}
	t.open = true
	t.status = InitialStatus
	t.total = total
	t.draw()
	return nil
}

// SetStatus implements Display.
func (t *Terminal) SetStatus(text string) {
	t.status = text
	t.draw()
}

// SetProgress implements Display.
func (t *Terminal) SetProgress(completed, total int) {
	t.completed, t.total = completed, total
	t.draw()
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	if !t.open {
		return nil
	}
	t.open = false
	t.screen.Fini()
	return nil
}

func (t *Terminal) draw() {
	if !t.open {
		return
	}
	t.screen.Clear()

	sw, sh := t.screen.Size()
	cols := min(t.geom.Columns(), sw)
	banner := t.bannerLines(cols)
	rows := len(banner) + 2

	x0 := max(0, (sw-cols)/2)
	y0 := max(0, (sh-rows)/2)

	for i, line := range banner {
		bx := x0 + max(0, (cols-runeLen(line))/2)
		t.putString(bx, y0+i, line, tcell.StyleDefault, cols)
	}

	statusY := y0 + len(banner)
	t.fill(x0, statusY, cols, ' ', t.label)
	t.putString(x0+1, statusY, t.status, t.label, cols-1)

	barY := statusY + 1
	t.fill(x0, barY, cols, ' ', t.track)
	t.fill(x0, barY, filled(cols, t.completed, t.total), ' ', t.chunk)

	t.screen.Show()
}

// bannerLines crops the banner to the image area and the available width.
func (t *Terminal) bannerLines(cols int) []string {
	if len(t.banner) == 0 || t.geom.ImageRows() == 0 {
		return nil
	}
	rows := min(len(t.banner), t.geom.ImageRows())
	width := min(cols, t.geom.ImageColumns())
	out := make([]string, rows)
	for i := 0; i < rows; i++ {
		out[i] = truncate(t.banner[i], width)
	}
	return out
}

func (t *Terminal) fill(x, y, n int, r rune, style tcell.Style) {
	for i := 0; i < n; i++ {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (t *Terminal) putString(x, y int, s string, style tcell.Style, limit int) {
	i := 0
	for _, r := range s {
		if i >= limit {
			return
		}
		t.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

// filled returns how many of cols cells represent completed out of total.
func filled(cols, completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return cols
	}
	return cols * completed / total
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}

// LoadBanner reads a text banner used as the window's background image.
func LoadBanner(fsys afero.Fs, path string) ([]string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read banner image %s: %w", path, err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n"), nil
}
