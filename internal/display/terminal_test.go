package display

import (
	"context"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridScreen is a Screen that keeps the last frame as a rune grid.
type gridScreen struct {
	w, h   int
	cells  map[[2]int]rune
	styles map[[2]int]tcell.Style
	inits  int
	finis  int
	shows  int
}

func newGridScreen(w, h int) *gridScreen {
	return &gridScreen{w: w, h: h, cells: map[[2]int]rune{}, styles: map[[2]int]tcell.Style{}}
}

func (s *gridScreen) Init() error { s.inits++; return nil }
func (s *gridScreen) Fini()       { s.finis++ }
func (s *gridScreen) Show()       { s.shows++ }
func (s *gridScreen) Size() (int, int) {
	return s.w, s.h
}
func (s *gridScreen) Clear() {
	s.cells = map[[2]int]rune{}
	s.styles = map[[2]int]tcell.Style{}
}
func (s *gridScreen) SetContent(x, y int, r rune, _ []rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.cells[[2]int{x, y}] = r
	s.styles[[2]int{x, y}] = style
}

func (s *gridScreen) row(y int) string {
	var b strings.Builder
	for x := 0; x < s.w; x++ {
		r, ok := s.cells[[2]int{x, y}]
		if !ok {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *gridScreen) contains(text string) bool {
	for y := 0; y < s.h; y++ {
		if strings.Contains(s.row(y), text) {
			return true
		}
	}
	return false
}

// countStyle counts cells drawn with style on row y.
func (s *gridScreen) countStyle(y int, style tcell.Style) int {
	n := 0
	for x := 0; x < s.w; x++ {
		if st, ok := s.styles[[2]int{x, y}]; ok && st == style {
			n++
		}
	}
	return n
}

func TestTerminal_DrawsStatusAndBar(t *testing.T) {
	screen := newGridScreen(80, 10)
	term := NewTerminal(screen, NewGeometry(Image{}), DefaultTheme(), nil)

	require.NoError(t, term.Open(context.Background(), 4))
	assert.True(t, screen.contains(InitialStatus))

	term.SetStatus(ItemStatus("MainController"))
	term.SetProgress(2, 4)

	assert.True(t, screen.contains("Loading component : MainController"))

	// 400 units wide is 50 cells; rows are centred vertically (2 rows on 10).
	barY := 5
	assert.Equal(t, 25, screen.countStyle(barY, term.chunk))
	assert.Equal(t, 25, screen.countStyle(barY, term.track))

	require.NoError(t, term.Close())
	require.NoError(t, term.Close())
	assert.Equal(t, 1, screen.inits)
	assert.Equal(t, 1, screen.finis)
}

func TestTerminal_NoDrawWhenClosed(t *testing.T) {
	screen := newGridScreen(80, 10)
	term := NewTerminal(screen, NewGeometry(Image{}), DefaultTheme(), nil)

	term.SetProgress(1, 2)

	assert.Equal(t, 0, screen.shows)
}

func TestTerminal_Banner(t *testing.T) {
	screen := newGridScreen(100, 40)
	geom := NewGeometry(Image{Path: "splash.txt", Width: 160, Height: 32})
	term := NewTerminal(screen, geom, DefaultTheme(), []string{"SPLASH", "second line", "third line"})

	require.NoError(t, term.Open(context.Background(), 1))

	// 32 units tall is 2 rows, so the third banner line is cropped.
	assert.True(t, screen.contains("SPLASH"))
	assert.True(t, screen.contains("second line"))
	assert.False(t, screen.contains("third line"))
}

func TestTerminal_SimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	screen.SetSize(80, 24)
	term := NewTerminal(screen, NewGeometry(Image{}), Theme{}, nil)

	require.NoError(t, term.Open(context.Background(), 3))
	term.SetStatus(ItemStatus("A"))
	term.SetProgress(1, 3)
	term.SetProgress(3, 3)
	require.NoError(t, term.Close())
}

func TestLoadBanner(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "splash.txt", []byte("one\r\ntwo\n"), 0o644))

	lines, err := LoadBanner(fsys, "splash.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)

	_, err = LoadBanner(fsys, "missing.txt")
	require.Error(t, err)
}
