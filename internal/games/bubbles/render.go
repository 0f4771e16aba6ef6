package bubbles

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-bubbles/internal/core"
	"github.com/vovakirdan/tui-bubbles/internal/games/bubbles/hexgrid"
)

const (
	bubbleRune = '●'
	popRune    = '*'
	guideRune  = '·'
)

var bubbleColors = map[hexgrid.Color]core.Color{
	hexgrid.Red:    core.ColorRed,
	hexgrid.Blue:   core.ColorBlue,
	hexgrid.Green:  core.ColorGreen,
	hexgrid.Yellow: core.ColorYellow,
	hexgrid.Purple: core.ColorMagenta,
	hexgrid.Cyan:   core.ColorCyan,
}

// boardWidth is the width in characters of a board with cols columns.
// Each column takes four characters and odd rows are shifted by two.
func boardWidth(cols int) int {
	return cols*4 - 1
}

// view maps grid-local positions to screen cells.
type view struct {
	x, y   int
	layout hexgrid.Layout
}

func (g *Game) view(dst *core.Screen) view {
	return view{
		x:      (dst.Width() - boardWidth(g.engine.Cols())) / 2,
		y:      hudHeight,
		layout: g.engine.Layout(),
	}
}

func (v view) project(p hexgrid.Vec2) (int, int) {
	sx := v.x + int(math.Round(p.X*2/v.layout.InnerRadius))
	sy := v.y + int(math.Round(-p.Y/v.layout.RowHeight()))
	return sx, sy
}

func (v view) cell(c hexgrid.Coord) (int, int) {
	return v.project(v.layout.LocalPosition(c))
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}
	if g.engine == nil {
		g.renderOverlay(dst, "No levels", "Press Q to quit")
		return
	}

	v := g.view(dst)
	g.renderField(dst, v)
	g.renderBoard(dst, v)
	g.renderLauncher(dst, v)

	switch {
	case g.levelCleared:
		g.renderOverlay(dst, fmt.Sprintf("Level %d cleared!", g.levelIndex+1), g.levels[g.levelIndex].Name)
	case g.won:
		g.renderOverlay(dst, "Board cleared!", fmt.Sprintf("Final Score: %d  Press R to restart", g.score))
	case g.gameOver:
		g.renderOverlay(dst, "Game Over", "Press R to restart")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" %s | Score: %d | Shots: %d", g.Title(), g.score, g.stats.Shots)
	if g.mode == ModePuzzle && len(g.levels) > 0 {
		hud += fmt.Sprintf(" | Level: %d/%d", g.levelIndex+1, len(g.levels))
	}
	if g.chain > 1 {
		hud += fmt.Sprintf(" | Chain x%d", g.chain)
	}
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─', core.ColorDefault)
}

// renderField draws the walls and the danger row marker.
func (g *Game) renderField(dst *core.Screen, v view) {
	bottom := v.y + g.field.dangerRow + 3
	dst.DrawVLine(v.x-2, v.y, bottom-v.y, '│', core.ColorGray)
	dst.DrawVLine(v.x+boardWidth(g.engine.Cols())+1, v.y, bottom-v.y, '│', core.ColorGray)

	markColor := core.ColorGray
	if g.inDanger() && (g.tick/15)%2 == 0 {
		markColor = core.ColorBrightRed
	}
	dangerY := v.y + g.field.dangerRow
	for x := v.x; x < v.x+boardWidth(g.engine.Cols()); x += 2 {
		dst.SetColored(x, dangerY, '-', markColor)
	}
}

func (g *Game) renderBoard(dst *core.Screen, v view) {
	grid := g.engine.Grid()
	for _, c := range grid.Occupied() {
		occ, _ := grid.Get(c)
		x, y := v.cell(c)
		dst.SetColored(x, y, bubbleRune, bubbleColors[occ.Color])
	}

	for i, c := range g.pops.cells {
		x, y := v.cell(c)
		r := bubbleRune
		if i == 0 {
			r = popRune
		}
		dst.SetColored(x, y, r, bubbleColors[g.pops.colors[i]])
	}

	if g.flying != nil {
		x, y := v.project(g.flying.pos)
		dst.SetColored(x, y, bubbleRune, bubbleColors[g.flying.color])
	}
}

// renderLauncher draws the aim guide, the loaded bubble and the preview.
func (g *Game) renderLauncher(dst *core.Screen, v view) {
	if g.flying == nil && !g.gameOver && !g.won {
		for _, p := range g.field.trace(g.engine.Grid(), g.aim, 1.2, 16) {
			x, y := v.project(p)
			if dst.Get(x, y) == ' ' {
				dst.SetColored(x, y, guideRune, core.ColorWhite)
			}
		}
	}

	lx, ly := v.project(g.field.launch)
	if g.flying == nil {
		dst.SetColored(lx, ly, bubbleRune, bubbleColors[g.current])
	}
	dst.DrawTextColored(lx-1, ly+1, "/^\\", core.ColorGray)

	dst.DrawText(v.x, ly+1, "next")
	dst.SetColored(v.x+5, ly+1, bubbleRune, bubbleColors[g.next])
	dst.DrawText(v.x+boardWidth(g.engine.Cols())-6, ly+1, fmt.Sprintf("%3.0f°", g.aim))
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	w := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := core.NewRect(0, 0, dst.Width(), dst.Height()).Centered(w, 5)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	drawCentered(dst, line1, box.Y+1)
	drawCentered(dst, line2, box.Y+3)
}

func drawCentered(dst *core.Screen, text string, y int) {
	x := (dst.Width() - len([]rune(text))) / 2
	dst.DrawText(x, y, text)
}
