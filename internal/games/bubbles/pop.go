package bubbles

import (
	"math"

	"github.com/vovakirdan/tui-bubbles/internal/games/bubbles/hexgrid"
)

// popDelayTicks spreads the pops of n bubbles over a total time growing
// from minSecs (one bubble) to maxSecs (ten or more), and returns the gap
// between consecutive pops in ticks.
func popDelayTicks(n int, minSecs, maxSecs float64, tickRate int) int {
	if n <= 0 {
		return 0
	}
	t := math.Min(float64(n)/10, 1)
	total := minSecs + (maxSecs-minSecs)*t
	return max(1, int(math.Round(total/float64(n)*float64(tickRate))))
}

// popEffect flashes removed cells one after another.
type popEffect struct {
	cells    []hexgrid.Coord
	colors   []hexgrid.Color
	interval int
	timer    int
}

func (p *popEffect) active() bool {
	return len(p.cells) > 0
}

// step advances the effect by one tick and drops the head cell when its
// time is up.
func (p *popEffect) step() {
	if !p.active() {
		return
	}
	p.timer++
	if p.timer >= p.interval {
		p.timer = 0
		p.cells = p.cells[1:]
		p.colors = p.colors[1:]
	}
}
