package bubbles

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bubbles/internal/games/bubbles/hexgrid"
)

func TestPopDelayTicks(t *testing.T) {
	tests := []struct {
		n        int
		expected int
	}{
		{0, 0},
		{1, 20},  // 0.34s for a single pop
		{10, 4},  // 0.7s over ten pops
		{20, 2},  // capped at 0.7s total
		{200, 1}, // never below one tick
	}

	for _, tc := range tests {
		if got := popDelayTicks(tc.n, 0.3, 0.7, 60); got != tc.expected {
			t.Errorf("popDelayTicks(%d) = %d, expected %d", tc.n, got, tc.expected)
		}
	}
}

func TestPopEffectDrains(t *testing.T) {
	p := popEffect{
		cells:    []hexgrid.Coord{hexgrid.C(0, 0), hexgrid.C(0, 1)},
		colors:   []hexgrid.Color{hexgrid.Red, hexgrid.Red},
		interval: 3,
	}
	ticks := 0
	for p.active() && ticks < 100 {
		p.step()
		ticks++
	}
	if ticks != 6 {
		t.Errorf("effect lasted %d ticks, expected 6", ticks)
	}
}

func TestFieldBounce(t *testing.T) {
	f := newField(hexgrid.DefaultTopology(), hexgrid.Layout{InnerRadius: 1}, 4, 10, 0.85)

	tests := []struct {
		name      string
		p         projectile
		expectedX float64
		signVX    float64
	}{
		{"left wall", projectile{pos: hexgrid.V(-0.5, -5), vel: hexgrid.V(-1, 1)}, 0.5, 1},
		{"right wall", projectile{pos: hexgrid.V(f.maxX+0.25, -5), vel: hexgrid.V(1, 1)}, f.maxX - 0.25, -1},
		{"inside", projectile{pos: hexgrid.V(2, -5), vel: hexgrid.V(1, 1)}, 2, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.p
			f.bounce(&p)
			if math.Abs(p.pos.X-tc.expectedX) > 1e-9 {
				t.Errorf("X = %v, expected %v", p.pos.X, tc.expectedX)
			}
			if math.Signbit(p.vel.X) != math.Signbit(tc.signVX) {
				t.Errorf("VX = %v, expected sign of %v", p.vel.X, tc.signVX)
			}
		})
	}
}

func TestAdvanceReachesCeiling(t *testing.T) {
	f := newField(hexgrid.DefaultTopology(), hexgrid.Layout{InnerRadius: 1}, 5, 10, 0.85)
	g := hexgrid.NewGrid(3, 5)
	p := projectile{pos: f.launch, vel: launchVelocity(90, 0.7), color: hexgrid.Blue}

	for range 1000 {
		imp, done := f.advance(g, &p)
		if !done {
			continue
		}
		if imp.Hit {
			t.Fatalf("empty grid reported a hit on %v", imp.Impacted)
		}
		if imp.Occupant.Color != hexgrid.Blue {
			t.Errorf("impact color = %v, expected blue", imp.Occupant.Color)
		}
		return
	}
	t.Fatal("projectile never reached the ceiling")
}

func TestAdvanceHitsNearestOccupant(t *testing.T) {
	f := newField(hexgrid.DefaultTopology(), hexgrid.Layout{InnerRadius: 1}, 5, 10, 0.85)
	g, _ := hexgrid.ParseGrid([]string{"RRRRR", "....."})
	p := projectile{pos: f.launch, vel: launchVelocity(90, 0.7)}

	for range 1000 {
		imp, done := f.advance(g, &p)
		if !done {
			continue
		}
		if !imp.Hit || imp.Impacted != hexgrid.C(0, 2) {
			t.Errorf("impact = %+v, expected a hit on (0,2)", imp)
		}
		return
	}
	t.Fatal("projectile never hit")
}

func TestFieldHitFollowsTopology(t *testing.T) {
	layout := hexgrid.Layout{InnerRadius: 1}
	g, _ := hexgrid.ParseGrid([]string{"..", "R."})
	// Rounds to the empty (0,0); the occupant at (1,0) is its neighbor.
	pos := hexgrid.V(0.9, -0.85)

	if c, ok := newField(hexgrid.DefaultTopology(), layout, 2, 10, 0.85).hit(g, pos); !ok || c != hexgrid.C(1, 0) {
		t.Errorf("hit() = %v, %v, expected (1,0), true", c, ok)
	}

	isolated := hexgrid.Topology{Offsets: func(int) [6]hexgrid.Coord { return [6]hexgrid.Coord{} }}
	if c, ok := newField(isolated, layout, 2, 10, 0.85).hit(g, pos); ok {
		t.Errorf("hit() = %v, true, expected no hit without neighbors", c)
	}
}

func TestTraceStopsAtBoard(t *testing.T) {
	f := newField(hexgrid.DefaultTopology(), hexgrid.Layout{InnerRadius: 1}, 5, 10, 0.85)
	g, _ := hexgrid.ParseGrid([]string{"RRRRR"})
	path := f.trace(g, 90, 1, 100)
	if len(path) == 0 || len(path) >= 100 {
		t.Fatalf("trace returned %d points", len(path))
	}
	last := path[len(path)-1]
	if last.Y >= 0 {
		t.Errorf("trace passed the board: last point %v", last)
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel([]byte("id: x\nrows:\n  - \"RG.\"\n  - \".B\"\n"))
	if err != nil {
		t.Fatalf("ParseLevel() error = %v", err)
	}
	if lvl.Name != "Level x" || lvl.Grid.Cols() != 3 || lvl.Grid.Count() != 3 {
		t.Errorf("ParseLevel() = %+v", lvl)
	}

	bad := []string{
		"rows:\n  - \"RR\"\n",                           // no id
		"id: a\nrows: []\n",                             // no rows
		"id: a\nrows:\n  - \"..\"\n",                    // empty board
		"id: a\nrows:\n  - \"RZ\"\n",                    // unknown color
		"id: a\nrows:\n  - \"R\"\n",                     // too narrow
		"id: a\nrows: [\"R...\", \"....\", \"..GG\"]\n", // floating cluster
	}
	for _, src := range bad {
		if _, err := ParseLevel([]byte(src)); err == nil {
			t.Errorf("ParseLevel(%q) should fail", src)
		}
	}
}

func TestLoadLevelsSkipsBadFiles(t *testing.T) {
	var buf bytes.Buffer
	prev := logger
	SetLogger(log.New(&buf))
	defer SetLogger(prev)

	fsys := fstest.MapFS{
		"lv/01.yaml":  {Data: []byte("id: \"01\"\nrows: [\"RRG\"]\n")},
		"lv/02.yaml":  {Data: []byte("id: \"02\"\nrows: [\"R..\", \"...\", \"GG.\"]\n")},
		"lv/notes.md": {Data: []byte("not a level")},
	}
	levels, err := LoadLevels(fsys, "lv")
	if err != nil {
		t.Fatalf("LoadLevels() error = %v", err)
	}
	if len(levels) != 1 || levels[0].ID != "01" {
		t.Errorf("LoadLevels() = %d levels, expected only 01", len(levels))
	}
	if out := buf.String(); !strings.Contains(out, "skipping level file") || !strings.Contains(out, "lv/02.yaml") {
		t.Errorf("log output = %q, expected a warning for lv/02.yaml", out)
	}
}

func TestEmbeddedLevels(t *testing.T) {
	levels, err := LoadLevels(embeddedLevels, "levels")
	if err != nil {
		t.Fatalf("LoadLevels() error = %v", err)
	}
	if len(levels) != 4 {
		t.Fatalf("LoadLevels() returned %d levels, expected 4", len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i-1].ID >= levels[i].ID {
			t.Errorf("levels not sorted: %s before %s", levels[i-1].ID, levels[i].ID)
		}
	}
	if LevelCount() != 4 {
		t.Errorf("LevelCount() = %d, expected 4", LevelCount())
	}
}
