package bubbles

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-bubbles/internal/core"
	"github.com/vovakirdan/tui-bubbles/internal/games/bubbles/hexgrid"
	"github.com/vovakirdan/tui-bubbles/internal/registry"
)

func testConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{Seed: seed, ScreenW: 80, ScreenH: 24, TickRate: 60}
}

// scripted returns the input for tick i of a fixed play pattern.
func scripted(i int) core.InputFrame {
	switch {
	case i%45 == 0:
		return core.InputOf(core.ActionFire)
	case i%45 < 6:
		return core.InputOf(core.ActionLeft)
	case i%90 > 60 && i%90 < 75:
		return core.InputOf(core.ActionRight)
	}
	return core.NewInputFrame()
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"bubbles", "bubbles_puzzle"} {
		if !registry.Exists(id) {
			t.Errorf("game %q is not registered", id)
		}
	}
}

func TestDeterminism(t *testing.T) {
	g1 := New()
	g1.Reset(testConfig(12345))
	g2 := New()
	g2.Reset(testConfig(12345))

	for i := range 900 {
		in := scripted(i)
		g1.Step(in)
		g2.Step(in)
	}

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
	if s1.Stats.Shots == 0 {
		t.Error("scripted play fired no shots")
	}
}

func TestClassicBoardSetup(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))

	snap := g.Snapshot()
	if snap.State != StatePlaying {
		t.Fatalf("State = %v, expected %v", snap.State, StatePlaying)
	}
	filled := 0
	for _, row := range snap.Board {
		for _, ch := range row {
			if ch != '.' {
				filled++
			}
		}
	}
	cfg := g.cfg.Board
	if filled != cfg.FilledRows*cfg.Cols {
		t.Errorf("filled cells = %d, expected %d", filled, cfg.FilledRows*cfg.Cols)
	}
	if snap.Aim != 90 {
		t.Errorf("Aim = %v, expected 90", snap.Aim)
	}
}

func TestAimIsClamped(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))

	for range 100 {
		g.Step(core.InputOf(core.ActionLeft))
	}
	if g.aim != g.cfg.Shooter.MaxAngle {
		t.Errorf("aim = %v, expected max %v", g.aim, g.cfg.Shooter.MaxAngle)
	}
	for range 100 {
		g.Step(core.InputOf(core.ActionRight))
	}
	if g.aim != g.cfg.Shooter.MinAngle {
		t.Errorf("aim = %v, expected min %v", g.aim, g.cfg.Shooter.MinAngle)
	}
}

func TestSwap(t *testing.T) {
	g := New()
	g.Reset(testConfig(3))
	cur, next := g.current, g.next
	g.Step(core.InputOf(core.ActionSwap))
	if g.current != next || g.next != cur {
		t.Errorf("after swap current=%v next=%v, expected %v %v", g.current, g.next, next, cur)
	}
}

func TestShotSettles(t *testing.T) {
	g := New()
	g.Reset(testConfig(7))
	before := g.engine.Grid().Count()

	g.Step(core.InputOf(core.ActionFire))
	if g.flying == nil {
		t.Fatal("fire did not launch a projectile")
	}
	for i := 0; g.flying != nil && i < 500; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.flying != nil {
		t.Fatal("projectile never settled")
	}

	stats := g.Stats()
	if stats.Shots != 1 {
		t.Errorf("Shots = %d, expected 1", stats.Shots)
	}
	after := g.engine.Grid().Count()
	if expected := before + 1 - stats.Popped - stats.Dropped; after != expected {
		t.Errorf("Count() = %d, expected %d", after, expected)
	}
}

func TestFireBlockedWhileFlying(t *testing.T) {
	g := New()
	g.Reset(testConfig(7))
	g.Step(core.InputOf(core.ActionFire))
	g.Step(core.InputOf(core.ActionFire))
	if g.Stats().Shots != 1 {
		t.Errorf("Shots = %d, expected 1", g.Stats().Shots)
	}
}

func TestPuzzleClearWins(t *testing.T) {
	dir := t.TempDir()
	level := []byte("id: \"01\"\nname: Pair\ndanger_row: 8\nrows:\n  - \"RR\"\n")
	if err := os.WriteFile(filepath.Join(dir, "01.yaml"), level, 0o644); err != nil {
		t.Fatal(err)
	}
	SetLevelsDir(dir)
	t.Cleanup(func() { SetLevelsDir("") })

	g := NewPuzzle()
	g.Reset(testConfig(5))
	if g.current != hexgrid.Red {
		t.Fatalf("loaded color = %v, expected red (only color on board)", g.current)
	}

	g.Step(core.InputOf(core.ActionFire))
	for i := 0; !g.State().GameOver && i < 1000; i++ {
		g.Step(core.NewInputFrame())
	}

	snap := g.Snapshot()
	if snap.State != StateWin {
		t.Fatalf("State = %v, expected %v (board %v)", snap.State, StateWin, snap.Board)
	}
	if !snap.Stats.Cleared || snap.Stats.Popped != 3 {
		t.Errorf("Stats = %+v, expected a cleared board with 3 popped", snap.Stats)
	}
	if g.State().Score != 3*g.cfg.Rules.PointsPerMatch {
		t.Errorf("Score = %d, expected %d", g.State().Score, 3*g.cfg.Rules.PointsPerMatch)
	}
}

func TestBoardOverflowEndsGame(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	g.field.dangerRow = 1
	g.checkBoard()
	if !g.State().GameOver || g.Snapshot().State != StateGameOver {
		t.Errorf("State = %+v, expected game over", g.State())
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	g.gameOver = true
	g.Step(core.InputOf(core.ActionRestart))
	if g.State().GameOver || g.Stats().Shots != 0 {
		t.Errorf("restart did not reset the game: %+v", g.State())
	}
}

func TestTooSmallScreen(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 20, ScreenH: 10})
	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("State = %v, expected %v", g.Snapshot().State, StatePausedSmall)
	}

	screen := core.NewScreen(20, 10)
	g.Render(screen)
	found := false
	for y := range screen.Height() {
		if strings.Contains(screen.Row(y), "too small") {
			found = true
		}
	}
	if !found {
		t.Error("too-small overlay not rendered")
	}
}

func TestRenderDrawsBoard(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	v := g.view(screen)
	for _, c := range g.engine.Grid().Occupied() {
		x, y := v.cell(c)
		if got := screen.Get(x, y); got != bubbleRune {
			t.Fatalf("cell %v drawn as %q at (%d,%d), expected bubble", c, got, x, y)
		}
	}
}

func TestOptionsStartLevel(t *testing.T) {
	g := NewPuzzle()
	g.SetOptions(Options{StartLevel: 3, Difficulty: "hard"})
	g.Reset(core.RuntimeConfig{Seed: 5, ScreenW: 80, ScreenH: 40, TickRate: 60})

	if snap := g.Snapshot(); snap.Level != 3 {
		t.Errorf("Snapshot().Level = %d, expected 3", snap.Level)
	}

	// the override survives a restart
	g.gameOver = true
	g.Step(core.InputOf(core.ActionRestart))
	if snap := g.Snapshot(); snap.Level != 3 {
		t.Errorf("Snapshot().Level after restart = %d, expected 3", snap.Level)
	}
}
