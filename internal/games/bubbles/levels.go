package bubbles

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-bubbles/internal/games/bubbles/hexgrid"
)

//go:embed levels/*.yaml
var embeddedLevels embed.FS

// Level is a hand-made starting board for puzzle mode.
type Level struct {
	ID        string
	Name      string
	DangerRow int
	Rows      []string
	Grid      *hexgrid.Grid
}

type yamlLevel struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	DangerRow int      `yaml:"danger_row,omitempty"`
	Rows      []string `yaml:"rows"`
}

// ParseLevel parses a YAML level definition.
func ParseLevel(data []byte) (Level, error) {
	var yl yamlLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, fmt.Errorf("level has no id")
	}
	if len(yl.Rows) == 0 {
		return Level{}, fmt.Errorf("level %s has no rows", yl.ID)
	}

	g, err := hexgrid.ParseGrid(yl.Rows)
	if err != nil {
		return Level{}, fmt.Errorf("level %s: %w", yl.ID, err)
	}
	if g.Count() == 0 {
		return Level{}, fmt.Errorf("level %s is empty", yl.ID)
	}
	if g.Cols() < 2 {
		return Level{}, fmt.Errorf("level %s is narrower than 2 columns", yl.ID)
	}
	if floating := g.Count() - anchored(g); floating > 0 {
		return Level{}, fmt.Errorf("level %s has %d bubbles not connected to the top row", yl.ID, floating)
	}

	name := yl.Name
	if name == "" {
		name = "Level " + yl.ID
	}
	return Level{ID: yl.ID, Name: name, DangerRow: yl.DangerRow, Rows: yl.Rows, Grid: g}, nil
}

// anchored counts the occupants connected to row 0.
func anchored(g *hexgrid.Grid) int {
	var anchors []hexgrid.Coord
	for col := range g.Cols() {
		if c := hexgrid.C(0, col); g.IsOccupied(c) {
			anchors = append(anchors, c)
		}
	}
	return hexgrid.Reachable(g, hexgrid.DefaultTopology(), anchors, hexgrid.AnyOccupant).Size()
}

// LoadLevels reads every *.yaml file in dir of fsys, sorted by ID.
// Invalid files are logged and skipped.
func LoadLevels(fsys fs.FS, dir string) ([]Level, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading levels %s: %w", dir, err)
	}

	var levels []Level
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".yaml") {
			continue
		}
		name := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			logger.Warn("skipping level file", "file", name, "err", err)
			continue
		}
		level, err := ParseLevel(data)
		if err != nil {
			logger.Warn("skipping level file", "file", name, "err", err)
			continue
		}
		levels = append(levels, level)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

// Levels returns the puzzle levels: those in the directory set with
// SetLevelsDir if it holds any, otherwise the built-in set.
func Levels() []Level {
	if levelsDir != "" {
		if levels, err := LoadLevels(os.DirFS(levelsDir), "."); err == nil && len(levels) > 0 {
			return levels
		}
	}
	levels, _ := LoadLevels(embeddedLevels, "levels")
	return levels
}

// LevelCount returns the number of available puzzle levels.
func LevelCount() int {
	return len(Levels())
}
