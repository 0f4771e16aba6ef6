// Package registry maps mode IDs to game factories. Game packages
// register their modes from init(), so hosts can list and start them
// without importing each one directly.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-bubbles/internal/core"
)

// Game is a fixed-tick simulation driven by a host.
// Implementations hold no terminal or network state; the host maps keys to
// actions, owns the clock and flushes the screen buffer.
type Game interface {
	// ID is the stable mode identifier used on the command line and as the
	// score table key (e.g. "bubbles", "bubbles_puzzle").
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts a new round. It is called before the first Step and on
	// every restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances one tick with the actions held during it.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a screen that has already been cleared.
	Render(dst *core.Screen)

	State() core.GameState
}

// ModeInfo describes a registered mode.
type ModeInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a mode. It panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered modes sorted by ID.
func List() []ModeInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]ModeInfo, 0, len(factories))
	for id := range factories {
		out = append(out, ModeInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Title returns the display name of a mode, or the ID itself if unknown.
func Title(id string) string {
	mu.RLock()
	defer mu.RUnlock()

	if t, ok := titles[id]; ok {
		return t
	}
	return id
}

// Create instantiates the mode with the given ID.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown mode %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
