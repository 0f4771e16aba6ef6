// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

// BubblesConfig contains all configuration for the bubble shooter.
type BubblesConfig struct {
	Board      BubblesBoard     `yaml:"board"`
	Shooter    BubblesShooter   `yaml:"shooter"`
	Rules      BubblesRules     `yaml:"rules"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BubblesBoard describes the starting board of the classic mode.
type BubblesBoard struct {
	Rows        int     `yaml:"rows"`         // rows allocated at start
	Cols        int     `yaml:"cols"`         // fixed column count
	FilledRows  int     `yaml:"filled_rows"`  // leading rows filled with random bubbles
	Colors      int     `yaml:"colors"`       // palette size at the easiest level
	InnerRadius float64 `yaml:"inner_radius"` // cell apothem in local units
}

// BubblesShooter controls aiming and projectile motion.
type BubblesShooter struct {
	Speed          float64 `yaml:"speed"`           // local units per tick
	AimStep        float64 `yaml:"aim_step"`        // degrees per key press
	MinAngle       float64 `yaml:"min_angle"`       // degrees, 0 = right
	MaxAngle       float64 `yaml:"max_angle"`       // degrees, 180 = left
	CollisionRatio float64 `yaml:"collision_ratio"` // fraction of a bubble diameter that counts as contact
}

// BubblesRules holds scoring and end-of-round settings.
type BubblesRules struct {
	MatchSize      int     `yaml:"match_size"`
	DangerRow      int     `yaml:"danger_row"` // the round is lost once a bubble settles on this row
	PointsPerMatch int     `yaml:"points_per_match"`
	PointsPerDrop  int     `yaml:"points_per_drop"`
	ChainBonus     int     `yaml:"chain_bonus"`  // extra points per consecutive clearing shot
	PopMinSecs     float64 `yaml:"pop_min_secs"` // total pop time for a single bubble
	PopMaxSecs     float64 `yaml:"pop_max_secs"` // total pop time for ten or more bubbles
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "shots", or "none"
	MaxAt int    `yaml:"max_at"` // score or shot count at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // added to projectile speed at max difficulty
	ExtraColors     int     `yaml:"extra_colors"`     // colors added to the palette at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	case "":
		return DifficultyNormal, true
	default:
		return "", false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
