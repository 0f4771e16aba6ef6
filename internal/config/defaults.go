package config

import (
	_ "embed"
)

//go:embed defaults/bubbles.yaml
var defaultBubblesYAML []byte

// DefaultBubblesConfig returns the built-in configuration, used when the
// embedded YAML cannot be parsed.
func DefaultBubblesConfig() BubblesConfig {
	return BubblesConfig{
		Board: BubblesBoard{
			Rows:        11,
			Cols:        9,
			FilledRows:  5,
			Colors:      3,
			InnerRadius: 1.0,
		},
		Shooter: BubblesShooter{
			Speed:          0.6,
			AimStep:        4,
			MinAngle:       12,
			MaxAngle:       168,
			CollisionRatio: 0.85,
		},
		Rules: BubblesRules{
			MatchSize:      3,
			DangerRow:      12,
			PointsPerMatch: 10,
			PointsPerDrop:  20,
			ChainBonus:     15,
			PopMinSecs:     0.3,
			PopMaxSecs:     0.7,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 3000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
				ExtraColors:     2,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "bubbles", "bubbles_puzzle":
		return defaultBubblesYAML
	default:
		return nil
	}
}

// Validate replaces missing or nonsensical values with defaults so that a
// partial user file still yields a playable configuration.
func (c *BubblesConfig) Validate() {
	d := DefaultBubblesConfig()

	if c.Board.Cols < 2 {
		c.Board.Cols = d.Board.Cols
	}
	if c.Board.Rows < 1 {
		c.Board.Rows = d.Board.Rows
	}
	c.Board.FilledRows = min(max(c.Board.FilledRows, 0), c.Board.Rows)
	if c.Board.Colors < 1 {
		c.Board.Colors = d.Board.Colors
	}
	if c.Board.InnerRadius <= 0 {
		c.Board.InnerRadius = d.Board.InnerRadius
	}

	if c.Shooter.Speed <= 0 {
		c.Shooter.Speed = d.Shooter.Speed
	}
	if c.Shooter.AimStep <= 0 {
		c.Shooter.AimStep = d.Shooter.AimStep
	}
	if c.Shooter.MinAngle <= 0 || c.Shooter.MaxAngle >= 180 || c.Shooter.MinAngle >= c.Shooter.MaxAngle {
		c.Shooter.MinAngle, c.Shooter.MaxAngle = d.Shooter.MinAngle, d.Shooter.MaxAngle
	}
	if c.Shooter.CollisionRatio <= 0 || c.Shooter.CollisionRatio > 1 {
		c.Shooter.CollisionRatio = d.Shooter.CollisionRatio
	}

	if c.Rules.MatchSize < 2 {
		c.Rules.MatchSize = d.Rules.MatchSize
	}
	if c.Rules.DangerRow <= c.Board.FilledRows {
		c.Rules.DangerRow = max(d.Rules.DangerRow, c.Board.FilledRows+1)
	}
	if c.Rules.PopMinSecs <= 0 || c.Rules.PopMaxSecs < c.Rules.PopMinSecs {
		c.Rules.PopMinSecs, c.Rules.PopMaxSecs = d.Rules.PopMinSecs, d.Rules.PopMaxSecs
	}
}
