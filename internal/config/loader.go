package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBubbles loads the bubble shooter configuration.
// Search order: customPath -> ~/.bubbles/configs/bubbles.yaml -> ./configs/bubbles.yaml -> embedded default
func LoadBubbles(customPath string) (BubblesConfig, error) {
	cfg, err := loadBubbles(customPath)
	if err != nil {
		return cfg, err
	}
	cfg.Validate()
	return cfg, nil
}

func loadBubbles(customPath string) (BubblesConfig, error) {
	var cfg BubblesConfig

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath("bubbles.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/bubbles.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(defaultBubblesYAML, &cfg); err != nil {
		return DefaultBubblesConfig(), nil
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bubbles", "configs", filename)
}

// ApplyBubblesPreset adjusts the config for a difficulty preset.
func ApplyBubblesPreset(cfg *BubblesConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Board.Colors = 3
		cfg.Board.FilledRows = min(4, cfg.Board.Rows)
		cfg.Shooter.AimStep = 3
	case DifficultyHard:
		cfg.Board.Colors = 5
		cfg.Board.FilledRows = min(7, cfg.Board.Rows)
		cfg.Rules.DangerRow = max(cfg.Rules.DangerRow-2, cfg.Board.FilledRows+1)
	}
}
