package config

import (
	_ "embed"
)

//go:embed defaults/cubes.yaml
var defaultCubesYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TickRate: 60,
		Seed:     0,
		Storage: StorageConfig{
			Path:   "~/.cubes/cubes.db",
			Record: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.cubes/cubes.log",
		},
		Keys: KeyConfig{
			RotateCW:  []string{"up", "x"},
			RotateCCW: []string{"z"},
			Left:      []string{"left", "h"},
			Right:     []string{"right", "l"},
			SoftDrop:  []string{"down", "j"},
			HardDrop:  []string{"space"},
			Pause:     []string{"p"},
			Quit:      []string{"q", "esc", "ctrl+c"},
		},
	}
}
