// Package config provides YAML-based configuration loading and validation
// for the cubes game host.
package config

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cubes/internal/core"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Tick rate bounds in ticks per second.
const (
	MinTickRate = 1
	MaxTickRate = 240
)

// Config contains all host configuration.
type Config struct {
	TickRate int           `yaml:"tick_rate"`
	Seed     uint32        `yaml:"seed"` // 0 = entropy
	Storage  StorageConfig `yaml:"storage"`
	Log      LogConfig     `yaml:"log"`
	Keys     KeyConfig     `yaml:"keys"`
}

// StorageConfig defines the replay archive.
type StorageConfig struct {
	Path   string `yaml:"path"`
	Record bool   `yaml:"record"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty = stderr
}

// KeyConfig lists the keys bound to each action, in Bubble Tea key notation.
// "space" is accepted for the space bar.
type KeyConfig struct {
	RotateCW  []string `yaml:"rotate_cw"`
	RotateCCW []string `yaml:"rotate_ccw"`
	Left      []string `yaml:"left"`
	Right     []string `yaml:"right"`
	SoftDrop  []string `yaml:"soft_drop"`
	HardDrop  []string `yaml:"hard_drop"`
	Pause     []string `yaml:"pause"`
	Quit      []string `yaml:"quit"`
}

// Bindings returns the configured keys per action.
func (k KeyConfig) Bindings() map[core.Action][]string {
	return map[core.Action][]string{
		core.ActionRotateCW:  k.RotateCW,
		core.ActionRotateCCW: k.RotateCCW,
		core.ActionLeft:      k.Left,
		core.ActionRight:     k.Right,
		core.ActionSoftDrop:  k.SoftDrop,
		core.ActionHardDrop:  k.HardDrop,
		core.ActionPause:     k.Pause,
		core.ActionQuit:      k.Quit,
	}
}

// Validate checks the configuration and returns an error wrapping
// ErrInvalidConfig describing the first problem found.
func (c Config) Validate() error {
	if c.TickRate < MinTickRate || c.TickRate > MaxTickRate {
		return fmt.Errorf("%w: tick_rate %d outside [%d,%d]", ErrInvalidConfig, c.TickRate, MinTickRate, MaxTickRate)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage path is empty", ErrInvalidConfig)
	}

	owner := make(map[string]core.Action)
	for a := core.ActionRotateCW; a <= core.ActionQuit; a++ {
		keys := c.Keys.Bindings()[a]
		if len(keys) == 0 {
			return fmt.Errorf("%w: no key bound to %v", ErrInvalidConfig, a)
		}
		for _, k := range keys {
			if k == "" {
				return fmt.Errorf("%w: empty key bound to %v", ErrInvalidConfig, a)
			}
			if prev, ok := owner[k]; ok && prev != a {
				return fmt.Errorf("%w: key %q bound to both %v and %v", ErrInvalidConfig, k, prev, a)
			}
			owner[k] = a
		}
	}
	return nil
}
