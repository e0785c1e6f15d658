package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cubes/internal/core"
	"github.com/vovakirdan/cubes/internal/platform/tui"
	"github.com/vovakirdan/cubes/internal/storage"
)

var flagNoRecord bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game of cubes.

Default controls:
  Left/H, Right/L  - Move
  Up/X             - Rotate clockwise
  Z                - Rotate counter-clockwise
  Down/J           - Soft drop
  Space            - Hard drop
  P                - Pause
  Q/Esc/Ctrl+C     - Quit

Keys can be rebound in the config file. Finished games are saved to the
replay database unless --no-record is given or storage.record is false.

Examples:
  cubes play
  cubes play --seed 42
  cubes play --fps 30 --no-record`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not save replays of finished games")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("play needs an interactive terminal")
	}
	width, height := terminalSize()

	// The TUI owns the terminal, so logs only go to the configured file.
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	var store *storage.Store
	if cfg.Storage.Record && !flagNoRecord {
		store, err = openStore()
		if err != nil {
			// Continue without storage - game still works
			fmt.Fprintf(os.Stderr, "Warning: could not open replay database: %v\n", err)
			logger.Warn("recording disabled", "err", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	saved, err := tui.Run(tui.Options{
		Config: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: cfg.TickRate,
			Seed:     cfg.Seed,
		},
		Keys:   tui.NewKeyMap(cfg.Keys),
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}

	for _, id := range saved {
		fmt.Printf("Saved replay #%d (cubes replays watch %d)\n", id, id)
	}
	return nil
}
