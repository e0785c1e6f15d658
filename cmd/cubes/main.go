// cubes is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	cubes play               - Play a game
//	cubes replays list       - List recorded games
//	cubes replays watch <id> - Watch a recorded game
//	cubes replays verify <id> - Re-run a recording and check its result
//	cubes bench              - Benchmark the piece generator
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.cubes/config.yaml)
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Pin the generator state for the first game
//	--db <path>      - Set replay database path (default: ~/.cubes/cubes.db)
//	--log-level <l>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cubes/internal/config"
	"github.com/vovakirdan/cubes/internal/logging"
	"github.com/vovakirdan/cubes/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagSeed     uint32
	flagDBPath   string
	flagLogLevel string

	// cfg is loaded before any subcommand runs.
	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cubes",
	Short: "Cubes - a falling-block puzzle in your terminal",
	Long: `Cubes drops tetrominoes into a 10x24 well. Fill rows to clear them,
and the game ends when the stack reaches the top.

Every finished game is recorded and can be replayed or verified later.

Examples:
  cubes play
  cubes play --seed 42 --fps 30
  cubes replays list
  cubes replays watch 3
  cubes bench --iterations 1000000`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Uint32Var(&flagSeed, "seed", 0, "Generator seed for the first game (0 = entropy)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.cubes/cubes.db", "Path to replay database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(benchCmd)
}

// loadConfig reads the configuration and applies flags the user set
// explicitly on top of it.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		loaded.TickRate = flagFPS
	}
	if flags.Changed("seed") {
		loaded.Seed = flagSeed
	}
	if flags.Changed("db") {
		loaded.Storage.Path = flagDBPath
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = flagLogLevel
	}

	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// newLogger builds the logger from the loaded config. Output falls back to
// w when no log file is configured.
func newLogger(w io.Writer) (*log.Logger, func() error, error) {
	return logging.New(cfg.Log, w)
}

// openStore opens the replay database from the loaded config.
func openStore() (*storage.Store, error) {
	return storage.Open(cfg.Storage.Path)
}

// terminalSize returns the size of stdout, or 80x24 when it is not a
// terminal.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}
