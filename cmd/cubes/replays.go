package main

import (
	"bufio"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cubes/internal/platform/tui"
	"github.com/vovakirdan/cubes/internal/replay"
	"github.com/vovakirdan/cubes/internal/storage"
)

var (
	flagLimit int
	flagYes   bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "Manage recorded games",
	Long: `List, inspect, verify and watch recorded games.

Examples:
  cubes replays list --limit 5
  cubes replays show 3
  cubes replays verify 3
  cubes replays watch 3
  cubes replays browse`,
}

var replaysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded games, newest first",
	Args:  cobra.NoArgs,
	RunE:  runReplaysList,
}

var replaysShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a recording's header and inputs",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysShow,
}

var replaysVerifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Re-run a recording and check it reaches the recorded result",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysVerify,
}

var replaysWatchCmd = &cobra.Command{
	Use:   "watch <id>",
	Short: "Watch a recorded game",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysWatch,
}

var replaysBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Pick a recording interactively and watch it",
	Args:  cobra.NoArgs,
	RunE:  runReplaysBrowse,
}

var replaysClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recording",
	Args:  cobra.NoArgs,
	RunE:  runReplaysClear,
}

func init() {
	replaysListCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of replays to list")
	replaysClearCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")

	replaysCmd.AddCommand(replaysListCmd)
	replaysCmd.AddCommand(replaysShowCmd)
	replaysCmd.AddCommand(replaysVerifyCmd)
	replaysCmd.AddCommand(replaysWatchCmd)
	replaysCmd.AddCommand(replaysBrowseCmd)
	replaysCmd.AddCommand(replaysClearCmd)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid replay id %q", arg)
	}
	return id, nil
}

// loadReplay opens the store and loads one recording.
func loadReplay(arg string) (*replay.Replay, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	rep, err := store.LoadReplay(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no replay #%d, run 'cubes replays list' to see recorded games", id)
	}
	return rep, err
}

func runReplaysList(_ *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.ListReplays(flagLimit)
	if err != nil {
		return err
	}

	fmt.Println("Recorded games")
	fmt.Println()

	if len(list) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Play 'cubes play' and finish a game to record one!")
		return nil
	}

	// Print header
	fmt.Printf("  %-6s  %-8s  %-5s  %-5s  %-8s  %-6s  %s\n", "ID", "Score", "Level", "Lines", "Length", "Inputs", "Date")
	fmt.Printf("  %-6s  %-8s  %-5s  %-5s  %-8s  %-6s  %s\n", "--", "-----", "-----", "-----", "------", "------", "----")

	for _, r := range list {
		fmt.Printf("  %-6s  %-8d  %-5d  %-5d  %-8s  %-6d  %s\n",
			fmt.Sprintf("#%d", r.ID), r.Score, r.Level, r.Lines,
			r.Duration().Round(time.Second), r.Events,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	stats, err := store.GetStats()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Games: %d   Best: %d   Average: %.0f   Lines: %d\n",
		stats.Games, stats.BestScore, stats.AvgScore, stats.TotalLines)
	return nil
}

func runReplaysShow(_ *cobra.Command, args []string) error {
	rep, err := loadReplay(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Replay #%d\n", rep.ID)
	fmt.Println()
	fmt.Printf("  Recorded:  %s\n", rep.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Seed:      %d\n", rep.Seed)
	fmt.Printf("  Tick rate: %d/s\n", rep.TickRate)
	fmt.Printf("  Length:    %d ticks (%s)\n", rep.Ticks, rep.Duration().Round(time.Millisecond))
	fmt.Printf("  Score:     %d\n", rep.Score)
	fmt.Printf("  Level:     %d\n", rep.Level)
	fmt.Printf("  Lines:     %d\n", rep.Lines)
	fmt.Printf("  Reseeds:   %d\n", len(rep.Reseeds))
	fmt.Printf("  Hash:      %#016x\n", rep.Hash)
	fmt.Println()

	fmt.Printf("Inputs (%d), started with %s\n", len(rep.Events), rep.Start)
	counts := make(map[string]int)
	for _, e := range rep.Events {
		counts[e.Action.String()]++
	}
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		fmt.Printf("  %-12s %d\n", name, counts[name])
	}
	return nil
}

func runReplaysVerify(_ *cobra.Command, args []string) error {
	rep, err := loadReplay(args[0])
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	start := time.Now()
	snap, err := replay.Verify(rep)
	if err != nil {
		logger.Error("replay diverged", "id", rep.ID, "tick", snap.GameTicks, "score", snap.Score)
		return fmt.Errorf("replay #%d: %w", rep.ID, err)
	}
	logger.Debug("replay verified", "id", rep.ID, "elapsed", time.Since(start))

	fmt.Printf("Replay #%d OK: %d ticks, score %d, level %d, hash %#016x\n",
		rep.ID, rep.Ticks, snap.Score, snap.Level, snap.Hash())
	return nil
}

func runReplaysWatch(_ *cobra.Command, args []string) error {
	rep, err := loadReplay(args[0])
	if err != nil {
		return err
	}
	width, height := terminalSize()
	return tui.RunPlayback(rep, width, height)
}

func runReplaysBrowse(_ *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	for {
		width, height := terminalSize()
		id, err := tui.RunBrowser(store, width, height)
		if err != nil {
			return err
		}
		if id == 0 {
			return nil
		}

		rep, err := store.LoadReplay(id)
		if err != nil {
			return err
		}
		if err := tui.RunPlayback(rep, width, height); err != nil {
			return err
		}
	}
}

func runReplaysClear(_ *cobra.Command, _ []string) error {
	if !flagYes && !confirm("Delete all recorded games?") {
		fmt.Println("Aborted.")
		return nil
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ClearReplays(); err != nil {
		return err
	}
	fmt.Println("All replays deleted.")
	return nil
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
