// Command briscola plays hotseat or against the bot in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/decred/slog"

	"briscola/internal/bots"
	"briscola/internal/config"
	"briscola/internal/engine"
	"briscola/internal/local"
	"briscola/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var (
		modeFlag   = flag.String("mode", "vsBot", "game mode: hotseat or vsBot")
		difficulty = flag.String("difficulty", "medium", "bot difficulty: easy, medium or hard")
		seed       = flag.Int64("seed", 0, "deal seed, 0 for a random deal")
		tuningPath = flag.String("tuning", cfg.BotTuning, "Lua bot tuning script")
		pause      = flag.Duration("pause", cfg.TrickPause, "pause before a finished trick is collected")
		logFile    = flag.String("logfile", cfg.LogFile, "write logs to this file")
	)
	flag.Parse()

	var mode engine.Mode
	switch *modeFlag {
	case "hotseat":
		mode = engine.ModeHotseat
	case "vsBot", "bot":
		mode = engine.ModeVsBot
	default:
		return fmt.Errorf("unknown mode %q", *modeFlag)
	}
	diff, err := engine.ParseDifficulty(*difficulty)
	if err != nil {
		return err
	}

	tuning := bots.DefaultTuning
	if *tuningPath != "" {
		if tuning, err = bots.LoadTuning(*tuningPath); err != nil {
			return err
		}
	}

	// The terminal belongs to the UI, so logs only go to a file.
	log := slog.Disabled
	if *logFile != "" {
		backend, err := logging.NewLogBackend(logging.LogConfig{LogFile: *logFile, DebugLevel: cfg.LogLevel})
		if err != nil {
			return fmt.Errorf("logging: %w", err)
		}
		defer backend.Close()
		log = backend.Logger(logging.Local)
	}

	table := local.NewTable(local.TableConfig{Tuning: tuning, BotDelay: local.DefaultBotDelay}, log)
	defer table.Close()

	var seedPtr *int64
	if *seed != 0 {
		seedPtr = seed
	}
	m := newModel(table, mode, diff, seedPtr, *pause)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
