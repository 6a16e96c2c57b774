package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"briscola/internal/engine"
)

type Config struct {
	Addr     string
	LogLevel string
	LogFile  string

	TrickPause    time.Duration
	RoomTTL       time.Duration
	SweepInterval time.Duration

	// OriginAllowlist is empty when every origin is accepted.
	OriginAllowlist []string
	WebDist         string
	BotTuning       string
}

func Default() Config {
	return Config{
		Addr:          ":8080",
		LogLevel:      "info",
		TrickPause:    engine.DefaultTrickPause,
		RoomTTL:       2 * time.Hour,
		SweepInterval: 30 * time.Minute,
		WebDist:       "web/dist",
	}
}

// Load reads the given env files (".env" when none are named) and then the
// process environment. A missing env file is not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from lookup, falling back to Default for unset keys.
func FromEnv(lookup func(string) string) (Config, error) {
	cfg := Default()
	getenv := func(k, d string) string {
		if v := strings.TrimSpace(lookup(k)); v != "" {
			return v
		}
		return d
	}

	cfg.Addr = getenv("ADDR", cfg.Addr)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getenv("LOG_FILE", "")
	cfg.WebDist = getenv("WEB_DIST", cfg.WebDist)
	cfg.BotTuning = getenv("BOT_TUNING", "")

	if v := getenv("TRICK_PAUSE_MS", ""); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("TRICK_PAUSE_MS: want positive milliseconds, got %q", v)
		}
		cfg.TrickPause = time.Duration(ms) * time.Millisecond
	}
	var err error
	if cfg.RoomTTL, err = duration(getenv("ROOM_TTL", ""), cfg.RoomTTL); err != nil {
		return Config{}, fmt.Errorf("ROOM_TTL: %w", err)
	}
	if cfg.SweepInterval, err = duration(getenv("SWEEP_INTERVAL", ""), cfg.SweepInterval); err != nil {
		return Config{}, fmt.Errorf("SWEEP_INTERVAL: %w", err)
	}

	for _, o := range strings.Split(getenv("ORIGIN_ALLOWLIST", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.OriginAllowlist = append(cfg.OriginAllowlist, o)
		}
	}
	return cfg, nil
}

func duration(v string, d time.Duration) (time.Duration, error) {
	if v == "" {
		return d, nil
	}
	out, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if out <= 0 {
		return 0, fmt.Errorf("want positive duration, got %s", v)
	}
	return out, nil
}
