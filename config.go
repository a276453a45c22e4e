package main

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/entropy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Config is the process configuration, read once at startup.
type Config struct {
	LogLevel     string
	Port         string
	DB           string
	Words        words.Files
	Workers      int
	MaxRounds    int
	RoundTimeout time.Duration
	SessionTTL   time.Duration
	JWTSecret    string
	DailySalt    string
	ClientOrigin string
}

// loadConfig reads .env (if present) and the environment.
func loadConfig() Config {
	_ = godotenv.Load()
	return Config{
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "5175"),
		DB:           getEnv("SOLVER_DB", "./data/solver.db"),
		Words:        words.FilesFromEnv(),
		Workers:      getEnvInt("SOLVER_WORKERS", runtime.NumCPU()),
		MaxRounds:    getEnvInt("SOLVER_MAX_ROUNDS", entropy.DefaultMaxRounds),
		RoundTimeout: getEnvDuration("SOLVER_ROUND_TIMEOUT", 30*time.Second),
		SessionTTL:   getEnvDuration("SOLVER_SESSION_TTL", 30*time.Minute),
		JWTSecret:    os.Getenv("SOLVER_JWT_SECRET"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
	}
}

// setupLogging sets the global level and switches to console output on a terminal.
func setupLogging(level string) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", level).Msg("unknown LOG_LEVEL, keeping default")
	}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("invalid number, using default")
		return def
	}
	return n
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", k).Str("value", v).Dur("default", def).Msg("invalid duration, using default")
		return def
	}
	return d
}
