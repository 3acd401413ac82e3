// Package config reads service configuration from the environment, after loading
// a .env file when one is present.
package config

import (
    "errors"
    "io/fs"
    "log/slog"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
    // Server
    HTTPAddr        string
    ShutdownTimeout time.Duration

    // Storage. An empty DatabaseURL selects the in-memory store.
    DatabaseURL  string
    SeedDefaults bool

    // Logging
    LogLevel  slog.Level
    LogFormat string

    // Auth. An empty secret disables bearer token checks.
    JWTSecret string
    JWTIssuer string
}

// Load reads the optional .env file at path (default ".env") and then the environment.
func Load(paths ...string) (Config, error) {
    if len(paths) == 0 { paths = []string{".env"} }
    if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
        return Config{}, err
    }

    cfg := Config{
        HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
        DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
        SeedDefaults: getBool("SEED_DEFAULTS", true),
        LogLevel:     ParseLogLevel(os.Getenv("LOG_LEVEL")),
        LogFormat:    strings.ToLower(getEnv("LOG_FORMAT", "json")),
        JWTSecret:    os.Getenv("JWT_HS256_SECRET"),
        JWTIssuer:    os.Getenv("JWT_ISSUER"),
    }
    timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
    if err != nil { return Config{}, errors.New("invalid SHUTDOWN_TIMEOUT: " + err.Error()) }
    cfg.ShutdownTimeout = timeout
    return cfg, nil
}

// Logger builds the process logger from LogLevel and LogFormat (json|text).
func (c Config) Logger() *slog.Logger {
    opts := &slog.HandlerOptions{Level: c.LogLevel}
    if c.LogFormat == "text" {
        return slog.New(slog.NewTextHandler(os.Stdout, opts))
    }
    return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// ParseLogLevel maps env values to a slog level; unknown values mean info.
func ParseLogLevel(s string) slog.Level {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "debug":
        return slog.LevelDebug
    case "warn", "warning":
        return slog.LevelWarn
    case "error", "err":
        return slog.LevelError
    default:
        return slog.LevelInfo
    }
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
    if value := strings.TrimSpace(os.Getenv(key)); value != "" {
        return value
    }
    return defaultValue
}

func getBool(key string, defaultValue bool) bool {
    v := strings.ToLower(getEnv(key, ""))
    switch v {
    case "":
        return defaultValue
    case "yes", "y", "on":
        return true
    case "no", "n", "off":
        return false
    }
    b, err := strconv.ParseBool(v)
    if err != nil { return defaultValue }
    return b
}
