package cmd

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultDirName = ".bigtrip"
	dbFileName     = "bigtrip.db"
	logFileName    = "bigtrip.log"
)

// Config holds CLI configuration. Flags take precedence over the
// environment.
type Config struct {
	Endpoint string        `env:"BIGTRIP_ENDPOINT" envDefault:"https://24.objects.htmlacademy.pro/big-trip"`
	Token    string        `env:"BIGTRIP_TOKEN" envDefault:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ10"`
	DBPath   string        `env:"BIGTRIP_DB"`
	LogPath  string        `env:"BIGTRIP_LOG"`
	LogLevel string        `env:"BIGTRIP_LOG_LEVEL" envDefault:"info"`
	Timeout  time.Duration `env:"BIGTRIP_TIMEOUT" envDefault:"10s"`
	// Pictures is used until the user toggles pictures in the app.
	Pictures bool `env:"BIGTRIP_PICTURES"`

	Version     string
	ShowVersion bool
}

// ParseFlags parses command-line flags and returns configuration.
func ParseFlags(version string) (*Config, error) {
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	config, err := parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		return nil, err
	}
	config.Version = version
	return config, nil
}

func parse(fs *flag.FlagSet, args []string) (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	fs.StringVar(&config.Endpoint, "endpoint", config.Endpoint, "Base URL of the trip server")
	fs.StringVar(&config.Token, "token", config.Token, "Authorization token (or set BIGTRIP_TOKEN)")
	fs.StringVar(&config.DBPath, "db", config.DBPath, "Path to SQLite database file (default: ~/.bigtrip/bigtrip.db)")
	fs.StringVar(&config.LogPath, "log", config.LogPath, "Path to log file (default: ~/.bigtrip/bigtrip.log)")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level: debug, info, warn or error")
	fs.DurationVar(&config.Timeout, "timeout", config.Timeout, "Timeout of a single server request")
	fs.BoolVar(&config.Pictures, "pictures", config.Pictures, "Show destination pictures until toggled in the app")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	config.Endpoint = strings.TrimRight(strings.TrimSpace(config.Endpoint), "/")
	if config.Endpoint == "" {
		return nil, errors.New("endpoint must not be empty")
	}
	if config.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}

	if config.DBPath == "" || config.LogPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir := filepath.Join(home, defaultDirName)
		if config.DBPath == "" {
			config.DBPath = filepath.Join(configDir, dbFileName)
		}
		if config.LogPath == "" {
			config.LogPath = filepath.Join(configDir, logFileName)
		}
	}

	for _, dir := range []string{filepath.Dir(config.DBPath), filepath.Dir(config.LogPath)} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	return config, nil
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
