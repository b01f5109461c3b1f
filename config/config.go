package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/prasetyowira/checkin/constant"
)

type Config struct {
	Link   string
	Mode   string
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int

	OutputPath string
	Display    bool

	Serve     bool
	Port      int
	CacheSize int
	LogLevel  string
}

// IsProduction reports whether logs should use the quieter JSON encoder
func (c Config) IsProduction() bool {
	return c.LogLevel != "DEBUG"
}

// LoadConfig parses command-line arguments (without the program name).
// Usage errors are written to output.
func LoadConfig(args []string, output io.Writer) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("checkin", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.Link, "link", "", "course details link; prompts interactively when empty")
	fs.StringVar(&cfg.Mode, "mode", "auto", "check-in time mode: auto (now + 1 minute) or manual")
	fs.IntVar(&cfg.Year, "year", 0, "manual mode year")
	fs.IntVar(&cfg.Month, "month", 0, "manual mode month (1-12)")
	fs.IntVar(&cfg.Day, "day", 0, "manual mode day of month")
	fs.IntVar(&cfg.Hour, "hour", 0, "manual mode hour (0-23)")
	fs.IntVar(&cfg.Minute, "minute", 0, "manual mode minute (0-59)")
	fs.StringVar(&cfg.OutputPath, "out", constant.DefaultOutputPath, "where the QR code PNG is written")
	fs.BoolVar(&cfg.Display, "display", true, "print the QR code to the terminal")
	fs.BoolVar(&cfg.Serve, "serve", false, "serve the HTML form instead of generating once")
	fs.IntVar(&cfg.Port, "port", constant.DefaultPort, "HTTP port for -serve")
	fs.IntVar(&cfg.CacheSize, "cache-size", constant.DefaultCacheSize, "rendered QR codes kept in memory, 0 disables")
	fs.StringVar(&cfg.LogLevel, "log-level", constant.DefaultLogLevel, "INFO or DEBUG")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg.LogLevel = strings.ToUpper(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel != "INFO" && cfg.LogLevel != "DEBUG" {
		return Config{}, fmt.Errorf("log level must be INFO or DEBUG, got %q", cfg.LogLevel)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}
	if cfg.CacheSize < 0 {
		return Config{}, fmt.Errorf("cache size must not be negative, got %d", cfg.CacheSize)
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return Config{}, fmt.Errorf("output path must not be empty")
	}

	return cfg, nil
}
