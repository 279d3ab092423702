package log

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

var (
	global zerolog.Logger
	once   sync.Once
)

func init() {
	// Safe default before Init() is called.
	global = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// New creates a configured zerolog.Logger.
func New(cfg Config) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

// Init initialises the global logger. Call once at startup.
// Stdlib log is bridged into zerolog so stray log.Printf calls still
// produce structured output.
func Init(cfg Config) {
	once.Do(func() {
		global = New(cfg)

		stdlog.SetFlags(0)
		stdlog.SetOutput(global.With().Str("source", "stdlog").Logger())
	})
}

// L returns the global logger.
func L() zerolog.Logger {
	return global
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
