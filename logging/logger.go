package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	Configure(logger, component, LoadConfig())

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// LoadConfig reads the `logging` extension of the nearest seedee.yml. A
// missing configuration file yields the zero Config.
func LoadConfig() Config {
	var logCfg Config
	cfg, err := config.LoadDefault()
	if err != nil {
		return logCfg
	}
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		// Log a warning if parsing fails, but continue with defaults
		logrus.Warnf("Failed to parse 'logging' config: %v", err)
	}
	return logCfg
}

// Configure applies logCfg, with environment overrides, to logger.
func Configure(logger *logrus.Logger, component string, logCfg Config) {
	logger.SetLevel(logCfg.EffectiveLevel())
	if logCfg.CallerEnabled() {
		logger.SetReportCaller(true)
	}

	switch logCfg.Format.Preset {
	case PresetJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	case PresetSimple:
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	var writers []io.Writer

	if file := openLogFile(logger, component, logCfg.File); file != nil {
		writers = append(writers, file)
	}

	if shouldLogToStderr(logger, logCfg.Format.StructuredToStderr) {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		// Interactive sessions without a log file stay quiet; the CLI
		// prints its own progress.
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
}

// LogFilePath returns where component logs go for the given sink config, or
// "" when file logging is off.
func LogFilePath(component string, sink FileSinkConfig) string {
	if sink.Disabled {
		return ""
	}
	if sink.Path != "" {
		return paths.Expand(sink.Path)
	}
	dir := paths.LogsDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.log", component, time.Now().Format("2006-01-02")))
}

func openLogFile(logger *logrus.Logger, component string, sink FileSinkConfig) *os.File {
	path := LogFilePath(component, sink)
	if path == "" {
		return nil
	}
	explicit := sink.Path != ""

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		// Don't warn about default log dir creation failures
		if explicit {
			logger.Warnf("Failed to create log directory %s: %v", dir, err)
		}
		return nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		if explicit {
			logger.Warnf("Failed to open log file %s: %v", path, err)
		}
		return nil
	}
	return file
}

func shouldLogToStderr(logger *logrus.Logger, mode string) bool {
	switch strings.ToLower(mode) {
	case StderrAlways:
		return true
	case StderrNever:
		return false
	default:
		// auto: structured logs go to stderr when debugging or when no one
		// is watching a terminal (CI, pipes).
		isDebug := os.Getenv(EnvDebug) == "1" || logger.IsLevelEnabled(logrus.DebugLevel)
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		return isDebug || !isInteractive
	}
}
