package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Environment variables that override the `logging:` section.
const (
	EnvLevel  = "SEEDEE_LOG_LEVEL"
	EnvCaller = "SEEDEE_LOG_CALLER"
	EnvDebug  = "SEEDEE_DEBUG"
)

// Format presets.
const (
	PresetDefault = "default"
	PresetSimple  = "simple"
	PresetJSON    = "json"
)

// Values of FormatConfig.StructuredToStderr.
const (
	StderrAuto   = "auto"
	StderrAlways = "always"
	StderrNever  = "never"
)

// Config is the `logging:` extension of seedee.yml:
//
//	logging:
//	  level: debug
//	  file:
//	    path: ~/ci/logs/seedee.log
//	  format:
//	    preset: simple
type Config struct {
	Level        string         `yaml:"level"`
	ReportCaller bool           `yaml:"report_caller"`
	File         FileSinkConfig `yaml:"file"`
	Format       FormatConfig   `yaml:"format"`
}

// FileSinkConfig controls the per-component log file. It is on by default.
type FileSinkConfig struct {
	Disabled bool `yaml:"disabled"`
	// Path replaces <state>/logs/<component>-<date>.log.
	Path string `yaml:"path"`
}

type FormatConfig struct {
	Preset           string `yaml:"preset"`
	DisableTimestamp bool   `yaml:"disable_timestamp"`
	DisableComponent bool   `yaml:"disable_component"`
	// StructuredToStderr is auto, always or never. Auto writes to stderr
	// when debugging or when stderr is not a terminal, as on CI runners.
	StructuredToStderr string `yaml:"structured_to_stderr"`
}

// EffectiveLevel resolves the level from SEEDEE_LOG_LEVEL, then Level, then
// info. Unparseable names fall back to info.
func (c Config) EffectiveLevel() logrus.Level {
	name := "info"
	if env := os.Getenv(EnvLevel); env != "" {
		name = env
	} else if c.Level != "" {
		name = c.Level
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// CallerEnabled reports whether file and line should be attached to records.
func (c Config) CallerEnabled() bool {
	return c.ReportCaller || os.Getenv(EnvCaller) == "true"
}
