package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// ConfigNames are the project file names searched for, in order.
var ConfigNames = []string{
	"seedee.yml",
	"seedee.yaml",
	".seedee.yml",
	"seedee.toml",
}

// Load reads and parses a seedee configuration file. The format is chosen
// from the file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.ConfigInvalid("failed to read config file", err).
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytesFormat(data, FormatForPath(path))
	if err != nil {
		if seedeeErr, ok := errors.AsSeedeeError(err); ok {
			return nil, seedeeErr.WithDetail("path", path)
		}
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// LoadDefault finds and loads the configuration starting from the current
// directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.ConfigInvalid("failed to get current directory", err)
	}

	return LoadFrom(cwd)
}

// LoadFrom loads configuration with layering starting from the given directory
func LoadFrom(startDir string) (*Config, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return LoadFromWithLogger(startDir, logger)
}

// LoadFromWithLogger loads the project configuration found from startDir,
// layered over the global configuration in the XDG config directory:
//  1. Global config (~/.config/seedee/seedee.yml) - base layer
//  2. Project config (seedee.yml) - overrides global
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	projectPath, err := FindConfigFile(startDir)
	if err != nil {
		return nil, err
	}

	globalPath := paths.GlobalConfigFile()

	var layers []*Config
	if globalPath != projectPath {
		if _, statErr := os.Stat(globalPath); statErr == nil {
			logger.WithField("path", globalPath).Debug("Loading global configuration")
			global, err := loadRaw(globalPath)
			if err != nil {
				logger.WithError(err).Warn("Failed to parse global configuration, continuing without it")
			} else {
				layers = append(layers, global)
			}
		}
	}

	logger.WithField("path", projectPath).Debug("Loading project configuration")
	project, err := loadRaw(projectPath)
	if err != nil {
		return nil, err
	}
	layers = append(layers, project)

	finalConfig := layers[0]
	for _, layer := range layers[1:] {
		finalConfig = mergeConfigs(finalConfig, layer)
	}
	finalConfig.Path = projectPath

	finalConfig.SetDefaults()
	if err := finalConfig.Validate(); err != nil {
		return nil, err
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		if out, err := yaml.Marshal(finalConfig); err == nil {
			logger.Debugf("Merged configuration:\n%s", string(out))
		}
	}

	return finalConfig, nil
}

// LoadFromBytes parses YAML configuration from a byte array.
func LoadFromBytes(data []byte) (*Config, error) {
	return LoadFromBytesFormat(data, FormatYAML)
}

// LoadFromBytesFormat parses, schema-checks, defaults and validates
// configuration in the given format.
func LoadFromBytesFormat(data []byte, format Format) (*Config, error) {
	cfg, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadRaw reads a file and checks it against the schema without applying
// defaults, so layers can be merged first.
func loadRaw(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigInvalid("failed to read config file", err).
			WithDetail("path", path)
	}
	cfg, err := decode(data, FormatForPath(path))
	if err != nil {
		if seedeeErr, ok := errors.AsSeedeeError(err); ok {
			return nil, seedeeErr.WithDetail("path", path)
		}
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

func decode(data []byte, format Format) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	raw, err := decodeDocument(expanded, format)
	if err != nil {
		return nil, errors.ConfigInvalid("failed to parse "+string(format)+" configuration", err)
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create schema validator")
	}
	if err := validator.Validate(raw); err != nil {
		return nil, errors.ConfigInvalid("schema validation failed", err)
	}

	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.ConfigInvalid("failed to parse toml configuration", err)
		}
		cfg.Extensions = unknownKeys(raw)
	default:
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.ConfigInvalid("failed to parse yaml configuration", err)
		}
	}

	return &cfg, nil
}

// decodeDocument returns the configuration as a plain JSON-like tree for
// schema validation.
func decodeDocument(data []byte, format Format) (map[string]interface{}, error) {
	doc := map[string]interface{}{}
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return doc, nil
		}
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}

	// Normalize through JSON so the schema sees the same types for both
	// formats (e.g. TOML local dates, YAML ints).
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	normalized := map[string]interface{}{}
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// unknownKeys collects the top-level TOML keys that are not part of Config,
// mirroring the yaml ",inline" extensions map.
func unknownKeys(doc map[string]interface{}) map[string]interface{} {
	known := knownKeys()
	var extensions map[string]interface{}
	for key, value := range doc {
		if known[key] {
			continue
		}
		if extensions == nil {
			extensions = make(map[string]interface{})
		}
		extensions[key] = value
	}
	return extensions
}

func knownKeys() map[string]bool {
	keys := map[string]bool{}
	for _, name := range coreSectionNames() {
		keys[name] = true
	}
	return keys
}

// FormatForPath picks the parser for a config file name.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// FindConfigFile searches for seedee configuration files with the following precedence:
// 1. Current directory up to filesystem root
// 2. XDG config directory (~/.config/seedee/seedee.yml)
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range ConfigNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if globalPath := paths.GlobalConfigFile(); globalPath != "" {
		if info, err := os.Stat(globalPath); err == nil && !info.IsDir() {
			return globalPath, nil
		}
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
