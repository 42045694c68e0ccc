package actions

import (
	"bufio"
	"context"
	"strings"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/errors"
)

// Settings are the values printed by `xcodebuild -showBuildSettings`.
type Settings map[string]string

// Get returns the value of key.
func (s Settings) Get(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Require returns the value of key or MISSING_PARAMETER.
func (s Settings) Require(key string) (string, error) {
	if v, ok := s[key]; ok && v != "" {
		return v, nil
	}
	return "", errors.MissingBuildSetting(key)
}

// ParseSettings reads "KEY = value" lines. xcodebuild repeats settings per
// target; the first occurrence wins.
func ParseSettings(output string) Settings {
	settings := Settings{}
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), " = ")
		if !ok || key == "" || strings.Contains(key, " ") {
			continue
		}
		if _, seen := settings[key]; !seen {
			settings[key] = value
		}
	}
	return settings
}

// BuildSettings reads the resolved build settings of a scheme.
type BuildSettings struct {
	action.Base
	ProjectRef    `mapstructure:",squash"`
	Dir           string `mapstructure:"working_directory"`
	Configuration string `mapstructure:"configuration"`
}

func (a *BuildSettings) BuildCommand(context.Context) (command.Builder, error) {
	if a.IsZero() {
		return command.Builder{}, errors.MissingParameter("BuildSettings", "project")
	}
	cmd := a.args(command.New("xcodebuild")).
		Append("-showBuildSettings").
		AppendValue("-configuration", a.Configuration)
	return cmd, nil
}

func (a *BuildSettings) Run(ctx context.Context) (Settings, error) {
	cmd, err := a.BuildCommand(ctx)
	if err != nil {
		return nil, err
	}
	res, err := a.Exec(ctx).Execute(ctx, cmd, a.Dir)
	if err != nil {
		return nil, err
	}
	return ParseSettings(res.Output()), nil
}
