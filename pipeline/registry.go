package pipeline

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/actions"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/pkg/provisioning"
	"github.com/mitchellh/mapstructure"
)

var validate = validator.New()

// factory returns an action seeded from the configuration, as the decode
// target for a step's `with:` map, and the same action as a Runner.
type factory func(cfg *config.Config) (target any, runner action.Runner)

var registry = map[string]factory{
	"build": func(cfg *config.Config) (any, action.Runner) {
		a := actions.NewBuild(cfg)
		return a, action.AsRunner[*command.Result](a)
	},
	"test": func(cfg *config.Config) (any, action.Runner) {
		a := actions.NewTest(cfg)
		return a, action.AsRunner[*actions.TestOutput](a)
	},
	"export": func(cfg *config.Config) (any, action.Runner) {
		a := actions.NewExport(cfg)
		return a, action.AsRunner[*actions.ExportOutput](a)
	},
	"upload": func(cfg *config.Config) (any, action.Runner) {
		a := actions.NewUpload(cfg)
		return a, action.AsRunner[*command.Result](a)
	},
	"select-xcode": func(cfg *config.Config) (any, action.Runner) {
		a := actions.NewSelectXcode(cfg)
		return a, action.AsRunner[*command.Result](a)
	},
	"install-profile": func(*config.Config) (any, action.Runner) {
		a := &actions.AddProvisioningProfile{}
		return a, action.AsRunner[*provisioning.Profile](a)
	},
	"pod-install": func(cfg *config.Config) (any, action.Runner) {
		a := actions.NewPodInstall(cfg)
		return a, action.AsRunner[*command.Result](a)
	},
	"shell": func(cfg *config.Config) (any, action.Runner) {
		a := &actions.Script{Dir: cfg.Project.WorkingDirectory}
		return a, action.AsRunner[*command.Result](a)
	},
}

// ActionNames lists the names a step's `action:` may use.
func ActionNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewAction builds the action for step, seeded from cfg and overridden by the
// step's parameters.
func NewAction(cfg *config.Config, step config.Step) (action.Runner, error) {
	newAction, ok := registry[step.Action]
	if !ok {
		return nil, errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("step %q: unknown action %q", step.Title(), step.Action)).
			WithDetail("actions", ActionNames())
	}

	target, runner := newAction(cfg)
	if err := decodeParams(step.With, target); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation,
			fmt.Sprintf("step %q: invalid parameters", step.Title()))
	}
	if err := validate.Struct(target); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation,
			fmt.Sprintf("step %q: invalid parameters", step.Title()))
	}
	return runner, nil
}

func decodeParams(params map[string]interface{}, target any) error {
	if len(params) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	return decoder.Decode(params)
}
