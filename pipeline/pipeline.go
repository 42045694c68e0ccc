// Package pipeline runs the named step sequences declared under `pipelines:`
// in seedee.yml.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/grovetools/seedee/action"
	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/config"
	"github.com/grovetools/seedee/errors"
)

// Step is one configured action ready to run.
type Step struct {
	Title  string
	Runner action.Runner
}

// Pipeline is a resolved pipeline.
type Pipeline struct {
	Name        string
	Description string
	Steps       []Step
}

// Load resolves the pipeline called name.
func Load(cfg *config.Config, name string) (*Pipeline, error) {
	def, ok := cfg.Pipelines[name]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown pipeline %q", name)).
			WithDetail("pipelines", Names(cfg))
	}

	p := &Pipeline{Name: name, Description: def.Description}
	for _, s := range def.Steps {
		runner, err := NewAction(cfg, s)
		if err != nil {
			return nil, err
		}
		p.Steps = append(p.Steps, Step{Title: s.Title(), Runner: runner})
	}
	return p, nil
}

// Names lists the configured pipelines.
func Names(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Pipelines))
	for name := range cfg.Pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateAll resolves every pipeline so step errors surface before anything
// runs.
func ValidateAll(cfg *config.Config) error {
	for _, name := range Names(cfg) {
		if _, err := Load(cfg, name); err != nil {
			return err
		}
	}
	return nil
}

// Run executes the steps in order and stops at the first failure. Each step
// runs with its cleanup.
func (p *Pipeline) Run(ctx context.Context, stepper *Stepper) error {
	for i, step := range p.Steps {
		err := stepper.Step(ctx, step.Title, func(ctx context.Context) error {
			_, err := step.Runner.Run(ctx)
			return err
		})
		if err != nil {
			if seedeeErr, ok := errors.AsSeedeeError(err); ok {
				seedeeErr.WithDetail("step", step.Title).WithDetail("pipeline", p.Name)
			}
			return fmt.Errorf("pipeline %s: step %d (%s): %w", p.Name, i+1, step.Title, err)
		}
	}
	return nil
}

// Commands returns the command each step would run, for dry runs. Steps
// that do not shell out yield an empty command.
func (p *Pipeline) Commands(ctx context.Context) ([]command.Builder, error) {
	commands := make([]command.Builder, 0, len(p.Steps))
	for _, step := range p.Steps {
		cmd, err := step.Runner.BuildCommand(ctx)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", step.Title, err)
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}
