package pipeline

import (
	"context"
	"time"

	"github.com/grovetools/seedee/logging"
	"github.com/sirupsen/logrus"
)

// Phases of a single-action command such as `seedee build`.
const (
	PhasePreRun  = "pre-run"
	PhaseRun     = "run"
	PhasePostRun = "post-run"
)

// Stepper runs named steps, announcing each one and how long it took.
type Stepper struct {
	log    *logrus.Entry
	pretty *logging.PrettyLogger
}

// NewStepper creates a Stepper. A nil pretty logger writes to stdout.
func NewStepper(log *logrus.Entry, pretty *logging.PrettyLogger) *Stepper {
	if pretty == nil {
		pretty = logging.NewPrettyLogger()
	}
	return &Stepper{log: log, pretty: pretty}
}

// Step runs fn as the step called name. Errors are returned unchanged.
func (s *Stepper) Step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	log := s.log.WithField("step", name)
	s.pretty.StepStarted(name)
	log.Debug("Step started")

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		log.WithError(err).WithField("elapsed", elapsed.Round(time.Millisecond)).Debug("Step failed")
		s.pretty.ErrorPretty("Step: "+name+" (failed)", err)
		return err
	}
	s.pretty.StepFinished(name, elapsed)
	log.WithField("elapsed", elapsed.Round(time.Millisecond)).Debug("Step finished")
	return nil
}
