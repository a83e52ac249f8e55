package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/instanttext/instanttext/internal/model"
)

// Step is one stage of a capture attempt. Steps run in sequence, each
// one reading and extending the attempt state left by its predecessors.
//
// Design decision: Step is an interface rather than a function type
// because:
// 1. Concrete steps carry collaborators and configuration (timeouts,
//    loggers, settings sources)
// 2. Name() gives the orchestrator a stable identifier to map onto its
//    published states
// 3. Future stages (e.g. image preprocessing before recognition) slot
//    in without touching the executor
type Step interface {
	// Do executes the pipeline step. It receives the context for
	// cancellation and timeouts, and the attempt to fill in.
	Do(ctx context.Context, attempt *model.Attempt) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order, stopping at
// the first failure so a failed capture never reaches recognition and a
// failed recognition never reaches history.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// stepHook, if set, is invoked with the step name just before each
	// step runs. The orchestrator uses it to publish state transitions.
	stepHook func(stepName string)
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, the default logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithStepHook sets a callback invoked with each step's name just
// before the step executes.
func WithStepHook(hook func(stepName string)) Option {
	return func(p *Pipeline) {
		p.stepHook = hook
	}
}

// New creates an empty Pipeline. Add stages with AddStep or AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step. Execution order is insertion order.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step in order and stops at the first failure;
// steps after a failed one do not run.
//
// Design decision: cancellation is checked between steps, not inside
// them. Each step already receives the context and bounds its own
// blocking work, so the executor only needs a clean exit point at the
// step boundaries.
func (p *Pipeline) Execute(ctx context.Context, attempt *model.Attempt) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		if p.stepHook != nil {
			p.stepHook(step.Name())
		}

		p.logger.Debug("executing step", "step", step.Name())

		if err := step.Do(ctx, attempt); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			return fmt.Errorf("step %s: %w", step.Name(), err)
		}

		attempt.PerformedSteps = append(attempt.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
