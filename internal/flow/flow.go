// Package flow composes validated request -> prompt -> oracle -> validated
// response pipelines, one per capability.
package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"wandergenie/internal/llm"
	"wandergenie/internal/schema"
	"wandergenie/internal/util/jsonutil"
)

// RunObserver receives one observation per finished flow.
type RunObserver interface {
	ObserveFlowRun(flow, outcome string, elapsed time.Duration)
}

// Runner executes flows against one oracle. It holds no per-call state and
// is safe for concurrent use.
type Runner struct {
	oracle llm.Oracle
	log    logrus.FieldLogger
	obs    RunObserver
}

type Option func(*Runner)

func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

func WithObserver(o RunObserver) Option {
	return func(r *Runner) { r.obs = o }
}

func New(oracle llm.Oracle, opts ...Option) *Runner {
	r := &Runner{oracle: oracle, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// structured describes one single-call pipeline.
type structured[Req any] struct {
	phase  string
	render func(Req) (string, error)
	schema any
	media  []llm.Media
}

// runStructured validates req, renders its prompt, calls the oracle once
// and validates the decoded response. Errors carry one failure class.
func runStructured[Req, Resp any](ctx context.Context, r *Runner, s structured[Req], req Req) (Resp, error) {
	var zero Resp
	if err := schema.Validate(&req); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	prompt, err := s.render(req)
	if err != nil {
		return zero, fmt.Errorf("flow: render %s prompt: %w", s.phase, err)
	}
	ctx = llm.WithPhase(ctx, s.phase)
	raw, err := r.oracle.GenerateJSON(ctx, llm.Call{
		Phase:  s.phase,
		Prompt: prompt,
		Schema: llm.SchemaFor(s.schema),
		Media:  s.media,
	})
	if err != nil {
		return zero, oracleErr(s.phase, err)
	}
	var resp Resp
	if err := jsonutil.UnmarshalFlex(raw, &resp); err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrInvalidOutput, s.phase, err)
	}
	if err := schema.Validate(&resp); err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrInvalidOutput, s.phase, err)
	}
	return resp, nil
}

func oracleErr(phase string, err error) error {
	if errors.Is(err, llm.ErrInvalidJSON) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidOutput, phase, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrOracle, phase, err)
}

// finish logs and reports a completed flow and passes err through.
func (r *Runner) finish(name string, start time.Time, err error) error {
	elapsed := time.Since(start)
	class := Class(err)
	if r.obs != nil {
		r.obs.ObserveFlowRun(name, class, elapsed)
	}
	entry := r.log.WithFields(logrus.Fields{
		"flow":     name,
		"outcome":  class,
		"duration": elapsed.String(),
	})
	switch {
	case err == nil:
		entry.Info("flow completed")
	case errors.Is(err, ErrInvalidInput):
		entry.WithError(err).Info("flow rejected input")
	default:
		entry.WithError(err).Warn("flow failed")
	}
	return err
}
