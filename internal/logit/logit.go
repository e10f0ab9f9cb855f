// Package logit implements the numerical core of the discrete-choice
// models: conversion of chooser x alternative utilities into probability
// distributions and weighted random choice-making over those
// distributions.
package logit

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/travelsim/choice-core/internal/frame"
	"github.com/travelsim/choice-core/internal/trace"
	"github.com/travelsim/choice-core/pkg/logger"
)

// Numeric guard rails applied during utility-to-probability conversion.
const (
	// ExpUtilMin is the floor for exponentiated utilities
	ExpUtilMin = 1e-300
	// ProbMin is the floor for probabilities; 0/0 rows are filled with it
	ProbMin = 1e-300
	// BadProbThreshold is the allowed deviation of a probability row sum from 1
	BadProbThreshold = 0.001
	// MaxDump caps how many offending rows are logged and dumped
	MaxDump = 50
)

// Unbounded ceilings: overflow is caught by the infinite row-sum check
// rather than clipped away, and valid probabilities never exceed 1.
var (
	// ExpUtilMax is the ceiling for exponentiated utilities
	ExpUtilMax = math.Inf(1)
	// ProbMax is the ceiling for probabilities
	ProbMax = math.Inf(1)
)

var (
	// ErrNumericOverflow indicates a chooser's summed exponentiated
	// utilities is infinite
	ErrNumericOverflow = errors.New("exponentiated utilities have infinite values")
	// ErrProbabilityNormalization indicates probability rows deviate
	// from summing to 1 beyond BadProbThreshold
	ErrProbabilityNormalization = errors.New("probabilities do not sum to 1")
)

// Options carries the optional collaborators of a conversion or choice
// call. The zero value uses the default logger, discards diagnostics and
// treats utilities as raw (not yet exponentiated).
type Options struct {
	// Exponentiated states whether utility values are already exponentiated
	Exponentiated bool
	// TraceLabel names diagnostic artifacts for this invocation;
	// empty disables dumping
	TraceLabel string
	Logger     *slog.Logger
	Tracer     trace.Tracer
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.Default
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer != nil {
		return o.Tracer
	}
	return trace.NopTracer{}
}

// badProbRows returns the positions of rows whose probabilities do not
// sum to 1 within BadProbThreshold. Both the converter and the choice
// sampler validate through this helper.
func badProbRows(probs *frame.Matrix) []int {
	var bad []int
	for i, sum := range probs.RowSums() {
		if math.Abs(sum-1.0) > BadProbThreshold {
			bad = append(bad, i)
		}
	}
	return bad
}

// reportBadProbs logs the offending rows and dumps them under
// <trace label>.<caller>.bad_probs, then returns the normalization error.
func reportBadProbs(caller string, probs *frame.Matrix, bad []int, opts Options) error {
	log := opts.logger()
	log.Error(caller+": probabilities do not sum to 1", "rows", len(bad))

	dump := bad
	if len(dump) > MaxDump {
		dump = dump[:MaxDump]
	}
	for _, i := range dump {
		log.Error("probabilities do not sum to 1", "chooser_id", probs.Rows()[i])
	}

	if opts.TraceLabel != "" {
		label := opts.TraceLabel + "." + caller + ".bad_probs"
		log.Error("dumping offending probabilities", "label", label)
		if err := opts.tracer().WriteMatrix(label, probs, dump); err != nil {
			log.Error("failed to dump offending probabilities", "label", label, "error", err)
		}
	}

	return fmt.Errorf("%s: %d %w", caller, len(bad), ErrProbabilityNormalization)
}
