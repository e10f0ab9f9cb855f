// Package simulate runs complete choice-model steps: build the
// interaction dataset, evaluate utilities over it, convert utilities to
// probabilities and draw one alternative per chooser.
package simulate

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/travelsim/choice-core/internal/frame"
	"github.com/travelsim/choice-core/internal/interaction"
	"github.com/travelsim/choice-core/internal/logit"
	"github.com/travelsim/choice-core/internal/trace"
	"github.com/travelsim/choice-core/pkg/logger"
	"github.com/travelsim/choice-core/pkg/utils"
)

// NoChoice marks choosers outside a segment when backfilling choices
// over a full population
const NoChoice int64 = -1

// UtilityFunc computes one utility per interaction dataset row
type UtilityFunc func(dataset *frame.Table) ([]float64, error)

// LinearUtility returns a UtilityFunc summing coefficient * column over
// the dataset's columns. Every coefficient must name an existing column.
// Columns are accumulated in name order so results do not depend on map
// iteration.
func LinearUtility(coefficients map[string]float64) UtilityFunc {
	names := make([]string, 0, len(coefficients))
	for name := range coefficients {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(dataset *frame.Table) ([]float64, error) {
		util := make([]float64, dataset.NumRows())
		for _, name := range names {
			coefficient := coefficients[name]
			if col, ok := dataset.FloatColumn(name); ok {
				for i, v := range col {
					util[i] += coefficient * v
				}
				continue
			}
			if col, ok := dataset.IntColumn(name); ok {
				for i, v := range col {
					util[i] += coefficient * float64(v)
				}
				continue
			}
			return nil, fmt.Errorf("utility coefficient references unknown column %s", name)
		}
		return util, nil
	}
}

// Runner executes choice-model steps with a shared random source,
// logger and diagnostic sink
type Runner struct {
	rnd        *utils.RandSource
	log        *slog.Logger
	tracer     trace.Tracer
	sampleSize int
}

// NewRunner creates a runner. Seed zero selects a time-based seed;
// sampleSize zero disables alternative sampling (full cross join).
func NewRunner(seed uint64, sampleSize int) *Runner {
	return &Runner{
		rnd:        utils.NewRandSource(seed),
		log:        logger.Default,
		tracer:     trace.NopTracer{},
		sampleSize: sampleSize,
	}
}

// WithLogger sets the runner's logger
func (r *Runner) WithLogger(log *slog.Logger) *Runner {
	r.log = log
	return r
}

// WithTracer sets the runner's diagnostic sink
func (r *Runner) WithTracer(tracer trace.Tracer) *Runner {
	r.tracer = tracer
	return r
}

// Run executes one choice-model step: every chooser is paired with its
// (possibly sampled) alternatives, utility evaluates each pair, and one
// alternative is drawn per chooser. The returned series maps chooser
// identifiers to chosen alternative identifiers. traceLabel names
// diagnostic artifacts for this step.
func (r *Runner) Run(traceLabel string, choosers, alternatives *frame.Table, utility UtilityFunc) (*frame.Series, error) {
	runID := utils.GenerateRunID()
	log := r.log.With("run_id", runID, "model", traceLabel)

	numAlts := alternatives.NumRows()
	blockSize := r.sampleSize
	if blockSize <= 0 || blockSize > numAlts {
		blockSize = numAlts
	}

	log.Info("running choice model",
		"choosers", choosers.NumRows(),
		"alternatives", numAlts,
		"sample_size", blockSize)

	if choosers.NumRows() == 0 || numAlts == 0 {
		// Nothing to choose from; every chooser gets NoChoice
		fill := make([]int64, choosers.NumRows())
		for i := range fill {
			fill[i] = NoChoice
		}
		return frame.NewSeries(choosers.Index(), fill)
	}

	dataset, err := interaction.NewSampler(r.rnd).WithLogger(log).Dataset(choosers, alternatives, r.sampleSize)
	if err != nil {
		return nil, err
	}

	util, err := utility(dataset)
	if err != nil {
		return nil, fmt.Errorf("utility evaluation failed: %w", err)
	}
	if len(util) != dataset.NumRows() {
		return nil, fmt.Errorf("utility evaluation returned %d values for %d rows", len(util), dataset.NumRows())
	}

	// Columns are sample positions; each chooser's block maps positions
	// back to its own sampled alternatives
	cols := make([]int64, blockSize)
	for j := range cols {
		cols[j] = int64(j)
	}
	utilMatrix, err := frame.NewMatrix(choosers.Index(), cols, util)
	if err != nil {
		return nil, err
	}

	opts := logit.Options{TraceLabel: traceLabel, Logger: log, Tracer: r.tracer}
	probs, err := logit.UtilsToProbs(utilMatrix, opts)
	if err != nil {
		return nil, err
	}
	positions, err := logit.MakeChoices(probs, r.rnd, opts)
	if err != nil {
		return nil, err
	}

	datasetIndex := dataset.Index()
	choices := make([]int64, positions.Len())
	for i := 0; i < positions.Len(); i++ {
		_, pos := positions.At(i)
		choices[i] = datasetIndex[i*blockSize+int(pos)]
	}

	log.Info("choice model complete", "choices", len(choices))

	return frame.NewSeries(choosers.Index(), choices)
}

// Backfill reindexes segment choices over a full population, filling
// choosers without a choice with NoChoice. Mirrors running a model over
// a segment and merging results back onto the full chooser table.
func Backfill(choices *frame.Series, index []int64) (*frame.Series, error) {
	values := make([]int64, len(index))
	byID := make(map[int64]int64, choices.Len())
	for i := 0; i < choices.Len(); i++ {
		id, v := choices.At(i)
		byID[id] = v
	}
	for i, id := range index {
		if v, ok := byID[id]; ok {
			values[i] = v
		} else {
			values[i] = NoChoice
		}
	}
	return frame.NewSeries(index, values)
}
