package logit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/travelsim/choice-core/internal/frame"
	"github.com/travelsim/choice-core/pkg/utils"
)

// UtilsToProbs converts a chooser x alternative utility matrix into a
// row-stochastic probability matrix with the same labels.
//
// Unless Options.Exponentiated is set, utilities are exponentiated first.
// Exponentiated values are clipped into [ExpUtilMin, ExpUtilMax] before
// summation so all-negative rows cannot sum to zero. A chooser whose row
// sum is infinite is fatal: the offending rows are logged, optionally
// dumped under <trace label>.utils_to_probs.bad_utils, and the call fails
// with ErrNumericOverflow. After normalization any NaN cell (0/0) is
// replaced with ProbMin rather than re-normalized; this is deliberate and
// observable. Rows that then deviate from summing to 1 by more than
// BadProbThreshold fail with ErrProbabilityNormalization.
func UtilsToProbs(util *frame.Matrix, opts Options) (*frame.Matrix, error) {
	log := opts.logger()

	probs := util.Clone()
	if !opts.Exponentiated {
		probs.Apply(math.Exp)
	}
	probs.Apply(func(v float64) float64 {
		return utils.ClampFloat64(v, ExpUtilMin, ExpUtilMax)
	})

	// Sum after the clip so rows of large negative utilities cannot sum to zero
	sums := probs.RowSums()

	var badUtil []int
	for i, sum := range sums {
		if math.IsInf(sum, 0) {
			badUtil = append(badUtil, i)
		}
	}
	if len(badUtil) > 0 {
		log.Error("exponentiated utility rows have infinite values", "rows", len(badUtil))

		dump := badUtil
		if len(dump) > MaxDump {
			dump = dump[:MaxDump]
		}
		for _, i := range dump {
			log.Error("infinite value for exponentiated utilities", "chooser_id", util.Rows()[i])
		}
		if opts.TraceLabel != "" {
			label := opts.TraceLabel + ".utils_to_probs.bad_utils"
			log.Error("dumping offending utilities", "label", label)
			if err := opts.tracer().WriteMatrix(label, util, dump); err != nil {
				log.Error("failed to dump offending utilities", "label", label, "error", err)
			}
		}
		return nil, fmt.Errorf("utils_to_probs: %d rows: %w", len(badUtil), ErrNumericOverflow)
	}

	for i := range probs.Rows() {
		row := probs.RawRow(i)
		floats.Scale(1/sums[i], row)
		for j, v := range row {
			if math.IsNaN(v) {
				row[j] = ProbMin
			}
		}
	}
	probs.Apply(func(v float64) float64 {
		return utils.ClampFloat64(v, ProbMin, ProbMax)
	})

	if bad := badProbRows(probs); len(bad) > 0 {
		return nil, reportBadProbs("utils_to_probs", probs, bad, opts)
	}

	return probs, nil
}
