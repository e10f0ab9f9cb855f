package logit

import (
	"gonum.org/v1/gonum/floats"

	"github.com/travelsim/choice-core/internal/frame"
	"github.com/travelsim/choice-core/pkg/utils"
)

// MakeChoices draws one alternative per chooser from a probability matrix
// whose rows sum to 1, returning a series mapping each chooser identifier
// to the chosen alternative identifier.
//
// The row-sum invariant is re-checked with the same tolerance as
// UtilsToProbs, so callers do not need to pre-validate; violations fail
// with ErrProbabilityNormalization after logging and optionally dumping
// under <trace label>.make_choices.bad_probs.
//
// Selection is inverse-CDF: for each chooser one Uniform(0,1) draw u is
// consumed and the first alternative (in column order) whose cumulative
// probability exceeds u is chosen. Given a fixed draw sequence the result
// is fully deterministic.
func MakeChoices(probs *frame.Matrix, rnd *utils.RandSource, opts Options) (*frame.Series, error) {
	if bad := badProbRows(probs); len(bad) > 0 {
		return nil, reportBadProbs("make_choices", probs, bad, opts)
	}
	if rnd == nil {
		rnd = utils.NewRandSource(0)
	}

	cols := probs.Cols()
	choices := make([]int64, probs.NumRows())
	cum := make([]float64, probs.NumCols())

	for i := range probs.Rows() {
		floats.CumSum(cum, probs.RawRow(i))
		u := rnd.Float64()

		// Last column absorbs the tolerance slack when u lands beyond
		// the final cumulative value
		chosen := len(cols) - 1
		for k, c := range cum {
			if c > u {
				chosen = k
				break
			}
		}
		choices[i] = cols[chosen]
	}

	return frame.NewSeries(probs.Rows(), choices)
}
