package interaction

import (
	"fmt"
	"log/slog"

	"github.com/travelsim/choice-core/internal/frame"
	"github.com/travelsim/choice-core/pkg/logger"
	"github.com/travelsim/choice-core/pkg/utils"
)

const (
	// ChooserIdxCol is the back-reference column linking each interaction
	// row to its originating chooser
	ChooserIdxCol = "chooser_idx"
	// MergeSuffix disambiguates chooser columns whose name collides with
	// an alternative column; the alternative's column keeps the bare name
	MergeSuffix = "_r"
)

// Sampler builds interaction datasets from chooser and alternative tables
type Sampler struct {
	rnd *utils.RandSource
	log *slog.Logger
}

// NewSampler creates a sampler drawing from the given random source.
// A nil source selects a time-seeded one.
func NewSampler(rnd *utils.RandSource) *Sampler {
	if rnd == nil {
		rnd = utils.NewRandSource(0)
	}
	return &Sampler{rnd: rnd, log: logger.Default}
}

// NewSamplerWithSeed creates a sampler with its own source at the given seed
func NewSamplerWithSeed(seed uint64) *Sampler {
	return NewSampler(utils.NewRandSource(seed))
}

// WithLogger sets the sampler's logger
func (s *Sampler) WithLogger(log *slog.Logger) *Sampler {
	s.log = log
	return s
}

// Dataset combines choosers and alternatives into one table, one row per
// (chooser, sampled alternative) pair, for computing interaction variables.
//
// When sampleSize is zero or at least the number of alternatives, every
// alternative is tiled once under each chooser in alternative order.
// Otherwise each chooser independently receives sampleSize alternatives
// drawn uniformly without replacement, in the order drawn. Rows are
// grouped by chooser, in chooser input order, with ChooserIdxCol
// recording the owning chooser. Chooser attribute columns are merged on;
// on a name collision the alternative column keeps its name and the
// chooser column gains MergeSuffix.
//
// Both indexes must be unique or the call fails with
// frame.ErrNonUniqueIndex before any sampling is done. Empty choosers or
// alternatives produce an empty table.
func (s *Sampler) Dataset(choosers, alternatives *frame.Table, sampleSize int) (*frame.Table, error) {
	if !choosers.IndexIsUnique() {
		return nil, fmt.Errorf("choosers: %w, sample will not work correctly", frame.ErrNonUniqueIndex)
	}
	if !alternatives.IndexIsUnique() {
		return nil, fmt.Errorf("alternatives: %w, sample will not work correctly", frame.ErrNonUniqueIndex)
	}

	numChoosers := choosers.NumRows()
	numAlts := alternatives.NumRows()
	if sampleSize <= 0 || sampleSize > numAlts {
		sampleSize = numAlts
	}

	positions := make([]int, 0, numChoosers*sampleSize)
	if sampleSize < numAlts {
		for i := 0; i < numChoosers; i++ {
			positions = append(positions, s.rnd.Sample(numAlts, sampleSize)...)
		}
	} else {
		for i := 0; i < numChoosers; i++ {
			for j := 0; j < numAlts; j++ {
				positions = append(positions, j)
			}
		}
	}

	out := alternatives.Take(positions)

	chooserIdx := make([]int64, 0, len(positions))
	chooserPos := make([]int, 0, len(positions))
	for i, id := range choosers.Index() {
		for j := 0; j < sampleSize; j++ {
			chooserIdx = append(chooserIdx, id)
			chooserPos = append(chooserPos, i)
		}
	}
	if err := out.AddInt(ChooserIdxCol, chooserIdx); err != nil {
		return nil, fmt.Errorf("failed to merge choosers onto alternatives: %w", err)
	}

	if err := mergeChooserColumns(out, choosers, chooserPos); err != nil {
		return nil, fmt.Errorf("failed to merge choosers onto alternatives: %w", err)
	}

	s.log.Debug("built interaction dataset",
		"choosers", numChoosers,
		"alternatives", numAlts,
		"sample_size", sampleSize,
		"rows", out.NumRows())

	return out, nil
}

// mergeChooserColumns left-merges every chooser column onto the dataset,
// repeating each chooser's value across its block of rows.
func mergeChooserColumns(out, choosers *frame.Table, chooserPos []int) error {
	for _, name := range choosers.ColumnNames() {
		target := name
		if out.HasColumn(target) {
			target = name + MergeSuffix
		}
		if col, ok := choosers.FloatColumn(name); ok {
			values := make([]float64, len(chooserPos))
			for i, p := range chooserPos {
				values[i] = col[p]
			}
			if err := out.AddFloat(target, values); err != nil {
				return err
			}
			continue
		}
		col, _ := choosers.IntColumn(name)
		values := make([]int64, len(chooserPos))
		for i, p := range chooserPos {
			values[i] = col[p]
		}
		if err := out.AddInt(target, values); err != nil {
			return err
		}
	}
	return nil
}
