package logit

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/travelsim/choice-core/internal/frame"
	"github.com/travelsim/choice-core/internal/trace"
)

func mustMatrix(t *testing.T, rows, cols []int64, data []float64) *frame.Matrix {
	t.Helper()
	m, err := frame.NewMatrix(rows, cols, data)
	if err != nil {
		t.Fatalf("NewMatrix failed: %v", err)
	}
	return m
}

func TestUtilsToProbsUniform(t *testing.T) {
	// Equal utilities must produce equal probabilities
	util := mustMatrix(t, []int64{1, 2}, []int64{10, 20}, []float64{
		0, 0,
		5, 5,
	})

	probs, err := UtilsToProbs(util, Options{})
	if err != nil {
		t.Fatalf("UtilsToProbs failed: %v", err)
	}
	for i := 0; i < probs.NumRows(); i++ {
		for j := 0; j < probs.NumCols(); j++ {
			if math.Abs(probs.At(i, j)-0.5) > 1e-12 {
				t.Errorf("expected probability 0.5 at (%d,%d), got %g", i, j, probs.At(i, j))
			}
		}
	}
}

func TestUtilsToProbsKnownValues(t *testing.T) {
	// exp(ln 1) : exp(ln 3) = 1 : 3
	util := mustMatrix(t, []int64{1}, []int64{10, 20}, []float64{
		math.Log(1), math.Log(3),
	})

	probs, err := UtilsToProbs(util, Options{})
	if err != nil {
		t.Fatalf("UtilsToProbs failed: %v", err)
	}
	if math.Abs(probs.At(0, 0)-0.25) > 1e-12 {
		t.Errorf("expected probability 0.25, got %g", probs.At(0, 0))
	}
	if math.Abs(probs.At(0, 1)-0.75) > 1e-12 {
		t.Errorf("expected probability 0.75, got %g", probs.At(0, 1))
	}
}

func TestUtilsToProbsExponentiated(t *testing.T) {
	util := mustMatrix(t, []int64{1}, []int64{10, 20}, []float64{1, 3})

	probs, err := UtilsToProbs(util, Options{Exponentiated: true})
	if err != nil {
		t.Fatalf("UtilsToProbs failed: %v", err)
	}
	if math.Abs(probs.At(0, 0)-0.25) > 1e-12 {
		t.Errorf("expected probability 0.25, got %g", probs.At(0, 0))
	}
}

func TestUtilsToProbsRowStochastic(t *testing.T) {
	util := mustMatrix(t, []int64{1, 2, 3}, []int64{10, 20, 30}, []float64{
		-2.5, 0.1, 4.7,
		100, 101, 99,
		-600, -600, -600,
	})

	probs, err := UtilsToProbs(util, Options{})
	if err != nil {
		t.Fatalf("UtilsToProbs failed: %v", err)
	}
	for i, sum := range probs.RowSums() {
		if math.Abs(sum-1.0) > BadProbThreshold {
			t.Errorf("row %d sums to %g, want 1 within %g", i, sum, BadProbThreshold)
		}
	}
	for i := 0; i < probs.NumRows(); i++ {
		for j := 0; j < probs.NumCols(); j++ {
			if v := probs.At(i, j); v < ProbMin || v > 1.0 {
				t.Errorf("probability %g at (%d,%d) outside [ProbMin, 1]", v, i, j)
			}
		}
	}
}

func TestUtilsToProbsVeryNegativeRow(t *testing.T) {
	// All utilities deeply negative: exponentiation underflows to zero,
	// the clip floors them at ExpUtilMin and the row comes out uniform
	util := mustMatrix(t, []int64{1}, []int64{10, 20}, []float64{-800, -800})

	probs, err := UtilsToProbs(util, Options{})
	if err != nil {
		t.Fatalf("UtilsToProbs failed: %v", err)
	}
	if math.Abs(probs.At(0, 0)-0.5) > 1e-12 {
		t.Errorf("expected probability 0.5, got %g", probs.At(0, 0))
	}
}

func TestUtilsToProbsOverflow(t *testing.T) {
	util := mustMatrix(t, []int64{1, 2}, []int64{10, 20}, []float64{
		0, 0,
		1000, 0,
	})

	probs, err := UtilsToProbs(util, Options{})
	if !errors.Is(err, ErrNumericOverflow) {
		t.Fatalf("expected ErrNumericOverflow, got %v", err)
	}
	if probs != nil {
		t.Fatal("no probability matrix may be returned on overflow")
	}
}

func TestUtilsToProbsOverflowDumpsUtilities(t *testing.T) {
	dir := t.TempDir()
	tracer, err := trace.NewCSVTracer(dir)
	if err != nil {
		t.Fatalf("NewCSVTracer failed: %v", err)
	}

	util := mustMatrix(t, []int64{7}, []int64{10, 20}, []float64{1000, 0})

	_, err = UtilsToProbs(util, Options{TraceLabel: "dest_choice", Tracer: tracer})
	if !errors.Is(err, ErrNumericOverflow) {
		t.Fatalf("expected ErrNumericOverflow, got %v", err)
	}

	dump := filepath.Join(dir, "dest_choice.utils_to_probs.bad_utils.csv")
	if _, err := os.Stat(dump); err != nil {
		t.Fatalf("expected utility dump at %s: %v", dump, err)
	}
}

func TestUtilsToProbsNaNRowFlooredNotRenormalized(t *testing.T) {
	// A NaN utility survives exponentiation and clipping, poisons the row
	// sum, and every cell in the row is floored to ProbMin. The floored
	// row no longer sums to 1, so the conversion fails the normalization
	// check rather than silently repairing the row.
	util := mustMatrix(t, []int64{1, 2}, []int64{10, 20}, []float64{
		0, 0,
		math.NaN(), math.NaN(),
	})

	_, err := UtilsToProbs(util, Options{})
	if !errors.Is(err, ErrProbabilityNormalization) {
		t.Fatalf("expected ErrProbabilityNormalization, got %v", err)
	}
}

func TestUtilsToProbsBadProbsDump(t *testing.T) {
	dir := t.TempDir()
	tracer, err := trace.NewCSVTracer(dir)
	if err != nil {
		t.Fatalf("NewCSVTracer failed: %v", err)
	}

	util := mustMatrix(t, []int64{1}, []int64{10, 20}, []float64{math.NaN(), math.NaN()})

	_, err = UtilsToProbs(util, Options{TraceLabel: "dest_choice", Tracer: tracer})
	if !errors.Is(err, ErrProbabilityNormalization) {
		t.Fatalf("expected ErrProbabilityNormalization, got %v", err)
	}

	dump := filepath.Join(dir, "dest_choice.utils_to_probs.bad_probs.csv")
	if _, err := os.Stat(dump); err != nil {
		t.Fatalf("expected probability dump at %s: %v", dump, err)
	}
}

func TestUtilsToProbsPreservesLabels(t *testing.T) {
	util := mustMatrix(t, []int64{5, 9}, []int64{101, 102}, []float64{1, 2, 3, 4})

	probs, err := UtilsToProbs(util, Options{})
	if err != nil {
		t.Fatalf("UtilsToProbs failed: %v", err)
	}
	if probs.Rows()[0] != 5 || probs.Rows()[1] != 9 {
		t.Errorf("row labels not preserved: %v", probs.Rows())
	}
	if probs.Cols()[0] != 101 || probs.Cols()[1] != 102 {
		t.Errorf("column labels not preserved: %v", probs.Cols())
	}
}

func TestUtilsToProbsDoesNotMutateInput(t *testing.T) {
	util := mustMatrix(t, []int64{1}, []int64{10, 20}, []float64{1, 2})

	if _, err := UtilsToProbs(util, Options{}); err != nil {
		t.Fatalf("UtilsToProbs failed: %v", err)
	}
	if util.At(0, 0) != 1 || util.At(0, 1) != 2 {
		t.Errorf("input matrix was mutated: [%g %g]", util.At(0, 0), util.At(0, 1))
	}
}
