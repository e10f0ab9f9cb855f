//go:build integration
// +build integration

package integration_test

import (
	"path/filepath"
	"testing"

	"github.com/travelsim/choice-core/internal/frame"
	"github.com/travelsim/choice-core/internal/nest"
	"github.com/travelsim/choice-core/internal/simulate"
	"github.com/travelsim/choice-core/internal/trace"
	"github.com/travelsim/choice-core/pkg/config"
)

func loadExample(t *testing.T) (*config.Settings, *frame.Table, *frame.Table) {
	t.Helper()

	settingsPath := filepath.Join("..", "..", "config", "model.yaml")
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		t.Fatalf("LoadSettings(%s) failed: %v", settingsPath, err)
	}

	choosers, err := frame.ReadTableCSV(filepath.Join("..", "..", settings.ChoosersFile))
	if err != nil {
		t.Fatalf("loading choosers failed: %v", err)
	}
	alternatives, err := frame.ReadTableCSV(filepath.Join("..", "..", settings.AlternativesFile))
	if err != nil {
		t.Fatalf("loading alternatives failed: %v", err)
	}
	return settings, choosers, alternatives
}

func TestIntegration_ExampleConfigLoadSmoke(t *testing.T) {
	settings, choosers, alternatives := loadExample(t)

	if len(settings.Coefficients) == 0 {
		t.Fatal("expected settings to define utility coefficients")
	}
	if choosers.NumRows() == 0 || alternatives.NumRows() == 0 {
		t.Fatal("expected example tables to be non-empty")
	}
	if settings.Nests == nil {
		t.Fatal("expected example settings to define a nest tree")
	}
}

func TestIntegration_FullModelStep(t *testing.T) {
	settings, choosers, alternatives := loadExample(t)

	tracer, err := trace.NewCSVTracer(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVTracer failed: %v", err)
	}

	runner := simulate.NewRunner(settings.Seed, settings.SampleSize).WithTracer(tracer)
	choices, err := runner.Run(settings.TraceLabel, choosers, alternatives,
		simulate.LinearUtility(settings.Coefficients))
	if err != nil {
		t.Fatalf("model step failed: %v", err)
	}

	if choices.Len() != choosers.NumRows() {
		t.Fatalf("expected %d choices, got %d", choosers.NumRows(), choices.Len())
	}

	altIDs := make(map[int64]bool)
	for _, id := range alternatives.Index() {
		altIDs[id] = true
	}
	for i := 0; i < choices.Len(); i++ {
		_, chosen := choices.At(i)
		if !altIDs[chosen] {
			t.Errorf("choice %d is not a known alternative: %d", i, chosen)
		}
	}
}

func TestIntegration_ModelStepDeterministicUnderSeed(t *testing.T) {
	settings, choosers, alternatives := loadExample(t)

	run := func() []int64 {
		runner := simulate.NewRunner(settings.Seed, settings.SampleSize)
		choices, err := runner.Run(settings.TraceLabel, choosers, alternatives,
			simulate.LinearUtility(settings.Coefficients))
		if err != nil {
			t.Fatalf("model step failed: %v", err)
		}
		return choices.Values()
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same settings produced different choices at %d: %d != %d",
				i, first[i], second[i])
		}
	}
}

func TestIntegration_NestTraversalFromSettings(t *testing.T) {
	settings, _, _ := loadExample(t)

	leaves, err := nest.Each(*settings.Nests, nest.TypeLeaf, false)
	if err != nil {
		t.Fatalf("nest traversal failed: %v", err)
	}
	if len(leaves) != 3 {
		t.Fatalf("expected 3 leaves in example nest tree, got %d", len(leaves))
	}
	for _, leaf := range leaves {
		if leaf.ProductOfCoefficients <= 0 || leaf.ProductOfCoefficients > 1 {
			t.Errorf("leaf %s has product outside (0, 1]: %g", leaf.Name, leaf.ProductOfCoefficients)
		}
	}
}
