package main

import (
	"flag"
	"os"
	"sort"

	"github.com/travelsim/choice-core/internal/frame"
	"github.com/travelsim/choice-core/internal/nest"
	"github.com/travelsim/choice-core/internal/simulate"
	"github.com/travelsim/choice-core/internal/trace"
	"github.com/travelsim/choice-core/pkg/config"
	"github.com/travelsim/choice-core/pkg/logger"
)

func main() {
	var configPath string
	var logLevel string
	var traceDir string
	var seed uint64

	flag.StringVar(&configPath, "config", "", "model settings YAML file (required)")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides settings")
	flag.StringVar(&traceDir, "trace-dir", "", "directory for diagnostic dumps (disabled when empty)")
	flag.Uint64Var(&seed, "seed", 0, "random seed; overrides settings")
	flag.Parse()

	if configPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	settings, err := config.LoadSettings(configPath)
	if err != nil {
		logger.Error("failed to load settings", "path", configPath, "error", err)
		os.Exit(1)
	}

	if logLevel == "" {
		logLevel = settings.LogLevel
	}
	logger.SetDefault(logger.NewText(logLevel, os.Stdout))

	if seed == 0 {
		seed = settings.Seed
	}

	choosers, err := frame.ReadTableCSV(settings.ChoosersFile)
	if err != nil {
		logger.Error("failed to load choosers", "error", err)
		os.Exit(1)
	}
	alternatives, err := frame.ReadTableCSV(settings.AlternativesFile)
	if err != nil {
		logger.Error("failed to load alternatives", "error", err)
		os.Exit(1)
	}

	if settings.Nests != nil {
		logNests(settings.Nests)
	}

	runner := simulate.NewRunner(seed, settings.SampleSize)
	if traceDir != "" {
		tracer, err := trace.NewCSVTracer(traceDir)
		if err != nil {
			logger.Error("failed to create tracer", "dir", traceDir, "error", err)
			os.Exit(1)
		}
		runner.WithTracer(tracer)
	}

	traceLabel := settings.TraceLabel
	if traceLabel == "" {
		traceLabel = "choicesim"
	}

	choices, err := runner.Run(traceLabel, choosers, alternatives,
		simulate.LinearUtility(settings.Coefficients))
	if err != nil {
		logger.Error("choice model failed", "error", err)
		os.Exit(1)
	}

	printSummary(choices)
}

// logNests logs every nest descriptor so the effective scale structure
// is visible at startup
func logNests(spec *config.NestNode) {
	descriptors, err := nest.Each(*spec, nest.TypeAll, false)
	if err != nil {
		logger.Error("invalid nest specification", "error", err)
		os.Exit(1)
	}
	for _, d := range descriptors {
		logger.Info("nest",
			"name", d.Name,
			"type", string(d.Type),
			"level", d.Level,
			"product_of_coefficients", d.ProductOfCoefficients)
	}
}

// printSummary logs how often each alternative was chosen
func printSummary(choices *frame.Series) {
	counts := make(map[int64]int)
	for i := 0; i < choices.Len(); i++ {
		_, chosen := choices.At(i)
		counts[chosen]++
	}

	alts := make([]int64, 0, len(counts))
	for alt := range counts {
		alts = append(alts, alt)
	}
	sort.Slice(alts, func(i, j int) bool { return alts[i] < alts[j] })

	logger.Info("choices made", "choosers", choices.Len(), "alternatives_chosen", len(alts))
	for _, alt := range alts {
		logger.Info("choice summary", "alternative", alt, "count", counts[alt])
	}
}
