package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/loan-amortization/internal/config"
	"github.com/iwvelando/loan-amortization/internal/logging"
	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/output"
	"github.com/iwvelando/loan-amortization/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// buildScenarios computes the base schedule followed by one schedule per
// active scenario, each compared against the base.
func buildScenarios(logger *zap.Logger, conf *config.Configuration) ([]output.Scenario, error) {
	terms, err := conf.Loan.ToLoanTerms()
	if err != nil {
		return nil, fmt.Errorf("failed to parse loan: %w", err)
	}
	options, err := conf.Options.ToCalcOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to parse options: %w", err)
	}

	engine := amortization.NewEngine(logger)
	base, err := engine.GenerateBaseSchedule(terms, options)
	if err != nil {
		return nil, fmt.Errorf("failed to compute base schedule: %w", err)
	}

	scenarios := []output.Scenario{{Name: constants.BaseScenarioName, Result: base}}
	for _, sc := range conf.ActiveScenarios() {
		plan, err := sc.ToPlan()
		if err != nil {
			return nil, fmt.Errorf("failed to parse scenario %q: %w", sc.Name, err)
		}
		result, err := engine.GenerateSchedule(terms, plan, options)
		if err != nil {
			return nil, fmt.Errorf("failed to compute scenario %q: %w", sc.Name, err)
		}
		comparison := amortization.Compare(base.Summary(), result.Summary())
		scenarios = append(scenarios, output.Scenario{Name: sc.Name, Result: result, Comparison: &comparison})
	}
	return scenarios, nil
}

// selectScenario picks the scenario to export as CSV: the named one, else the
// first active scenario, else the base schedule.
func selectScenario(scenarios []output.Scenario, name string) (output.Scenario, error) {
	if name == "" {
		if len(scenarios) > 1 {
			return scenarios[1], nil
		}
		return scenarios[0], nil
	}
	for _, sc := range scenarios {
		if sc.Name == name {
			return sc, nil
		}
	}
	return output.Scenario{}, fmt.Errorf("scenario %q not found", name)
}

func render(w io.Writer, format string, scenarios []output.Scenario, scenarioName string) error {
	switch format {
	case constants.OutputFormatCSV:
		sc, err := selectScenario(scenarios, scenarioName)
		if err != nil {
			return err
		}
		return output.CsvFormat(w, sc)
	case constants.OutputFormatJSON:
		return output.JSONFormat(w, scenarios)
	default:
		return output.PrettyFormat(w, scenarios)
	}
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	outputFile := flag.String("output", "", "write output to this file instead of stdout")
	scenarioName := flag.String("scenario", "", "scenario to export with csv output (default: first active scenario)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// A missing .env file is not an error
	_ = godotenv.Load()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.Validate() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	scenarios, err := buildScenarios(logger, conf)
	if err != nil {
		logger.Fatal("failed to compute amortization schedules",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	var w io.Writer = os.Stdout
	destination := conf.Output.File
	if *outputFile != "" {
		destination = *outputFile
	}
	if destination != "" {
		f, err := os.Create(destination)
		if err != nil {
			logger.Fatal("failed to create output file",
				zap.String("op", "main"),
				zap.String("path", destination),
				zap.Error(err),
			)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Error("failed to close output file",
					zap.String("op", "main"),
					zap.String("path", destination),
					zap.Error(err),
				)
			}
		}()
		w = f
	}

	if err := render(w, outputFormat, scenarios, *scenarioName); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.String("format", outputFormat),
			zap.Error(err),
		)
	}

	logger.Debug(fmt.Sprintf("rendered %d scenarios as %s", len(scenarios), outputFormat),
		zap.String("op", "main"),
	)
}
