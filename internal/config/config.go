// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-amortization.
type Configuration struct {
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
	Loan      Loan          `yaml:"loan"`
	Options   Options       `yaml:"options,omitempty"`
	Scenarios []Scenario    `yaml:"scenarios,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
	File   string `yaml:"file,omitempty"`   // empty writes to stdout
}

// Loan holds the loan terms. Amounts are kept as strings so they can be
// parsed into exact decimals.
type Loan struct {
	Principal         string `yaml:"principal"`
	AnnualRatePercent string `yaml:"annualRatePercent"`
	TermMonths        int    `yaml:"termMonths"`
	StartDate         string `yaml:"startDate"`
}

// Options holds the calculation options.
type Options struct {
	CurrencyDecimals int    `yaml:"currencyDecimals"`
	PaymentTiming    string `yaml:"paymentTiming,omitempty"` // end-of-period
	Mode             string `yaml:"mode,omitempty"`          // keep-payment
	Matching         string `yaml:"matching,omitempty"`      // window, exact-date
}

// Scenario holds one extra payment plan to compare against the base schedule.
type Scenario struct {
	Name                    string    `yaml:"name"`
	Active                  bool      `yaml:"active"`
	RecurringExtraPrincipal string    `yaml:"recurringExtraPrincipal,omitempty"`
	LumpSums                []LumpSum `yaml:"lumpSums,omitempty"`
}

// LumpSum is a one-off extra principal payment.
type LumpSum struct {
	Date   string `yaml:"date"`
	Amount string `yaml:"amount"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("options.currencyDecimals", constants.DefaultCurrencyDecimals)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// ActiveScenarios returns the scenarios marked active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// Validate performs general validation of the configuration and returns
// non-fatal warnings.
func (c *Configuration) Validate() []string {
	validator := validation.ConfigValidator{
		Loan: validation.LoanConfig{
			StartDate:  c.Loan.StartDate,
			TermMonths: c.Loan.TermMonths,
		},
	}
	for _, scenario := range c.Scenarios {
		sc := validation.ScenarioConfig{
			Name:   scenario.Name,
			Active: scenario.Active,
		}
		for _, lumpSum := range scenario.LumpSums {
			sc.LumpSums = append(sc.LumpSums, validation.LumpSumConfig{Date: lumpSum.Date})
		}
		validator.Scenarios = append(validator.Scenarios, sc)
	}
	return validator.ValidateAll()
}
