// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/CaioPinho9/space-planner/pkg/constants"
	"github.com/CaioPinho9/space-planner/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for space-planner.
type Configuration struct {
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Predictor   PredictorConfig   `yaml:"predictor"`
	Catalog     CatalogConfig     `yaml:"catalog"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// SimulationConfig holds the search parameters.
type SimulationConfig struct {
	TimeSteps     int      `yaml:"timeSteps"`
	Concurrency   int      `yaml:"concurrency"` // 0 uses every core
	StartIncome   *float64 `yaml:"startIncome,omitempty"`
	MinimumIncome float64  `yaml:"minimumIncome"`
	WeightPolicy  string   `yaml:"weightPolicy"` // full, prune
	Seed          uint64   `yaml:"seed"`
}

// PersistenceConfig locates the save file.
type PersistenceConfig struct {
	SaveFile string `yaml:"saveFile"`
}

// PredictorConfig locates the fitted price curves. Inline parameters replace
// file entries with the same name.
type PredictorConfig struct {
	ParametersFile string            `yaml:"parametersFile"`
	Parameters     []PriceParameters `yaml:"parameters,omitempty"`
}

// PriceParameters is one exponential price curve: cost = a * b^quantity.
type PriceParameters struct {
	Name string  `yaml:"name"`
	A    float64 `yaml:"a"`
	B    float64 `yaml:"b"`
}

// CatalogConfig lists the purchasable items.
type CatalogConfig struct {
	Producers      []Producer      `yaml:"producers"`
	GatedProducers []GatedProducer `yaml:"gatedProducers"`
	Upgrades       []Upgrade       `yaml:"upgrades"`
}

// Producer is a repeatable income source.
type Producer struct {
	Name  string  `yaml:"name"`
	Power float64 `yaml:"power"`
	Buff  *Buff   `yaml:"buff,omitempty"`
}

// GatedProducer only produces after Threshold units are owned.
type GatedProducer struct {
	Name       string  `yaml:"name"`
	Power      float64 `yaml:"power"`
	Threshold  int     `yaml:"threshold"`
	CostStepAt int     `yaml:"costStepAt"`
	CostStep   float64 `yaml:"costStep"`
	Buff       *Buff   `yaml:"buff,omitempty"`
}

// Upgrade multiplies a producer's output once bought.
type Upgrade struct {
	Name       string  `yaml:"name"`
	Target     string  `yaml:"target"`
	Multiplier float64 `yaml:"multiplier"`
	Cost       float64 `yaml:"cost"`
}

// Buff is the temporary income change granted on purchase.
type Buff struct {
	Name           string  `yaml:"name"`
	Duration       int     `yaml:"duration"`
	Factor         float64 `yaml:"factor"`
	InactiveFactor float64 `yaml:"inactiveFactor"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.timeSteps", constants.DefaultTimeSteps)
	v.SetDefault("simulation.concurrency", 0)
	v.SetDefault("simulation.minimumIncome", constants.DefaultMinimumIncome)
	v.SetDefault("simulation.weightPolicy", constants.WeightPolicyFull)
	v.SetDefault("persistence.saveFile", constants.DefaultSaveFile)
	v.SetDefault("predictor.parametersFile", constants.DefaultParametersFile)
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")
	setDefaults(v)

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate rejects configurations the engine cannot run.
func (c *Configuration) Validate() error {
	s := c.Simulation
	if s.TimeSteps <= 0 {
		return fmt.Errorf("simulation.timeSteps must be positive, got %d", s.TimeSteps)
	}
	if s.Concurrency < 0 {
		return fmt.Errorf("simulation.concurrency must not be negative, got %d", s.Concurrency)
	}
	if s.StartIncome != nil && (*s.StartIncome < 0 || math.IsNaN(*s.StartIncome)) {
		return fmt.Errorf("simulation.startIncome must not be negative, got %v", *s.StartIncome)
	}
	if err := validation.ValidateWeightPolicy(s.WeightPolicy); err != nil {
		return err
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}

	for _, u := range c.Catalog.Upgrades {
		if u.Multiplier <= 0 {
			return fmt.Errorf("upgrade %s must have a positive multiplier, got %v", u.Name, u.Multiplier)
		}
		if !(u.Cost > 0) || math.IsInf(u.Cost, 0) {
			return fmt.Errorf("upgrade %s must have a positive cost, got %v", u.Name, u.Cost)
		}
	}
	for _, g := range c.Catalog.GatedProducers {
		if g.Threshold < 0 {
			return fmt.Errorf("gated producer %s must have a non-negative threshold, got %d", g.Name, g.Threshold)
		}
	}
	return nil
}

// ItemNames returns every configured item name in catalog order.
func (c *Configuration) ItemNames() []string {
	var names []string
	for _, p := range c.Catalog.Producers {
		names = append(names, p.Name)
	}
	for _, g := range c.Catalog.GatedProducers {
		names = append(names, g.Name)
	}
	for _, u := range c.Catalog.Upgrades {
		names = append(names, u.Name)
	}
	return names
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings for problems that do not stop the engine from starting.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	seen := make(map[string]bool)
	for _, name := range c.ItemNames() {
		if strings.TrimSpace(name) == "" {
			warnings = append(warnings, "Catalog contains an item without a name")
			continue
		}
		if seen[name] {
			warnings = append(warnings, fmt.Sprintf("Item '%s' is defined more than once", name))
		}
		seen[name] = true
	}

	producers := make(map[string]bool)
	for _, p := range c.Catalog.Producers {
		producers[p.Name] = true
		if p.Power <= 0 {
			warnings = append(warnings, fmt.Sprintf("Producer '%s' has no power output", p.Name))
		}
		if p.Buff != nil {
			warnings = append(warnings, validation.ValidateBuff(p.Name, p.Buff.Duration, p.Buff.Factor)...)
		}
	}
	for _, g := range c.Catalog.GatedProducers {
		producers[g.Name] = true
		if warning := validation.ValidateCostStep(g.Name, g.Threshold, g.CostStepAt); warning != "" {
			warnings = append(warnings, warning)
		}
		if g.Buff != nil {
			warnings = append(warnings, validation.ValidateBuff(g.Name, g.Buff.Duration, g.Buff.Factor)...)
		}
	}
	for _, u := range c.Catalog.Upgrades {
		if warning := validation.ValidateUpgradeTarget(u.Name, u.Target, producers); warning != "" {
			warnings = append(warnings, warning)
		}
		if u.Multiplier > 0 && u.Multiplier < 1 {
			warnings = append(warnings, fmt.Sprintf("Upgrade '%s' reduces output (multiplier %v)", u.Name, u.Multiplier))
		}
	}

	if c.Predictor.ParametersFile == "" && len(c.Predictor.Parameters) == 0 && len(producers) > 0 {
		warnings = append(warnings, "No price curves configured; producers cannot be priced")
	}
	return warnings
}
