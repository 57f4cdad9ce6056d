// Package adapters provides adapter implementations between different package interfaces.
package adapters

import (
	"fmt"
	"strings"

	"github.com/CaioPinho9/space-planner/internal/catalog"
	"github.com/CaioPinho9/space-planner/internal/config"
	"github.com/CaioPinho9/space-planner/internal/predictor"
	"github.com/CaioPinho9/space-planner/internal/simulation"
)

// BuffToSpec converts a config.Buff to a catalog.BuffSpec
func BuffToSpec(b *config.Buff) *catalog.BuffSpec {
	if b == nil {
		return nil
	}
	return &catalog.BuffSpec{
		Name:           b.Name,
		Duration:       b.Duration,
		Factor:         b.Factor,
		InactiveFactor: b.InactiveFactor,
	}
}

// CatalogToDefinitions converts the catalog section to catalog.Definitions
func CatalogToDefinitions(c config.CatalogConfig) catalog.Definitions {
	var defs catalog.Definitions
	for _, p := range c.Producers {
		defs.Producers = append(defs.Producers, catalog.ProducerDef{
			Name:  p.Name,
			Power: p.Power,
			Buff:  BuffToSpec(p.Buff),
		})
	}
	for _, g := range c.GatedProducers {
		defs.GatedProducers = append(defs.GatedProducers, catalog.GatedProducerDef{
			ProducerDef: catalog.ProducerDef{
				Name:  g.Name,
				Power: g.Power,
				Buff:  BuffToSpec(g.Buff),
			},
			Threshold:  g.Threshold,
			CostStepAt: g.CostStepAt,
			CostStep:   g.CostStep,
		})
	}
	for _, u := range c.Upgrades {
		defs.Upgrades = append(defs.Upgrades, catalog.UpgradeDef{
			Name:       u.Name,
			Target:     u.Target,
			Multiplier: u.Multiplier,
			Cost:       u.Cost,
		})
	}
	return defs
}

// SimulationToSettings converts the simulation section to simulation.Settings
func SimulationToSettings(s config.SimulationConfig) simulation.Settings {
	settings := simulation.Settings{
		TimeSteps:     s.TimeSteps,
		Concurrency:   s.Concurrency,
		MinimumIncome: s.MinimumIncome,
		Policy:        simulation.Policy(s.WeightPolicy),
		Seed:          s.Seed,
	}
	if s.StartIncome != nil {
		income := *s.StartIncome
		settings.StartIncome = &income
	}
	return settings
}

// PredictorParameters loads the parameters file and overlays the inline
// parameters on it. Inline entries replace file entries with the same name.
func PredictorParameters(p config.PredictorConfig) ([]predictor.Parameters, error) {
	var fromFile []predictor.Parameters
	if p.ParametersFile != "" {
		var err error
		fromFile, err = predictor.LoadParametersFile(p.ParametersFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load price curves from %s: %w", p.ParametersFile, err)
		}
	}

	inline := make(map[string]bool, len(p.Parameters))
	for _, param := range p.Parameters {
		inline[param.Name] = true
	}

	var params []predictor.Parameters
	for _, param := range fromFile {
		if !inline[param.Name] {
			params = append(params, param)
		}
	}
	for _, param := range p.Parameters {
		params = append(params, predictor.Parameters{Name: param.Name, A: param.A, B: param.B})
	}
	return params, nil
}

// MissingCurves lists the producers and gated producers, in configuration
// order, that pred cannot price.
func MissingCurves(pred *predictor.Exponential, c config.CatalogConfig) []string {
	var missing []string
	for _, p := range c.Producers {
		if !pred.Has(p.Name) {
			missing = append(missing, p.Name)
		}
	}
	for _, g := range c.GatedProducers {
		if !pred.Has(g.Name) {
			missing = append(missing, g.Name)
		}
	}
	return missing
}

// BuildCatalog builds the exponential predictor and the canonical catalog
// described by the configuration.
func BuildCatalog(c *config.Configuration) (*catalog.Catalog, *predictor.Exponential, error) {
	params, err := PredictorParameters(c.Predictor)
	if err != nil {
		return nil, nil, err
	}
	pred, err := predictor.NewExponential(params)
	if err != nil {
		return nil, nil, err
	}
	if missing := MissingCurves(pred, c.Catalog); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", predictor.ErrUnknownItem, strings.Join(missing, ", "))
	}
	cat, err := catalog.New(pred, CatalogToDefinitions(c.Catalog))
	if err != nil {
		return nil, nil, err
	}
	return cat, pred, nil
}
