package validation

import (
	"testing"
)

func TestValidateBuff(t *testing.T) {
	tests := []struct {
		name       string
		duration   int
		factor     float64
		expectWarn int
	}{
		{
			name:       "Valid debuff",
			duration:   20,
			factor:     -1,
			expectWarn: 0,
		},
		{
			name:       "Zero duration",
			duration:   0,
			factor:     0.5,
			expectWarn: 1,
		},
		{
			name:       "Zero factor",
			duration:   5,
			factor:     0,
			expectWarn: 1,
		},
		{
			name:       "Inert on both counts",
			duration:   -3,
			factor:     0,
			expectWarn: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateBuff("PotatoPlant", tt.duration, tt.factor)
			if len(warnings) != tt.expectWarn {
				t.Errorf("ValidateBuff() got %d warnings, want %d: %v", len(warnings), tt.expectWarn, warnings)
			}
		})
	}
}

func TestValidateUpgradeTarget(t *testing.T) {
	producers := map[string]bool{"Potato": true, "Probetato": true}

	if warning := ValidateUpgradeTarget("MarisPipers", "Potato", producers); warning != "" {
		t.Errorf("ValidateUpgradeTarget() unexpected warning: %s", warning)
	}
	if warning := ValidateUpgradeTarget("GoldenSpudnikFoil", "Spudnik", producers); warning == "" {
		t.Errorf("ValidateUpgradeTarget() expected warning for unknown target")
	}
}

func TestValidateCostStep(t *testing.T) {
	tests := []struct {
		name       string
		threshold  int
		costStepAt int
		expectWarn bool
	}{
		{"Step after activation", 3, 4, false},
		{"Step at activation", 3, 3, false},
		{"Step before activation", 3, 2, true},
		{"No step", 3, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateCostStep("Probetato", tt.threshold, tt.costStepAt)
			if (warning != "") != tt.expectWarn {
				t.Errorf("ValidateCostStep() warning = %q, expectWarn %v", warning, tt.expectWarn)
			}
		})
	}
}
