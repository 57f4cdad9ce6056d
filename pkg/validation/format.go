// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/CaioPinho9/space-planner/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateWeightPolicy checks if the weight policy is one of the supported
// policies. An empty policy selects the default.
func ValidateWeightPolicy(policy string) error {
	switch policy {
	case "", constants.WeightPolicyFull, constants.WeightPolicyPrune:
		return nil
	}
	return fmt.Errorf("expected weight policy of %s or %s, got %s",
		constants.WeightPolicyFull, constants.WeightPolicyPrune, policy)
}
