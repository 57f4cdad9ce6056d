package validation

import "fmt"

// ValidateBuff checks a purchase buff for settings that make it inert.
func ValidateBuff(itemName string, duration int, factor float64) []string {
	var warnings []string

	if duration <= 0 {
		warnings = append(warnings, fmt.Sprintf("Buff on '%s' has non-positive duration %d and will never apply",
			itemName, duration))
	}
	if factor == 0 {
		warnings = append(warnings, fmt.Sprintf("Buff on '%s' has a zero factor", itemName))
	}

	return warnings
}

// ValidateUpgradeTarget checks that an upgrade points at a known producer.
func ValidateUpgradeTarget(upgradeName, target string, producers map[string]bool) string {
	if !producers[target] {
		return fmt.Sprintf("Upgrade '%s' targets unknown producer '%s'", upgradeName, target)
	}
	return ""
}

// ValidateCostStep checks that a gated producer's price step does not land
// before its activation threshold.
func ValidateCostStep(itemName string, threshold, costStepAt int) string {
	if costStepAt > 0 && costStepAt < threshold {
		return fmt.Sprintf("Gated producer '%s' applies its cost step at %d, before it activates at %d",
			itemName, costStepAt, threshold)
	}
	return ""
}
