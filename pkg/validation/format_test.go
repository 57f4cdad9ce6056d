package validation

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format    string
		expectErr bool
	}{
		{"pretty", false},
		{"csv", false},
		{"json", true},
		{"", true},
		{"PRETTY", true},
		{" csv ", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.expectErr && err == nil {
				t.Errorf("ValidateOutputFormat(%q) expected error but got none", tt.format)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("ValidateOutputFormat(%q) unexpected error = %v", tt.format, err)
			}
		})
	}
}

func TestValidateWeightPolicy(t *testing.T) {
	tests := []struct {
		policy    string
		expectErr bool
	}{
		{"", false},
		{"full", false},
		{"prune", false},
		{"Full", true},
		{"greedy", true},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			err := ValidateWeightPolicy(tt.policy)
			if tt.expectErr && err == nil {
				t.Errorf("ValidateWeightPolicy(%q) expected error but got none", tt.policy)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("ValidateWeightPolicy(%q) unexpected error = %v", tt.policy, err)
			}
		})
	}
}

func TestValidateWeightPolicyErrorMessage(t *testing.T) {
	err := ValidateWeightPolicy("greedy")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "greedy") {
		t.Errorf("error should name the rejected policy: %v", err)
	}
}
