package state

import (
	"testing"
)

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		name     string
		outcome  Outcome
		expected string
	}{
		{name: "Sent outcome", outcome: OutcomeSent, expected: "sent"},
		{name: "Suppressed outcome", outcome: OutcomeSuppressed, expected: "suppressed"},
		{name: "Failed outcome", outcome: OutcomeFailed, expected: "failed"},
		{name: "Corrupt outcome", outcome: OutcomeCorrupt, expected: "corrupt"},
		{name: "Skipped outcome", outcome: OutcomeSkipped, expected: "skipped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.outcome.String()
			if result != tt.expected {
				t.Errorf("String() = %v, want %v", result, tt.expected)
			}
		})
	}
}
