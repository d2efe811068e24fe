package types

import "github.com/RezaEskandarii/remindfire/internal/state"

// SweepResult summarizes one sweep cycle. It is informational only.
type SweepResult struct {
	Due        int  `json:"due"`
	Sent       int  `json:"sent"`
	Suppressed int  `json:"suppressed"`
	Failed     int  `json:"failed"`
	Corrupt    int  `json:"corrupt"`
	Skipped    int  `json:"skipped"`
	Locked     bool `json:"locked,omitempty"`
}

func (r *SweepResult) Record(outcome state.Outcome) {
	switch outcome {
	case state.OutcomeSent:
		r.Sent++
	case state.OutcomeSuppressed:
		r.Suppressed++
	case state.OutcomeFailed:
		r.Failed++
	case state.OutcomeCorrupt:
		r.Corrupt++
	case state.OutcomeSkipped:
		r.Skipped++
	}
}
