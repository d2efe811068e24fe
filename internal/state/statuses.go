package state

// Outcome is what happened to a single due job.
type Outcome string

const (
	OutcomeSent       Outcome = "sent"
	OutcomeSuppressed Outcome = "suppressed" // completion marker present
	OutcomeFailed     Outcome = "failed"
	OutcomeCorrupt    Outcome = "corrupt"
	OutcomeSkipped    Outcome = "skipped" // claimed by another sweep or an earlier callback
)

func (o Outcome) String() string {
	return string(o)
}
