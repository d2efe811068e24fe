package types

import (
	"errors"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"strings"
	"time"
)

// DayKeyLayout is the layout of ReminderJob.DayKey (local calendar date).
const DayKeyLayout = "2006-01-02"

// ReminderJob is one scheduled notification attempt.
type ReminderJob struct {
	Destination  Destination `json:"subscription"`
	SubjectID    string      `json:"subjectId"`
	SubjectLabel string      `json:"subjectLabel,omitempty"`
	DayKey       string      `json:"dayKey"`
	FireAt       int64       `json:"fireAt"` // epoch milliseconds
}

func (j ReminderJob) FireTime() time.Time {
	return time.UnixMilli(j.FireAt)
}

func (j ReminderJob) Marker() CompletionMarker {
	return CompletionMarker{
		Endpoint:  j.Destination.Endpoint,
		SubjectID: j.SubjectID,
		DayKey:    j.DayKey,
	}
}

// Validate reports every missing or malformed field at once.
func (j ReminderJob) Validate() error {
	validationErrs := &custom_errors.ValidationError{}
	if !j.Destination.IsValid() {
		validationErrs.Add(errors.New("destination endpoint is required"))
	}
	if strings.TrimSpace(j.SubjectID) == "" {
		validationErrs.Add(errors.New("subjectId is required"))
	}
	if _, err := time.Parse(DayKeyLayout, j.DayKey); err != nil {
		validationErrs.Add(errors.New("dayKey must be formatted as YYYY-MM-DD"))
	}
	if j.FireAt <= 0 {
		validationErrs.Add(errors.New("fireAt must be a positive epoch millisecond value"))
	}
	if validationErrs.HasError() {
		return validationErrs
	}
	return nil
}
