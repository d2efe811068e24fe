// Package codec turns reminder jobs into the self-contained tokens kept by job stores.
package codec

import (
	"encoding/json"
	"fmt"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/RezaEskandarii/remindfire/types"
)

// Encode returns the canonical token for job. Identical jobs always encode to identical tokens.
func Encode(job types.ReminderJob) (string, error) {
	if err := job.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", custom_errors.ErrInvalidPayload, err)
	}
	b, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("%w: %v", custom_errors.ErrInvalidPayload, err)
	}
	return string(b), nil
}

// Decode parses a token produced by Encode. Any unreadable or incomplete token yields ErrCorruptJob.
func Decode(token string) (types.ReminderJob, error) {
	var job types.ReminderJob
	if err := json.Unmarshal([]byte(token), &job); err != nil {
		return types.ReminderJob{}, fmt.Errorf("%w: %v", custom_errors.ErrCorruptJob, err)
	}
	if err := job.Validate(); err != nil {
		return types.ReminderJob{}, fmt.Errorf("%w: %v", custom_errors.ErrCorruptJob, err)
	}
	return job, nil
}

// DecodeBytes is Decode for raw message bodies (queue messages, scheduler callbacks).
func DecodeBytes(body []byte) (types.ReminderJob, error) {
	return Decode(string(body))
}
