package client

import (
	"context"
	"errors"
	"fmt"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/RezaEskandarii/remindfire/internal/parser"
	"github.com/RezaEskandarii/remindfire/types"
	"strings"
	"time"
)

var DefaultTimesOfDay = []string{"09:00", "12:00", "17:00"}

// ReviewIntervalsDays is the spacing ladder used by ScheduleNext; index is the review level.
var ReviewIntervalsDays = []int{1, 3, 7, 14, 30, 60}

// Planner turns a review date into reminder jobs and submits them.
type Planner struct {
	strategy   DispatchStrategy
	timesOfDay []string
}

type PlannerOption func(*Planner) error

func WithTimesOfDay(values ...string) PlannerOption {
	return func(p *Planner) error {
		if len(values) == 0 {
			return errors.New("times of day must not be empty")
		}
		if _, err := parser.ParseTimesOfDay(values); err != nil {
			return err
		}
		p.timesOfDay = append([]string(nil), values...)
		return nil
	}
}

// NewPlanner accepts a nil strategy; planning then fails with ErrTransportUnavailable.
func NewPlanner(strategy DispatchStrategy, opts ...PlannerOption) (*Planner, error) {
	p := &Planner{
		strategy:   strategy,
		timesOfDay: DefaultTimesOfDay,
	}
	validationErrs := &custom_errors.ValidationError{}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			validationErrs.Add(err)
		}
	}
	if validationErrs.HasError() {
		return nil, validationErrs
	}
	return p, nil
}

// PlanReminders submits one job per time of day on targetDate's calendar day, in targetDate's location.
// An empty timesOfDay uses the planner defaults. It returns how many jobs were submitted.
func (p *Planner) PlanReminders(ctx context.Context, destination types.Destination, subjectID, subjectLabel string, targetDate time.Time, timesOfDay []string) (int, error) {
	if !destination.IsValid() {
		return 0, custom_errors.ErrNoDestination
	}
	if strings.TrimSpace(subjectID) == "" {
		return 0, fmt.Errorf("%w: subjectId is required", custom_errors.ErrInvalidPayload)
	}
	if p.strategy == nil {
		return 0, custom_errors.ErrTransportUnavailable
	}
	if len(timesOfDay) == 0 {
		timesOfDay = p.timesOfDay
	}
	times, err := parser.ParseTimesOfDay(timesOfDay)
	if err != nil {
		return 0, err
	}

	dayKey := targetDate.Format(types.DayKeyLayout)
	fireTimes := make([]int64, 0, len(times))
	for _, t := range times {
		fireTimes = append(fireTimes, t.On(targetDate).UnixMilli())
	}
	return p.Submit(ctx, destination, subjectID, subjectLabel, dayKey, fireTimes)
}

// Submit enqueues jobs for already computed fire times. It stops at the first failed submission.
func (p *Planner) Submit(ctx context.Context, destination types.Destination, subjectID, subjectLabel, dayKey string, fireTimes []int64) (int, error) {
	if !destination.IsValid() {
		return 0, fmt.Errorf("%w: destination is required", custom_errors.ErrInvalidPayload)
	}
	if p.strategy == nil {
		return 0, custom_errors.ErrTransportUnavailable
	}

	jobs := make([]types.ReminderJob, 0, len(fireTimes))
	for _, fireAt := range fireTimes {
		job := types.ReminderJob{
			Destination:  destination,
			SubjectID:    subjectID,
			SubjectLabel: subjectLabel,
			DayKey:       dayKey,
			FireAt:       fireAt,
		}
		if err := job.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %v", custom_errors.ErrInvalidPayload, err)
		}
		jobs = append(jobs, job)
	}

	accepted := 0
	for _, job := range jobs {
		if err := p.strategy.Submit(ctx, job); err != nil {
			return accepted, err
		}
		accepted++
	}
	return accepted, nil
}

// ScheduleNext advances the review level on success and repeats it on failure.
func ScheduleNext(level int, success bool, from time.Time) (int, time.Time) {
	next := level
	if success {
		next++
	}
	next = max(0, min(next, len(ReviewIntervalsDays)-1))
	return next, from.AddDate(0, 0, ReviewIntervalsDays[next])
}

// PlanAfterReview schedules reminders for the review that follows one just taken at reviewedAt.
func (p *Planner) PlanAfterReview(ctx context.Context, destination types.Destination, subjectID, subjectLabel string, level int, success bool, reviewedAt time.Time) (int, time.Time, int, error) {
	nextLevel, nextDate := ScheduleNext(level, success, reviewedAt)
	n, err := p.PlanReminders(ctx, destination, subjectID, subjectLabel, nextDate, nil)
	return nextLevel, nextDate, n, err
}
