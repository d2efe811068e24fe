package parser

import (
	"fmt"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/robfig/cron/v3"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date or location.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On resolves t on the calendar day of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

// ParseTimeOfDay parses "HH:MM" (24h clock). "9:05" is accepted as well.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day: %q", value)
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || len(parts[1]) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day: %q", value)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day out of range: %q", value)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimesOfDay parses every value and aggregates all failures into one ValidationError.
func ParseTimesOfDay(values []string) ([]TimeOfDay, error) {
	validationErrs := &custom_errors.ValidationError{}
	out := make([]TimeOfDay, 0, len(values))
	for _, v := range values {
		t, err := ParseTimeOfDay(v)
		if err != nil {
			validationErrs.Add(err)
			continue
		}
		out = append(out, t)
	}
	if validationErrs.HasError() {
		return nil, validationErrs
	}
	return out, nil
}

// SplitList splits a comma separated configuration value, dropping blanks.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseSweepSchedule accepts a standard 5-field cron expression or a descriptor such as "@every 5m".
func ParseSweepSchedule(spec string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return schedule, nil
}

// NextSweep returns the first sweep time strictly after from.
func NextSweep(spec string, from time.Time) (time.Time, error) {
	schedule, err := ParseSweepSchedule(spec)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(from), nil
}
