package cli

import (
	"encoding/json"
	"fmt"
	"github.com/RezaEskandarii/remindfire/app"
	"github.com/RezaEskandarii/remindfire/custom_errors"
	"github.com/RezaEskandarii/remindfire/types"
	"github.com/RezaEskandarii/remindfire/types/config"
	"github.com/spf13/cobra"
	"log"
	"os"
	"time"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Subscription string
	SubjectID    string
	SubjectLabel string
	Date         string
	Times        []string
	Level        int
	Success      bool
	// AllowEphemeral plans even when the jobs only live in this process and are lost on exit.
	AllowEphemeral bool
}

type planResult struct {
	SubjectID string `json:"subjectId"`
	DayKey    string `json:"dayKey"`
	Submitted int    `json:"submitted"`
	NextLevel *int   `json:"nextLevel,omitempty"`
}

func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan the reminders of one subject for one day",
		Long: `Plan reminders for a push subscription saved as JSON.

Without --level the reminders are planned on --date (default today).
With --level the date is derived from the review ladder, as after a review taken on --date.

Example:
  remindfire plan --subscription sub.json --subject algebra --label Algebra --date 2026-03-10
  remindfire plan --subscription sub.json --subject algebra --level 2 --success`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Subscription, "subscription", "", "path to the push subscription JSON (required)")
	cmd.Flags().StringVar(&opts.SubjectID, "subject", "", "subject id (required)")
	cmd.Flags().StringVar(&opts.SubjectLabel, "label", "", "subject label shown in the notification")
	cmd.Flags().StringVar(&opts.Date, "date", "", "day to plan, YYYY-MM-DD in TIMEZONE (default today)")
	cmd.Flags().StringSliceVar(&opts.Times, "times", nil, "times of day, HH:MM (default TIMES_OF_DAY)")
	cmd.Flags().IntVar(&opts.Level, "level", -1, "current review level; enables review-ladder planning")
	cmd.Flags().BoolVar(&opts.Success, "success", false, "the review at --level succeeded")
	cmd.Flags().BoolVar(&opts.AllowEphemeral, "allow-ephemeral", false, "plan even when jobs are held in process memory only")
	_ = cmd.MarkFlagRequired("subscription")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func runPlan(opts *PlanOptions, cmd *cobra.Command) error {
	destination, err := readSubscription(opts.Subscription)
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	day := time.Now().In(cfg.Location)
	if opts.Date != "" {
		day, err = time.ParseInLocation(types.DayKeyLayout, opts.Date, cfg.Location)
		if err != nil {
			return fmt.Errorf("%w: invalid --date %q", custom_errors.ErrInvalidPayload, opts.Date)
		}
	}

	if reason := ephemeralJobs(cfg); reason != "" {
		if !opts.AllowEphemeral {
			return fmt.Errorf("%w: %s, planned jobs would be lost when plan exits (use --allow-ephemeral to plan anyway)",
				custom_errors.ErrBackendUnavailable, reason)
		}
		log.Printf("warning: %s, planned jobs are lost when plan exits", reason)
	}

	ctx := contextOf(cmd)
	c, err := app.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("failed to close container: %v", err)
		}
	}()

	result := planResult{SubjectID: opts.SubjectID}
	if opts.Level >= 0 {
		nextLevel, nextDate, n, err := c.Planner.PlanAfterReview(ctx, destination, opts.SubjectID, opts.SubjectLabel, opts.Level, opts.Success, day)
		if err != nil {
			return err
		}
		result.DayKey = nextDate.Format(types.DayKeyLayout)
		result.Submitted = n
		result.NextLevel = &nextLevel
	} else {
		n, err := c.Planner.PlanReminders(ctx, destination, opts.SubjectID, opts.SubjectLabel, day, opts.Times)
		if err != nil {
			return err
		}
		result.DayKey = day.Format(types.DayKeyLayout)
		result.Submitted = n
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

// ephemeralJobs names why submitted jobs would not outlive this process, or returns "".
func ephemeralJobs(cfg *config.RemindfireConfig) string {
	switch {
	case cfg.DispatchStrategy == config.DispatchPush && cfg.SchedulerDriver == config.SchedulerLocal:
		return "the local scheduler keeps its timers in memory"
	case cfg.DispatchStrategy == config.DispatchSweep && cfg.StorageDriver == config.Memory && !cfg.UseQueueWriter:
		return "the memory job store is not persisted"
	}
	return ""
}

func readSubscription(path string) (types.Destination, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Destination{}, fmt.Errorf("failed to read subscription: %w", err)
	}
	var destination types.Destination
	if err := json.Unmarshal(raw, &destination); err != nil {
		return types.Destination{}, fmt.Errorf("%w: subscription file: %v", custom_errors.ErrInvalidPayload, err)
	}
	return destination, nil
}
