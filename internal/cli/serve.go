package cli

import (
	"context"
	"github.com/RezaEskandarii/remindfire/jobmanager"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Sweep bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the sweep loop",
		Long: `Run the reminder HTTP API.

With the sweep strategy the due-job sweep also runs in process on SWEEP_SCHEDULE,
unless --sweep=false is given (an external cron then calls /api/push/cron).

Example:
  remindfire serve --env-file ./prod.env
  remindfire serve --sweep=false`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return jobmanager.Run(ctx, cfg, jobmanager.RunOptions{Sweep: opts.Sweep})
		},
	}

	cmd.Flags().BoolVar(&opts.Sweep, "sweep", true, "run the sweep loop in process")

	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
