package cli

import (
	"github.com/RezaEskandarii/remindfire/app"
	"github.com/spf13/cobra"
	"log"
)

func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "sweep",
		Short:         "Run one sweep cycle and print its result",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
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

			result, err := c.Manager.Sweep(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}
