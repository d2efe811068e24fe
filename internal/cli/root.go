package cli

import (
	"encoding/json"
	"github.com/RezaEskandarii/remindfire/types/config"
	"github.com/spf13/cobra"
	"io"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the root command for the remindfire CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "remindfire",
		Short: "Spaced-repetition reminder delivery engine",
		Long:  "Plans review reminders and delivers them as web push notifications, skipping subjects already completed that day.",
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "optional .env file loaded before reading the environment")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))

	return cmd
}

func (o *RootOptions) loadConfig() (*config.RemindfireConfig, error) {
	v, err := config.LoadEnv(o.EnvFile)
	if err != nil {
		return nil, err
	}
	return config.FromEnv(v)
}

func writeJSON(w io.Writer, value interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
