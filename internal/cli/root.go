// Package cli implements the pinmark command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configFlagName   = "config"
	logLevelFlagName = "log-level"
	noColorFlagName  = "no-color"
)

// NewRootCmd creates the root command with version info and subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "pinmark",
		Short: "Replay marker reconciliation scenarios against an in-memory map",
		Long: "pinmark reconciles point sets onto a clustered marker map. The CLI replays " +
			"YAML scenarios against an in-memory surface with a simulated clock and " +
			"reports what was rendered.",
		SilenceUsage: true,
	}
	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().String(configFlagName, "", "Engine configuration file (yaml, json or toml)")
	cmd.PersistentFlags().String(logLevelFlagName, "info", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().Bool(noColorFlagName, false, "Disable colored log output")
	_ = v.BindPFlag(keyLogLevel, cmd.PersistentFlags().Lookup(logLevelFlagName))

	cmd.AddCommand(newReplayCmd(v))
	cmd.AddCommand(newConfigCmd(v))

	return cmd
}

func newConfigCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective engine configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString(configFlagName)
			cfg, err := loadConfig(v, path)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}
}
