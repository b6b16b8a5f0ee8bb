package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/invadr/invadr-go/cmd/detect"
	"github.com/invadr/invadr-go/cmd/directory"
	"github.com/invadr/invadr-go/cmd/satellite"
	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "invadr",
		Short: "Invasive species detection pipeline CLI",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if settings.Debug {
				logging.SetLevel(slog.LevelDebug)
			}
		},
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		detect.Command(settings),
		directory.Command(settings),
		satellite.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags configures global flags for the root command.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", settings.Debug, "Enable debug output")
	rootCmd.PersistentFlags().Float64Var(&settings.Pipeline.ConfidenceThreshold, "threshold", settings.Pipeline.ConfidenceThreshold, "Minimum confidence to trust a species prediction")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		cobra.CheckErr(err)
	}
}
