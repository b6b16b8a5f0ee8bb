package detect

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/pipeline"
)

// Command creates the detect command for running one observation through
// the pipeline.
func Command(settings *conf.Settings) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "detect [input.json]",
		Short: "Run the detection pipeline on one observation",
		Long:  "Run kingdom resolution, the satellite anomaly check and audio confirmation on a request descriptor, then write the compiled verdict.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pipeline.NewFromSettings(settings)

			result, err := p.RunFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			if err := result.WriteJSON(outputPath); err != nil {
				return err
			}

			fmt.Printf("VERDICT: %s\n", result.Verdict.Summary)
			fmt.Printf("Risk Level: %s\n", result.Verdict.RiskLevel)
			fmt.Printf("Total time: %s\n", result.TotalTime)
			fmt.Printf("Output saved to: %s\n", outputPath)
			return nil
		},
	}

	setupFlags(cmd, &outputPath)
	return cmd
}

// setupFlags configures flags specific to the detect command.
func setupFlags(cmd *cobra.Command, outputPath *string) {
	cmd.Flags().StringVarP(outputPath, "output", "o", "output.json", "Path to the result JSON")
}
