package directory

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/pipeline"
)

// Command creates the directory command for batch processing a directory of
// request descriptors.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		outputDir string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "directory [path]",
		Short: "Run the detection pipeline on every *.json descriptor in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pipeline.NewFromSettings(settings)

			summary, err := p.RunDirectory(context.Background(), args[0], outputDir, workers)
			if err != nil {
				return err
			}

			fmt.Printf("Processed: %d\n", summary.Processed)
			if summary.Failed > 0 {
				fmt.Printf("Failed: %d\n", summary.Failed)
			}
			fmt.Printf("Results saved to: %s\n", outputDir)
			return nil
		},
	}

	setupFlags(cmd, settings, &outputDir, &workers)
	return cmd
}

// setupFlags defines flags specific to the directory command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings, outputDir *string, workers *int) {
	cmd.Flags().StringVarP(outputDir, "output", "o", "results", "Directory for result JSON files")
	cmd.Flags().IntVarP(workers, "workers", "w", settings.Pipeline.Workers, "Number of concurrent pipeline workers")
}
