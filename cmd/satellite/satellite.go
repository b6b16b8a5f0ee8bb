package satellite

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/satellite"
)

// Command creates the satellite command for running the anomaly check on a
// bare coordinate pair, without the rest of the pipeline.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "satellite [lat] [lon]",
		Short: "Run the satellite anomaly check for a coordinate pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q: %w", args[0], err)
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q: %w", args[1], err)
			}

			detector := satellite.NewDetector(&settings.Satellite,
				satellite.NewSceneStatsProvider(&settings.Satellite))

			result, err := detector.Detect(context.Background(), lat, lon)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
