package detection

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Coordinates holds the optional request coordinates for serialization.
type Coordinates struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// Steps aggregates every stage outcome of one pipeline run.
type Steps struct {
	Image     StageOutcome[KingdomResult] `json:"image"`
	Satellite StageOutcome[AnomalyResult] `json:"satellite"`
	Audio     StageOutcome[AudioResult]   `json:"audio"`
}

// PipelineResult is the sole externally persisted artifact of a run. It
// records the request, every stage outcome including skip reasons, the final
// verdict and the elapsed time.
type PipelineResult struct {
	ID          string      `json:"id"`
	Input       string      `json:"input"`
	Coordinates Coordinates `json:"coordinates"`
	Steps       Steps       `json:"steps"`
	Verdict     Verdict     `json:"verdict"`
	TotalTime   string      `json:"total_time"`
}

// WriteJSON serializes the result to the given path, creating parent
// directories as needed.
func (r *PipelineResult) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling pipeline result: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating output directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing pipeline result to %s: %w", path, err)
	}
	return nil
}
