// Package pipeline orchestrates one detection run: kingdom resolution first,
// then the satellite and audio branches concurrently when their entry gates
// admit them, then verdict compilation over whatever signals arrived. A run
// always produces a PipelineResult; stage problems become recorded outcomes,
// never panics or lost output.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/detection"
	"github.com/invadr/invadr-go/internal/logging"
	"github.com/invadr/invadr-go/internal/verdict"
)

// KingdomResolver resolves the species and kingdom of the observation image.
type KingdomResolver interface {
	Resolve(ctx context.Context, imagePath string) (detection.KingdomResult, error)
}

// AnomalyDetector runs the satellite anomaly stage for a coordinate pair.
type AnomalyDetector interface {
	Detect(ctx context.Context, lat, lon float64) (detection.AnomalyResult, error)
}

// AudioAnalyzer runs the audio confirmation stage for an audio file.
type AudioAnalyzer interface {
	Analyze(ctx context.Context, path string) (detection.AudioResult, error)
}

// Pipeline wires the three stages together. It holds no per-run state, so
// one Pipeline serves any number of concurrent runs.
type Pipeline struct {
	resolver KingdomResolver
	detector AnomalyDetector
	analyzer AudioAnalyzer
	settings *conf.Settings
	log      *slog.Logger
}

// New creates a pipeline over the given stage implementations.
func New(resolver KingdomResolver, detector AnomalyDetector, analyzer AudioAnalyzer, settings *conf.Settings) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		detector: detector,
		analyzer: analyzer,
		settings: settings,
		log:      logging.ForService("pipeline"),
	}
}

// RunFile loads the request descriptor at inputPath and runs the pipeline.
// The only error returned is an unreadable or malformed descriptor; every
// other problem is recorded inside the result.
func (p *Pipeline) RunFile(ctx context.Context, inputPath string) (*detection.PipelineResult, error) {
	req, err := detection.LoadRequest(inputPath)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, req), nil
}

// Run executes one detection run. When the settings carry a run timeout the
// whole run is bounded by it; a branch still in flight at the deadline is
// abandoned and recorded as failed without blocking the other branch.
func (p *Pipeline) Run(ctx context.Context, req *detection.Request) *detection.PipelineResult {
	start := time.Now()
	runID := uuid.NewString()

	if p.settings.Pipeline.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.settings.Pipeline.Timeout)*time.Second)
		defer cancel()
	}

	log := p.log
	if log != nil {
		log = log.With("run_id", runID, "input", req.Descriptor)
		log.Info("pipeline run started", "image", req.ImagePath, "has_audio", req.HasAudio())
	}

	kingdom, imageOutcome := p.runImage(ctx, req)

	branches := p.runBranches(ctx, req, kingdom, log)

	finalVerdict := verdict.Compile(kingdom, branches.satellite, branches.audio, p.settings.Pipeline.ConfidenceThreshold)

	result := &detection.PipelineResult{
		ID:    runID,
		Input: req.Descriptor,
		Coordinates: detection.Coordinates{
			Lat: req.Latitude,
			Lon: req.Longitude,
		},
		Steps: detection.Steps{
			Image:     imageOutcome,
			Satellite: branches.satellite,
			Audio:     branches.audio,
		},
		Verdict:   finalVerdict,
		TotalTime: fmt.Sprintf("%.1fs", time.Since(start).Seconds()),
	}

	if log != nil {
		log.Info("pipeline run complete",
			"risk_level", string(finalVerdict.RiskLevel),
			"risk_score", finalVerdict.RiskScore,
			"total_time", result.TotalTime)
	}
	return result
}

// runImage resolves the kingdom. Failure degrades to an unknown kingdom so
// the rest of the run can still compile a verdict.
func (p *Pipeline) runImage(ctx context.Context, req *detection.Request) (detection.KingdomResult, detection.StageOutcome[detection.KingdomResult]) {
	unknown := detection.KingdomResult{Kingdom: detection.KingdomUnknown}

	if _, err := os.Stat(req.ImagePath); err != nil {
		return unknown, detection.Failed[detection.KingdomResult](fmt.Sprintf("Image not found: %s", req.ImagePath))
	}

	kingdom, err := p.resolver.Resolve(ctx, req.ImagePath)
	if err != nil {
		if p.log != nil {
			p.log.Error("image stage failed", "error", err)
		}
		return unknown, detection.Failed[detection.KingdomResult](err.Error())
	}
	return kingdom, detection.Completed(kingdom)
}

// branchOutcomes carries the two concurrent branches' terminal outcomes.
type branchOutcomes struct {
	satellite detection.StageOutcome[detection.AnomalyResult]
	audio     detection.StageOutcome[detection.AudioResult]
}

// runBranches gates the satellite and audio branches and executes admitted
// ones concurrently, joining before return.
func (p *Pipeline) runBranches(ctx context.Context, req *detection.Request, kingdom detection.KingdomResult, log *slog.Logger) branchOutcomes {
	var outcomes branchOutcomes

	satCh := make(chan detection.StageOutcome[detection.AnomalyResult], 1)
	audCh := make(chan detection.StageOutcome[detection.AudioResult], 1)

	runSatellite := false
	if reason := p.satelliteSkipReason(req, kingdom); reason != "" {
		outcomes.satellite = detection.Skipped[detection.AnomalyResult](reason)
		if log != nil {
			log.Debug("satellite stage skipped", "reason", reason)
		}
	} else {
		runSatellite = true
		go func() {
			satCh <- p.runSatellite(ctx, *req.Latitude, *req.Longitude)
		}()
	}

	runAudio := false
	if !req.HasAudio() {
		outcomes.audio = detection.Skipped[detection.AudioResult]("no audio file")
	} else if _, err := os.Stat(req.AudioPath); err != nil {
		outcomes.audio = detection.Skipped[detection.AudioResult]("no audio file")
	} else {
		runAudio = true
		go func() {
			audCh <- p.runAudio(ctx, req.AudioPath)
		}()
	}

	if runSatellite {
		outcomes.satellite = awaitBranch(ctx, satCh)
	}
	if runAudio {
		outcomes.audio = awaitBranch(ctx, audCh)
	}
	return outcomes
}

// awaitBranch joins one branch, converting a run deadline into a recorded
// timeout failure. The branch goroutine's send is buffered, so an abandoned
// branch never leaks.
func awaitBranch[T any](ctx context.Context, ch <-chan detection.StageOutcome[T]) detection.StageOutcome[T] {
	select {
	case outcome := <-ch:
		return outcome
	case <-ctx.Done():
		// The branch may have finished in the same instant
		select {
		case outcome := <-ch:
			return outcome
		default:
			return detection.Failed[T]("timeout")
		}
	}
}

// satelliteSkipReason returns the joined, human-readable reasons the
// satellite gate rejected this run, or empty to admit it.
func (p *Pipeline) satelliteSkipReason(req *detection.Request, kingdom detection.KingdomResult) string {
	confidence := kingdom.ConfidenceValue()
	threshold := p.settings.Pipeline.SatelliteThreshold

	var reasons []string
	if !kingdom.IsInvasive {
		reasons = append(reasons, "not invasive")
	}
	if confidence < threshold {
		reasons = append(reasons, fmt.Sprintf("confidence %.1f%% < %.0f%%", confidence*100, threshold*100))
	}
	if !req.HasCoordinates() {
		reasons = append(reasons, "no coordinates")
	}
	return strings.Join(reasons, ", ")
}

func (p *Pipeline) runSatellite(ctx context.Context, lat, lon float64) detection.StageOutcome[detection.AnomalyResult] {
	result, err := p.detector.Detect(ctx, lat, lon)
	if err != nil {
		if p.log != nil {
			p.log.Warn("satellite stage failed", "error", err)
		}
		return detection.Failed[detection.AnomalyResult](err.Error())
	}
	return detection.Completed(result)
}

func (p *Pipeline) runAudio(ctx context.Context, path string) detection.StageOutcome[detection.AudioResult] {
	result, err := p.analyzer.Analyze(ctx, path)
	if err != nil {
		if p.log != nil {
			p.log.Warn("audio stage failed", "error", err)
		}
		return detection.Failed[detection.AudioResult](err.Error())
	}
	return detection.Completed(result)
}
