package pipeline

import (
	"context"

	"github.com/invadr/invadr-go/internal/detection"
)

// A missing inference capability (model file, library, provider) must not
// abort runs: the affected stage reports the construction-time error on
// every invocation and everything else proceeds.

type unavailableResolver struct{ err error }

func (u unavailableResolver) Resolve(context.Context, string) (detection.KingdomResult, error) {
	return detection.KingdomResult{}, u.err
}

// UnavailableResolver returns a resolver that always fails with err.
func UnavailableResolver(err error) KingdomResolver {
	return unavailableResolver{err: err}
}

type unavailableDetector struct{ err error }

func (u unavailableDetector) Detect(context.Context, float64, float64) (detection.AnomalyResult, error) {
	return detection.AnomalyResult{}, u.err
}

// UnavailableDetector returns a detector that always fails with err.
func UnavailableDetector(err error) AnomalyDetector {
	return unavailableDetector{err: err}
}

type unavailableAnalyzer struct{ err error }

func (u unavailableAnalyzer) Analyze(context.Context, string) (detection.AudioResult, error) {
	return detection.AudioResult{}, u.err
}

// UnavailableAnalyzer returns an analyzer that always fails with err.
func UnavailableAnalyzer(err error) AudioAnalyzer {
	return unavailableAnalyzer{err: err}
}
