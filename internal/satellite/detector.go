package satellite

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/detection"
	"github.com/invadr/invadr-go/internal/logging"
)

// Detector runs the satellite anomaly stage: fetch an observation series
// through the relaxation cascade, engineer features, score them with the
// isolation forest, and classify the latest observation's change.
type Detector struct {
	provider Provider
	cascade  *cascade
	cache    *seriesCache
	buffer   float64
	log      *slog.Logger

	// now is swappable for tests; the cascade windows anchor to it
	now func() time.Time
}

// NewDetector wires a detector from the satellite settings and a provider.
func NewDetector(settings *conf.SatelliteSettings, provider Provider) *Detector {
	return &Detector{
		provider: provider,
		cascade:  newCascade(settings.Cascade, settings.MinObservations),
		cache:    newSeriesCache(time.Duration(settings.CacheTTLMinutes) * time.Minute),
		buffer:   settings.BufferMeters,
		log:      logging.ForService("satellite"),
		now:      time.Now,
	}
}

// Detect returns the anomaly assessment for the point, or an error when the
// cascade exhausts below the observation minimum or the provider fails.
func (d *Detector) Detect(ctx context.Context, lat, lon float64) (detection.AnomalyResult, error) {
	now := d.now()

	observations, cached := d.cache.get(lat, lon, now)
	if !cached {
		var err error
		observations, err = d.cascade.run(ctx, d.provider, lat, lon, d.buffer, now)
		if err != nil {
			return detection.AnomalyResult{}, err
		}
		d.cache.set(lat, lon, now, observations)
	}

	series := prepareSeries(observations)
	features := buildFeatures(series)
	standardizeColumns(features)

	forest := fitIsolationForest(features, forestTrees, forestSeed)
	flags := forest.predict(features, forestContamination)

	latest := series[len(series)-1]
	prev := latest
	if len(series) > 1 {
		prev = series[len(series)-2]
	}
	isAnomaly := flags[len(flags)-1]
	ndviChange := latest.NDVI - prev.NDVI
	bsiChange := latest.BSI - prev.BSI

	result := detection.AnomalyResult{
		IsAnomaly:             isAnomaly,
		AnomalyType:           classifyAnomaly(isAnomaly, ndviChange, bsiChange),
		LatestDate:            latest.Date.Format(dateLayout),
		VegetationIndexNow:    round4(latest.NDVI),
		VegetationIndexChange: round4(ndviChange),
		BareSoilIndexChange:   round4(bsiChange),
		Observations:          len(series),
	}

	if d.log != nil {
		d.log.Debug("satellite stage complete",
			"observations", result.Observations,
			"is_anomaly", result.IsAnomaly,
			"anomaly_type", string(result.AnomalyType),
			"latest_date", result.LatestDate)
	}
	return result, nil
}

// classifyAnomaly maps the latest raw index changes to an anomaly type.
// Rules are evaluated in order; the first match wins.
func classifyAnomaly(isAnomaly bool, ndviChange, bsiChange float64) detection.AnomalyType {
	if !isAnomaly {
		return detection.AnomalyNormal
	}
	switch {
	case ndviChange < -0.03 && bsiChange > 0.02:
		return detection.AnomalyPathDestruction
	case ndviChange > 0.05:
		return detection.AnomalyInvasiveGrowth
	case ndviChange < -0.03:
		return detection.AnomalyVegetationLoss
	case bsiChange > 0.03:
		return detection.AnomalySoilExposure
	default:
		return detection.AnomalyUnclassified
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
