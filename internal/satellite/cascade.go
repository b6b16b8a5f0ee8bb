package satellite

import (
	"context"
	"time"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/errors"
)

// cascade is the ordered relaxation sequence for cloudy areas: each attempt
// widens the window or loosens the cloud filter until enough observations
// are collected. Attempts run in declared order, never reordered.
type cascade struct {
	attempts []conf.CascadeAttempt
	minObs   int
}

func newCascade(attempts []conf.CascadeAttempt, minObs int) *cascade {
	return &cascade{attempts: attempts, minObs: minObs}
}

// run tries each attempt in order against the provider, stopping as soon as
// one yields at least minObs observations. When every attempt falls short it
// returns an insufficient-data error carrying the best count reached. A
// provider failure aborts the cascade immediately.
func (c *cascade) run(ctx context.Context, provider Provider, lat, lon, bufferMeters float64, now time.Time) ([]Observation, error) {
	var best []Observation
	for _, attempt := range c.attempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q := Query{
			Latitude:        lat,
			Longitude:       lon,
			BufferMeters:    bufferMeters,
			Start:           now.AddDate(0, -attempt.MonthsBack, 0),
			End:             now,
			MaxCloudPercent: attempt.MaxCloudPercent,
			StrictCloudMask: attempt.StrictMask,
		}

		observations, err := provider.FetchObservations(ctx, q)
		if err != nil {
			return nil, err
		}
		if len(observations) >= c.minObs {
			return observations, nil
		}
		if len(observations) > len(best) {
			best = observations
		}
	}

	return nil, errors.Newf("only %d satellite obs - insufficient data", len(best)).
		Category(errors.CategoryInsufficientData).
		Component("satellite").
		Context("observations", len(best)).
		Context("min_observations", c.minObs).
		Context("attempts", len(c.attempts)).
		Build()
}
