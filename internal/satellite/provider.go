// Package satellite detects land-cover anomalies around a point of interest
// from a temporal series of spectral index observations. Imagery statistics
// come from a scene statistics provider; the series is engineered into a
// feature matrix and scored by an unsupervised ensemble anomaly model.
package satellite

import (
	"context"
	"time"
)

// Observation is the per-scene mean of the two spectral indices over the
// buffered region. NDVI is the normalized difference vegetation index
// (B8-B4)/(B8+B4); BSI is the bare soil index
// ((B11+B4)-(B8+B2))/((B11+B4)+(B8+B2)).
type Observation struct {
	Date time.Time
	NDVI float64
	BSI  float64
}

// Query describes one provider request: a buffered point, a time window and
// the cloud filtering to apply. StrictCloudMask masks out pixels not
// classified as clear land, water or vegetation before region aggregation.
type Query struct {
	Latitude        float64
	Longitude       float64
	BufferMeters    float64
	Start           time.Time
	End             time.Time
	MaxCloudPercent float64
	StrictCloudMask bool
}

// Provider fetches index observations for a query window. Implementations
// return observations in any order; the detector sorts and deduplicates.
type Provider interface {
	FetchObservations(ctx context.Context, q Query) ([]Observation, error)
}
