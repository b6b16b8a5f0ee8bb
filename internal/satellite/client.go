package satellite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/errors"
)

const (
	defaultRequestTimeout = 30 * time.Second
	userAgent             = "invadr-go"
	dateLayout            = "2006-01-02"
)

// sceneStatsResponse is the provider's JSON payload. Index values are
// pointers because scenes fully masked out by the cloud filter come back
// with null statistics and must be dropped, not zeroed.
type sceneStatsResponse struct {
	Observations []struct {
		Date string   `json:"date"`
		NDVI *float64 `json:"ndvi"`
		BSI  *float64 `json:"bsi"`
	} `json:"observations"`
}

// SceneStatsProvider fetches per-scene index statistics from an HTTP scene
// statistics service.
type SceneStatsProvider struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewSceneStatsProvider creates a provider from the satellite settings.
func NewSceneStatsProvider(settings *conf.SatelliteSettings) *SceneStatsProvider {
	timeout := defaultRequestTimeout
	if settings.Timeout > 0 {
		timeout = time.Duration(settings.Timeout) * time.Second
	}
	return &SceneStatsProvider{
		endpoint: settings.Endpoint,
		apiKey:   settings.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchObservations implements the Provider interface.
func (p *SceneStatsProvider) FetchObservations(ctx context.Context, q Query) ([]Observation, error) {
	if p.endpoint == "" {
		return nil, errors.Newf("scene statistics endpoint not configured").
			Category(errors.CategoryConfiguration).
			Component("satellite").
			Build()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.requestURL(q), http.NoBody)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryNetwork).
			Component("satellite").
			Context("operation", "create_request").
			Build()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryNetwork).
			Component("satellite").
			Context("operation", "fetch_observations").
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("scene statistics request failed with status %d", resp.StatusCode).
			Category(errors.CategoryNetwork).
			Component("satellite").
			Context("status_code", resp.StatusCode).
			Build()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryNetwork).
			Component("satellite").
			Context("operation", "read_response").
			Build()
	}

	var payload sceneStatsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.New(err).
			Category(errors.CategorySatelliteData).
			Component("satellite").
			Context("operation", "decode_response").
			Build()
	}

	observations := make([]Observation, 0, len(payload.Observations))
	for _, obs := range payload.Observations {
		// Scenes with no unmasked pixels carry null indices
		if obs.NDVI == nil || obs.BSI == nil {
			continue
		}
		date, err := time.Parse(dateLayout, obs.Date)
		if err != nil {
			return nil, errors.New(err).
				Category(errors.CategorySatelliteData).
				Component("satellite").
				Context("date", obs.Date).
				Build()
		}
		observations = append(observations, Observation{
			Date: date,
			NDVI: *obs.NDVI,
			BSI:  *obs.BSI,
		})
	}

	return observations, nil
}

func (p *SceneStatsProvider) requestURL(q Query) string {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", q.Latitude))
	params.Set("lon", fmt.Sprintf("%.6f", q.Longitude))
	params.Set("buffer_m", fmt.Sprintf("%.0f", q.BufferMeters))
	params.Set("start", q.Start.Format(dateLayout))
	params.Set("end", q.End.Format(dateLayout))
	params.Set("max_cloud", fmt.Sprintf("%.0f", q.MaxCloudPercent))
	params.Set("strict_mask", fmt.Sprintf("%t", q.StrictCloudMask))
	if p.apiKey != "" {
		params.Set("api_key", p.apiKey)
	}
	return p.endpoint + "?" + params.Encode()
}
