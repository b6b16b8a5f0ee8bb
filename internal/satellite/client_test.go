package satellite

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invadr/invadr-go/internal/conf"
)

func testSatelliteSettings() *conf.SatelliteSettings {
	return &conf.SatelliteSettings{
		Endpoint:        "https://scenes.example.com/v1/statistics",
		APIKey:          "test-key",
		BufferMeters:    500,
		MinObservations: 5,
		Cascade:         conf.DefaultCascade(),
		Timeout:         5,
	}
}

func testQuery() Query {
	return Query{
		Latitude:        -27.470125,
		Longitude:       152.9,
		BufferMeters:    500,
		Start:           time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC),
		End:             time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
		MaxCloudPercent: 50,
		StrictCloudMask: true,
	}
}

func TestSceneStatsProviderFetch(t *testing.T) {
	settings := testSatelliteSettings()
	provider := NewSceneStatsProvider(settings)

	httpmock.ActivateNonDefault(provider.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, settings.Endpoint,
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "-27.470125", q.Get("lat"))
			assert.Equal(t, "152.900000", q.Get("lon"))
			assert.Equal(t, "500", q.Get("buffer_m"))
			assert.Equal(t, "2026-05-15", q.Get("start"))
			assert.Equal(t, "2026-08-15", q.Get("end"))
			assert.Equal(t, "50", q.Get("max_cloud"))
			assert.Equal(t, "true", q.Get("strict_mask"))
			assert.Equal(t, "test-key", q.Get("api_key"))

			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"observations": []map[string]any{
					{"date": "2026-06-02", "ndvi": 0.412, "bsi": -0.083},
					{"date": "2026-06-14", "ndvi": nil, "bsi": nil},
					{"date": "2026-06-27", "ndvi": 0.395, "bsi": -0.071},
				},
			})
		})

	got, err := provider.FetchObservations(context.Background(), testQuery())
	require.NoError(t, err)

	// The fully-masked scene is dropped
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.InDelta(t, 0.412, got[0].NDVI, 1e-12)
	assert.InDelta(t, -0.083, got[0].BSI, 1e-12)
	assert.InDelta(t, 0.395, got[1].NDVI, 1e-12)
}

func TestSceneStatsProviderHTTPError(t *testing.T) {
	settings := testSatelliteSettings()
	provider := NewSceneStatsProvider(settings)

	httpmock.ActivateNonDefault(provider.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, settings.Endpoint,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "upstream down"))

	_, err := provider.FetchObservations(context.Background(), testQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestSceneStatsProviderBadPayload(t *testing.T) {
	settings := testSatelliteSettings()
	provider := NewSceneStatsProvider(settings)

	httpmock.ActivateNonDefault(provider.httpClient)
	defer httpmock.DeactivateAndReset()

	t.Run("malformed json", func(t *testing.T) {
		httpmock.RegisterResponder(http.MethodGet, settings.Endpoint,
			httpmock.NewStringResponder(http.StatusOK, "{not json"))
		_, err := provider.FetchObservations(context.Background(), testQuery())
		assert.Error(t, err)
	})

	t.Run("bad date", func(t *testing.T) {
		httpmock.RegisterResponder(http.MethodGet, settings.Endpoint,
			httpmock.NewStringResponder(http.StatusOK,
				`{"observations":[{"date":"June 2nd","ndvi":0.4,"bsi":0.1}]}`))
		_, err := provider.FetchObservations(context.Background(), testQuery())
		assert.Error(t, err)
	})
}

func TestSceneStatsProviderMissingEndpoint(t *testing.T) {
	t.Parallel()

	provider := NewSceneStatsProvider(&conf.SatelliteSettings{})
	_, err := provider.FetchObservations(context.Background(), testQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
