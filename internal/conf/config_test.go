package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	return &Settings{
		Pipeline: PipelineSettings{
			ConfidenceThreshold: 0.35,
			SatelliteThreshold:  0.60,
			Workers:             4,
		},
		Satellite: SatelliteSettings{
			BufferMeters:    500,
			MinObservations: 5,
			Cascade:         DefaultCascade(),
		},
		Audio: AudioSettings{
			TopClasses: 10,
			Keywords:   DefaultAnimalKeywords(),
		},
	}
}

func TestValidateSettings_Valid(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettings_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"confidence threshold above 1", func(s *Settings) { s.Pipeline.ConfidenceThreshold = 1.5 }},
		{"negative satellite threshold", func(s *Settings) { s.Pipeline.SatelliteThreshold = -0.1 }},
		{"zero workers", func(s *Settings) { s.Pipeline.Workers = 0 }},
		{"negative timeout", func(s *Settings) { s.Pipeline.Timeout = -1 }},
		{"zero buffer radius", func(s *Settings) { s.Satellite.BufferMeters = 0 }},
		{"single observation minimum", func(s *Settings) { s.Satellite.MinObservations = 1 }},
		{"empty cascade", func(s *Settings) { s.Satellite.Cascade = nil }},
		{"cascade cloud percent zero", func(s *Settings) { s.Satellite.Cascade[0].MaxCloudPercent = 0 }},
		{"zero top classes", func(s *Settings) { s.Audio.TopClasses = 0 }},
		{"empty keywords", func(s *Settings) { s.Audio.Keywords = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			settings := validSettings()
			tt.mutate(settings)
			assert.Error(t, ValidateSettings(settings))
		})
	}
}

func TestDefaultCascade_Order(t *testing.T) {
	t.Parallel()

	cascade := DefaultCascade()
	require.Len(t, cascade, 5)

	assert.Equal(t, CascadeAttempt{MonthsBack: 3, MaxCloudPercent: 50, StrictMask: true}, cascade[0])
	assert.Equal(t, CascadeAttempt{MonthsBack: 3, MaxCloudPercent: 80, StrictMask: true}, cascade[1])
	assert.Equal(t, CascadeAttempt{MonthsBack: 3, MaxCloudPercent: 80, StrictMask: false}, cascade[2])
	assert.Equal(t, CascadeAttempt{MonthsBack: 6, MaxCloudPercent: 80, StrictMask: false}, cascade[3])
	assert.Equal(t, CascadeAttempt{MonthsBack: 12, MaxCloudPercent: 90, StrictMask: false}, cascade[4])
}

func TestDefaultAnimalKeywords_Copies(t *testing.T) {
	t.Parallel()

	a := DefaultAnimalKeywords()
	b := DefaultAnimalKeywords()
	require.NotEmpty(t, a)

	a[0] = "mutated"
	assert.NotEqual(t, a[0], b[0])
}
