package myaudio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResampleAudioSameRate(t *testing.T) {
	t.Parallel()

	in := []float32{0.1, 0.2, 0.3}
	out, err := ResampleAudio(in, 16000, 16000)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestResampleAudioLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		inLen        int
		originalRate int
		targetRate   int
		wantLen      int
	}{
		{"upsample 2x", 8000, 8000, 16000, 16000},
		{"downsample 3x", 48000, 48000, 16000, 16000},
		{"downsample 44.1k to 16k", 44100, 44100, 16000, 16000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := make([]float32, tt.inLen)
			out, err := ResampleAudio(in, tt.originalRate, tt.targetRate)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantLen, len(out), 1)
		})
	}
}

func TestResampleAudioPreservesConstantSignal(t *testing.T) {
	t.Parallel()

	in := make([]float32, 1000)
	for i := range in {
		in[i] = 0.7
	}
	out, err := ResampleAudio(in, 48000, 16000)
	require.NoError(t, err)
	for i, s := range out {
		assert.InDelta(t, 0.7, s, 1e-5, "sample %d", i)
	}
}

func TestResampleAudioTracksSine(t *testing.T) {
	t.Parallel()

	const (
		sourceRate = 48000
		targetRate = 16000
		freq       = 100.0
	)
	in := make([]float32, sourceRate)
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / sourceRate))
	}

	out, err := ResampleAudio(in, sourceRate, targetRate)
	require.NoError(t, err)

	// Skip the clamped edges, cubic interpolation is exactish inside
	for i := 10; i < len(out)-10; i++ {
		want := math.Sin(2 * math.Pi * freq * float64(i) / targetRate)
		assert.InDelta(t, want, float64(out[i]), 0.01, "sample %d", i)
	}
}

func TestResampleAudioErrors(t *testing.T) {
	t.Parallel()

	t.Run("too short", func(t *testing.T) {
		t.Parallel()
		_, err := ResampleAudio([]float32{0.1, 0.2}, 48000, 16000)
		assert.Error(t, err)
	})

	t.Run("invalid rates", func(t *testing.T) {
		t.Parallel()
		_, err := ResampleAudio(make([]float32, 100), 0, 16000)
		assert.Error(t, err)
		_, err = ResampleAudio(make([]float32, 100), 16000, -1)
		assert.Error(t, err)
	})
}
