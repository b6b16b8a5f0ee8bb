package myaudio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invadr/invadr-go/internal/conf"
)

// writeWAV writes 16-bit PCM samples to a temp WAV file.
func writeWAV(t *testing.T, sampleRate, numChannels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, 16, numChannels, 1)
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	return path
}

func TestReadAudioFileMonoWAV(t *testing.T) {
	t.Parallel()

	data := make([]int, 64)
	for i := range data {
		data[i] = 16384 // 0.5 after conversion
	}
	path := writeWAV(t, conf.SampleRate, 1, data)

	samples, err := ReadAudioFile(path)
	require.NoError(t, err)
	require.Len(t, samples, 64)
	for _, s := range samples {
		assert.InDelta(t, 0.5, s, 1e-6)
	}
}

func TestReadAudioFileStereoMixdown(t *testing.T) {
	t.Parallel()

	// Left channel at half scale, right silent
	data := make([]int, 128)
	for i := 0; i < len(data); i += 2 {
		data[i] = 16384
	}
	path := writeWAV(t, conf.SampleRate, 2, data)

	samples, err := ReadAudioFile(path)
	require.NoError(t, err)
	require.Len(t, samples, 64)
	for _, s := range samples {
		assert.InDelta(t, 0.25, s, 1e-6)
	}
}

func TestReadAudioFileResamples(t *testing.T) {
	t.Parallel()

	data := make([]int, 8000)
	path := writeWAV(t, 8000, 1, data)

	samples, err := ReadAudioFile(path)
	require.NoError(t, err)

	// One second of 8 kHz audio stays one second at the target rate
	assert.InDelta(t, conf.SampleRate, len(samples), 2)
}

func TestReadAudioFileErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ReadAudioFile(filepath.Join(t.TempDir(), "missing.wav"))
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "clip.mp3")
		require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))
		_, err := ReadAudioFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported audio format")
	})

	t.Run("garbage wav", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "clip.wav")
		require.NoError(t, os.WriteFile(path, []byte("definitely not riff"), 0o644))
		_, err := ReadAudioFile(path)
		assert.Error(t, err)
	})
}

func TestGetAudioInfoWAV(t *testing.T) {
	t.Parallel()

	path := writeWAV(t, conf.SampleRate, 1, make([]int, 256))

	info, err := GetAudioInfo(path)
	require.NoError(t, err)
	assert.Equal(t, conf.SampleRate, info.SampleRate)
	assert.Equal(t, 1, info.NumChannels)
	assert.Equal(t, 16, info.BitDepth)
}

func TestGetAudioDivisor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bitDepth int
		want     float32
		wantErr  bool
	}{
		{16, 32768.0, false},
		{24, 8388608.0, false},
		{32, 2147483648.0, false},
		{8, 0, true},
		{0, 0, true},
	}

	for _, tt := range tests {
		divisor, err := getAudioDivisor(tt.bitDepth)
		if tt.wantErr {
			assert.Error(t, err, "bit depth %d", tt.bitDepth)
			continue
		}
		require.NoError(t, err)
		assert.InDelta(t, tt.want, divisor, 1e-6)
	}
}

func TestMixdown(t *testing.T) {
	t.Parallel()

	t.Run("mono passthrough", func(t *testing.T) {
		t.Parallel()
		in := []float32{0.1, 0.2, 0.3}
		assert.Equal(t, in, mixdown(in, 1))
	})

	t.Run("stereo average", func(t *testing.T) {
		t.Parallel()
		in := []float32{1, 0, 0.5, 0.5, -1, 1}
		got := mixdown(in, 2)
		require.Len(t, got, 3)
		assert.InDelta(t, 0.5, got[0], 1e-6)
		assert.InDelta(t, 0.5, got[1], 1e-6)
		assert.InDelta(t, 0.0, got[2], 1e-6)
	})
}
