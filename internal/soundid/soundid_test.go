package soundid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/detection"
)

func writeClassMap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "class_map.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadClassMap(t *testing.T) {
	t.Parallel()

	t.Run("parses display names in order", func(t *testing.T) {
		t.Parallel()
		path := writeClassMap(t, "index,mid,display_name\n"+
			"0,/m/09x0r,Speech\n"+
			"1,/m/0jbk,Animal\n"+
			"2,/m/015p6,\"Bird vocalization, bird call, bird song\"\n")

		names, err := loadClassMap(path)
		require.NoError(t, err)
		require.Len(t, names, 3)
		assert.Equal(t, "Speech", names[0])
		assert.Equal(t, "Animal", names[1])
		// Quoted names keep their embedded commas
		assert.Equal(t, "Bird vocalization, bird call, bird song", names[2])
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := loadClassMap(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		t.Parallel()
		path := writeClassMap(t, "index,mid,display_name\n")
		_, err := loadClassMap(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no entries")
	})

	t.Run("malformed row", func(t *testing.T) {
		t.Parallel()
		path := writeClassMap(t, "index,mid\n0,/m/09x0r\n")
		_, err := loadClassMap(path)
		assert.Error(t, err)
	})
}

func TestTopClasses(t *testing.T) {
	t.Parallel()

	labels := []string{"Speech", "Animal", "Bird", "Silence", "Music"}
	scores := []float32{0.1, 0.8, 0.6, 0.05, 0.3}

	top := topClasses(labels, scores, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "Animal", top[0].Label)
	assert.Equal(t, "Bird", top[1].Label)
	assert.Equal(t, "Music", top[2].Label)
	assert.InDelta(t, 0.8, top[0].Confidence, 1e-9)

	t.Run("n larger than vocabulary", func(t *testing.T) {
		t.Parallel()
		all := topClasses(labels, scores, 100)
		assert.Len(t, all, len(labels))
	})
}

func TestMatchAnimalSounds(t *testing.T) {
	t.Parallel()

	keywords := conf.DefaultAnimalKeywords()
	classes := []detection.ClassScore{
		{Label: "Bird vocalization, bird call, bird song", Confidence: 0.72},
		{Label: "Speech", Confidence: 0.55},
		{Label: "Dog", Confidence: 0.31},
		{Label: "Silence", Confidence: 0.12},
		{Label: "GROWL", Confidence: 0.08},
	}

	matches := matchAnimalSounds(classes, keywords)
	require.Len(t, matches, 3)
	assert.Equal(t, "Bird vocalization, bird call, bird song", matches[0].Label)
	assert.Equal(t, "Dog", matches[1].Label)
	// Matching is case-insensitive on both sides
	assert.Equal(t, "GROWL", matches[2].Label)

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()
		none := matchAnimalSounds([]detection.ClassScore{{Label: "Music"}}, keywords)
		assert.Empty(t, none)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, matchAnimalSounds(nil, keywords))
	})
}

func TestNumWindows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		samples int
		want    int
	}{
		{0, 1},
		{frameLength - 1, 1},
		{frameLength, 1},
		{frameLength + frameHop, 2},
		{frameLength + 3*frameHop, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, numWindows(tt.samples), "samples %d", tt.samples)
	}
}

func TestNewMissingArtifacts(t *testing.T) {
	t.Parallel()

	t.Run("missing class map", func(t *testing.T) {
		t.Parallel()
		settings := &conf.Settings{}
		settings.Audio.LabelPath = filepath.Join(t.TempDir(), "missing.csv")
		_, err := New(settings)
		assert.Error(t, err)
	})

	t.Run("missing model", func(t *testing.T) {
		t.Parallel()
		settings := &conf.Settings{}
		settings.Audio.LabelPath = writeClassMap(t, "index,mid,display_name\n0,/m/0jbk,Animal\n")
		settings.Audio.ModelPath = filepath.Join(t.TempDir(), "missing.tflite")
		_, err := New(settings)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model")
	})
}
