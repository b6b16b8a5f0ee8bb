package kingdom

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invadr/invadr-go/internal/detection"
)

// stubClassifier returns a canned prediction, or an error when set.
type stubClassifier struct {
	kingdom     detection.Kingdom
	nonInvasive string
	prediction  detection.SpeciesPrediction
	err         error
}

func (s *stubClassifier) Classify(_ context.Context, _ image.Image) (detection.SpeciesPrediction, error) {
	if s.err != nil {
		return detection.SpeciesPrediction{}, s.err
	}
	return s.prediction, nil
}

func (s *stubClassifier) Kingdom() detection.Kingdom { return s.kingdom }
func (s *stubClassifier) NonInvasiveLabel() string   { return s.nonInvasive }

func animalStub(species string, conf float64) *stubClassifier {
	return &stubClassifier{
		kingdom:     detection.KingdomAnimal,
		nonInvasive: "non_invasive",
		prediction:  detection.SpeciesPrediction{Species: species, Confidence: conf},
	}
}

func plantStub(species string, conf float64) *stubClassifier {
	return &stubClassifier{
		kingdom:     detection.KingdomPlant,
		nonInvasive: "Negative",
		prediction:  detection.SpeciesPrediction{Species: species, Confidence: conf},
	}
}

func TestResolverComparison(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		animal       *stubClassifier
		plant        *stubClassifier
		wantKingdom  detection.Kingdom
		wantSpecies  string
		wantInvasive bool
	}{
		{
			name:         "animal wins on higher confidence",
			animal:       animalStub("cane_toad", 0.92),
			plant:        plantStub("Lantana", 0.40),
			wantKingdom:  detection.KingdomAnimal,
			wantSpecies:  "cane_toad",
			wantInvasive: true,
		},
		{
			name:         "plant wins on higher confidence",
			animal:       animalStub("cane_toad", 0.40),
			plant:        plantStub("Lantana", 0.88),
			wantKingdom:  detection.KingdomPlant,
			wantSpecies:  "Lantana",
			wantInvasive: true,
		},
		{
			name:         "exact tie goes to animal",
			animal:       animalStub("wild_boar", 0.70),
			plant:        plantStub("Parthenium", 0.70),
			wantKingdom:  detection.KingdomAnimal,
			wantSpecies:  "wild_boar",
			wantInvasive: true,
		},
		{
			name:         "animal sentinel is not invasive",
			animal:       animalStub("non_invasive", 0.95),
			plant:        plantStub("Lantana", 0.20),
			wantKingdom:  detection.KingdomAnimal,
			wantSpecies:  "non_invasive",
			wantInvasive: false,
		},
		{
			name:         "plant sentinel is not invasive",
			animal:       animalStub("cane_toad", 0.10),
			plant:        plantStub("Negative", 0.81),
			wantKingdom:  detection.KingdomPlant,
			wantSpecies:  "Negative",
			wantInvasive: false,
		},
		{
			name:         "sentinel match is case insensitive",
			animal:       animalStub("NON_INVASIVE", 0.95),
			plant:        plantStub("Lantana", 0.20),
			wantKingdom:  detection.KingdomAnimal,
			wantSpecies:  "NON_INVASIVE",
			wantInvasive: false,
		},
		{
			name:        "one side above threshold is enough",
			animal:      animalStub("feral_cat", 0.36),
			plant:       plantStub("Siam weed", 0.10),
			wantKingdom: detection.KingdomAnimal,
			wantSpecies: "feral_cat",
			// feral_cat is not the sentinel
			wantInvasive: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewResolver(tt.animal, tt.plant, 0.35)
			got := r.resolve(tt.animal.prediction, tt.plant.prediction)

			assert.Equal(t, tt.wantKingdom, got.Kingdom)
			require.NotNil(t, got.Prediction)
			assert.Equal(t, tt.wantSpecies, got.Prediction.Species)
			assert.Equal(t, tt.wantInvasive, got.IsInvasive)
			assert.Nil(t, got.AnimalBest)
			assert.Nil(t, got.PlantBest)
		})
	}
}

func TestResolverBothBelowThreshold(t *testing.T) {
	t.Parallel()

	animal := animalStub("cane_toad", 0.30)
	plant := plantStub("Lantana", 0.34)

	r := NewResolver(animal, plant, 0.35)
	got := r.resolve(animal.prediction, plant.prediction)

	assert.Equal(t, detection.KingdomUnknown, got.Kingdom)
	assert.Nil(t, got.Prediction)
	assert.False(t, got.IsInvasive)

	// Both best guesses are preserved as diagnostics
	require.NotNil(t, got.AnimalBest)
	require.NotNil(t, got.PlantBest)
	assert.Equal(t, "cane_toad", got.AnimalBest.Species)
	assert.Equal(t, "Lantana", got.PlantBest.Species)

	assert.Equal(t, "unknown", got.SpeciesName())
	assert.Zero(t, got.ConfidenceValue())
}

func TestResolverThresholdBoundary(t *testing.T) {
	t.Parallel()

	// Confidence exactly at the threshold counts as confident
	animal := animalStub("cane_toad", 0.35)
	plant := plantStub("Lantana", 0.10)

	r := NewResolver(animal, plant, 0.35)
	got := r.resolve(animal.prediction, plant.prediction)

	assert.Equal(t, detection.KingdomAnimal, got.Kingdom)
	require.NotNil(t, got.Prediction)
	assert.InDelta(t, 0.35, got.Prediction.Confidence, 1e-9)
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	path := filepath.Join(t.TempDir(), "obs.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestResolveFromFile(t *testing.T) {
	t.Parallel()

	path := writeTestImage(t)
	r := NewResolver(animalStub("cane_toad", 0.9), plantStub("Lantana", 0.2), 0.35)

	got, err := r.Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, detection.KingdomAnimal, got.Kingdom)
}

func TestResolveClassifierError(t *testing.T) {
	t.Parallel()

	path := writeTestImage(t)
	boom := errors.New("interpreter invoke failed")

	t.Run("animal failure", func(t *testing.T) {
		t.Parallel()
		animal := animalStub("cane_toad", 0.9)
		animal.err = boom
		r := NewResolver(animal, plantStub("Lantana", 0.2), 0.35)
		_, err := r.Resolve(context.Background(), path)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("plant failure", func(t *testing.T) {
		t.Parallel()
		plant := plantStub("Lantana", 0.2)
		plant.err = boom
		r := NewResolver(animalStub("cane_toad", 0.9), plant, 0.35)
		_, err := r.Resolve(context.Background(), path)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("missing image", func(t *testing.T) {
		t.Parallel()
		r := NewResolver(animalStub("cane_toad", 0.9), plantStub("Lantana", 0.2), 0.35)
		_, err := r.Resolve(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
		assert.Error(t, err)
	})
}
