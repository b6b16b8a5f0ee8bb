package pipeline

import (
	"github.com/invadr/invadr-go/internal/conf"
	"github.com/invadr/invadr-go/internal/imageclass"
	"github.com/invadr/invadr-go/internal/kingdom"
	"github.com/invadr/invadr-go/internal/logging"
	"github.com/invadr/invadr-go/internal/satellite"
	"github.com/invadr/invadr-go/internal/soundid"
)

// NewFromSettings builds a fully wired pipeline. A stage whose model or
// provider cannot be initialized is replaced with a stand-in that reports
// the failure as that stage's error, so the pipeline itself always starts.
func NewFromSettings(settings *conf.Settings) *Pipeline {
	log := logging.ForService("pipeline")

	var resolver KingdomResolver
	animal, animalErr := imageclass.NewAnimalClassifier(settings)
	plant, plantErr := imageclass.NewPlantClassifier(settings)
	switch {
	case animalErr != nil:
		if log != nil {
			log.Error("animal classifier unavailable", "error", animalErr)
		}
		resolver = UnavailableResolver(animalErr)
	case plantErr != nil:
		if log != nil {
			log.Error("plant classifier unavailable", "error", plantErr)
		}
		resolver = UnavailableResolver(plantErr)
	default:
		resolver = kingdom.NewResolver(animal, plant, settings.Pipeline.ConfidenceThreshold)
	}

	detector := AnomalyDetector(satellite.NewDetector(&settings.Satellite,
		satellite.NewSceneStatsProvider(&settings.Satellite)))

	var analyzer AudioAnalyzer
	sounds, soundErr := soundid.New(settings)
	if soundErr != nil {
		if log != nil {
			log.Error("sound classifier unavailable", "error", soundErr)
		}
		analyzer = UnavailableAnalyzer(soundErr)
	} else {
		analyzer = sounds
	}

	return New(resolver, detector, analyzer, settings)
}
