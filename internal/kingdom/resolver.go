// Package kingdom resolves the classification axis of an observation by
// comparing the outputs of the animal and plant image classifiers.
package kingdom

import (
	"context"
	"log/slog"
	"strings"

	"github.com/invadr/invadr-go/internal/detection"
	"github.com/invadr/invadr-go/internal/imageclass"
	"github.com/invadr/invadr-go/internal/logging"
)

// Resolver picks between two independent species classifiers. Neither
// classifier is authoritative on its own: the more confident one decides the
// kingdom, and a prediction of the vocabulary's non-invasive sentinel means
// nothing invasive is present.
type Resolver struct {
	animal        imageclass.Classifier
	plant         imageclass.Classifier
	confThreshold float64
	log           *slog.Logger
}

// NewResolver creates a resolver over the two classifiers. confThreshold is
// the minimum top-1 confidence required to trust either prediction.
func NewResolver(animal, plant imageclass.Classifier, confThreshold float64) *Resolver {
	return &Resolver{
		animal:        animal,
		plant:         plant,
		confThreshold: confThreshold,
		log:           logging.ForService("kingdom"),
	}
}

// Resolve runs both classifiers on the image at imagePath and returns the
// resolved kingdom. A classifier invocation failure is fatal to this stage
// only; the caller records it and continues with an unknown kingdom.
func (r *Resolver) Resolve(ctx context.Context, imagePath string) (detection.KingdomResult, error) {
	img, err := imageclass.LoadImage(imagePath)
	if err != nil {
		return detection.KingdomResult{}, err
	}

	animalPred, err := r.animal.Classify(ctx, img)
	if err != nil {
		return detection.KingdomResult{}, err
	}
	plantPred, err := r.plant.Classify(ctx, img)
	if err != nil {
		return detection.KingdomResult{}, err
	}

	result := r.resolve(animalPred, plantPred)

	if r.log != nil {
		r.log.Debug("kingdom resolved",
			"kingdom", string(result.Kingdom),
			"species", result.SpeciesName(),
			"confidence", result.ConfidenceValue(),
			"is_invasive", result.IsInvasive)
	}
	return result, nil
}

// resolve applies the confidence comparison. Ties go to the animal branch.
func (r *Resolver) resolve(animalPred, plantPred detection.SpeciesPrediction) detection.KingdomResult {
	aConf := animalPred.Confidence
	pConf := plantPred.Confidence

	// Neither classifier is confident enough to trust
	if aConf < r.confThreshold && pConf < r.confThreshold {
		return detection.KingdomResult{
			Kingdom:    detection.KingdomUnknown,
			AnimalBest: &animalPred,
			PlantBest:  &plantPred,
		}
	}

	if aConf >= pConf {
		return detection.KingdomResult{
			Kingdom:    detection.KingdomAnimal,
			Prediction: &animalPred,
			IsInvasive: !strings.EqualFold(animalPred.Species, r.animal.NonInvasiveLabel()),
		}
	}

	return detection.KingdomResult{
		Kingdom:    detection.KingdomPlant,
		Prediction: &plantPred,
		IsInvasive: !strings.EqualFold(plantPred.Species, r.plant.NonInvasiveLabel()),
	}
}
