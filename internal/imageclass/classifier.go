// Package imageclass runs the still-image species classifiers. Two TFLite
// models share this implementation: one trained on an animal-species
// vocabulary, one on a plant-species vocabulary, each with a designated
// non-invasive sentinel class.
package imageclass

import (
	"context"
	"image"
	"math"
	"sort"

	"github.com/invadr/invadr-go/internal/detection"
)

// Classifier is the inference capability consumed by the kingdom resolver.
// Implementations must be safe for concurrent use.
type Classifier interface {
	// Classify runs inference on a decoded image and returns the top-1
	// species with its leading alternatives.
	Classify(ctx context.Context, img image.Image) (detection.SpeciesPrediction, error)

	// Kingdom reports which classification axis this classifier covers.
	Kingdom() detection.Kingdom

	// NonInvasiveLabel returns the vocabulary's non-invasive sentinel.
	NonInvasiveLabel() string
}

// maxAlternatives is how many top predictions are retained per invocation.
const maxAlternatives = 3

// pairLabelsAndScores pairs labels with their corresponding probabilities
// and returns them sorted by confidence in descending order.
func pairLabelsAndScores(labels []string, probs []float32) []detection.ClassScore {
	scores := make([]detection.ClassScore, len(labels))
	for i, label := range labels {
		scores[i] = detection.ClassScore{Label: label, Confidence: float64(probs[i])}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})
	return scores
}

// softmax converts logits to a probability distribution. Shifted by the max
// logit for numerical stability.
func softmax(logits []float32) []float32 {
	maxLogit := float32(math.Inf(-1))
	for _, v := range logits {
		if v > maxLogit {
			maxLogit = v
		}
	}

	probs := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - maxLogit))
		probs[i] = float32(e)
		sum += e
	}
	for i := range probs {
		probs[i] = float32(float64(probs[i]) / sum)
	}
	return probs
}

// predictionFromScores builds a SpeciesPrediction from sorted class scores.
func predictionFromScores(scores []detection.ClassScore) detection.SpeciesPrediction {
	alternatives := scores
	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}
	top := scores[0]
	return detection.SpeciesPrediction{
		Species:      top.Label,
		Confidence:   round4(top.Confidence),
		Alternatives: roundScores(alternatives),
	}
}

// round4 rounds a confidence to 4 decimals to match the serialized form.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func roundScores(scores []detection.ClassScore) []detection.ClassScore {
	rounded := make([]detection.ClassScore, len(scores))
	for i, s := range scores {
		rounded[i] = detection.ClassScore{Label: s.Label, Confidence: round4(s.Confidence)}
	}
	return rounded
}
