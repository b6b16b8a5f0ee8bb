package imageclass

import (
	"bufio"
	"os"
	"strings"

	"github.com/invadr/invadr-go/internal/errors"
)

// Label vocabularies of the trained classifiers, in model output order.
// Each vocabulary contains a non-invasive sentinel meaning "nothing invasive
// present".

// AnimalNonInvasiveLabel is the sentinel class of the animal vocabulary.
const AnimalNonInvasiveLabel = "non_invasive"

// PlantNonInvasiveLabel is the sentinel class of the plant vocabulary.
const PlantNonInvasiveLabel = "Negative"

var animalLabels = []string{
	"bear", "bison", "boar", "chimpanzee", "coyote", "deer",
	"elephant", "fox", "gorilla", "hippopotamus", "hyena", "kangaroo",
	"leopard", "lion", "non_invasive", "porcupine", "raccoon",
	"rhinoceros", "seal", "shark", "snake", "swan", "tiger", "wolf", "zebra",
}

var plantLabels = []string{
	"Chinee apple", "Lantana", "Negative", "Parkinsonia", "Parthenium",
	"Prickly acacia", "Rubber vine", "Siam weed", "Snake weed",
}

// AnimalLabels returns a copy of the animal classifier vocabulary.
func AnimalLabels() []string {
	labels := make([]string, len(animalLabels))
	copy(labels, animalLabels)
	return labels
}

// PlantLabels returns a copy of the plant classifier vocabulary.
func PlantLabels() []string {
	labels := make([]string, len(plantLabels))
	copy(labels, plantLabels)
	return labels
}

// loadLabelFile reads one label per line, skipping blanks. Used when a
// custom label file is configured instead of the built-in vocabularies.
func loadLabelFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryLabelLoad).
			FileContext(path, 0).
			Build()
	}
	defer file.Close()

	var labels []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			labels = append(labels, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryLabelLoad).
			FileContext(path, 0).
			Build()
	}
	if len(labels) == 0 {
		return nil, errors.Newf("label file %s contains no labels", path).
			Category(errors.CategoryLabelLoad).
			Build()
	}
	return labels, nil
}
