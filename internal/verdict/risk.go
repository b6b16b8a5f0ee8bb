package verdict

import (
	"strings"

	"github.com/invadr/invadr-go/internal/detection"
)

// Per-species risk tiers. Species outside these tables default to medium:
// an unrecognized invasive is still worth a follow-up visit.
var animalRisk = map[string]string{
	"boar": "high", "raccoon": "high", "snake": "high", "fox": "high",
	"coyote": "medium", "deer": "medium", "swan": "medium", "wolf": "medium",
	"hyena": "medium", "kangaroo": "medium", "hippopotamus": "medium",
}

var plantRisk = map[string]string{
	"Chinee apple": "high", "Siam weed": "high", "Lantana": "high",
	"Prickly acacia": "high", "Rubber vine": "high", "Parthenium": "high",
	"Parkinsonia": "medium", "Snake weed": "medium",
}

// SpeciesRiskLevel returns the management risk tier for a species. Animal
// labels are matched case-insensitively; plant labels are proper names and
// matched as is.
func SpeciesRiskLevel(species string, kingdom detection.Kingdom) string {
	if kingdom == detection.KingdomPlant {
		if risk, ok := plantRisk[species]; ok {
			return risk
		}
		return "medium"
	}
	if risk, ok := animalRisk[strings.ToLower(species)]; ok {
		return risk
	}
	return "medium"
}
