// Package detection provides the core domain model for the invasive-species
// detection pipeline. It defines the request, the per-stage results, the
// StageOutcome wrapper, and the final PipelineResult as the single source of
// truth for detection data used throughout the application.
package detection

// Kingdom is the top-level classification axis chosen by confidence
// comparison between the animal and plant classifiers.
type Kingdom string

const (
	KingdomAnimal  Kingdom = "animal"
	KingdomPlant   Kingdom = "plant"
	KingdomUnknown Kingdom = "unknown"
)

// ClassScore pairs a classifier label with its confidence.
type ClassScore struct {
	Label      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// SpeciesPrediction is the output of one image classifier invocation.
type SpeciesPrediction struct {
	Species      string       `json:"class"`
	Confidence   float64      `json:"confidence"`
	Alternatives []ClassScore `json:"top3,omitempty"`
}

// KingdomResult is the resolver's decision between the two classifier outputs.
// Unknown carries no authoritative prediction; the raw per-classifier bests
// are retained for diagnostics in that case.
type KingdomResult struct {
	Kingdom    Kingdom            `json:"kingdom"`
	Prediction *SpeciesPrediction `json:"prediction"`
	IsInvasive bool               `json:"is_invasive"`

	AnimalBest *SpeciesPrediction `json:"animal_best,omitempty"`
	PlantBest  *SpeciesPrediction `json:"plant_best,omitempty"`
}

// ConfidenceValue returns the confidence of the authoritative prediction,
// or 0 when there is none.
func (k *KingdomResult) ConfidenceValue() float64 {
	if k == nil || k.Prediction == nil {
		return 0
	}
	return k.Prediction.Confidence
}

// SpeciesName returns the authoritative species label, or "unknown".
func (k *KingdomResult) SpeciesName() string {
	if k == nil || k.Prediction == nil {
		return "unknown"
	}
	return k.Prediction.Species
}

// AnomalyType classifies the kind of land-cover change behind a satellite
// anomaly flag.
type AnomalyType string

const (
	AnomalyNormal          AnomalyType = "Normal"
	AnomalyPathDestruction AnomalyType = "Path Destruction / Bare Soil"
	AnomalyInvasiveGrowth  AnomalyType = "Invasive Plant Growth"
	AnomalyVegetationLoss  AnomalyType = "Vegetation Loss"
	AnomalySoilExposure    AnomalyType = "Soil Exposure"
	AnomalyUnclassified    AnomalyType = "Unclassified Anomaly"
)

// AnomalyResult is the outcome of the satellite anomaly stage. Values are
// only meaningful when the observation count met the configured minimum.
type AnomalyResult struct {
	IsAnomaly             bool        `json:"is_anomaly"`
	AnomalyType           AnomalyType `json:"anomaly_type"`
	LatestDate            string      `json:"latest_date"`
	VegetationIndexNow    float64     `json:"ndvi_now"`
	VegetationIndexChange float64     `json:"ndvi_change"`
	BareSoilIndexChange   float64     `json:"bsi_change"`
	Observations          int         `json:"observations"`
}

// AudioResult is the outcome of the audio confirmation stage.
type AudioResult struct {
	TopClasses           []ClassScore `json:"top_classes"`
	AnimalSoundsDetected bool         `json:"animal_sounds_detected"`
	AnimalSounds         []ClassScore `json:"animal_sounds"`
}

// RiskLevel is the bucketed categorical mapping of the risk score.
type RiskLevel string

const (
	RiskNone     RiskLevel = "NONE"
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Verdict is the final deterministic risk assessment over all stage outcomes.
type Verdict struct {
	Species     string    `json:"species"`
	Kingdom     Kingdom   `json:"kingdom"`
	IsInvasive  bool      `json:"is_invasive"`
	Confidence  float64   `json:"confidence"`
	SpeciesRisk string    `json:"species_risk"`
	RiskScore   int       `json:"risk_score"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Signals     []string  `json:"signals"`
	Summary     string    `json:"summary"`
}
