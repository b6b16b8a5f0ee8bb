// Package verdict compiles the stage outcomes of one detection run into a
// deterministic, explainable risk assessment. Compilation is a pure
// function: the same outcomes always produce the same verdict, and absent
// or failed signals simply contribute nothing.
package verdict

import (
	"fmt"

	"github.com/invadr/invadr-go/internal/detection"
)

// Scoring weights and thresholds for the additive risk model.
const (
	invasiveScore      = 3
	highConfScore      = 2
	midConfScore       = 1
	satelliteScore     = 3
	audioScore         = 2
	highConfThreshold  = 0.8
	scoreCriticalFloor = 7
	scoreHighFloor     = 5
	scoreModerateFloor = 3
	scoreLowFloor      = 1
)

// Compile combines the kingdom result with the satellite and audio outcomes.
// confThreshold is the minimum species confidence worth a point.
func Compile(
	kingdom detection.KingdomResult,
	satellite detection.StageOutcome[detection.AnomalyResult],
	audio detection.StageOutcome[detection.AudioResult],
	confThreshold float64,
) detection.Verdict {
	species := kingdom.SpeciesName()
	confidence := kingdom.ConfidenceValue()

	score := 0
	var signals []string

	if kingdom.IsInvasive {
		score += invasiveScore
		signals = append(signals, fmt.Sprintf("Invasive %s detected: %s", kingdom.Kingdom, species))
	}
	switch {
	case confidence >= highConfThreshold:
		score += highConfScore
		signals = append(signals, fmt.Sprintf("High confidence: %.1f%%", confidence*100))
	case confidence >= confThreshold:
		score += midConfScore
	}

	if anomaly, ok := satellite.Value(); ok {
		if anomaly.IsAnomaly {
			score += satelliteScore
			signals = append(signals, fmt.Sprintf("Satellite anomaly: %s", anomaly.AnomalyType))
		} else {
			signals = append(signals, "Satellite: area stable")
		}
	}

	if kingdom.Kingdom == detection.KingdomAnimal {
		if sounds, ok := audio.Value(); ok {
			if sounds.AnimalSoundsDetected {
				score += audioScore
				signals = append(signals, "Audio confirms animal presence")
			} else {
				signals = append(signals, "Audio: no matching animal sounds")
			}
		}
	}

	summary := fmt.Sprintf("%s (%s) — %s", species, kingdom.Kingdom, invasiveWord(kingdom.IsInvasive))
	if anomaly, ok := satellite.Value(); ok && anomaly.IsAnomaly {
		summary += " + satellite anomaly detected"
	}

	speciesRisk := "low"
	if kingdom.IsInvasive {
		speciesRisk = SpeciesRiskLevel(species, kingdom.Kingdom)
	}

	return detection.Verdict{
		Species:     species,
		Kingdom:     kingdom.Kingdom,
		IsInvasive:  kingdom.IsInvasive,
		Confidence:  confidence,
		SpeciesRisk: speciesRisk,
		RiskScore:   score,
		RiskLevel:   riskLevel(score),
		Signals:     signals,
		Summary:     summary,
	}
}

func riskLevel(score int) detection.RiskLevel {
	switch {
	case score >= scoreCriticalFloor:
		return detection.RiskCritical
	case score >= scoreHighFloor:
		return detection.RiskHigh
	case score >= scoreModerateFloor:
		return detection.RiskModerate
	case score >= scoreLowFloor:
		return detection.RiskLow
	default:
		return detection.RiskNone
	}
}

func invasiveWord(isInvasive bool) string {
	if isInvasive {
		return "INVASIVE"
	}
	return "non-invasive"
}
