// conf/validate.go settings validation
package conf

import (
	"fmt"
)

// ValidateSettings checks that loaded settings are internally consistent.
// It returns the first validation failure found.
func ValidateSettings(settings *Settings) error {
	if err := validatePipelineSettings(&settings.Pipeline); err != nil {
		return err
	}
	if err := validateSatelliteSettings(&settings.Satellite); err != nil {
		return err
	}
	if err := validateAudioSettings(&settings.Audio); err != nil {
		return err
	}
	return nil
}

func validatePipelineSettings(p *PipelineSettings) error {
	if p.ConfidenceThreshold < 0 || p.ConfidenceThreshold > 1 {
		return fmt.Errorf("pipeline confidence threshold must be between 0 and 1: %f", p.ConfidenceThreshold)
	}
	if p.SatelliteThreshold < 0 || p.SatelliteThreshold > 1 {
		return fmt.Errorf("pipeline satellite threshold must be between 0 and 1: %f", p.SatelliteThreshold)
	}
	if p.Workers < 1 {
		return fmt.Errorf("pipeline workers must be at least 1: %d", p.Workers)
	}
	if p.Timeout < 0 {
		return fmt.Errorf("pipeline timeout must not be negative: %d", p.Timeout)
	}
	return nil
}

func validateSatelliteSettings(s *SatelliteSettings) error {
	if s.BufferMeters <= 0 {
		return fmt.Errorf("satellite buffer radius must be positive: %f", s.BufferMeters)
	}
	if s.MinObservations < 2 {
		// anomaly typing compares the two most recent observations
		return fmt.Errorf("satellite minimum observations must be at least 2: %d", s.MinObservations)
	}
	if len(s.Cascade) == 0 {
		return fmt.Errorf("satellite cascade must contain at least one attempt")
	}
	for i, attempt := range s.Cascade {
		if attempt.MonthsBack < 1 {
			return fmt.Errorf("satellite cascade attempt %d: months back must be at least 1", i)
		}
		if attempt.MaxCloudPercent <= 0 || attempt.MaxCloudPercent > 100 {
			return fmt.Errorf("satellite cascade attempt %d: cloud percent must be in (0,100]", i)
		}
	}
	return nil
}

func validateAudioSettings(a *AudioSettings) error {
	if a.TopClasses < 1 {
		return fmt.Errorf("audio top classes must be at least 1: %d", a.TopClasses)
	}
	if len(a.Keywords) == 0 {
		return fmt.Errorf("audio keyword vocabulary must not be empty")
	}
	return nil
}
