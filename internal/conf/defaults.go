// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// defaultAnimalKeywords is the curated vocabulary of animal-related keywords
// matched against sound-event labels to confirm animal presence.
var defaultAnimalKeywords = []string{
	"animal", "bird", "dog", "cat", "roar", "growl", "howl", "bark",
	"chirp", "insect", "frog", "snake", "monkey", "elephant", "lion",
	"bear", "wolf", "pig", "horse", "cow", "sheep", "goat", "wild",
	"crow", "owl", "eagle", "hawk", "parrot", "cricket", "bee", "buzz",
}

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "Invadr-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "invadr.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)
	viper.SetDefault("main.log.rotationday", "Sunday")

	viper.SetDefault("pipeline.confidencethreshold", 0.35)
	viper.SetDefault("pipeline.satellitethreshold", 0.60)
	viper.SetDefault("pipeline.workers", 4)
	viper.SetDefault("pipeline.timeout", 0)

	viper.SetDefault("image.animalmodelpath", "models/animal_invasive.tflite")
	viper.SetDefault("image.plantmodelpath", "models/plant_invasive.tflite")
	viper.SetDefault("image.animallabelpath", "")
	viper.SetDefault("image.plantlabelpath", "")
	viper.SetDefault("image.threads", 0)
	viper.SetDefault("image.usexnnpack", true)

	viper.SetDefault("satellite.endpoint", "https://services.sentinel-hub.com/api/v1/statistics")
	viper.SetDefault("satellite.apikey", "")
	viper.SetDefault("satellite.buffermeters", 500)
	viper.SetDefault("satellite.minobservations", 5)
	viper.SetDefault("satellite.cachettlminutes", 60)
	viper.SetDefault("satellite.timeout", 30)
	viper.SetDefault("satellite.cascade", defaultCascadeConfig())

	viper.SetDefault("audio.modelpath", "models/yamnet.tflite")
	viper.SetDefault("audio.labelpath", "models/yamnet_class_map.csv")
	viper.SetDefault("audio.threads", 0)
	viper.SetDefault("audio.topclasses", 10)
	viper.SetDefault("audio.keywords", defaultAnimalKeywords)
}

// defaultCascadeConfig returns the progressive relaxation cascade used when a
// site is too cloudy to yield enough valid observations on the first attempt.
func defaultCascadeConfig() []map[string]any {
	return []map[string]any{
		{"monthsback": 3, "maxcloudpercent": 50, "strictmask": true},
		{"monthsback": 3, "maxcloudpercent": 80, "strictmask": true},
		{"monthsback": 3, "maxcloudpercent": 80, "strictmask": false},
		{"monthsback": 6, "maxcloudpercent": 80, "strictmask": false},
		{"monthsback": 12, "maxcloudpercent": 90, "strictmask": false},
	}
}

// DefaultCascade returns the default relaxation cascade as typed attempts.
func DefaultCascade() []CascadeAttempt {
	return []CascadeAttempt{
		{MonthsBack: 3, MaxCloudPercent: 50, StrictMask: true},
		{MonthsBack: 3, MaxCloudPercent: 80, StrictMask: true},
		{MonthsBack: 3, MaxCloudPercent: 80, StrictMask: false},
		{MonthsBack: 6, MaxCloudPercent: 80, StrictMask: false},
		{MonthsBack: 12, MaxCloudPercent: 90, StrictMask: false},
	}
}

// DefaultAnimalKeywords returns a copy of the default animal keyword vocabulary.
func DefaultAnimalKeywords() []string {
	keywords := make([]string, len(defaultAnimalKeywords))
	copy(keywords, defaultAnimalKeywords)
	return keywords
}
