// config.go: settings struct and functions to load and save the application settings.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/invadr/invadr-go/internal/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configFiles embed.FS

// MainSettings contains application-wide settings.
type MainSettings struct {
	Name string    // name of this node, used in logs
	Log  LogConfig // main application log configuration
}

// PipelineSettings contains thresholds and scheduling settings for the
// detection pipeline.
type PipelineSettings struct {
	ConfidenceThreshold float64 // minimum top-1 confidence to trust a prediction
	SatelliteThreshold  float64 // minimum confidence to run the satellite stage
	Workers             int     // number of concurrent pipeline workers for batch mode
	Timeout             int     // per-run timeout in seconds, 0 to disable
}

// ImageSettings contains settings for the animal and plant image classifiers.
type ImageSettings struct {
	AnimalModelPath string // path to animal classifier tflite model
	PlantModelPath  string // path to plant classifier tflite model
	AnimalLabelPath string // path to animal label file, empty for embedded labels
	PlantLabelPath  string // path to plant label file, empty for embedded labels
	Threads         int    // tflite threads, 0 for auto
	UseXNNPACK      bool   // use XNNPACK delegate for inference
}

// CascadeAttempt is one step of the satellite query relaxation cascade.
type CascadeAttempt struct {
	MonthsBack      int     // how far back to query imagery
	MaxCloudPercent float64 // scene-level cloud coverage filter
	StrictMask      bool    // mask pixels not classified as clear land/water/vegetation
}

// SatelliteSettings contains settings for the satellite anomaly detector.
type SatelliteSettings struct {
	Endpoint        string           // base URL of the scene statistics provider
	APIKey          string           // provider API key
	BufferMeters    float64          // buffer radius around the point of interest
	MinObservations int              // minimum valid observations to accept a series
	Cascade         []CascadeAttempt // ordered relaxation cascade
	CacheTTLMinutes int              // observation series cache TTL, 0 to disable
	Timeout         int              // provider request timeout in seconds
}

// AudioSettings contains settings for the sound-event classifier.
type AudioSettings struct {
	ModelPath  string   // path to sound classifier tflite model
	LabelPath  string   // path to class-map label file
	Threads    int      // tflite threads, 0 for auto
	TopClasses int      // number of top labels to keep
	Keywords   []string // animal-related keywords for confirmation matching
}

// Settings is the root configuration structure.
type Settings struct {
	Debug bool // true to enable debug logging

	Main      MainSettings
	Pipeline  PipelineSettings
	Image     ImageSettings
	Satellite SatelliteSettings
	Audio     AudioSettings
}

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled     bool         // true to enable this log
	Path        string       // Path to the log file
	Rotation    RotationType // Type of log rotation
	MaxSize     int64        // Max size in bytes for RotationSize
	RotationDay string       // Day of the week for RotationWeekly
}

// RotationType defines different types of log rotations.
type RotationType string

const (
	RotationDaily  RotationType = "daily"
	RotationWeekly RotationType = "weekly"
	RotationSize   RotationType = "size"
)

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter,
	// defined in defaults.go
	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load()
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}

// SaveSettings saves the current settings to the configuration file.
func SaveSettings() error {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()

	settingsCopy := *settingsInstance

	configPath, err := FindConfigFile()
	if err != nil {
		return fmt.Errorf("error finding config file: %w", err)
	}

	if err := SaveYAMLConfig(configPath, &settingsCopy); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	log.Printf("Settings saved successfully to %s", configPath)
	return nil
}

// SaveYAMLConfig updates the YAML configuration file with new settings.
// It overwrites the existing file, not preserving comments or structure.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	// Write to a temporary file first for an atomic replace
	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		os.Remove(tempFileName)
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempFileName)
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		os.Remove(tempFileName)
		return fmt.Errorf("error replacing config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPaths returns the OS specific default configuration paths.
func GetDefaultConfigPaths() ([]string, error) {
	var configPaths []string

	exePath, err := os.Executable()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-executable-path").
			Build()
	}
	exeDir := filepath.Dir(exePath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Build()
	}

	switch runtime.GOOS {
	case "windows":
		configPaths = []string{
			exeDir,
			filepath.Join(homeDir, "AppData", "Roaming", "invadr"),
		}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", "invadr"),
			"/etc/invadr",
		}
	}

	return configPaths, nil
}

// FindConfigFile locates the active config.yaml in the default paths.
func FindConfigFile() (string, error) {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return "", fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		configFile := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(configFile); err == nil {
			return configFile, nil
		}
	}

	return "", fmt.Errorf("config file not found in: %v", configPaths)
}
