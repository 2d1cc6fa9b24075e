package correlate

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config enumerates every knob from spec.md §6. Its zero value is
// invalid by construction (CorrelationWindowSeconds == 0 would clip
// every candidate); use DefaultConfig() and override from there, or
// LoadConfig to read a YAML document on top of the defaults —
// grounded on the `egg` package's YAML config loader in the retrieved
// corpus, the closest analogue to a config file in this domain (the
// predecessor itself only ever read individual env vars).
type Config struct {
	CorrelationWindowSeconds float64 `yaml:"correlation_window_seconds"`
	MinConfidenceThreshold   float64 `yaml:"min_confidence_threshold"`
	MinClusterObservations   int     `yaml:"min_cluster_observations"`
	EnableRepetitionWeight   bool    `yaml:"enable_repetition_weighting"`
	MinRepetitionsForBoost   int     `yaml:"min_repetitions_for_boost"`
	RepetitionBoostFactor    float64 `yaml:"repetition_boost_factor"`
	MaxRepetitionBoost       float64 `yaml:"max_repetition_boost"`
	DefaultProfileName       string  `yaml:"default_weight_profile"`
	StrictUnknownRelay       bool    `yaml:"strict_unknown_relay"`
}

// DefaultConfig returns the documented defaults from spec.md §6.
func DefaultConfig() Config {
	return Config{
		CorrelationWindowSeconds: 300,
		MinConfidenceThreshold:   30,
		MinClusterObservations:   3,
		EnableRepetitionWeight:   true,
		MinRepetitionsForBoost:   2,
		RepetitionBoostFactor:    1.5,
		MaxRepetitionBoost:       2.0,
		DefaultProfileName:       "standard",
		StrictUnknownRelay:       false,
	}
}

// LoadConfig reads a YAML document at path and applies it over
// DefaultConfig(); a missing path is not an error — callers that want
// only the defaults pass an empty path.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Profile resolves DefaultProfileName to one of the four named
// presets. Custom profiles are constructed directly via
// NewCustomProfile by callers, since a profile's metadata and three
// weights can't be expressed by a single config name.
func (c Config) Profile() WeightProfile {
	switch c.DefaultProfileName {
	case "time-focused":
		return ProfileTimeFocused
	case "volume-focused":
		return ProfileVolumeFocused
	case "pattern-focused":
		return ProfilePatternFocused
	default:
		return ProfileStandard
	}
}
