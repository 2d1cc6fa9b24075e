package correlate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_MatchesSpec(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.CorrelationWindowSeconds != 300 {
		t.Errorf("correlation_window_seconds default = %v, want 300", cfg.CorrelationWindowSeconds)
	}
	if cfg.MinConfidenceThreshold != 30 {
		t.Errorf("min_confidence_threshold default = %v, want 30", cfg.MinConfidenceThreshold)
	}
	if cfg.MinClusterObservations != 3 {
		t.Errorf("min_cluster_observations default = %v, want 3", cfg.MinClusterObservations)
	}
	if !cfg.EnableRepetitionWeight {
		t.Error("enable_repetition_weighting should default to true")
	}
	if cfg.MinRepetitionsForBoost != 2 {
		t.Errorf("min_repetitions_for_boost default = %v, want 2", cfg.MinRepetitionsForBoost)
	}
	if cfg.RepetitionBoostFactor != 1.5 {
		t.Errorf("repetition_boost_factor default = %v, want 1.5", cfg.RepetitionBoostFactor)
	}
	if cfg.MaxRepetitionBoost != 2.0 {
		t.Errorf("max_repetition_boost default = %v, want 2.0", cfg.MaxRepetitionBoost)
	}
	if cfg.Profile().Name != "standard" {
		t.Errorf("default profile = %q, want standard", cfg.Profile().Name)
	}
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults for empty path, got %+v", cfg)
	}
}

func TestLoadConfig_OverridesFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "min_confidence_threshold: 45\ndefault_weight_profile: time-focused\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MinConfidenceThreshold != 45 {
		t.Errorf("expected overridden threshold 45, got %v", cfg.MinConfidenceThreshold)
	}
	if cfg.Profile().Name != "time-focused" {
		t.Errorf("expected time-focused profile, got %q", cfg.Profile().Name)
	}
	// Untouched fields keep their defaults.
	if cfg.MaxRepetitionBoost != 2.0 {
		t.Errorf("expected untouched field to keep default, got %v", cfg.MaxRepetitionBoost)
	}
}
