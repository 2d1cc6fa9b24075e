package correlate

import (
	"math"

	"github.com/rawblock/relay-correlate/internal/fault"
)

// weightSumEpsilon is the tolerance for "weights sum to 1.0", per
// spec.md §3 and the InputValidation rule in §7.
const weightSumEpsilon = 1e-6

// ProfileMeta carries case metadata that travels into reasoning
// strings but never affects the math — spec.md §3.
type ProfileMeta struct {
	CaseID      string
	Creator     string
	Description string
}

// WeightProfile is a named triple (w_time, w_volume, w_pattern) used
// to combine the three signal scores into a base composite.
type WeightProfile struct {
	Name      string
	WTime     float64
	WVolume   float64
	WPattern  float64
	Meta      ProfileMeta
}

// The four named presets from spec.md §3.
var (
	ProfileStandard = WeightProfile{
		Name: "standard", WTime: 0.40, WVolume: 0.30, WPattern: 0.30,
	}
	ProfileTimeFocused = WeightProfile{
		Name: "time-focused", WTime: 0.60, WVolume: 0.20, WPattern: 0.20,
	}
	ProfileVolumeFocused = WeightProfile{
		Name: "volume-focused", WTime: 0.25, WVolume: 0.50, WPattern: 0.25,
	}
	ProfilePatternFocused = WeightProfile{
		Name: "pattern-focused", WTime: 0.25, WVolume: 0.25, WPattern: 0.50,
	}
)

// NewCustomProfile validates and constructs a custom weight profile.
// Weights must be in [0,1] and sum to 1.0 ± weightSumEpsilon; a
// violation is an InputValidation fault, not a runtime panic.
func NewCustomProfile(wTime, wVolume, wPattern float64, meta ProfileMeta) (WeightProfile, error) {
	p := WeightProfile{
		Name: "custom", WTime: wTime, WVolume: wVolume, WPattern: wPattern, Meta: meta,
	}
	if err := p.Validate(); err != nil {
		return WeightProfile{}, err
	}
	return p, nil
}

// Validate checks the bounds and sum invariant documented in spec.md
// §3 and §7. NewCustomProfile and NewAssembler call it; LoadConfig
// does not, since a config only names one of the preset profiles.
func (p WeightProfile) Validate() error {
	for name, w := range map[string]float64{"time": p.WTime, "volume": p.WVolume, "pattern": p.WPattern} {
		if w < 0 || w > 1 {
			return fault.New(fault.InputValidation, name, "weight must be in [0,1]")
		}
	}
	sum := p.WTime + p.WVolume + p.WPattern
	if math.Abs(sum-1.0) > weightSumEpsilon {
		return fault.New(fault.InputValidation, p.Name, "weights must sum to 1.0")
	}
	return nil
}
