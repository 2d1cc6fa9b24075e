package correlate

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// volumeBucketSize is the contract-fixed bucketing unit for pattern
// keys (spec.md §4.4): 100 kB.
const volumeBucketSize = 100_000

// patternKeyDelimiter cannot appear in a hex fingerprint, so it safely
// separates the three components of a pattern key — specified
// explicitly per spec.md §9 rather than relying on ambient convention.
const patternKeyDelimiter = ":"

// PatternKey derives the deterministic string that groups observations
// considered "the same pattern" for repetition counting.
func PatternKey(obs Observation) string {
	bucket := (obs.Bytes / volumeBucketSize) * volumeBucketSize
	var b strings.Builder
	b.WriteString(obs.RelayFP)
	b.WriteString(patternKeyDelimiter)
	b.WriteString(string(obs.Type))
	b.WriteString(patternKeyDelimiter)
	b.WriteString(strconv.FormatInt(bucket, 10))
	return b.String()
}

// RepetitionTracker maintains a frequency map over pattern keys and
// supplies the boost multiplier applied after base composite scoring.
//
// Grounded on alert_system.go's sync.RWMutex-guarded shared-state
// pattern: the tracker is the one piece of mutable engine state
// (spec.md §5), so reads and writes both take the same mutex — writes
// are append-only increments and reads are frequent and small, so a
// single lock is sufficient per spec.md §5 without a separate
// lock-free counter map.
type RepetitionTracker struct {
	mu                  sync.Mutex
	counts              map[string]int
	observationsByRelay map[string][]string // relay fp -> observation ids, for diagnostics
	enabled             bool
	minForBoost         int
	boostFactor         float64
	maxBoost            float64
}

// NewRepetitionTracker builds a tracker parameterized from cfg. When
// cfg.EnableRepetitionWeight is false, Record is a no-op and Boost
// always returns 1.0, per spec.md §4.4.
func NewRepetitionTracker(cfg Config) *RepetitionTracker {
	return &RepetitionTracker{
		counts:              make(map[string]int),
		observationsByRelay: make(map[string][]string),
		enabled:             cfg.EnableRepetitionWeight,
		minForBoost:         cfg.MinRepetitionsForBoost,
		boostFactor:         cfg.RepetitionBoostFactor,
		maxBoost:            cfg.MaxRepetitionBoost,
	}
}

// Record increments the pattern-key count for obs. Call this for
// every observation submitted to the engine before correlation
// (spec.md §4.4).
func (rt *RepetitionTracker) Record(obs Observation) {
	if !rt.enabled {
		return
	}
	key := PatternKey(obs)
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.counts[key]++
	rt.observationsByRelay[obs.RelayFP] = append(rt.observationsByRelay[obs.RelayFP], obs.ID)
}

// Boost returns the per-observation boost multiplier for obs, per the
// formula in spec.md §4.4.
func (rt *RepetitionTracker) Boost(obs Observation) float64 {
	if !rt.enabled {
		return 1.0
	}
	key := PatternKey(obs)
	rt.mu.Lock()
	count := rt.counts[key]
	rt.mu.Unlock()

	if count < rt.minForBoost {
		return 1.0
	}
	boost := 1.0 + math.Log2(float64(count))*(rt.boostFactor-1.0)
	return math.Min(rt.maxBoost, boost)
}

// CombinedBoost is the arithmetic mean of the entry's and exit's
// individual boosts — the value the Pair Assembler applies.
func (rt *RepetitionTracker) CombinedBoost(entry, exit Observation) float64 {
	return (rt.Boost(entry) + rt.Boost(exit)) / 2
}

// RepetitionStats exposes the statistics named in spec.md §4.4.
type RepetitionStats struct {
	TotalUniquePatterns int
	RepeatedPatterns    int // count of patterns with >= 2 occurrences
	MaxRepetitions      int
	AvgRepetitions      float64
	Top                 []PatternCount
}

// PatternCount pairs a pattern key with its observed frequency.
type PatternCount struct {
	Key   string
	Count int
}

// Stats computes a snapshot of the tracker's current state. topN <= 0
// returns every pattern sorted by descending count.
func (rt *RepetitionTracker) Stats(topN int) RepetitionStats {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	stats := RepetitionStats{TotalUniquePatterns: len(rt.counts)}
	if len(rt.counts) == 0 {
		return stats
	}

	all := make([]PatternCount, 0, len(rt.counts))
	total := 0
	for k, c := range rt.counts {
		all = append(all, PatternCount{Key: k, Count: c})
		total += c
		if c > stats.MaxRepetitions {
			stats.MaxRepetitions = c
		}
		if c >= 2 {
			stats.RepeatedPatterns++
		}
	}
	stats.AvgRepetitions = float64(total) / float64(len(rt.counts))

	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Key < all[j].Key
	})
	if topN > 0 && topN < len(all) {
		all = all[:topN]
	}
	stats.Top = all
	return stats
}
