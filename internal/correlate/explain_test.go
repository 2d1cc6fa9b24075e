package correlate

import (
	"strings"
	"testing"
)

func TestExplainPair_ContainsKeyFields(t *testing.T) {
	pair := SessionPair{
		PairID:           "e1_x1",
		Entry:            Observation{ID: "e1", TimestampUs: 1_000_000_000, RelayFP: "G1", Bytes: 2_500_000},
		Exit:             Observation{ID: "x1", TimestampUs: 1_000_000_800, RelayFP: "X1", Bytes: 2_520_000},
		FinalCorrelation: 84.7,
		Reasoning:        []string{"candidate pairing: ...", "nearly simultaneous"},
		ScoreBreakdown: ScoreBreakdown{
			Time:            SignalBreakdown{Score: 99.7, Weight: 0.40, Contribution: 39.88},
			Volume:          SignalBreakdown{Score: 99.2, Weight: 0.30, Contribution: 29.76},
			Pattern:         SignalBreakdown{Score: 50, Weight: 0.30, Contribution: 15},
			Base:            84.7,
			RepetitionBoost: 1.0,
			Final:           84.7,
		},
	}

	report := ExplainPair(pair)

	for _, want := range []string{"e1_x1", "G1", "X1", "84.7", "nearly simultaneous", "reasoning:"} {
		if !strings.Contains(report, want) {
			t.Errorf("ExplainPair report missing %q:\n%s", want, report)
		}
	}
}

func TestExplainCluster_ContainsKeyFields(t *testing.T) {
	c := CorrelationCluster{
		ID:                "deadbeef",
		GuardFingerprints: []string{"G1"},
		ObservationCount:  5,
		ConsistencyScore:  80,
		GuardPersistence:  50,
		ClusterConfidence: 68,
	}

	summary := ExplainCluster(c)

	for _, want := range []string{"deadbeef", "G1", "5 observations", "68.0"} {
		if !strings.Contains(summary, want) {
			t.Errorf("ExplainCluster summary missing %q: %s", want, summary)
		}
	}
}
