package correlate

import (
	"math"
	"testing"
)

func fakePair(id, guardFP string, final float64) SessionPair {
	return SessionPair{
		PairID:           id,
		Entry:            Observation{ID: id + "-e", RelayFP: guardFP},
		Exit:             Observation{ID: id + "-x"},
		FinalCorrelation: final,
		GuardFingerprint: guardFP,
	}
}

// Scenario 6: five pairs all hypothesizing guard G1, mean final 80.
func TestBuildClusters_Scenario6(t *testing.T) {
	pairs := make([]SessionPair, 5)
	for i := range pairs {
		pairs[i] = fakePair(string(rune('a'+i)), "G1", 80)
	}

	clusters := BuildClusters(pairs, 3)
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	c := clusters[0]
	if math.Abs(c.ConsistencyScore-80) > 1e-9 {
		t.Errorf("consistency = %v, want 80", c.ConsistencyScore)
	}
	if math.Abs(c.GuardPersistence-50) > 1e-9 {
		t.Errorf("persistence = %v, want 50", c.GuardPersistence)
	}
	if math.Abs(c.ClusterConfidence-68) > 1e-9 {
		t.Errorf("confidence = %v, want 68", c.ClusterConfidence)
	}
	if len(c.PairIDs) != 5 {
		t.Errorf("expected 5 pair ids in cluster, got %d", len(c.PairIDs))
	}
}

func TestBuildClusters_BelowMinimumDiscarded(t *testing.T) {
	pairs := []SessionPair{fakePair("a", "G1", 90), fakePair("b", "G1", 90)}
	clusters := BuildClusters(pairs, 3)
	if len(clusters) != 0 {
		t.Errorf("expected no clusters below the minimum size, got %d", len(clusters))
	}
}

func TestBuildClusters_SeparatesByGuard(t *testing.T) {
	pairs := []SessionPair{
		fakePair("a", "G1", 90), fakePair("b", "G1", 90), fakePair("c", "G1", 90),
		fakePair("d", "G2", 70), fakePair("e", "G2", 70), fakePair("f", "G2", 70),
	}
	clusters := BuildClusters(pairs, 3)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
}

func TestBuildClusters_PersistenceCap(t *testing.T) {
	pairs := make([]SessionPair, 20)
	for i := range pairs {
		pairs[i] = fakePair(string(rune('a'+i)), "G1", 50)
	}
	clusters := BuildClusters(pairs, 3)
	if clusters[0].GuardPersistence != 100 {
		t.Errorf("expected persistence capped at 100, got %v", clusters[0].GuardPersistence)
	}
}

// Cluster ids must be deterministic: two runs over identical pairs
// produce byte-identical cluster records (spec.md §8).
func TestBuildClusters_DeterministicID(t *testing.T) {
	build := func() []CorrelationCluster {
		pairs := make([]SessionPair, 5)
		for i := range pairs {
			pairs[i] = fakePair(string(rune('a'+i)), "G1", 80)
		}
		return BuildClusters(pairs, 3)
	}

	first := build()
	second := build()
	if first[0].ID == "" {
		t.Fatal("expected a non-empty cluster id")
	}
	if first[0].ID != second[0].ID {
		t.Errorf("cluster id not deterministic: %q vs %q", first[0].ID, second[0].ID)
	}
}

func TestBuildClusters_IDDiffersByGuardGroup(t *testing.T) {
	pairs := []SessionPair{
		fakePair("a", "G1", 90), fakePair("b", "G1", 90), fakePair("c", "G1", 90),
		fakePair("d", "G2", 70), fakePair("e", "G2", 70), fakePair("f", "G2", 70),
	}
	clusters := BuildClusters(pairs, 3)
	if clusters[0].ID == clusters[1].ID {
		t.Errorf("expected distinct cluster ids for distinct guard groups, got %q twice", clusters[0].ID)
	}
}
