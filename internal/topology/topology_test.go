package topology

import (
	"testing"

	"github.com/rawblock/relay-correlate/internal/fault"
)

func testSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot([]Relay{
		{Fingerprint: "G1", Capabilities: map[Capability]bool{Guard: true}, ConsensusWeight: 100, Subnet16: "1.2"},
		{Fingerprint: "G2", Capabilities: map[Capability]bool{Guard: true}, ConsensusWeight: 300, Subnet16: "3.4"},
		{Fingerprint: "X1", Capabilities: map[Capability]bool{Exit: true}, ConsensusWeight: 50, Subnet16: "5.6"},
		{Fingerprint: "X2", Capabilities: map[Capability]bool{Exit: true}, ConsensusWeight: 50, Subnet16: "1.2"},
	})
	if err != nil {
		t.Fatalf("unexpected error building snapshot: %v", err)
	}
	return snap
}

func TestNewSnapshot_DuplicateFingerprint(t *testing.T) {
	_, err := NewSnapshot([]Relay{
		{Fingerprint: "G1", Capabilities: map[Capability]bool{Guard: true}},
		{Fingerprint: "G1", Capabilities: map[Capability]bool{Guard: true}},
	})
	if err == nil {
		t.Fatal("expected an error for duplicate fingerprint")
	}
	f, ok := err.(*fault.Fault)
	if !ok || f.Kind != fault.InternalInvariant {
		t.Errorf("expected InternalInvariant fault, got %v", err)
	}
}

func TestLookup_Unknown(t *testing.T) {
	snap := testSnapshot(t)
	_, err := snap.Lookup("does-not-exist")
	if err == nil {
		t.Fatal("expected UnknownRelay error")
	}
	f, ok := err.(*fault.Fault)
	if !ok || f.Kind != fault.UnknownRelay {
		t.Errorf("expected UnknownRelay fault, got %v", err)
	}
}

func TestGuardProbability(t *testing.T) {
	snap := testSnapshot(t)
	// total guard weight = 100 + 300 = 400
	p := snap.GuardProbability("G1")
	if p != 0.25 {
		t.Errorf("GuardProbability(G1) = %v, want 0.25", p)
	}
	if snap.GuardProbability("X1") != 0 {
		t.Errorf("expected 0 guard probability for a non-guard relay")
	}
	if snap.GuardProbability("missing") != 0 {
		t.Errorf("expected 0 guard probability for unknown fingerprint")
	}
}

func TestExitProbability(t *testing.T) {
	snap := testSnapshot(t)
	// total exit weight = 50 + 50 = 100
	p := snap.ExitProbability("X1")
	if p != 0.5 {
		t.Errorf("ExitProbability(X1) = %v, want 0.5", p)
	}
	if snap.ExitProbability("G1") != 0 {
		t.Errorf("expected 0 exit probability for a non-exit relay")
	}
	if snap.ExitProbability("missing") != 0 {
		t.Errorf("expected 0 exit probability for unknown fingerprint")
	}
}

func TestPathFeasible(t *testing.T) {
	snap := testSnapshot(t)

	if ok, _ := snap.PathFeasible("G1", "X1"); !ok {
		t.Error("expected G1 -> X1 to be feasible (distinct /16)")
	}
	if ok, reason := snap.PathFeasible("G1", "X2"); ok {
		t.Errorf("expected G1 -> X2 to be infeasible (same /16), got reason %q", reason)
	}
	if ok, _ := snap.PathFeasible("X1", "X2"); ok {
		t.Error("expected X1 -> X2 infeasible: X1 lacks guard capability")
	}
	if ok, _ := snap.PathFeasible("G1", "G2"); ok {
		t.Error("expected G1 -> G2 infeasible: G2 lacks exit capability")
	}
	if ok, _ := snap.PathFeasible("G1", "unknown"); ok {
		t.Error("expected infeasible for unknown exit fingerprint")
	}
}
