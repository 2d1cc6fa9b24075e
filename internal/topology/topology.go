// Package topology holds the time-stamped read model of the relay
// network the correlation engine scores observations against.
//
// A Snapshot is built once by an external fetcher (out of scope here,
// per spec.md §1) and handed to the engine frozen: no writer runs
// during a correlation pass, so every query below is safe for
// unrestricted concurrent readers.
//
// Grounded on cluster_engine.go's map-backed lookup style, adapted
// from mutable union-find state to an immutable read model.
package topology

import (
	"fmt"

	"github.com/rawblock/relay-correlate/internal/fault"
)

// Capability is one of the roles a relay can advertise.
type Capability string

const (
	Guard  Capability = "guard"
	Exit   Capability = "exit"
	Middle Capability = "middle"
)

// Relay describes one node of the overlay network as published in the
// consensus the fetcher downloaded.
type Relay struct {
	Fingerprint     string
	Capabilities    map[Capability]bool
	ConsensusWeight float64
	Subnet16        string
	ASNumber        int
	Country         string
	Status          string
}

func (r Relay) Has(c Capability) bool {
	return r.Capabilities[c]
}

// Snapshot is an immutable mapping fingerprint → Relay plus the
// aggregate guard/exit weight totals needed for selection-probability
// queries. Build once with NewSnapshot; never mutated afterward.
type Snapshot struct {
	relays           map[string]Relay
	guardWeightTotal float64
	exitWeightTotal  float64
}

// NewSnapshot builds an immutable snapshot from a flat relay list.
// A duplicate fingerprint is an InternalInvariant violation: the
// fetcher is expected to have already deduplicated its input, so
// seeing one here indicates a bug upstream, not a data outcome.
func NewSnapshot(relays []Relay) (*Snapshot, error) {
	s := &Snapshot{relays: make(map[string]Relay, len(relays))}
	for _, r := range relays {
		if _, exists := s.relays[r.Fingerprint]; exists {
			return nil, fault.New(fault.InternalInvariant, r.Fingerprint, "duplicate relay fingerprint in snapshot")
		}
		s.relays[r.Fingerprint] = r
		if r.Has(Guard) {
			s.guardWeightTotal += r.ConsensusWeight
		}
		if r.Has(Exit) {
			s.exitWeightTotal += r.ConsensusWeight
		}
	}
	return s, nil
}

// Lookup resolves a fingerprint or returns an UnknownRelay fault.
func (s *Snapshot) Lookup(fp string) (Relay, error) {
	r, ok := s.relays[fp]
	if !ok {
		return Relay{}, fault.New(fault.UnknownRelay, fp, "fingerprint not present in topology snapshot")
	}
	return r, nil
}

// TryLookup is the lenient-mode counterpart of Lookup: it never
// allocates an error, for call sites that only need the boolean.
func (s *Snapshot) TryLookup(fp string) (Relay, bool) {
	r, ok := s.relays[fp]
	return r, ok
}

// GuardProbability returns P_guard(r) = weight(r) / Σ weight(r') over
// all guard-capable relays in the snapshot. 0 if fp is unknown, not
// guard-capable, or the snapshot has no guard-capable relay at all.
func (s *Snapshot) GuardProbability(fp string) float64 {
	r, ok := s.relays[fp]
	if !ok || !r.Has(Guard) || s.guardWeightTotal <= 0 {
		return 0
	}
	return r.ConsensusWeight / s.guardWeightTotal
}

// ExitProbability is the exit-side analogue of GuardProbability,
// exposed for callers that want the same selection-probability query
// on the exit side (the scoring contract in spec.md §4.3 only uses
// the guard side, but the read model is symmetric by construction).
func (s *Snapshot) ExitProbability(fp string) float64 {
	r, ok := s.relays[fp]
	if !ok || !r.Has(Exit) || s.exitWeightTotal <= 0 {
		return 0
	}
	return r.ConsensusWeight / s.exitWeightTotal
}

// PathFeasible tests whether a hypothesized (guard, ..., exit) path is
// structurally possible: the guard relay must have the guard flag, the
// exit relay must have the exit flag, and the two must not share a
// /16 subnet. Returns the verdict plus a one-line reason, the same
// (bool, explanation) shape the signal functions use for scores.
func (s *Snapshot) PathFeasible(guardFP, exitFP string) (bool, string) {
	guard, ok := s.relays[guardFP]
	if !ok {
		return false, fmt.Sprintf("unknown relay %s", guardFP)
	}
	exit, ok := s.relays[exitFP]
	if !ok {
		return false, fmt.Sprintf("unknown relay %s", exitFP)
	}
	if !guard.Has(Guard) {
		return false, fmt.Sprintf("%s lacks guard capability", guardFP)
	}
	if !exit.Has(Exit) {
		return false, fmt.Sprintf("%s lacks exit capability", exitFP)
	}
	if guard.Subnet16 != "" && guard.Subnet16 == exit.Subnet16 {
		return false, "guard and exit share a /16 subnet"
	}
	return true, "guard and exit capabilities satisfied, subnets distinct"
}

// Size returns the number of relays held in the snapshot.
func (s *Snapshot) Size() int {
	return len(s.relays)
}
