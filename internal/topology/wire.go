package topology

// RelayRecord is the external, JSON-serializable shape of a relay as
// delivered by the fetcher (spec.md §6): { fingerprint, flags[],
// consensus_weight, subnet16, as_number?, country? }. Decoupled from
// Relay itself so the engine's internal capability-set representation
// (a map, for O(1) Has checks) doesn't leak into the wire format.
type RelayRecord struct {
	Fingerprint     string   `json:"fingerprint"`
	Flags           []string `json:"flags"`
	ConsensusWeight float64  `json:"consensus_weight"`
	Subnet16        string   `json:"subnet16"`
	ASNumber        int      `json:"as_number,omitempty"`
	Country         string   `json:"country,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// ToRelay converts a wire record into the engine's internal Relay
// representation.
func (r RelayRecord) ToRelay() Relay {
	caps := make(map[Capability]bool, len(r.Flags))
	for _, f := range r.Flags {
		caps[Capability(f)] = true
	}
	return Relay{
		Fingerprint:     r.Fingerprint,
		Capabilities:    caps,
		ConsensusWeight: r.ConsensusWeight,
		Subnet16:        r.Subnet16,
		ASNumber:        r.ASNumber,
		Country:         r.Country,
		Status:          r.Status,
	}
}

// NewSnapshotFromRecords builds a Snapshot directly from the wire
// format, for callers (the CLI entrypoint, tests) that load a relay
// list from JSON rather than constructing Relay values by hand.
func NewSnapshotFromRecords(records []RelayRecord) (*Snapshot, error) {
	relays := make([]Relay, len(records))
	for i, r := range records {
		relays[i] = r.ToRelay()
	}
	return NewSnapshot(relays)
}
