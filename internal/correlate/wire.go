package correlate

// ObservationRecord is the external, JSON-serializable shape of an
// observation as delivered by an observation source (spec.md §6):
// { id, timestamp_us, type, relay_fingerprint, bytes, packet_timings? }.
type ObservationRecord struct {
	ID              string    `json:"id"`
	TimestampUs     int64     `json:"timestamp_us"`
	Type            string    `json:"type"` // "entry_observed"/"exit_observed"
	RelayFP         string    `json:"relay_fingerprint"`
	Bytes           int64     `json:"bytes"`
	PacketTimingsMs []float64 `json:"packet_timings,omitempty"`
}

// ToObservation converts a wire record into the engine's internal
// Observation representation.
func (r ObservationRecord) ToObservation() Observation {
	return Observation{
		ID:              r.ID,
		TimestampUs:     r.TimestampUs,
		Type:            ObservationType(r.Type),
		RelayFP:         r.RelayFP,
		Bytes:           r.Bytes,
		PacketTimingsMs: r.PacketTimingsMs,
	}
}

// ToObservations is a convenience batch conversion.
func ToObservations(records []ObservationRecord) []Observation {
	out := make([]Observation, len(records))
	for i, r := range records {
		out[i] = r.ToObservation()
	}
	return out
}
