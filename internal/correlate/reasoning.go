package correlate

import "fmt"

// reasoningBuilder accumulates the ordered, human-readable audit trail
// attached to a single SessionPair's lifetime. It is never shared
// across pairs — each call site owns its own instance and yields a
// fresh slice, per spec.md §9.
type reasoningBuilder struct {
	lines []string
}

func newReasoningBuilder() *reasoningBuilder {
	return &reasoningBuilder{lines: make([]string, 0, 8)}
}

func (b *reasoningBuilder) add(line string) {
	b.lines = append(b.lines, line)
}

func (b *reasoningBuilder) build() []string {
	return b.lines
}

// pairingPreamble is the first reasoning line for every emitted pair.
func pairingPreamble(entry, exit Observation) string {
	return fmt.Sprintf("candidate pairing: entry %s (relay %s) with exit %s (relay %s)",
		entry.ID, entry.RelayFP, exit.ID, exit.RelayFP)
}

// compositeSentence names the profile and states each weighted
// contribution — spec.md §4.3 point 8.
func compositeSentence(profile WeightProfile, bd ScoreBreakdown) string {
	sentence := fmt.Sprintf(
		"composite score under %q profile: time %.1f*%.2f=%.1f, volume %.1f*%.2f=%.1f, pattern %.1f*%.2f=%.1f, base=%.1f",
		profile.Name,
		bd.Time.Score, bd.Time.Weight, bd.Time.Contribution,
		bd.Volume.Score, bd.Volume.Weight, bd.Volume.Contribution,
		bd.Pattern.Score, bd.Pattern.Weight, bd.Pattern.Contribution,
		bd.Base,
	)
	if profile.Name == "custom" && profile.Meta.Description != "" {
		sentence += fmt.Sprintf(" (case %s: %s)", profile.Meta.CaseID, profile.Meta.Description)
	}
	return sentence
}

func repetitionSentence(boost float64) string {
	if boost <= 1.0 {
		return "no repetition boost applied"
	}
	return fmt.Sprintf("repetition boost %.2fx applied (soft-applied at 50%%)", boost)
}

func guardSentence(guardFP string, guardConfidence float64) string {
	return fmt.Sprintf("hypothesized guard relay %s, guard confidence %.1f", guardFP, guardConfidence)
}

func verdictSentence(final float64) string {
	bucket := BucketFor(final)
	return fmt.Sprintf("verdict: %s confidence (final=%.1f)", bucket, final)
}
