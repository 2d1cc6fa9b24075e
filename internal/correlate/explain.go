package correlate

import (
	"fmt"
	"strings"
)

// ExplainPair renders a SessionPair's reasoning and score breakdown as
// a multi-line human-readable report, for analysts reviewing a single
// hypothesis outside of a JSON payload. This generalizes the
// predecessor's JSON-tagged ScoreBreakdown into prose; nothing in the
// retrieved corpus renders prose directly, so the format here follows
// the pair's own reasoning field rather than a borrowed template.
func ExplainPair(pair SessionPair) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session pair %s — final correlation %.1f (%s)\n", pair.PairID, pair.FinalCorrelation, BucketFor(pair.FinalCorrelation))
	fmt.Fprintf(&b, "  entry %s @ t=%d relay=%s bytes=%d\n", pair.Entry.ID, pair.Entry.TimestampUs, pair.Entry.RelayFP, pair.Entry.Bytes)
	fmt.Fprintf(&b, "  exit  %s @ t=%d relay=%s bytes=%d\n", pair.Exit.ID, pair.Exit.TimestampUs, pair.Exit.RelayFP, pair.Exit.Bytes)
	b.WriteString("  reasoning:\n")
	for _, line := range pair.Reasoning {
		fmt.Fprintf(&b, "    - %s\n", line)
	}
	bd := pair.ScoreBreakdown
	fmt.Fprintf(&b, "  breakdown: time=%.1f(w=%.2f) volume=%.1f(w=%.2f) pattern=%.1f(w=%.2f) base=%.1f boost=%.2fx final=%.1f\n",
		bd.Time.Score, bd.Time.Weight, bd.Volume.Score, bd.Volume.Weight, bd.Pattern.Score, bd.Pattern.Weight,
		bd.Base, bd.RepetitionBoost, bd.Final)
	return b.String()
}

// ExplainCluster renders a CorrelationCluster as a one-line summary.
func ExplainCluster(c CorrelationCluster) string {
	return fmt.Sprintf("cluster %s — guard(s) %v, %d observations, consistency=%.1f persistence=%.1f confidence=%.1f",
		c.ID, c.GuardFingerprints, c.ObservationCount, c.ConsistencyScore, c.GuardPersistence, c.ClusterConfidence)
}
