package correlate

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// BuildClusters groups accepted SessionPairs by hypothesized guard
// fingerprint and emits a CorrelationCluster for every group with at
// least minObservations pairs. Groups below the threshold are
// discarded — this is a BelowThreshold outcome, not an error, per
// spec.md §4.5.
//
// Grounded on cluster_engine.go's grouping/statistics split, adapted
// from union-find over addresses to a direct group-by since the
// grouping key (guard fingerprint) is already a single field on each
// SessionPair — no disjoint-set structure is needed to discover it.
func BuildClusters(pairs []SessionPair, minObservations int) []CorrelationCluster {
	groups := make(map[string][]SessionPair)
	for _, p := range pairs {
		groups[p.GuardFingerprint] = append(groups[p.GuardFingerprint], p)
	}

	guardFPs := make([]string, 0, len(groups))
	for fp := range groups {
		guardFPs = append(guardFPs, fp)
	}
	sort.Strings(guardFPs)

	var clusters []CorrelationCluster
	for _, fp := range guardFPs {
		group := groups[fp]
		if len(group) < minObservations {
			continue
		}

		sum := 0.0
		pairIDs := make([]string, len(group))
		for i, p := range group {
			sum += p.FinalCorrelation
			pairIDs[i] = p.PairID
		}
		sort.Strings(pairIDs)

		consistency := sum / float64(len(group))
		persistence := 10 * float64(len(group))
		if persistence > 100 {
			persistence = 100
		}
		confidence := 0.6*consistency + 0.4*persistence

		clusters = append(clusters, CorrelationCluster{
			ID:                clusterID(fp, pairIDs),
			PairIDs:           pairIDs,
			GuardFingerprints: []string{fp},
			ObservationCount:  len(group),
			ConsistencyScore:  consistency,
			GuardPersistence:  persistence,
			ClusterConfidence: confidence,
		})
	}

	return clusters
}

// clusterID derives a deterministic cluster identifier from the
// guard fingerprint and the group's sorted pair ids, so that two
// runs over identical input produce byte-identical cluster records
// (spec.md §8's determinism property). pairIDs is already sorted by
// the caller. Grounded on llr_engine.go's auditHash pattern
// (sha256 over a joined payload, hex-encoded) rather than uuid.New(),
// which the predecessor reserves for run-scoped, non-deterministic
// identifiers.
func clusterID(guardFP string, pairIDs []string) string {
	h := sha256.Sum256([]byte(guardFP + "|" + strings.Join(pairIDs, ",")))
	return hex.EncodeToString(h[:])
}
