// Command correlate runs one Pair Assembler / Cluster Builder pass
// over a relay topology snapshot and two observation lists loaded
// from JSON files, and writes the scored pairs and clusters to
// stdout. It performs no network I/O: the fetcher, the HTTP surface,
// and persistence are out of scope for this repository (spec.md §1).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rawblock/relay-correlate/internal/correlate"
	"github.com/rawblock/relay-correlate/internal/topology"
)

func main() {
	log.Println("Starting Relay Correlation Engine...")

	topologyPath := flag.String("topology", "", "path to a JSON array of relay records")
	entriesPath := flag.String("entries", "", "path to a JSON array of entry observation records")
	exitsPath := flag.String("exits", "", "path to a JSON array of exit observation records")
	configPath := flag.String("config", "", "optional path to a YAML config overriding the defaults")
	profileName := flag.String("profile", "", "override default_weight_profile from config")
	explain := flag.Bool("explain", false, "print a human-readable reasoning report instead of JSON")
	flag.Parse()

	if *topologyPath == "" || *entriesPath == "" || *exitsPath == "" {
		log.Fatalf("FATAL: -topology, -entries, and -exits are all required")
	}

	cfg, err := correlate.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("FATAL: failed to load config: %v", err)
	}
	if *profileName != "" {
		cfg.DefaultProfileName = *profileName
	}

	records := requireJSON[topology.RelayRecord](*topologyPath)
	snap, err := topology.NewSnapshotFromRecords(records)
	if err != nil {
		log.Fatalf("FATAL: failed to build topology snapshot: %v", err)
	}
	log.Printf("Loaded topology snapshot: %d relays", snap.Size())

	entries := correlate.ToObservations(requireJSON[correlate.ObservationRecord](*entriesPath))
	exits := correlate.ToObservations(requireJSON[correlate.ObservationRecord](*exitsPath))
	log.Printf("Loaded %d entry observations, %d exit observations", len(entries), len(exits))

	assembler, err := correlate.NewAssembler(snap, cfg.Profile(), cfg)
	if err != nil {
		log.Fatalf("FATAL: invalid weight profile: %v", err)
	}

	pairs, stats, err := assembler.RunRanked(context.Background(), entries, exits)
	if err != nil {
		log.Fatalf("Correlation run failed: %v", err)
	}
	log.Printf("Run complete: %d candidates considered, %d emitted, %d below threshold, %d infeasible, %d unknown relay",
		stats.CandidatesConsidered, stats.Emitted, stats.RejectedBelowThresh, stats.RejectedInfeasible, stats.RejectedUnknownRelay)

	clusters := correlate.BuildClusters(pairs, cfg.MinClusterObservations)
	log.Printf("Formed %d clusters", len(clusters))

	if *explain {
		printExplainReport(snap, pairs, clusters)
		return
	}

	out := struct {
		Pairs    []correlate.SessionPair        `json:"pairs"`
		Clusters []correlate.CorrelationCluster `json:"clusters"`
		Stats    correlate.RunStats             `json:"stats"`
	}{pairs, clusters, stats}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("FATAL: failed to encode output: %v", err)
	}
}

// printExplainReport renders every emitted pair and cluster as a
// human-readable analyst report via correlate.ExplainPair/ExplainCluster,
// for -explain mode instead of the default JSON output. Each pair's
// report is followed by the guard and exit relays' selection
// probabilities straight from the topology snapshot, since an analyst
// reading a single hypothesis wants to know how likely that relay was
// to have been chosen in the first place, not just how well the two
// observations correlate.
func printExplainReport(snap *topology.Snapshot, pairs []correlate.SessionPair, clusters []correlate.CorrelationCluster) {
	for _, p := range pairs {
		os.Stdout.WriteString(correlate.ExplainPair(p))
		fmt.Printf("  selection probability: guard %s p=%.4f, exit %s p=%.4f\n\n",
			p.Entry.RelayFP, snap.GuardProbability(p.Entry.RelayFP),
			p.Exit.RelayFP, snap.ExitProbability(p.Exit.RelayFP))
	}
	for _, c := range clusters {
		os.Stdout.WriteString(correlate.ExplainCluster(c) + "\n")
	}
}

// requireJSON reads and decodes a JSON array from path, exiting the
// process on any failure — mirroring requireEnv's fail-fast posture
// for required inputs.
func requireJSON[T any](path string) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("FATAL: failed to read %s: %v", path, err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		log.Fatalf("FATAL: failed to parse %s: %v", path, err)
	}
	return records
}
