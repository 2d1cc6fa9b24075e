package correlate

import (
	"context"
	"sort"

	"github.com/rawblock/relay-correlate/internal/fault"
	"github.com/rawblock/relay-correlate/internal/signal"
	"github.com/rawblock/relay-correlate/internal/topology"
)

// Assembler is the Pair Assembler of spec.md §4.3: it iterates
// candidate (entry, exit) pairs, applies the time-window and
// path-feasibility pre-filter, scores survivors with the three signal
// functions, and emits SessionPairs above the confidence threshold.
//
// Grounded on llr_engine.go's candidate→gate→score→emit shape.
type Assembler struct {
	Snapshot *topology.Snapshot
	Profile  WeightProfile
	Tracker  *RepetitionTracker
	Config   Config
}

// NewAssembler wires a Snapshot, WeightProfile, and Config into an
// Assembler with its own RepetitionTracker. Per spec.md §5, each
// concurrent run must own its tracker unless the caller explicitly
// wants to share one across runs (pass a pre-built tracker via
// Assembler{Tracker: shared, ...} instead of this constructor).
func NewAssembler(snap *topology.Snapshot, profile WeightProfile, cfg Config) (*Assembler, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &Assembler{
		Snapshot: snap,
		Profile:  profile,
		Tracker:  NewRepetitionTracker(cfg),
		Config:   cfg,
	}, nil
}

// Run executes one correlation pass over entries and exits. It
// returns the emitted SessionPairs in candidate-sweep order (use Rank
// for the deterministic ranked order spec.md §4.3 requires of
// callers that want one) plus run statistics.
//
// InputValidation and InternalInvariant faults are returned as a Go
// error, as is an UnknownRelay fault when Config.StrictUnknownRelay is
// set, and ctx.Err() when the context is cancelled. UnknownRelay in
// lenient mode, BelowThreshold, and Infeasible outcomes are recorded
// in RunStats and never raise.
func (a *Assembler) Run(ctx context.Context, entries, exits []Observation) ([]SessionPair, RunStats, error) {
	var stats RunStats

	if err := checkDuplicateIDs(entries, exits); err != nil {
		return nil, stats, err
	}
	if err := checkObservationTypes(entries, EntryObserved); err != nil {
		return nil, stats, err
	}
	if err := checkObservationTypes(exits, ExitObserved); err != nil {
		return nil, stats, err
	}
	if err := checkNonNegativeBytes(entries); err != nil {
		return nil, stats, err
	}
	if err := checkNonNegativeBytes(exits); err != nil {
		return nil, stats, err
	}

	// Every observation increments its repetition pattern key before
	// correlation runs, per spec.md §4.4.
	for _, e := range entries {
		a.Tracker.Record(e)
	}
	for _, x := range exits {
		a.Tracker.Record(x)
	}

	sortedEntries := append([]Observation(nil), entries...)
	sortedExits := append([]Observation(nil), exits...)
	sort.Slice(sortedEntries, func(i, j int) bool { return sortedEntries[i].TimestampUs < sortedEntries[j].TimestampUs })
	sort.Slice(sortedExits, func(i, j int) bool { return sortedExits[i].TimestampUs < sortedExits[j].TimestampUs })

	windowUs := int64(a.Config.CorrelationWindowSeconds * 1e6)

	var pairs []SessionPair

	// Two-pointer sweep: for each entry, only exits within the time
	// window are candidates. Semantics are unchanged from the naive
	// E×X cross product (spec.md §4.3 point 1); this is the sweep
	// acceleration it explicitly allows.
	lo := 0
	for _, e := range sortedEntries {
		if err := ctx.Err(); err != nil {
			// Cancellation between candidates: partial results are not
			// emitted, per spec.md §5.
			return nil, RunStats{}, err
		}

		for lo < len(sortedExits) && sortedExits[lo].TimestampUs < e.TimestampUs-windowUs {
			lo++
		}
		for i := lo; i < len(sortedExits); i++ {
			x := sortedExits[i]
			if x.TimestampUs > e.TimestampUs+windowUs {
				break
			}
			stats.CandidatesConsidered++

			pair, outcome, err := a.scoreCandidate(e, x)
			if err != nil {
				return nil, RunStats{}, err
			}
			switch outcome {
			case outcomeUnknownRelay:
				stats.RejectedUnknownRelay++
			case outcomeInfeasible:
				stats.RejectedInfeasible++
			case outcomeBelowThreshold:
				stats.RejectedBelowThresh++
			case outcomeEmitted:
				stats.Emitted++
				pairs = append(pairs, pair)
			}
		}
	}

	return pairs, stats, nil
}

// RunRanked runs the assembler and returns the pairs in the
// deterministic ranked order spec.md §4.3 specifies: final
// descending, then |Δt| ascending, then pair id lexicographically.
func (a *Assembler) RunRanked(ctx context.Context, entries, exits []Observation) ([]SessionPair, RunStats, error) {
	pairs, stats, err := a.Run(ctx, entries, exits)
	if err != nil {
		return nil, stats, err
	}
	Rank(pairs)
	return pairs, stats, nil
}

// Rank sorts pairs in place using the deterministic order from
// spec.md §4.3: final descending, |Δt| ascending, pair id
// lexicographically. Callers that want a ranked list call this
// directly on pairs assembled independently of Run.
func Rank(pairs []SessionPair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].FinalCorrelation != pairs[j].FinalCorrelation {
			return pairs[i].FinalCorrelation > pairs[j].FinalCorrelation
		}
		di := absDeltaUs(pairs[i])
		dj := absDeltaUs(pairs[j])
		if di != dj {
			return di < dj
		}
		return pairs[i].PairID < pairs[j].PairID
	})
}

func absDeltaUs(p SessionPair) int64 {
	d := p.Exit.TimestampUs - p.Entry.TimestampUs
	if d < 0 {
		return -d
	}
	return d
}

type candidateOutcome int

const (
	outcomeEmitted candidateOutcome = iota
	outcomeUnknownRelay
	outcomeInfeasible
	outcomeBelowThreshold
)

// scoreCandidate runs steps 2-8 of spec.md §4.3 for one (entry, exit)
// candidate already known to fall inside the time window.
func (a *Assembler) scoreCandidate(e, x Observation) (SessionPair, candidateOutcome, error) {
	entryRelay, entryOk := a.Snapshot.TryLookup(e.RelayFP)
	exitRelay, exitOk := a.Snapshot.TryLookup(x.RelayFP)

	if !entryOk || !exitOk {
		if a.Config.StrictUnknownRelay {
			missing := e.RelayFP
			if entryOk {
				missing = x.RelayFP
			}
			return SessionPair{}, outcomeUnknownRelay, fault.New(fault.UnknownRelay, missing, "unresolved relay in strict mode")
		}
		return SessionPair{}, outcomeUnknownRelay, nil
	}

	// Invariant: entry relay must be guard-capable, exit relay must be
	// exit-capable (spec.md §3). A violation here is a rejected input,
	// not a runtime error, so it folds into the infeasible outcome.
	if !entryRelay.Has(topology.Guard) || !exitRelay.Has(topology.Exit) {
		return SessionPair{}, outcomeInfeasible, nil
	}

	if feasible, _ := a.Snapshot.PathFeasible(e.RelayFP, x.RelayFP); !feasible {
		return SessionPair{}, outcomeInfeasible, nil
	}

	sT, explT := signal.TimeCorrelation(e.TimestampUs, x.TimestampUs, a.Config.CorrelationWindowSeconds)
	sV, explV := signal.VolumeSimilarity(e.Bytes, x.Bytes)
	sP, explP := signal.PatternSimilarity(e.PacketTimingsMs, x.PacketTimingsMs)

	bd := ScoreBreakdown{
		Time:    SignalBreakdown{Score: sT, Weight: a.Profile.WTime, Contribution: a.Profile.WTime * sT, Reasoning: explT},
		Volume:  SignalBreakdown{Score: sV, Weight: a.Profile.WVolume, Contribution: a.Profile.WVolume * sV, Reasoning: explV},
		Pattern: SignalBreakdown{Score: sP, Weight: a.Profile.WPattern, Contribution: a.Profile.WPattern * sP, Reasoning: explP},
	}
	bd.Base = bd.Time.Contribution + bd.Volume.Contribution + bd.Pattern.Contribution

	boost := a.Tracker.CombinedBoost(e, x)
	bd.RepetitionBoost = boost
	final := bd.Base * (1 + (boost-1)*0.5)
	if final > 100 {
		final = 100
	}
	bd.Final = final

	if final < a.Config.MinConfidenceThreshold {
		return SessionPair{}, outcomeBelowThreshold, nil
	}

	guardConfidence := 0.7*final + 0.3*(100*a.Snapshot.GuardProbability(e.RelayFP))

	rb := newReasoningBuilder()
	rb.add(pairingPreamble(e, x))
	rb.add(explT)
	rb.add(explV)
	rb.add(explP)
	rb.add(compositeSentence(a.Profile, bd))
	rb.add(repetitionSentence(boost))
	rb.add(guardSentence(e.RelayFP, guardConfidence))
	rb.add(verdictSentence(final))

	pair := SessionPair{
		PairID:           e.ID + "_" + x.ID,
		Entry:            e,
		Exit:             x,
		BaseCorrelation:  bd.Base,
		RepetitionBoost:  boost,
		FinalCorrelation: final,
		GuardFingerprint: e.RelayFP,
		GuardConfidence:  guardConfidence,
		Reasoning:        rb.build(),
		ScoreBreakdown:   bd,
	}
	return pair, outcomeEmitted, nil
}

func checkDuplicateIDs(entries, exits []Observation) error {
	seen := make(map[string]bool, len(entries)+len(exits))
	for _, o := range entries {
		if seen[o.ID] {
			return fault.New(fault.InternalInvariant, o.ID, "duplicate observation id")
		}
		seen[o.ID] = true
	}
	for _, o := range exits {
		if seen[o.ID] {
			return fault.New(fault.InternalInvariant, o.ID, "duplicate observation id")
		}
		seen[o.ID] = true
	}
	return nil
}

func checkObservationTypes(obs []Observation, want ObservationType) error {
	for _, o := range obs {
		if o.Type != want {
			return fault.New(fault.InputValidation, o.ID, "observation type does not match its list ("+string(want)+" expected)")
		}
	}
	return nil
}

// checkNonNegativeBytes enforces the non-negative byte-volume
// invariant from spec.md §3: a negative volume is an InputValidation
// fault surfaced to the caller, not a value that flows into
// signal.VolumeSimilarity.
func checkNonNegativeBytes(obs []Observation) error {
	for _, o := range obs {
		if o.Bytes < 0 {
			return fault.New(fault.InputValidation, o.ID, "negative bytes")
		}
	}
	return nil
}
