// Package signal implements the three pure scoring functions the
// correlation engine combines into a composite confidence: time
// correlation, volume similarity, and pattern similarity.
//
// Every function here is side-effect-free and returns (score,
// explanation) — the explanation is propagated verbatim into the
// audit trail, so it is part of the contract and never collapsed to a
// single numeric return. Grounded on the predecessor's pure-function
// signal style (computeGiniCoefficient, AnalyzeTimingSignals).
package signal

import "math"

// DefaultCorrelationWindowSeconds is the default Δ clip for the time
// signal (spec.md §6, correlation_window_seconds).
const DefaultCorrelationWindowSeconds = 300.0

// TimeCorrelation scores how plausible it is that two observations
// Δt apart, in microseconds, belong to the same session. Beyond the
// window the score is hard-clipped to zero. The score is monotonically
// non-increasing in Δ.
func TimeCorrelation(tEntryUs, tExitUs int64, windowSeconds float64) (float64, string) {
	if windowSeconds <= 0 {
		windowSeconds = DefaultCorrelationWindowSeconds
	}
	deltaUs := tExitUs - tEntryUs
	if deltaUs < 0 {
		deltaUs = -deltaUs
	}
	deltaSeconds := float64(deltaUs) / 1e6

	if deltaSeconds > windowSeconds {
		return 0, "outside correlation window"
	}

	score := 100 * math.Exp(-deltaSeconds/windowSeconds)

	var bucket string
	switch {
	case deltaSeconds <= 1:
		bucket = "nearly simultaneous"
	case deltaSeconds <= 10:
		bucket = "closely aligned"
	case deltaSeconds <= 60:
		bucket = "within typical latency variance"
	default:
		bucket = "loose correlation"
	}
	return score, bucket
}

// VolumeSimilarity scores how close two non-negative byte volumes are
// to each other, symmetric in its two arguments.
func VolumeSimilarity(vEntry, vExit int64) (float64, string) {
	if vEntry == 0 && vExit == 0 {
		return 0, "no volume data"
	}

	lo, hi := vEntry, vExit
	if lo > hi {
		lo, hi = hi, lo
	}
	score := 100 * float64(lo) / float64(hi)

	diffRatio := float64(hi-lo) / float64(hi)
	var bucket string
	switch {
	case diffRatio <= 0.05:
		bucket = "nearly identical"
	case diffRatio <= 0.20:
		bucket = "similar within TOR overhead"
	case diffRatio <= 1.00:
		bucket = "moderate difference"
	default:
		bucket = "significant volume difference"
	}
	return score, bucket
}

// neutralPatternScore is returned when either observation lacks
// packet-timing data: absence of data is not evidence either way.
const neutralPatternScore = 50.0

// PatternSimilarity scores how similar two packet-timing sequences
// (inter-arrival deltas in milliseconds) are. Symmetric in its two
// arguments; either (or both) may be nil/empty, in which case the
// function returns the neutral score rather than penalizing the pair.
func PatternSimilarity(entry, exit []float64) (float64, string) {
	if len(entry) == 0 || len(exit) == 0 {
		return neutralPatternScore, "pattern data unavailable"
	}

	countRatio := ratio(len(entry), len(exit))

	meanEntry := mean(entry)
	meanExit := mean(exit)
	meanDiffNorm := normalizedDiff(meanEntry, meanExit)

	stdEntry := stddev(entry, meanEntry)
	stdExit := stddev(exit, meanExit)
	stdDiffNorm := normalizedDiff(stdEntry, stdExit)

	meanScore := 1 - meanDiffNorm
	stdScore := 1 - stdDiffNorm

	composite := (countRatio + meanScore + stdScore) / 3
	score := 100 * clamp01(composite)

	return score, "packet-timing sequences compared"
}

func ratio(a, b int) float64 {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi == 0 {
		return 1
	}
	return float64(lo) / float64(hi)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, m float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// normalizedDiff maps |a-b| into [0,1] using max(a,b,1) as the scale so
// a pair of zero-valued sequences doesn't divide by zero.
func normalizedDiff(a, b float64) float64 {
	scale := math.Max(math.Max(a, b), 1)
	return clamp01(math.Abs(a-b) / scale)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
