package molecule

import (
	"math/bits"

	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
)

// ─────────────────────────────────────────────────────────────
// Similarity coefficients
// ─────────────────────────────────────────────────────────────

// Tanimoto returns the Jaccard index of two fingerprints, the ratio of
// shared set bits to bits set in either.  Two empty fingerprints score
// zero.
func Tanimoto(a, b *Fingerprint) (float64, error) {
	if a.Length != b.Length {
		return 0, apperrors.InvalidParam("fingerprints have different lengths")
	}
	intersection, union := 0, 0
	for i := range a.Bits {
		intersection += bits.OnesCount8(a.Bits[i] & b.Bits[i])
		union += bits.OnesCount8(a.Bits[i] | b.Bits[i])
	}
	if union == 0 {
		return 0, nil
	}
	return float64(intersection) / float64(union), nil
}

// Dice returns the Sørensen-Dice coefficient of two fingerprints.
func Dice(a, b *Fingerprint) (float64, error) {
	if a.Length != b.Length {
		return 0, apperrors.InvalidParam("fingerprints have different lengths")
	}
	intersection := 0
	for i := range a.Bits {
		intersection += bits.OnesCount8(a.Bits[i] & b.Bits[i])
	}
	total := a.NumOnBits + b.NumOnBits
	if total == 0 {
		return 0, nil
	}
	return 2 * float64(intersection) / float64(total), nil
}

// ─────────────────────────────────────────────────────────────
// Score classification
// ─────────────────────────────────────────────────────────────

const (
	ThresholdIdentical          = 0.99
	ThresholdHighSimilarity     = 0.85
	ThresholdModerateSimilarity = 0.70
	ThresholdLowSimilarity      = 0.50
)

// ClassifySimilarity maps a similarity score to a coarse label.
func ClassifySimilarity(score float64) string {
	switch {
	case score >= ThresholdIdentical:
		return "identical"
	case score >= ThresholdHighSimilarity:
		return "high"
	case score >= ThresholdModerateSimilarity:
		return "moderate"
	case score >= ThresholdLowSimilarity:
		return "low"
	default:
		return "dissimilar"
	}
}
