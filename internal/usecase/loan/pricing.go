package loan

import (
	"peervest/internal/domain/credit"
)

// Linear risk adjustment around the score midpoint: a midpoint score keeps
// the requested rate, the floor score adds maxAdjustmentBps, the ceiling
// score subtracts it. The result is clamped into the platform rate window.
const (
	scoreMidpoint    = (credit.MinScore + credit.MaxScore) / 2 // 575
	scoreHalfRange   = (credit.MaxScore - credit.MinScore) / 2 // 275
	maxAdjustmentBps = 400
)

// adjustRate prices a loan off the borrower's credit score. Monotonic:
// higher score, lower rate. Clamped to [minRateBps, maxRateBps].
func adjustRate(requestedBps int64, score int, minRateBps, maxRateBps int64) int64 {
	delta := int64(scoreMidpoint-score) * maxAdjustmentBps / scoreHalfRange
	adjusted := requestedBps + delta
	if adjusted < minRateBps {
		return minRateBps
	}
	if adjusted > maxRateBps {
		return maxRateBps
	}
	return adjusted
}
