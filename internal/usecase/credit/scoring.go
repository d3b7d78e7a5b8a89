package credit

import (
	domain "peervest/internal/domain/credit"
)

// Additive scoring model. Each input contributes a capped number of points
// on top of the floor; prior defaults carry the dominant negative weight.
// The result is clamped to [MinScore, MaxScore].
const (
	incomePointsCap     = 180
	incomePerPoint      = 10_000 // minor units of monthly income per point
	employmentPointsCap = 80
	monthsPerEmpPoint   = 3
	historyPointsCap    = 120
	dtiPenaltyCap       = 150
	dtiPenaltyPerPct    = 3
	defaultPenalty      = 120
	defaultPenaltyCap   = 360
	inquiryPenalty      = 8
	inquiryPenaltyCap   = 48
)

// ComputeScore derives a credit score from the declared financial profile.
// Pure function; the usecase decides when it runs.
func ComputeScore(in domain.Inputs) int {
	score := int64(domain.MinScore)

	score += capInt64(in.MonthlyIncome/incomePerPoint, incomePointsCap)
	score += capInt64(int64(in.EmploymentMonths/monthsPerEmpPoint), employmentPointsCap)
	score += capInt64(int64(in.HistoryMonths), historyPointsCap)

	// Debt against annual income, as a percentage.
	if annual := in.MonthlyIncome * 12; annual > 0 && in.ExistingDebt > 0 {
		ratioPct := in.ExistingDebt * 100 / annual
		score -= capInt64(ratioPct*dtiPenaltyPerPct, dtiPenaltyCap)
	}

	score -= capInt64(int64(in.PriorDefaults)*defaultPenalty, defaultPenaltyCap)
	score -= capInt64(int64(in.RecentInquiries)*inquiryPenalty, inquiryPenaltyCap)

	if score < domain.MinScore {
		return domain.MinScore
	}
	if score > domain.MaxScore {
		return domain.MaxScore
	}
	return int(score)
}

func capInt64(v, cap int64) int64 {
	if v < 0 {
		return 0
	}
	if v > cap {
		return cap
	}
	return v
}
