package loan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"peervest/internal/domain/credit"
)

func TestAdjustRate(t *testing.T) {
	const minRate, maxRate = int64(100), int64(3000)

	cases := []struct {
		name      string
		requested int64
		score     int
		want      int64
	}{
		{"midpoint score keeps requested rate", 1200, 575, 1200},
		{"floor score adds full adjustment", 1200, credit.MinScore, 1600},
		{"ceiling score subtracts full adjustment", 1200, credit.MaxScore, 800},
		{"good score lowers the rate", 1200, 700, 1019},
		{"poor score raises the rate", 1200, 450, 1381},
		{"clamped at platform maximum", 2900, credit.MinScore, maxRate},
		{"clamped at platform minimum", 300, credit.MaxScore, minRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, adjustRate(tc.requested, tc.score, minRate, maxRate))
		})
	}
}

func TestAdjustRate_MonotonicInScore(t *testing.T) {
	prev := adjustRate(1500, credit.MinScore, 100, 3000)
	for score := credit.MinScore + 1; score <= credit.MaxScore; score++ {
		got := adjustRate(1500, score, 100, 3000)
		require.LessOrEqual(t, got, prev, "score %d", score)
		prev = got
	}
}
