// =============================================================================
// score.go - スコアリング
// =============================================================================
//
// 【スコアリング重み配分】
//
//   ┌─────────────────────────────┬────────┐
//   │ 評価項目                    │ 重み   │
//   ├─────────────────────────────┼────────┤
//   │ キーワード一致（3語で満点） │   50%  │
//   │ 地域一致（不一致は0.6）     │   20%  │
//   │ シグナル（2個で満点）       │   20%  │
//   │ 新しさ（7日/14日で段階）    │   10%  │
//   └─────────────────────────────┴────────┘
//
// 出力互換性テストのため、式は変更しないこと。
//
// =============================================================================
package pipeline

import (
	"math"
	"strings"
	"time"
)

// unknownAgeDays は公開日不明時の経過日数
const unknownAgeDays = 999

// ScoreInput はスコア計算の入力
type ScoreInput struct {
	LocationMatch bool
	SignalsCount  int
	DaysAge       int
	KeywordHits   int
}

// ScoreItem returns the opportunity score in [0,1], rounded to 2 decimals.
// It is a pure function of its input.
func ScoreItem(in ScoreInput) float64 {
	keywordScore := math.Min(1, float64(in.KeywordHits)/3)

	locationScore := 0.6
	if in.LocationMatch {
		locationScore = 1
	}

	signalScore := math.Min(1, float64(in.SignalsCount)/2)

	recencyScore := 0.4
	switch {
	case in.DaysAge <= 7:
		recencyScore = 1
	case in.DaysAge <= 14:
		recencyScore = 0.7
	}

	score := 0.5*keywordScore + 0.2*locationScore + 0.2*signalScore + 0.1*recencyScore
	score = math.Max(0, math.Min(1, score))
	return math.Round(score*100) / 100
}

// daysSince は公開日からの経過日数（切り捨て）を返す。不明なら999
func daysSince(publishedAt string, now time.Time) int {
	if publishedAt == "" {
		return unknownAgeDays
	}
	t, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return unknownAgeDays
	}
	return int(math.Floor(now.Sub(t).Hours() / 24))
}

// locationMatches は候補の地域が要求された地域のいずれかと一致するか
//
// 地域が要求されていない場合は常にtrue。
func locationMatches(candidate string, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	for _, r := range requested {
		if candidate != "" && strings.EqualFold(candidate, r) {
			return true
		}
	}
	return false
}
