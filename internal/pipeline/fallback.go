// =============================================================================
// fallback.go - フォールバック候補
// =============================================================================
//
// 全ソースが失敗した、または期間内の候補が0件だった場合に返す固定の例示。
// 通常の候補と同じく enrich → sort を通し、limit と3件の小さい方で切り詰める。
//
// =============================================================================
package pipeline

import "time"

// maxFallbackItems はフォールバックで返す最大件数
const maxFallbackItems = 3

// fallbackCandidates は上流が1件も返さなかった場合の固定の例示候補
//
// UIが空にならないためのもので、URLはすべて example.com。
// 公開日は now からの相対値なので常に期間内に入る。
func fallbackCandidates(now time.Time, location string) []Candidate {
	day := 24 * time.Hour
	return []Candidate{
		{
			Source:      SourceFallback,
			Title:       "Corporate wellness program tender for a Klang Valley employer",
			Summary:     "Invitation to bid for an employee wellness program with health screening and a quarterly health talk.",
			URL:         "https://example.com/opportunities/corporate-wellness-tender",
			PublishedAt: now.Add(-1 * day).UTC().Format(time.RFC3339),
			Location:    location,
		},
		{
			Source:      SourceFallback,
			Title:       "Grand opening of a new clinic branch",
			Summary:     "A panel clinic group announces a new branch with physiotherapy and dental clinic services.",
			URL:         "https://example.com/opportunities/new-clinic-opening",
			PublishedAt: now.Add(-2 * day).UTC().Format(time.RFC3339),
			Location:    location,
		},
		{
			Source:      SourceFallback,
			Title:       "RFP: annual health screening for factory staff",
			Summary:     "Manufacturer seeks a medical lab partner for blood test and health screening under its insurance panel.",
			URL:         "https://example.com/opportunities/health-screening-rfp",
			PublishedAt: now.Add(-3 * day).UTC().Format(time.RFC3339),
			Location:    location,
		},
	}
}
