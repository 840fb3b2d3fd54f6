// =============================================================================
// keywords.go - キーワード語彙とクエリ構築
// =============================================================================
//
// 【語彙】
//   - healthKeywords: 健康・ウェルネス領域のキーワード（スコアリングと検索クエリ）
//   - signalKeywords: ビジネス上のトリガー（新店舗、入札など）
//   - roleMap:        業種 → 推奨メンバー役割
//
// 順序に意味がある:
//   - クエリは先頭6語のみ使用する
//   - signals は出現順ではなく語彙順で返す
//
// =============================================================================
package pipeline

import "strings"

// maxQueryTerms は上流クエリに含めるキーワード数の上限
const maxQueryTerms = 6

var healthKeywords = []string{
	"health screening", "wellness program", "corporate wellness", "employee wellness",
	"nutrition consultation", "dietitian", "supplement", "USANA", "physiotherapy", "rehabilitation",
	"chiropractic", "ergonomics", "posture", "TCM", "acupuncture",
	"dental clinic", "orthodontic", "scaling and polishing",
	"medical lab", "blood test", "DNA test", "health talk", "awareness campaign",
	"new clinic", "new branch", "grand opening", "expansion", "relocation",
	"RFP", "tender", "invitation to bid", "panel clinic", "TPA panel", "insurance panel",
}

var signalKeywords = []string{
	"opening", "grand opening", "new branch", "expansion", "relocation",
	"tender", "RFP", "invitation to bid", "corporate wellness program",
	"health talk", "CSR health", "panel clinic", "insurance panel", "TPA panel",
}

var roleMap = map[string][]string{
	"nutrition":          {"Wellness Coach", "Dietitian", "Supplements"},
	"corporate wellness": {"Wellness Coach", "Health Screening"},
	"health screening":   {"Medical Lab", "Wellness Coach"},
	"physiotherapy":      {"Physio", "Ergonomics"},
	"dental clinic":      {"Dentist"},
	"clinic":             {"Wellness Center", "Medical Lab"},
	"supplements":        {"Supplements", "Wellness Coach"},
}

var defaultRoles = []string{"Wellness Coach", "Medical Lab"}

// defaultIndustry はユーザーが業種を指定しなかった場合の業種
const defaultIndustry = "health"

const (
	openingLineEN = "Hi, this health-related opportunity looks like a fit—want me to tee up an intro?"
	openingLineZH = "嗨，这个健康相关机会看起来挺匹配，要不要我帮你引荐一下？"
)

// HealthKeywords returns a copy of the scoring vocabulary.
func HealthKeywords() []string {
	return append([]string(nil), healthKeywords...)
}

// SignalKeywords returns a copy of the trigger-phrase vocabulary.
func SignalKeywords() []string {
	return append([]string(nil), signalKeywords...)
}

// queryTerms は語彙とユーザー業種の和集合の先頭6語を返す
func queryTerms(industries []string) []string {
	terms := uniqStrings(append(HealthKeywords(), industries...))
	if len(terms) > maxQueryTerms {
		terms = terms[:maxQueryTerms]
	}
	return terms
}

// keywordClause は "a OR b OR c" 形式の検索句を返す
func keywordClause(industries []string) string {
	return strings.Join(queryTerms(industries), " OR ")
}

// countHits はtextに含まれる異なるキーワードの数を返す（大文字小文字を区別しない）
//
// 同じキーワードが何度出現しても1回として数える。
func countHits(text string, kws []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, k := range kws {
		if strings.Contains(lower, strings.ToLower(k)) {
			n++
		}
	}
	return n
}

// matchSignals はtextに含まれるシグナルを語彙順で返す
func matchSignals(text string) []string {
	lower := strings.ToLower(text)
	out := []string{}
	for _, k := range signalKeywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			out = append(out, k)
		}
	}
	return out
}

// suggestMembers は先頭業種から最大2件の推奨役割を返す
func suggestMembers(industry string) []SuggestedMember {
	roles, ok := roleMap[strings.ToLower(strings.TrimSpace(industry))]
	if !ok {
		roles = defaultRoles
	}
	if len(roles) > 2 {
		roles = roles[:2]
	}
	out := make([]SuggestedMember, 0, len(roles))
	for _, r := range roles {
		out = append(out, SuggestedMember{Name: r, Specialty: r, ChapterRole: r})
	}
	return out
}

// openingLine は言語別の定型文を返す（"zh" 以外はすべて英語）
func openingLine(language string) string {
	if language == "zh" {
		return openingLineZH
	}
	return openingLineEN
}
