// =============================================================================
// types.go - データ構造定義
// =============================================================================
//
// このファイルはPower Team Radar全体で使用するデータ構造（型）を定義します。
//
// 【このファイルで定義している型】
//   - Source:          候補を生成したソースの識別子
//   - Candidate:       ソースアダプタが生成するスコアリング前の候補
//   - Opportunity:     スコア・推奨メンバー等を付与した最終出力
//   - SearchRequest:   POST /opportunities/search のリクエスト
//   - SearchResponse:  同レスポンス
//
// 【JSONキー】
//   既存のフロントエンドとの互換性のため snake_case を使用する
//   （published_at, matched_industries, suggested_members, opening_line）
//
// =============================================================================
package pipeline

// Source はアダプタ（上流ソース）の識別子
type Source string

const (
	SourceGoogleNews Source = "google_news"
	SourceBingNews   Source = "bing_news"
	SourceAllEvents  Source = "allevents"
	SourceTheStar    Source = "the_star"
	SourceMalayMail  Source = "malay_mail"
	SourceMeetup     Source = "meetup"
	SourceEventbrite Source = "eventbrite"
	SourceFacebook   Source = "facebook"
	SourceLinkedIn   Source = "linkedin"
	SourceFallback   Source = "fallback"
)

// allSources は全ソース（表示・Notionの選択肢用）
var allSources = []Source{
	SourceGoogleNews, SourceBingNews, SourceAllEvents, SourceTheStar, SourceMalayMail,
	SourceMeetup, SourceEventbrite, SourceFacebook, SourceLinkedIn, SourceFallback,
}

// -----------------------------------------------------------------------------
// Candidate - スコアリング前の候補
// -----------------------------------------------------------------------------
//
// 1つのソースアダプタが生成する、正規化済みだが未スコアの記事・イベント。
//
// 【フィールドの説明】
//   Source:      生成元アダプタ
//   Title:       タイトル（上流が省略した場合は空文字列）
//   Summary:     要約（取り込み時に300文字で切り詰め）
//   URL:         記事URL（重複排除の第一キー）
//   PublishedAt: 公開日時（RFC3339 UTC、不明な場合は空文字列）
//   Location:    クエリ時の地域ヒント（ローカライズできないソースは空文字列）
//
// 【不変条件】
//   URLが空でない、またはTitle+PublishedAtが代替キーとして使える
type Candidate struct {
	Source      Source `json:"source"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Location    string `json:"location,omitempty"`
}

// SuggestedMember は「適合する担当」の表示用エントリ
type SuggestedMember struct {
	Name        string `json:"name"`
	Specialty   string `json:"specialty"`
	ChapterRole string `json:"chapter_role"`
}

// -----------------------------------------------------------------------------
// Opportunity - スコア付きの最終出力
// -----------------------------------------------------------------------------
//
// Candidateにスコアと付加情報を加えたもの。リクエストごとに生成され、
// 生成後に変更されることはない。
//
// 【スコアの意味】
//   - 0.0〜1.0（小数第2位で丸め）
//   - キーワード一致 50% / 地域一致 20% / シグナル 20% / 新しさ 10%
type Opportunity struct {
	ID                string            `json:"id"`
	Source            Source            `json:"source"`
	Title             string            `json:"title"`
	Summary           string            `json:"summary"`
	URL               string            `json:"url"`
	PublishedAt       string            `json:"published_at,omitempty"`
	Score             float64           `json:"score"`
	MatchedIndustries []string          `json:"matched_industries"`
	Location          string            `json:"location"`
	Signals           []string          `json:"signals"`
	SuggestedMembers  []SuggestedMember `json:"suggested_members"`
	OpeningLine       string            `json:"opening_line"`
}

// SearchRequest は検索リクエストのパラメータ
//
// ポインタ型のフィールドは「未指定」と「ゼロ値」を区別するために使用する。
// 既定値の適用は Normalize() で行う。
type SearchRequest struct {
	Industries    []string `json:"industries"`
	Locations     []string `json:"locations"`
	MinBudgetRM   *float64 `json:"min_budget_rm,omitempty"` // 表示・予約用。ハードフィルタには使わない
	TimeRangeDays int      `json:"time_range_days"`
	Limit         int      `json:"limit"`
	Language      string   `json:"language"`
}

// SearchResponse は検索レスポンス
type SearchResponse struct {
	Items []Opportunity `json:"items"`
}
