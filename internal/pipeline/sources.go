// =============================================================================
// sources.go - ソースアダプタ共通ロジック
// =============================================================================
//
// このファイルは上流ソースからの候補収集に関する共通ロジックを提供します。
// 個別のアダプタ実装は以下のファイルに分割されています：
//
// 【ファイル構成】
//   - sources.go (このファイル) - Adapterインターフェース、レジストリ
//   - sources_rss.go            - RSSフィードソース（ニュース検索・地域メディア・イベント）
//   - sources_api.go            - 認証付きJSON APIソース（Eventbrite, Facebook, LinkedIn）
//
// =============================================================================
// 【実装ソース一覧】
// =============================================================================
//
// ▼ 地域別（要求された地域ごとに1回ずつ呼び出す）
//  1. Google News   - ニュース検索RSS（hl/gl/ceid でマレーシア向け）
//  2. Bing News     - ニュース検索RSS（format=rss）
//  3. AllEvents     - 都市別ヘルスイベントRSS
//  4. Meetup        - トピック×地域のイベントRSS
//
// ▼ 全体（1回だけ呼び出す。地域はホーム地域 "Malaysia" 扱い）
//  5. The Star      - 全国紙RSS
//  6. Malay Mail    - 全国紙RSS
//
// ▼ 認証付き（トークン未設定ならレジストリに登録しない）
//  7. Eventbrite    - イベント検索API
//  8. Facebook      - Graph API ページ投稿
//  9. LinkedIn      - 組織投稿API
//
// =============================================================================
package pipeline

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Query はアダプタ1回分の呼び出しパラメータ
//
// Location は地域別アダプタでは要求地域の1つ、全体アダプタではホーム地域。
type Query struct {
	Industries []string
	Location   string
	Language   string
	Since      time.Time // 公開日時の下限（サーバー側で絞り込めるソースのみ使用）
}

// Adapter は1つの上流ソースから候補を収集する
//
// Collect は失敗時にエラーを返してよい。パイプラインはそれを
// 「このソースの候補は0件」として扱い、他のソースの結果は維持する。
type Adapter interface {
	Name() Source
	// PerLocation がtrueなら要求地域ごとに1回、falseなら1回だけ呼ばれる
	PerLocation() bool
	Collect(ctx context.Context, q Query) ([]Candidate, error)
}

// =============================================================================
// ソースレジストリ（Source Registry）
// =============================================================================
//
// 登録順がそのまま結果のマージ順になる。完了順には依存しない。
//
// =============================================================================

// NewRegistry は設定から有効なアダプタ一覧を構築する
//
// 認証付きアダプタは、必要な認証情報がすべて揃っている場合のみ登録する。
func NewRegistry(cfg SourceConfig) []Adapter {
	f := NewFetcher(cfg.Fetch)
	ep := cfg.Endpoints

	adapters := []Adapter{
		newGoogleNewsAdapter(f, ep.GoogleNews, cfg.Country),
		newBingNewsAdapter(f, ep.BingNews, cfg.Country),
		newAllEventsAdapter(f, ep.AllEvents),
		newMeetupAdapter(f, ep.Meetup),
		newRegionalFeedAdapter(SourceTheStar, f, ep.TheStar),
		newRegionalFeedAdapter(SourceMalayMail, f, ep.MalayMail),
	}

	cred := cfg.Credentials
	if cred.EventbriteToken != "" {
		adapters = append(adapters, &eventbriteAdapter{fetcher: f, baseURL: ep.Eventbrite, token: cred.EventbriteToken})
	}
	if cred.FacebookToken != "" && len(cred.FacebookPageIDs) > 0 {
		adapters = append(adapters, &facebookAdapter{fetcher: f, baseURL: ep.Facebook, token: cred.FacebookToken, pageIDs: cred.FacebookPageIDs})
	}
	if cred.LinkedInToken != "" && cred.LinkedInOrgURN != "" {
		adapters = append(adapters, &linkedinAdapter{fetcher: f, baseURL: ep.LinkedIn, token: cred.LinkedInToken, orgURN: cred.LinkedInOrgURN})
	}
	return adapters
}

// SourceNames はアダプタ一覧のソース名を返す（ログ・CLI表示用）
func SourceNames(adapters []Adapter) []string {
	out := make([]string, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, string(a.Name()))
	}
	return out
}

// =============================================================================
// 共通変換処理
// =============================================================================

var reNonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugify は "Kuala Lumpur" → "kuala-lumpur" のように都市名をURL用に変換する
func slugify(s string) string {
	s = reNonSlug.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// feedCandidates はフィードアイテムを候補に変換する
//
// URLもタイトル+公開日も持たないアイテムは重複排除キーが作れないため捨てる。
func feedCandidates(src Source, items []FeedItem, location string) []Candidate {
	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		c := Candidate{
			Source:      src,
			Title:       it.Title,
			Summary:     truncateRunes(it.Description, summaryMaxRunes),
			URL:         it.Link,
			PublishedAt: it.PublishedAt,
			Location:    location,
		}
		if !c.hasKey() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// hasKey は重複排除キー（URL、またはタイトル+公開日）が作れるか
func (c Candidate) hasKey() bool {
	return c.URL != "" || (c.Title != "" && c.PublishedAt != "")
}

// dedupKey はURL、なければ "タイトル|公開日" を返す
func (c Candidate) dedupKey() string {
	if c.URL != "" {
		return c.URL
	}
	return c.Title + "|" + c.PublishedAt
}

// titleFromText は本文の1行目を見出しとして使う（SNS投稿向け）
func titleFromText(text string, maxRunes int) string {
	line := strings.TrimSpace(text)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	return truncateRunes(normalizeWhitespace(line), maxRunes)
}
