// =============================================================================
// sources_rss.go - RSSフィードソース
// =============================================================================
//
// このファイルはRSS/Atomフィードを使用するソースを定義します。
// 取得は Fetcher.Fetch、解析は ParseFeed（gofeed → 正規表現フォールバック）。
//
// 【含まれるソース】
//   1. Google News - キーワード検索（地域別）
//   2. Bing News   - キーワード検索（地域別）
//   3. AllEvents   - 都市別ヘルスイベント（地域別）
//   4. Meetup      - トピック別イベント（地域別）
//   5. The Star    - マレーシア全国紙（全体）
//   6. Malay Mail  - マレーシア全国紙（全体）
//
// 【検索クエリ】
//   "(health screening OR wellness program OR ... ) AND (Kuala Lumpur)"
//   キーワードは語彙とユーザー業種の和集合の先頭6語。
//
// =============================================================================
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// rssAdapter はURL組み立て関数だけが異なるRSSソースの共通実装
type rssAdapter struct {
	name        Source
	perLocation bool
	fetcher     *Fetcher
	buildURL    func(q Query) string
}

func (a *rssAdapter) Name() Source      { return a.name }
func (a *rssAdapter) PerLocation() bool { return a.perLocation }

// Collect はフィードを1回取得して候補に変換する
//
// 候補の Location はクエリの地域ヒントをそのまま使う。
func (a *rssAdapter) Collect(ctx context.Context, q Query) ([]Candidate, error) {
	feedURL := a.buildURL(q)
	raw, err := a.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return feedCandidates(a.name, ParseFeed(raw), q.Location), nil
}

// searchQuery は "(kw1 OR kw2 ...) AND (location)" 形式の検索文字列
func searchQuery(q Query) string {
	return fmt.Sprintf("(%s) AND (%s)", keywordClause(q.Industries), q.Location)
}

// feedLanguage は上流のロケール指定に使う言語コード（"zh" 以外は "en"）
func feedLanguage(lang string) string {
	if lang == "zh" {
		return "zh"
	}
	return "en"
}

// newGoogleNewsAdapter は Google News 検索RSS
//
// URL: https://news.google.com/rss/search?q=...&hl=en-MY&gl=MY&ceid=MY:en
func newGoogleNewsAdapter(f *Fetcher, base, country string) Adapter {
	return &rssAdapter{
		name:        SourceGoogleNews,
		perLocation: true,
		fetcher:     f,
		buildURL: func(q Query) string {
			lang := feedLanguage(q.Language)
			v := url.Values{}
			v.Set("q", searchQuery(q))
			v.Set("hl", lang+"-"+country)
			v.Set("gl", country)
			v.Set("ceid", country+":"+lang)
			return base + "?" + v.Encode()
		},
	}
}

// newBingNewsAdapter は Bing News 検索RSS
//
// URL: https://www.bing.com/news/search?q=...&format=rss&mkt=en-MY
// 地域はAND演算子なしのプレーンテキストで付ける。
func newBingNewsAdapter(f *Fetcher, base, country string) Adapter {
	return &rssAdapter{
		name:        SourceBingNews,
		perLocation: true,
		fetcher:     f,
		buildURL: func(q Query) string {
			v := url.Values{}
			v.Set("q", fmt.Sprintf("(%s) %s", keywordClause(q.Industries), q.Location))
			v.Set("format", "rss")
			v.Set("mkt", feedLanguage(q.Language)+"-"+country)
			return base + "?" + v.Encode()
		},
	}
}

// newAllEventsAdapter は AllEvents の都市別ヘルスイベントRSS
//
// base には "%s" が1つ含まれ、都市スラッグに置き換える。
// URL: https://allevents.in/kuala-lumpur/health?format=rss
func newAllEventsAdapter(f *Fetcher, base string) Adapter {
	return &rssAdapter{
		name:        SourceAllEvents,
		perLocation: true,
		fetcher:     f,
		buildURL: func(q Query) string {
			u := base
			if strings.Contains(base, "%s") {
				u = fmt.Sprintf(base, slugify(q.Location))
			}
			return u + "?format=rss"
		},
	}
}

// newMeetupAdapter は Meetup のイベントRSS
//
// トピックは先頭業種（未指定なら "wellness"）。
func newMeetupAdapter(f *Fetcher, base string) Adapter {
	return &rssAdapter{
		name:        SourceMeetup,
		perLocation: true,
		fetcher:     f,
		buildURL: func(q Query) string {
			topic := "wellness"
			if len(q.Industries) > 0 {
				topic = q.Industries[0]
			}
			v := url.Values{}
			v.Set("keywords", topic)
			v.Set("location", q.Location)
			return base + "?" + v.Encode()
		},
	}
}

// newRegionalFeedAdapter は固定URLの全国紙RSS（The Star, Malay Mail）
//
// 地域で絞り込めないため全体アダプタとして1回だけ呼ばれる。
func newRegionalFeedAdapter(name Source, f *Fetcher, feedURL string) Adapter {
	return &rssAdapter{
		name:     name,
		fetcher:  f,
		buildURL: func(Query) string { return feedURL },
	}
}
