// =============================================================================
// sources_api.go - 認証付きAPIソース
// =============================================================================
//
// このファイルはトークンが必要なJSON APIソースを定義します。
// トークンが未設定のアダプタは NewRegistry で登録されないため、
// ここに来る時点で認証情報は揃っている前提です。
//
// 【含まれるソース】
//   1. Eventbrite - イベント検索API（Bearerトークン）
//   2. Facebook   - Graph API ページ投稿（access_token）
//   3. LinkedIn   - 組織投稿API（Bearerトークン + バージョンヘッダー）
//
// 【公開日の下限】
//   Query.Since をサーバー側（Eventbrite, Facebook）またはクライアント側
//   （LinkedIn）で適用する。最終的な期間フィルタはパイプラインが行う。
//
// =============================================================================
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// socialTitleMaxRunes はSNS投稿の1行目から作る見出しの最大長
const socialTitleMaxRunes = 120

// =============================================================================
// Eventbrite
// =============================================================================

type eventbriteAdapter struct {
	fetcher *Fetcher
	baseURL string
	token   string
}

// eventbriteResponse は /v3/events/search/ のレスポンスのうち使用する部分
type eventbriteResponse struct {
	Events []struct {
		Name struct {
			Text string `json:"text"`
		} `json:"name"`
		Description struct {
			Text string `json:"text"`
			HTML string `json:"html"`
		} `json:"description"`
		URL       string `json:"url"`
		Published string `json:"published"`
		Created   string `json:"created"`
	} `json:"events"`
}

func (a *eventbriteAdapter) Name() Source      { return SourceEventbrite }
func (a *eventbriteAdapter) PerLocation() bool { return true }

// Collect は地域・キーワードでイベントを検索する
//
// 説明文はHTML版があればgoqueryでテキスト化して使う。
func (a *eventbriteAdapter) Collect(ctx context.Context, q Query) ([]Candidate, error) {
	if a.token == "" {
		return nil, nil
	}
	v := url.Values{}
	v.Set("q", keywordClause(q.Industries))
	v.Set("location.address", q.Location)
	if !q.Since.IsZero() {
		v.Set("start_date.range_start", q.Since.UTC().Format("2006-01-02T15:04:05Z"))
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer "+a.token)

	var resp eventbriteResponse
	if err := a.fetcher.FetchJSON(ctx, a.baseURL+"?"+v.Encode(), h, &resp); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(resp.Events))
	for _, ev := range resp.Events {
		desc := ev.Description.Text
		if ev.Description.HTML != "" {
			desc = htmlToText(ev.Description.HTML)
		}
		c := Candidate{
			Source:      SourceEventbrite,
			Title:       normalizeWhitespace(ev.Name.Text),
			Summary:     truncateRunes(normalizeWhitespace(desc), summaryMaxRunes),
			URL:         strings.TrimSpace(ev.URL),
			PublishedAt: normalizeDate(firstNonEmpty(ev.Published, ev.Created)),
			Location:    q.Location,
		}
		if c.hasKey() {
			out = append(out, c)
		}
	}
	return out, nil
}

// =============================================================================
// Facebook
// =============================================================================

type facebookAdapter struct {
	fetcher *Fetcher
	baseURL string
	token   string
	pageIDs []string
}

type facebookPostsResponse struct {
	Data []struct {
		ID           string `json:"id"`
		Message      string `json:"message"`
		PermalinkURL string `json:"permalink_url"`
		CreatedTime  string `json:"created_time"`
	} `json:"data"`
}

func (a *facebookAdapter) Name() Source      { return SourceFacebook }
func (a *facebookAdapter) PerLocation() bool { return false }

// Collect は設定された各ページの投稿を取得する
//
// 一部のページが失敗しても他のページの投稿は返す。
// 全ページが失敗した場合のみエラーを返す。
func (a *facebookAdapter) Collect(ctx context.Context, q Query) ([]Candidate, error) {
	if a.token == "" {
		return nil, nil
	}
	var (
		out  []Candidate
		errs []error
	)
	for _, pageID := range a.pageIDs {
		posts, err := a.collectPage(ctx, pageID, q.Since)
		if err != nil {
			errs = append(errs, fmt.Errorf("page %s: %w", pageID, err))
			continue
		}
		out = append(out, posts...)
	}
	if len(errs) == len(a.pageIDs) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (a *facebookAdapter) collectPage(ctx context.Context, pageID string, since time.Time) ([]Candidate, error) {
	v := url.Values{}
	v.Set("fields", "message,permalink_url,created_time")
	v.Set("access_token", a.token)
	if !since.IsZero() {
		v.Set("since", strconv.FormatInt(since.Unix(), 10))
	}
	endpoint := fmt.Sprintf("%s/%s/posts?%s", strings.TrimRight(a.baseURL, "/"), url.PathEscape(pageID), v.Encode())

	var resp facebookPostsResponse
	if err := a.fetcher.FetchJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(resp.Data))
	for _, p := range resp.Data {
		msg := strings.TrimSpace(p.Message)
		c := Candidate{
			Source:      SourceFacebook,
			Title:       titleFromText(msg, socialTitleMaxRunes),
			Summary:     truncateRunes(normalizeWhitespace(msg), summaryMaxRunes),
			URL:         strings.TrimSpace(p.PermalinkURL),
			PublishedAt: normalizeDate(p.CreatedTime),
		}
		if c.hasKey() {
			out = append(out, c)
		}
	}
	return out, nil
}

// =============================================================================
// LinkedIn
// =============================================================================

// linkedinVersion は LinkedIn-Version ヘッダーの値（YYYYMM）
const linkedinVersion = "202401"

type linkedinAdapter struct {
	fetcher *Fetcher
	baseURL string
	token   string
	orgURN  string
}

type linkedinPostsResponse struct {
	Elements []struct {
		ID          string `json:"id"`
		Commentary  string `json:"commentary"`
		PublishedAt int64  `json:"publishedAt"` // epoch millis
		CreatedAt   int64  `json:"createdAt"`
	} `json:"elements"`
}

func (a *linkedinAdapter) Name() Source      { return SourceLinkedIn }
func (a *linkedinAdapter) PerLocation() bool { return false }

// Collect は組織の最新投稿を取得し、Since より古いものを除外する
func (a *linkedinAdapter) Collect(ctx context.Context, q Query) ([]Candidate, error) {
	if a.token == "" || a.orgURN == "" {
		return nil, nil
	}
	v := url.Values{}
	v.Set("q", "author")
	v.Set("author", a.orgURN)
	v.Set("count", "20")

	h := http.Header{}
	h.Set("Authorization", "Bearer "+a.token)
	h.Set("LinkedIn-Version", linkedinVersion)
	h.Set("X-Restli-Protocol-Version", "2.0.0")

	var resp linkedinPostsResponse
	if err := a.fetcher.FetchJSON(ctx, a.baseURL+"?"+v.Encode(), h, &resp); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		ms := el.PublishedAt
		if ms == 0 {
			ms = el.CreatedAt
		}
		published := ""
		if ms > 0 {
			t := time.UnixMilli(ms).UTC()
			if !q.Since.IsZero() && t.Before(q.Since) {
				continue
			}
			published = t.Format(time.RFC3339)
		}

		text := strings.TrimSpace(el.Commentary)
		c := Candidate{
			Source:      SourceLinkedIn,
			Title:       titleFromText(text, socialTitleMaxRunes),
			Summary:     truncateRunes(normalizeWhitespace(text), summaryMaxRunes),
			PublishedAt: published,
		}
		if el.ID != "" {
			c.URL = "https://www.linkedin.com/feed/update/" + el.ID
		}
		if c.hasKey() {
			out = append(out, c)
		}
	}
	return out, nil
}
