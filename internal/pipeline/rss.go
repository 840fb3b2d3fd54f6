// =============================================================================
// rss.go - RSS/Atom パーサ
// =============================================================================
//
// フィード本文から (title, link, publishedAt, description) のフラットな
// リストを抽出します。決してエラーを返しません（ベストエフォート）。
//
// 【処理の流れ】
//   1. gofeed で厳密にパース（整形式のRSS/Atom）
//   2. 失敗した場合、またはアイテムが0件の場合は正規表現によるタグ抽出
//      - <item>…</item> / <entry>…</entry> ブロック単位
//      - 各タグは最初の一致のみ、大文字小文字を区別しない、非貪欲
//      - 抽出できないブロックは単に読み飛ばす
//   3. どちらの経路も同じ正規化を通す
//      - description: タグ除去 → エンティティデコード
//      - pubDate:     RFC3339 UTC に正規化、解析不能なら空文字列（不明扱い）
//
// =============================================================================
package pipeline

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

// FeedItem はフィードから抽出した1件
type FeedItem struct {
	Title       string
	Link        string
	PublishedAt string // RFC3339 UTC、不明な場合は空文字列
	Description string
}

var (
	reItemBlock  = regexp.MustCompile(`(?is)<item\b[^>]*>(.*?)</item>`)
	reEntryBlock = regexp.MustCompile(`(?is)<entry\b[^>]*>(.*?)</entry>`)
	reLinkHref   = regexp.MustCompile(`(?is)<link\b[^>]*\bhref\s*=\s*["']([^"']+)["'][^>]*>`)
	reCDATA      = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
)

// tagPatterns はタグ名ごとのコンパイル済みパターン
var tagPatterns = map[string]*regexp.Regexp{}

func init() {
	for _, tag := range []string{"title", "link", "pubDate", "published", "updated", "description", "summary"} {
		tagPatterns[tag] = regexp.MustCompile(`(?is)<` + tag + `\b[^>]*>(.*?)</` + tag + `>`)
	}
}

// ParseFeed extracts items from raw RSS/Atom text. It never fails: a malformed
// feed yields whatever blocks could be extracted, possibly none.
func ParseFeed(raw []byte) []FeedItem {
	if items := parseWithGofeed(raw); len(items) > 0 {
		return items
	}
	return extractItems(string(raw))
}

// parseWithGofeed は整形式フィードの高速パス。失敗時はnilを返す
func parseWithGofeed(raw []byte) []FeedItem {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil || feed == nil {
		return nil
	}

	out := make([]FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		desc := it.Description
		if desc == "" {
			desc = it.Content
		}

		published := ""
		switch {
		case it.PublishedParsed != nil:
			published = it.PublishedParsed.UTC().Format(time.RFC3339)
		case it.UpdatedParsed != nil:
			published = it.UpdatedParsed.UTC().Format(time.RFC3339)
		default:
			published = normalizeDate(firstNonEmpty(it.Published, it.Updated))
		}

		item := FeedItem{
			Title:       cleanText(it.Title),
			Link:        cleanLink(firstNonEmpty(it.Link, linkFromGUID(it.GUID))),
			PublishedAt: published,
			Description: cleanText(desc),
		}
		if item.Title == "" && item.Link == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// extractItems は正規表現によるタグ抽出（壊れたXML向け）
func extractItems(xml string) []FeedItem {
	blocks := reItemBlock.FindAllStringSubmatch(xml, -1)
	blocks = append(blocks, reEntryBlock.FindAllStringSubmatch(xml, -1)...)

	out := make([]FeedItem, 0, len(blocks))
	for _, m := range blocks {
		block := m[1]

		link := getTag(block, "link")
		if link == "" {
			if hm := reLinkHref.FindStringSubmatch(block); hm != nil {
				link = hm[1]
			}
		}

		pub := getTag(block, "pubDate")
		if pub == "" {
			pub = getTag(block, "published")
		}
		if pub == "" {
			pub = getTag(block, "updated")
		}

		desc := getTag(block, "description")
		if desc == "" {
			desc = getTag(block, "summary")
		}

		item := FeedItem{
			Title:       cleanText(getTag(block, "title")),
			Link:        cleanLink(link),
			PublishedAt: normalizeDate(unwrapCDATA(pub)),
			Description: cleanText(desc),
		}
		if item.Title == "" && item.Link == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// getTag は最初に一致したタグの中身を返す（見つからなければ空文字列）
func getTag(block, tag string) string {
	re, ok := tagPatterns[tag]
	if !ok {
		return ""
	}
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func unwrapCDATA(s string) string {
	return reCDATA.ReplaceAllString(s, "$1")
}

// cleanText: CDATA除去 → タグ除去 → エンティティデコード → 空白正規化
func cleanText(s string) string {
	return normalizeWhitespace(cleanHTMLTags(unwrapCDATA(s)))
}

func cleanLink(s string) string {
	return strings.TrimSpace(decodeEntities(unwrapCDATA(s)))
}

func linkFromGUID(guid string) string {
	if strings.HasPrefix(guid, "http") {
		return guid
	}
	return ""
}

// graphAPITime はFacebook Graph APIの created_time 形式
const graphAPITime = "2006-01-02T15:04:05-0700"

// normalizeDate は任意形式の日付をRFC3339 UTCに正規化する
//
// 解析できない場合は空文字列を返す（「現在時刻」にはしない）。
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339, graphAPITime} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
