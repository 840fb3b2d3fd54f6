// =============================================================================
// utils.go - ユーティリティ関数
// =============================================================================
//
// このファイルはパッケージ全体で使用する汎用的なヘルパー関数を提供します。
//
// 【このファイルで提供する機能】
//   - 文字列操作: 重複削除、空白正規化、切り詰め
//   - HTML操作:   タグ除去、エンティティデコード、HTML→テキスト
//   - JSON操作:   ファイル/Writerへの書き出し
//
// =============================================================================
package pipeline

import (
	"encoding/json"
	"html"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// summaryMaxRunes は取り込み時の要約の最大長
const summaryMaxRunes = 300

// strictPolicy は全タグを除去するポリシー（並行利用可）
var strictPolicy = bluemonday.StrictPolicy()

// reRevealedTag はエンティティデコードで現れたタグ（"1 < 2" のような本文の記号は対象外）
var reRevealedTag = regexp.MustCompile(`</?[a-zA-Z][^<>]*>`)

// -----------------------------------------------------------------------------
// 文字列操作関数
// -----------------------------------------------------------------------------

// normalizeWhitespace は文字列内の連続する空白を単一スペースに正規化する
//
//	normalizeWhitespace("  hello   world  ")  // "hello world"
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// uniqStrings は文字列スライスから重複と空文字列を除去する（出現順を保持）
func uniqStrings(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// truncateRunes は文字列をmaxLen文字（rune単位）で切り詰める
//
// マルチバイト文字（中国語・マレー語の記号など）を壊さない。末尾に"..."は付けない。
func truncateRunes(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// -----------------------------------------------------------------------------
// HTML操作関数
// -----------------------------------------------------------------------------

// decodeEntities は &amp; &lt; &gt; &quot; &#39; を含むHTMLエンティティをデコードする
func decodeEntities(s string) string {
	return html.UnescapeString(s)
}

// cleanHTMLTags removes all tags, then decodes entities. Feeds often carry
// entity-escaped HTML, so tags the first decode revealed are stripped and the
// remainder decoded once more. A decoded "<" that is not tag-shaped is text.
func cleanHTMLTags(s string) string {
	text := decodeEntities(strictPolicy.Sanitize(s))
	if reRevealedTag.MatchString(text) {
		text = decodeEntities(reRevealedTag.ReplaceAllString(text, ""))
	}
	return strings.TrimSpace(text)
}

// htmlToText はHTML断片から表示テキストのみを取り出す（goquery使用）
//
// APIレスポンスのHTMLフィールド（Eventbriteのdescription.html等）向け。
func htmlToText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return normalizeWhitespace(cleanHTMLTags(fragment))
	}
	doc.Find("script, style").Remove()
	return normalizeWhitespace(doc.Text())
}

// -----------------------------------------------------------------------------
// JSON操作関数
// -----------------------------------------------------------------------------

// WriteJSON は任意のデータを2スペースインデントのJSONで書き出す
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteJSONFile は任意のデータをJSON形式でファイルに保存する
//
// 【ファイル権限】0o644 = 所有者は読み書き可、他は読み取りのみ
func WriteJSONFile(path string, v any) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
