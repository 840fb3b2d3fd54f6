// =============================================================================
// config.go - CLIフラグ
// =============================================================================
//
// このファイルはCLIフラグの定義と、フラグから検索リクエストへの変換を行います。
// サービス全体の設定（タイムアウト・認証情報など）は internal/config が担当。
//
// 【設定グループ】
//   - SearchFlags: 検索条件（業種・地域・期間・件数・言語）
//   - OutputFlags: 出力先（ファイル・Notion）
//   - ServeFlags:  HTTPサーバー設定
//
// =============================================================================
package main

import (
	"github.com/spf13/pflag"

	"power-team-radar/internal/pipeline"
)

// SearchFlags は検索条件のフラグ
type SearchFlags struct {
	Industries []string
	Locations  []string
	Days       int
	Limit      int
	Language   string
	MinBudget  float64 // 0 = 未指定
}

// OutputFlags は出力に関するフラグ
type OutputFlags struct {
	// OutFile が指定された場合、ファイルに出力（空の場合はstdout）
	OutFile string

	// NotionClip がtrueの場合、Notionに保存
	NotionClip bool

	// NotionPageID は新規データベース作成時の親ページID
	NotionPageID string
}

// ServeFlags はHTTPサーバーのフラグ
type ServeFlags struct {
	Port int // 0 = 設定ファイル / SERVER_PORT の値
}

func (f *SearchFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.Industries, "industries", nil, "industries to match (comma separated)")
	fs.StringSliceVar(&f.Locations, "locations", nil, "locations to search (default: Malaysia)")
	fs.IntVar(&f.Days, "days", pipeline.DefaultTimeRangeDays, "only keep items published within N days")
	fs.IntVar(&f.Limit, "limit", pipeline.DefaultLimit, "maximum number of items")
	fs.StringVar(&f.Language, "language", pipeline.DefaultLanguage, "opening line language: en, zh, ms")
	fs.Float64Var(&f.MinBudget, "min-budget-rm", 0, "minimum budget in RM (informational)")
}

func (f *OutputFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.OutFile, "out", "", "write output JSON to this path (default: stdout)")
	fs.BoolVar(&f.NotionClip, "notion-clip", false, "clip opportunities to a Notion database")
	fs.StringVar(&f.NotionPageID, "notion-page-id", "", "parent page ID for creating a new Notion database")
}

// Request はフラグを検索リクエストに変換する
func (f *SearchFlags) Request() pipeline.SearchRequest {
	req := pipeline.SearchRequest{
		Industries:    f.Industries,
		Locations:     f.Locations,
		TimeRangeDays: f.Days,
		Limit:         f.Limit,
		Language:      f.Language,
	}
	if f.MinBudget > 0 {
		budget := f.MinBudget
		req.MinBudgetRM = &budget
	}
	return req
}
