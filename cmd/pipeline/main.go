// =============================================================================
// main.go - Power Team Radar CLIのエントリーポイント
// =============================================================================
//
// マレーシアの健康・ウェルネス分野のビジネス機会を、ニュース・イベント
// フィードから収集してスコア順に返すCLIツールです。
//
// =============================================================================
// 【2つのコマンド】
// =============================================================================
//
// 🟢 radar search: 1回だけ検索してJSONを出力
//    ┌─────────────────────────────────────────────────────────────────┐
//    │ 出力:     JSON（stdout または --out）、任意でNotionに保存        │
//    │ コマンド: ./radar search --industries "corporate wellness"      │
//    │           --locations "Kuala Lumpur" --days 7 --limit 5          │
//    └─────────────────────────────────────────────────────────────────┘
//
// 🔵 radar serve: HTTP APIを起動
//    ┌─────────────────────────────────────────────────────────────────┐
//    │ エンドポイント: POST /opportunities/search                       │
//    │                 POST /opportunities/subscribe                    │
//    │                 POST /notify/whatsapp                            │
//    │                 GET  /health, GET /metrics                       │
//    │ コマンド: ./radar serve --port 8080                              │
//    └─────────────────────────────────────────────────────────────────┘
//
// =============================================================================
// 【処理フロー】（search）
// =============================================================================
//
//   ┌─────────────┐    ┌─────────────┐    ┌─────────────┐
//   │  1. 設定    │ -> │  2. 収集    │ -> │  3. 選別    │
//   │  読み込み   │    │  並行取得   │    │  重複・期間 │
//   └─────────────┘    └─────────────┘    └─────────────┘
//          │                  │                  │
//          v                  v                  v
//   config.yml + .env   RSS/APIソースを     URL重複排除
//   CLIフラグ解析       地域ごとに取得      公開日で期間絞り込み
//
//   ┌─────────────┐    ┌─────────────┐
//   │  4. スコア  │ -> │  5. 出力    │
//   │  ソート     │    │  JSON/Notion│
//   └─────────────┘    └─────────────┘
//
// =============================================================================
// 【初心者向けポイント】
// =============================================================================
//
// - cobra でサブコマンドとフラグを定義
// - 設定は internal/config（YAML + 環境変数 + .env）
// - ログはzapで標準エラー出力に出す（stdoutはJSONのみ）
//
// =============================================================================
package main

import (
	"github.com/spf13/cobra"

	"power-team-radar/internal/config"
	"power-team-radar/internal/logger"
)

var (
	cfgFile string
	appCfg  *config.Config
	appLog  logger.Logger
)

// rootCmd はサブコマンドなしで呼ばれた場合のコマンド
var rootCmd = &cobra.Command{
	Use:   "radar",
	Short: "Health & wellness opportunity radar for Malaysia",
	Long: `radar collects public news and event feeds, scores them against a
health & wellness keyword taxonomy and returns ranked business opportunities.

Example usage:
  radar search --industries nutrition --locations "Kuala Lumpur"
  radar search --language zh --limit 10 --out result.json
  radar serve --port 8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLog != nil {
			_ = appLog.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $CONFIG_FILE or config.yml)")
}

// initApp は設定とロガーを初期化する
func initApp() error {
	path := cfgFile
	if path == "" {
		path = config.GetConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	lg, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return err
	}

	appCfg, appLog = cfg, lg
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fatalf("%v", err)
	}
}
