// =============================================================================
// config.go - パイプライン設定
// =============================================================================
//
// このファイルはソース収集に必要な設定（HTTP設定・エンドポイント・認証情報）を
// 定義します。値の読み込み自体は internal/config が行い、ここでは型と既定値のみ。
//
// 【設定グループ】
//   - FetchConfig:  HTTPタイムアウト、User-Agent、共有クライアント
//   - Endpoints:    各アダプタのベースURL（テストではhttptestに差し替え）
//   - Credentials:  認証付きアダプタのトークン類
//   - SourceConfig: 上記をまとめたもの
//
// =============================================================================
package pipeline

import (
	"net/http"
	"time"
)

// DefaultFetchTimeout はソースあたりのタイムアウト
const DefaultFetchTimeout = 4500 * time.Millisecond

// DefaultUserAgent はブラウザ風のUser-Agent
//
// フィードのホストによっては非ブラウザのエージェントを拒否するため
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// 既定の国コード（Google Newsの gl/ceid）とホーム地域
const (
	DefaultCountry    = "MY"
	DefaultHomeRegion = "Malaysia"
)

// FetchConfig はフェッチ時の設定を保持
type FetchConfig struct {
	UserAgent string        // HTTPリクエスト時のUser-Agentヘッダー
	Timeout   time.Duration // ソースあたりのタイムアウト
	Client    *http.Client  // 共有HTTPクライアント（コネクションプーリング有効）
}

// DefaultFetchConfig はデフォルトのフェッチ設定を返す
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultFetchTimeout,
		Client: &http.Client{
			// タイムアウトはリクエストごとのcontextで制御する
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Endpoints は各アダプタのベースURL
type Endpoints struct {
	GoogleNews string
	BingNews   string
	AllEvents  string // "%s" に都市スラッグが入る
	TheStar    string
	MalayMail  string
	Meetup     string
	Eventbrite string
	Facebook   string
	LinkedIn   string
}

// DefaultEndpoints は本番用のエンドポイントを返す
func DefaultEndpoints() Endpoints {
	return Endpoints{
		GoogleNews: "https://news.google.com/rss/search",
		BingNews:   "https://www.bing.com/news/search",
		AllEvents:  "https://allevents.in/%s/health",
		TheStar:    "https://www.thestar.com.my/rss/News/Nation",
		MalayMail:  "https://www.malaymail.com/feed/rss/malaysia",
		Meetup:     "https://www.meetup.com/find/events/rss",
		Eventbrite: "https://www.eventbriteapi.com/v3/events/search/",
		Facebook:   "https://graph.facebook.com/v19.0",
		LinkedIn:   "https://api.linkedin.com/rest/posts",
	}
}

// Credentials は認証付きアダプタの設定
//
// 値が空のアダプタはレジストリに登録されない（NewRegistry参照）
type Credentials struct {
	EventbriteToken string
	FacebookToken   string
	FacebookPageIDs []string
	LinkedInToken   string
	LinkedInOrgURN  string
}

// SourceConfig はアダプタ構築時の設定一式
type SourceConfig struct {
	Fetch       FetchConfig
	Endpoints   Endpoints
	Credentials Credentials
	Country     string // Google Newsのgl/ceid用（"MY"）
	HomeRegion  string // 地域未指定時の暗黙の地域（"Malaysia"）
}

// DefaultSourceConfig は認証情報なしのデフォルト設定を返す
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Fetch:      DefaultFetchConfig(),
		Endpoints:  DefaultEndpoints(),
		Country:    DefaultCountry,
		HomeRegion: DefaultHomeRegion,
	}
}
