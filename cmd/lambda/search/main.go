// =============================================================================
// Lambda: opportunities-search
// =============================================================================
//
// API Gateway（プロキシ統合）経由で POST /opportunities/search を処理する。
// HTTPサーバー版（internal/server）と同じ応答を返す。
//
// 環境変数:
//   - FETCH_TIMEOUT_MS:  ソースあたりのタイムアウト (デフォルト: 4500)
//   - EVENTBRITE_TOKEN:  Eventbrite API (任意)
//   - FACEBOOK_TOKEN, FACEBOOK_PAGE_IDS:  Facebook Graph API (任意)
//   - LINKEDIN_TOKEN, LINKEDIN_ORG_URN:   LinkedIn API (任意)
//   - LOG_LEVEL:         ログレベル (デフォルト: info)
//
// =============================================================================
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"power-team-radar/internal/config"
	"power-team-radar/internal/logger"
	"power-team-radar/internal/pipeline"
)

// Searcher runs an opportunity search.
type Searcher interface {
	Search(ctx context.Context, req pipeline.SearchRequest) (*pipeline.SearchResponse, error)
}

// handler はAPI Gatewayイベントを検索に変換する
type handler struct {
	search Searcher
	log    logger.Logger
}

// Handle はLambdaのメインハンドラー
func (h *handler) Handle(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if ev.HTTPMethod != "" && !strings.EqualFold(ev.HTTPMethod, http.MethodPost) {
		return jsonResponse(http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"}), nil
	}

	var req pipeline.SearchRequest
	if body := strings.TrimSpace(ev.Body); body != "" {
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			return jsonResponse(http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()}), nil
		}
	}

	resp, err := h.search.Search(ctx, req)
	if err != nil {
		h.log.Error("Search failed", logger.Error(err))
		return jsonResponse(http.StatusInternalServerError, map[string]string{"error": err.Error()}), nil
	}
	return jsonResponse(http.StatusOK, resp), nil
}

func jsonResponse(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func main() {
	cfg, err := config.Load(config.GetConfigPath())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(logger.Config{Level: cfg.Log.Level})
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer lg.Sync()

	sc := cfg.SourceConfig()
	adapters := pipeline.NewRegistry(sc)
	lg.Info("Sources registered", logger.Strings("sources", pipeline.SourceNames(adapters)))

	svc := pipeline.NewService(adapters, sc.HomeRegion, pipeline.WithLogger(lg))
	h := &handler{search: svc, log: lg}
	lambda.Start(h.Handle)
}
