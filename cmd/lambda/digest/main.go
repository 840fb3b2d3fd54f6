// =============================================================================
// Lambda: subscription-digest
// =============================================================================
//
// 保存検索（サブスクリプション）をすべて再実行し、結果のIDを
// WhatsApp通知スタブへ送るLambda関数（EventBridgeの定期実行を想定）
//
// 環境変数:
//   - REDIS_ADDRESS:   サブスクリプションの保存先 (必須)
//   - REDIS_PASSWORD:  Redisパスワード (任意)
//   - REDIS_DB:        RedisのDB番号 (デフォルト: 0)
//   - その他ソース設定は opportunities-search と共通
//
// 1件の失敗で全体を止めない。失敗件数はレスポンスで返す。
//
// =============================================================================
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"power-team-radar/internal/config"
	"power-team-radar/internal/logger"
	"power-team-radar/internal/notify"
	"power-team-radar/internal/pipeline"
	"power-team-radar/internal/subscription"
)

// Response はLambdaレスポンス
type Response struct {
	StatusCode    int    `json:"statusCode"`
	Message       string `json:"message"`
	Subscriptions int    `json:"subscriptions"`
	Sent          int    `json:"sent"`
	Failed        int    `json:"failed"`
}

// Searcher runs an opportunity search.
type Searcher interface {
	Search(ctx context.Context, req pipeline.SearchRequest) (*pipeline.SearchResponse, error)
}

// digest はサブスクリプションごとに検索→通知を行う
type digest struct {
	store    subscription.Store
	search   Searcher
	notifier notify.Notifier
	log      logger.Logger
}

// Handle はLambdaのメインハンドラー
func (d *digest) Handle(ctx context.Context, _ any) (Response, error) {
	subs, err := d.store.List(ctx)
	if err != nil {
		d.log.Error("Listing subscriptions failed", logger.Error(err))
		return Response{StatusCode: 500, Message: err.Error()}, err
	}

	resp := Response{StatusCode: 200, Subscriptions: len(subs)}
	for _, sub := range subs {
		if err := d.run(ctx, sub); err != nil {
			d.log.Warn("Digest failed",
				logger.String("subscription_id", sub.ID),
				logger.Error(err),
			)
			resp.Failed++
			continue
		}
		resp.Sent++
	}

	resp.Message = fmt.Sprintf("Processed %d subscriptions: %d sent, %d failed", resp.Subscriptions, resp.Sent, resp.Failed)
	d.log.Info("Digest completed",
		logger.Int("subscriptions", resp.Subscriptions),
		logger.Int("sent", resp.Sent),
		logger.Int("failed", resp.Failed),
	)
	return resp, nil
}

func (d *digest) run(ctx context.Context, sub subscription.Subscription) error {
	res, err := d.search.Search(ctx, sub.Request)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	ids := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		ids = append(ids, it.ID)
	}
	if _, err := d.notifier.Send(ctx, notify.Request{
		Items:     ids,
		Recipient: sub.Recipient,
		Template:  "opportunity_digest",
	}); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
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

	client, err := subscription.NewRedisClient(subscription.RedisConfig{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	defer client.Close()

	sc := cfg.SourceConfig()
	d := &digest{
		store:    subscription.NewRedisStore(client, cfg.Redis.KeyPrefix),
		search:   pipeline.NewService(pipeline.NewRegistry(sc), sc.HomeRegion, pipeline.WithLogger(lg)),
		notifier: notify.NewWhatsAppStub(lg),
		log:      lg,
	}
	lambda.Start(d.Handle)
}
