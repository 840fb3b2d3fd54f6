// =============================================================================
// handlers.go - コマンドハンドラ
// =============================================================================
//
// このファイルはCLIコマンドの各ハンドラ関数を提供します。
//
// 【このファイルで提供する機能】
//   - runSearch:  1回検索してJSONを出力（任意でNotion保存）
//   - runServe:   HTTP APIの起動
//
// 【共通ヘルパー関数】
//   - newSearchService:    設定からパイプラインを構築
//   - newSubscriptionStore: REDIS_ADDRESS があればRedis、なければメモリ
//   - clipToNotion / clipWith: Notionへの保存
//
// =============================================================================
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"power-team-radar/internal/logger"
	"power-team-radar/internal/notify"
	"power-team-radar/internal/pipeline"
	"power-team-radar/internal/server"
	"power-team-radar/internal/subscription"
)

var (
	searchFlags SearchFlags
	outputFlags OutputFlags
	serveFlags  ServeFlags
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one search and print the opportunities as JSON",
	Long: `Run one search against all configured sources and print the ranked
opportunities as JSON on stdout (or to --out).

Examples:
  radar search                                     # health, Malaysia, last 7 days
  radar search --industries nutrition,dietitian    # user industries join the query
  radar search --locations "Kuala Lumpur,Penang"   # one query per location
  radar search --notion-clip                       # also clip to Notion`,
	RunE: runSearch,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(searchCmd, serveCmd)

	searchFlags.register(searchCmd.Flags())
	outputFlags.register(searchCmd.Flags())
	serveCmd.Flags().IntVar(&serveFlags.Port, "port", 0, "listen port (default: server.port / SERVER_PORT)")
}

// =============================================================================
// search
// =============================================================================

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc := newSearchService(nil)

	resp, err := svc.Search(ctx, searchFlags.Request())
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if outputFlags.OutFile != "" {
		if err := pipeline.WriteJSONFile(outputFlags.OutFile, resp); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		appLog.Info("Wrote opportunities",
			logger.Int("count", len(resp.Items)),
			logger.String("path", outputFlags.OutFile),
		)
	} else if err := pipeline.WriteJSON(os.Stdout, resp); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if outputFlags.NotionClip {
		return clipToNotion(ctx, resp.Items)
	}
	return nil
}

// notionClipper は clipToNotion が使う NotionClipper の操作
type notionClipper interface {
	DatabaseID() string
	CreateDatabase(ctx context.Context, pageID string) error
	ClipAll(ctx context.Context, items []pipeline.Opportunity) (int, error)
}

// clipToNotion はデータベースがなければ作成し、全件を保存する
func clipToNotion(ctx context.Context, items []pipeline.Opportunity) error {
	nc := appCfg.Notion
	clipper, err := pipeline.NewNotionClipper(nc.Token, nc.DatabaseID)
	if err != nil {
		return err
	}

	pageID := outputFlags.NotionPageID
	if pageID == "" {
		pageID = nc.PageID
	}
	return clipWith(ctx, clipper, pageID, ".env", items, appLog)
}

// clipWith は clipper に全件を保存する。新規作成したデータベースIDは envPath に書き戻す
//
// 一部の保存失敗はwarnログのみで、エラーにはしない。
func clipWith(ctx context.Context, clipper notionClipper, pageID, envPath string, items []pipeline.Opportunity, log logger.Logger) error {
	if clipper.DatabaseID() == "" {
		if pageID == "" {
			return errors.New("--notion-page-id is required when creating a new Notion database")
		}
		log.Info("Creating new Notion database", logger.String("page_id", pageID))
		if err := clipper.CreateDatabase(ctx, pageID); err != nil {
			return err
		}
		// 次回以降のために .env に保存
		if err := appendToEnvFile(envPath, "NOTION_DATABASE_ID", clipper.DatabaseID()); err != nil {
			log.Warn("Failed to save Notion database ID; add NOTION_DATABASE_ID to .env manually",
				logger.String("database_id", clipper.DatabaseID()),
				logger.String("path", envPath),
				logger.Error(err),
			)
		}
	}

	clipped, err := clipper.ClipAll(ctx, items)
	if err != nil {
		log.Warn("Some opportunities were not clipped to Notion",
			logger.Int("clipped", clipped),
			logger.Int("total", len(items)),
			logger.Error(err),
		)
		return nil
	}
	log.Info("Clipped opportunities to Notion",
		logger.Int("clipped", clipped),
		logger.Int("total", len(items)),
	)
	return nil
}

// =============================================================================
// serve
// =============================================================================

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := pipeline.NewMetrics(prometheus.DefaultRegisterer)
	svc := newSearchService(metrics)

	store, closeStore, err := newSubscriptionStore()
	if err != nil {
		return err
	}
	defer closeStore()

	gin.SetMode(gin.ReleaseMode)
	h := server.NewHandler(svc, store, notify.NewWhatsAppStub(appLog), appLog)
	router := server.NewRouter(h, prometheus.DefaultGatherer)

	port := appCfg.Server.Port
	if serveFlags.Port > 0 {
		port = serveFlags.Port
	}
	return server.Run(ctx, port, router, appLog)
}

// =============================================================================
// 共通ヘルパー
// =============================================================================

func newSearchService(metrics *pipeline.Metrics) *pipeline.Service {
	sc := appCfg.SourceConfig()
	adapters := pipeline.NewRegistry(sc)
	appLog.Info("Sources registered", logger.Strings("sources", pipeline.SourceNames(adapters)))

	return pipeline.NewService(adapters, sc.HomeRegion,
		pipeline.WithLogger(appLog),
		pipeline.WithMetrics(metrics),
	)
}

func newSubscriptionStore() (subscription.Store, func(), error) {
	rc := appCfg.Redis
	if rc.Address == "" {
		appLog.Info("Using in-memory subscription store")
		return subscription.NewMemoryStore(), func() {}, nil
	}

	client, err := subscription.NewRedisClient(subscription.RedisConfig{
		Address:  rc.Address,
		Password: rc.Password,
		DB:       rc.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	appLog.Info("Using Redis subscription store", logger.String("address", rc.Address))
	return subscription.NewRedisStore(client, rc.KeyPrefix), func() { _ = client.Close() }, nil
}
