// =============================================================================
// handlers.go - HTTPハンドラ
// =============================================================================
//
// 【エンドポイント】
//   POST /opportunities/search     検索（200 {items}）
//   POST /opportunities/subscribe  保存検索の登録（200 {status, subscription_id}）
//   POST /notify/whatsapp          通知スタブ（200 {status:"sent", count, recipient}）
//   GET  /health                   {status:"ok"}
//   GET  /metrics                  Prometheus
//
// 【エラー応答】すべて {"error": "..."}
//   400 JSON不正・必須項目なし / 405 メソッド不一致 / 500 想定外の失敗
//
// =============================================================================
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"power-team-radar/internal/logger"
	"power-team-radar/internal/notify"
	"power-team-radar/internal/pipeline"
	"power-team-radar/internal/subscription"
)

// Searcher runs an opportunity search.
type Searcher interface {
	Search(ctx context.Context, req pipeline.SearchRequest) (*pipeline.SearchResponse, error)
}

// Handler serves the radar API.
type Handler struct {
	search   Searcher
	subs     subscription.Store
	notifier notify.Notifier
	log      logger.Logger
	now      func() time.Time
}

// NewHandler creates a handler. A nil logger disables logging.
func NewHandler(search Searcher, subs subscription.Store, notifier notify.Notifier, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{search: search, subs: subs, notifier: notifier, log: log, now: time.Now}
}

// subscribeRequest は保存検索の登録リクエスト
//
// 検索条件はトップレベルに並べる（検索リクエストと同じ形 + recipient）。
type subscribeRequest struct {
	pipeline.SearchRequest
	Recipient string `json:"recipient"`
}

type subscribeResponse struct {
	Status         string `json:"status"`
	SubscriptionID string `json:"subscription_id"`
}

// bindJSON は空ボディを「全項目未指定」として扱う
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// Search handles POST /opportunities/search.
func (h *Handler) Search(c *gin.Context) {
	var req pipeline.SearchRequest
	if err := bindJSON(c, &req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := h.search.Search(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Search failed", logger.Error(err))
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Subscribe handles POST /opportunities/subscribe.
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := bindJSON(c, &req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	sub, err := subscription.New(req.Recipient, req.SearchRequest, h.now())
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.subs.Save(c.Request.Context(), sub); err != nil {
		h.log.Error("Subscription save failed", logger.Error(err))
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.Info("Subscription created",
		logger.String("subscription_id", sub.ID),
		logger.Strings("industries", sub.Request.Industries),
		logger.Strings("locations", sub.Request.Locations),
	)
	c.JSON(http.StatusOK, subscribeResponse{Status: "ok", SubscriptionID: sub.ID})
}

// NotifyWhatsApp handles POST /notify/whatsapp.
func (h *Handler) NotifyWhatsApp(c *gin.Context) {
	var req notify.Request
	if err := bindJSON(c, &req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	res, err := h.notifier.Send(c.Request.Context(), req)
	if errors.Is(err, notify.ErrMissingRecipient) {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.log.Error("Notification failed", logger.Error(err))
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
