package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"power-team-radar/internal/logger"
)

// NewRouter wires the handler into a gin engine. gatherer backs /metrics;
// nil uses the default Prometheus registry.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) *gin.Engine {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.log.Error("Handler panicked",
			logger.String("path", c.Request.URL.Path),
			logger.Any("panic", recovered),
		)
		errorJSON(c, http.StatusInternalServerError, fmt.Sprint(recovered))
	}))
	r.Use(requestLogger(h.log))

	r.NoMethod(func(c *gin.Context) {
		errorJSON(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NoRoute(func(c *gin.Context) {
		errorJSON(c, http.StatusNotFound, "Not found")
	})

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	opp := r.Group("/opportunities")
	opp.POST("/search", h.Search)
	opp.POST("/subscribe", h.Subscribe)

	r.POST("/notify/whatsapp", h.NotifyWhatsApp)
	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug("HTTP request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
		)
	}
}
