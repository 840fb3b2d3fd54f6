// =============================================================================
// metrics.go - Prometheusメトリクス
// =============================================================================
//
//   radar_source_fetch_total{source,outcome}   タスク実行回数（ok / error / timeout / panic）
//   radar_source_candidates_total{source}      ソースが返した候補数
//   radar_source_duration_seconds{source}      タスク所要時間
//   radar_search_fallback_total                フォールバック発動回数
//
// nil の *Metrics はすべての記録を無視する（テスト・CLI向け）。
//
// =============================================================================
package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 取得結果の分類
const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeTimeout = "timeout"
	outcomePanic   = "panic"
)

// Metrics はパイプラインのPrometheusコレクタ
type Metrics struct {
	fetchTotal *prometheus.CounterVec
	candidates *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	fallback   prometheus.Counter
}

// NewMetrics registers the pipeline collectors with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		fetchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "radar_source_fetch_total",
			Help: "Source tasks executed, by outcome.",
		}, []string{"source", "outcome"}),
		candidates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "radar_source_candidates_total",
			Help: "Candidates returned by each source.",
		}, []string{"source"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "radar_source_duration_seconds",
			Help:    "Duration of a single source task.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 4.5, 6},
		}, []string{"source"}),
		fallback: f.NewCounter(prometheus.CounterOpts{
			Name: "radar_search_fallback_total",
			Help: "Searches answered from the fallback set.",
		}),
	}
}

func (m *Metrics) observeTask(src Source, outcome string, n int, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(string(src), outcome).Inc()
	m.candidates.WithLabelValues(string(src)).Add(float64(n))
	m.duration.WithLabelValues(string(src)).Observe(d.Seconds())
}

func (m *Metrics) fallbackUsed() {
	if m == nil {
		return
	}
	m.fallback.Inc()
}
