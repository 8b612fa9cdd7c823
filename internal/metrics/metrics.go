// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordPostCreated()
	RecordPostEdited()
	RecordFeedQuery(scope string, duration time.Duration)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	postsCreated     prometheus.Counter
	postsEdited      prometheus.Counter
	feedQueries      *prometheus.CounterVec
	feedQueryLatency prometheus.Histogram
	httpStatus       *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "miniblog_posts_created_total",
			Help: "作成された投稿の合計数",
		}),
		postsEdited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "miniblog_posts_edited_total",
			Help: "編集された投稿の合計数",
		}),
		feedQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "miniblog_feed_queries_total",
			Help: "スコープ別のフィードクエリ数",
		}, []string{"scope"}),
		feedQueryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "miniblog_feed_query_latency_seconds",
			Help:    "フィードクエリのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "miniblog_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.postsCreated,
		c.postsEdited,
		c.feedQueries,
		c.feedQueryLatency,
		c.httpStatus,
	)

	return c
}

// RecordPostCreated は投稿作成を記録する。
func (c *Collector) RecordPostCreated() {
	c.postsCreated.Inc()
}

// RecordPostEdited は投稿編集を記録する。
func (c *Collector) RecordPostEdited() {
	c.postsEdited.Inc()
}

// RecordFeedQuery はフィードクエリの実行とレイテンシを記録する。
func (c *Collector) RecordFeedQuery(scope string, duration time.Duration) {
	c.feedQueries.WithLabelValues(scope).Inc()
	c.feedQueryLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
