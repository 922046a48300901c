// Package metrics 定义 vidrec 的 Prometheus 指标。
//
// 指标通过 promauto 注册到默认 Registry，由 server 包在 /metrics 暴露。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 排序请求
	RankRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidrec_rank_requests_total",
			Help: "Total number of ranking requests",
		},
		[]string{"status"}, // "ok", error code
	)

	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vidrec_rank_duration_seconds",
			Help:    "End-to-end duration of a ranking request in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RankResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vidrec_rank_result_size",
			Help:    "Number of items returned per ranking request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	// Pipeline 节点
	NodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidrec_pipeline_node_duration_seconds",
			Help:    "Duration of a pipeline node in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"node", "kind"},
	)

	NodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidrec_pipeline_node_errors_total",
			Help: "Total number of pipeline node failures",
		},
		[]string{"node", "kind"},
	)

	// 目录
	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidrec_catalog_items",
			Help: "Number of items in the most recently loaded catalog snapshot",
		},
	)

	// 数据源
	SourceQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidrec_source_query_duration_seconds",
			Help:    "Duration of data source reads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "operation"},
	)

	SourceQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidrec_source_query_errors_total",
			Help: "Total number of data source read failures",
		},
		[]string{"source", "operation"},
	)

	// 投递
	DeliveryPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidrec_delivery_published_total",
			Help: "Total number of ranked lists published",
		},
		[]string{"publisher", "status"}, // "ok", "error", "rejected"
	)
)

// RecordRank 记录一次排序请求。
func RecordRank(status string, duration time.Duration, resultSize int) {
	RankRequests.WithLabelValues(status).Inc()
	RankDuration.Observe(duration.Seconds())
	if status == "ok" {
		RankResultSize.Observe(float64(resultSize))
	}
}

// RecordNode 记录一个 Pipeline 节点的耗时与失败。
func RecordNode(node, kind string, duration time.Duration, err error) {
	NodeDuration.WithLabelValues(node, kind).Observe(duration.Seconds())
	if err != nil {
		NodeErrors.WithLabelValues(node, kind).Inc()
	}
}

// RecordSourceQuery 记录一次数据源读取。
func RecordSourceQuery(source, operation string, duration time.Duration, err error) {
	SourceQueryDuration.WithLabelValues(source, operation).Observe(duration.Seconds())
	if err != nil {
		SourceQueryErrors.WithLabelValues(source, operation).Inc()
	}
}

// RecordPublish 记录一次投递结果。
func RecordPublish(publisher, status string) {
	DeliveryPublished.WithLabelValues(publisher, status).Inc()
}
