package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsp_users_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求延迟（秒）
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rsp_users_api_request_duration_seconds",
			Help:    "API 请求延迟分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// APIResponseSize API 响应体大小（字节）
	APIResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rsp_users_api_response_size_bytes",
			Help:    "API 响应体大小分布",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path"},
	)
)

// 审计指标
var (
	// AuditRecordsTotal 写入的审计记录数
	AuditRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsp_users_audit_records_total",
			Help: "生成的审计记录总数",
		},
		[]string{"action"},
	)

	// AuditRecordsSkipped 因关联实体缺失而跳过的审计记录数
	AuditRecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsp_users_audit_records_skipped_total",
			Help: "跳过的审计记录总数",
		},
		[]string{"reason"},
	)

	// AuditActorMissing 无法解析操作者的提交次数
	AuditActorMissing = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rsp_users_audit_actor_missing_total",
			Help: "未解析到操作者的审计提交次数",
		},
	)

	// AuditWriteFailures 审计记录写入失败次数（导致事务回滚）
	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rsp_users_audit_write_failures_total",
			Help: "审计记录写入失败次数",
		},
	)
)

// RecordAuditRecords 记录生成的审计记录
func RecordAuditRecords(action string, n int) {
	if n <= 0 {
		return
	}
	AuditRecordsTotal.WithLabelValues(action).Add(float64(n))
}

// RecordAuditSkipped 记录跳过的审计记录
func RecordAuditSkipped(reason string) {
	AuditRecordsSkipped.WithLabelValues(reason).Inc()
}
