// Package metrics 提供基于Prometheus的指标收集
//
// 指标类型约定:
// - Counter: 只增不减的累计值,名称以_total结尾(请求数、订单数)
// - Gauge: 可增可减的瞬时值(处理中的请求数、熔断器状态)
// - Histogram: 观测值分布,名称以单位结尾(_seconds),用于查询分位数
//
// 使用方式:
// 1. 启动时调用一次InitMetrics()注册所有指标
// 2. /metrics端点由promhttp.Handler()暴露,Prometheus周期抓取
// 3. 标签只用低基数维度(method、path、status、mode),不用用户ID等高基数值
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化(防止重复注册panic)
	initialized bool

	// HTTP请求指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签: method(GET/POST)、path(路由模板)、status(状态码)
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时(秒)
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 订单业务指标

	// OrdersCreatedTotal 订单创建成功总数
	OrdersCreatedTotal prometheus.Counter

	// OrdersFailedTotal 订单创建失败总数
	OrdersFailedTotal prometheus.Counter

	// OrdersReplacedTotal 整单换货成功总数
	OrdersReplacedTotal prometheus.Counter

	// OrdersDeletedTotal 订单删除总数
	OrdersDeletedTotal prometheus.Counter

	// OrderCreationDuration 下单事务耗时(秒)
	OrderCreationDuration prometheus.Histogram

	// InsufficientStockTotal 因库存不足被拒绝的请求总数
	InsufficientStockTotal prometheus.Counter

	// 批量调价指标

	// PricingUpdatesTotal 批量调价执行总数
	// 标签: mode(set/scale/discount)
	PricingUpdatesTotal *prometheus.CounterVec

	// PricingRowsUpdatedTotal 批量调价累计更新的行数
	PricingRowsUpdatedTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态(0=CLOSED, 1=OPEN, 2=HALF_OPEN)
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签: name(熔断器名称)、result(success/failure/rejected)
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 事件发布成功总数
	// 标签: exchange(交换机)、routing_key(路由键)
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagePublishFailuresTotal 事件发布失败总数(含熔断拒绝)
	MessagePublishFailuresTotal prometheus.Counter
)

// InitMetrics 初始化所有Prometheus指标
// 必须在程序启动时调用一次;promauto自动注册到默认Registry
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时(秒)",
			// 1ms到10s,覆盖常规请求耗时范围
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 订单业务指标
	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "订单创建成功总数",
		},
	)

	OrdersFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "订单创建失败总数",
		},
	)

	OrdersReplacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_replaced_total",
			Help: "整单换货成功总数",
		},
	)

	OrdersDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_deleted_total",
			Help: "订单删除总数",
		},
	)

	OrderCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "order_creation_duration_seconds",
			Help: "下单事务耗时(秒)",
			// 下单涉及事务内多次读写,桶从10ms起
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	InsufficientStockTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "insufficient_stock_total",
			Help: "因库存不足被拒绝的请求总数",
		},
	)

	// 批量调价指标
	PricingUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_updates_total",
			Help: "批量调价执行总数",
		},
		[]string{"mode"},
	)

	PricingRowsUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_rows_updated_total",
			Help: "批量调价累计更新的行数",
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态(0=CLOSED, 1=OPEN, 2=HALF_OPEN)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "事件发布成功总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagePublishFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "message_publish_failures_total",
			Help: "事件发布失败总数",
		},
	)
}

// IncCounter 递增Counter
// 指标未初始化时静默跳过,库代码不因观测缺失而崩溃
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// IncCounterVec 递增CounterVec(带标签)
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

// AddCounter Counter累加指定值
func AddCounter(counter prometheus.Counter, value float64) {
	if counter != nil {
		counter.Add(value)
	}
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Inc()
	}
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Dec()
	}
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge != nil {
		gauge.Set(value)
	}
}

// SetGaugeVec 设置GaugeVec值(带标签)
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge != nil {
		gauge.With(labels).Set(value)
	}
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec 记录HistogramVec观测值(带标签)
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram != nil {
		histogram.With(labels).Observe(value)
	}
}
