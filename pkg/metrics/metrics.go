package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// CacheOps — операции кэша активного списка.
	// op: hit | miss | degraded | invalidated | invalidate_failed
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_list_cache_operations_total",
			Help: "Operations against the active order list cache",
		},
		[]string{"op"},
	)

	// RetentionRuns — запуски retention-джобы.
	// result: ok | error | skipped
	RetentionRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retention_runs_total",
			Help: "Retention job runs",
		},
		[]string{"result"},
	)

	// RetentionDeleted — удалённые retention-джобой заказы.
	RetentionDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "retention_orders_deleted_total",
			Help: "Delivered orders removed by the retention job",
		},
	)
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		CacheOps, RetentionRuns, RetentionDeleted,
		KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
	)
}
