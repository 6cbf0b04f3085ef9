//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	ikafka "github.com/Gunvolt24/resto-orders/internal/kafka"
	pgrepo "github.com/Gunvolt24/resto-orders/internal/repo/postgres"
	"github.com/Gunvolt24/resto-orders/internal/testutil"
	"github.com/Gunvolt24/resto-orders/internal/usecase"
	"github.com/Gunvolt24/resto-orders/pkg/logger"
	"github.com/Gunvolt24/resto-orders/pkg/validate"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

// memCache — кэш-заглушка, чтобы не поднимать Redis в kafka-тестах.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type stack struct {
	ctx      context.Context
	repo     *pgrepo.OrderRepository
	service  *usecase.OrderService
	consumer *ikafka.Consumer
	brokers  []string
	topic    string
}

// newStack — pg + redpanda + собранный консьюмер на уникальном топике.
func newStack(t *testing.T) *stack {
	t.Helper()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancelStart)

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })

	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "orders-itc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	t.Cleanup(cancel)

	topic, group := testutil.UniqueTopicAndGroup(kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic))

	logg, cleanupLog, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanupLog() })

	repo := pgrepo.NewOrderRepository(pg.Pool)
	service := usecase.NewOrderService(repo, newMemCache(), logg, validate.NewOrderValidator(), "orders:active", 30*time.Second)

	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 5 * time.Second,
		RetryInitial:   200 * time.Millisecond,
		RetryMax:       2 * time.Second,
	}, service, logg)
	t.Cleanup(func() { _ = consumer.Close() })

	return &stack{ctx: ctx, repo: repo, service: service, consumer: consumer, brokers: kf.Brokers, topic: topic}
}

func newWriter(s *stack) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(s.brokers...),
		Topic:        s.topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
}

// waitOrders — ждёт, пока в БД появится ровно want активных заказов.
func waitOrders(t *testing.T, s *stack, want int) {
	t.Helper()
	deadline := time.Now().Add(30 * time.Second)
	for {
		got, err := s.repo.ListActive(s.ctx)
		require.NoError(t, err)
		if len(got) == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("want %d orders in db, got %d", want, len(got))
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// 1) Валидная команда создаёт заказ в БД
func TestKafka_ValidMessage_CreatesOrder_TC(t *testing.T) {
	s := newStack(t)

	runCtx, cancelRun := context.WithCancel(s.ctx)
	defer cancelRun()
	go func() { _ = s.consumer.Run(runCtx) }()

	// даём консьюмеру присоединиться к группе
	time.Sleep(1500 * time.Millisecond)

	raw, err := json.Marshal(map[string]any{
		"client_name": "Ana López",
		"items": []map[string]any{
			{"description": "Ceviche", "quantity": 2, "unit_price": "50"},
			{"description": "Chicha morada", "quantity": 1, "unit_price": "10"},
		},
	})
	require.NoError(t, err)

	w := newWriter(s)
	defer w.Close()
	require.NoError(t, w.WriteMessages(s.ctx, kafka.Message{Value: raw}))

	waitOrders(t, s, 1)

	got, err := s.repo.ListActive(s.ctx)
	require.NoError(t, err)
	require.Equal(t, "Ana López", got[0].ClientName)
	require.Equal(t, "110", got[0].TotalAmount.String())
}

// 2) Мусор и невалидный заказ пропускаются, валидный после них — сохраняется
func TestKafka_SkipsGarbage_ThenSavesValid_TC(t *testing.T) {
	s := newStack(t)

	runCtx, cancelRun := context.WithCancel(s.ctx)
	defer cancelRun()
	go func() { _ = s.consumer.Run(runCtx) }()

	time.Sleep(1500 * time.Millisecond)

	valid, err := json.Marshal(map[string]any{
		"client_name": "Luis",
		"items":       []map[string]any{{"description": "Lomo saltado", "quantity": 1, "unit_price": "35.50"}},
	})
	require.NoError(t, err)

	w := newWriter(s)
	defer w.Close()
	require.NoError(t, w.WriteMessages(s.ctx,
		kafka.Message{Value: []byte("{not-json")},
		kafka.Message{Value: []byte(`{"client_name":"","items":[]}`)},
		kafka.Message{Value: valid},
	))

	waitOrders(t, s, 1)

	got, err := s.repo.ListActive(s.ctx)
	require.NoError(t, err)
	require.Equal(t, "Luis", got[0].ClientName)
}
