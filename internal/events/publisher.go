package events

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/onlinestore/internal/config"
	"github.com/onlinestore/internal/constants"

	"github.com/segmentio/kafka-go"
)

const (
	defaultOrderTopic   = "order.placed"
	defaultProducerName = "onlinestore-api"
	defaultWriteTimeout = 5 * time.Second
	defaultBatchTimeout = 10 * time.Millisecond

	headerEventType    = "x-event-type"
	headerEventVersion = "x-event-version"
)

// ErrPublisherClosed 发布器已关闭
var ErrPublisherClosed = errors.New("event publisher closed")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher Kafka 领域事件发布器，未启用时所有发布均为空操作
type Publisher struct {
	writer       messageWriter
	enabled      bool
	producer     string
	writeTimeout time.Duration
	closed       atomic.Bool
}

// NewPublisher 根据配置创建发布器
func NewPublisher(cfg *config.KafkaConfig) *Publisher {
	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		return &Publisher{enabled: false, producer: defaultProducerName}
	}
	topic := strings.TrimSpace(cfg.OrderTopic)
	if topic == "" {
		topic = defaultOrderTopic
	}
	batchTimeout := defaultBatchTimeout
	if cfg.BatchTimeoutMS > 0 {
		batchTimeout = time.Duration(cfg.BatchTimeoutMS) * time.Millisecond
	}
	writeTimeout := defaultWriteTimeout
	if cfg.WriteTimeoutMS > 0 {
		writeTimeout = time.Duration(cfg.WriteTimeoutMS) * time.Millisecond
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: cfg.AllowAutoCreate,
	}
	return newPublisherWithWriter(writer, resolveProducer(cfg.Producer), writeTimeout)
}

func newPublisherWithWriter(writer messageWriter, producer string, writeTimeout time.Duration) *Publisher {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &Publisher{
		writer:       writer,
		enabled:      writer != nil,
		producer:     resolveProducer(producer),
		writeTimeout: writeTimeout,
	}
}

func resolveProducer(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultProducerName
	}
	return name
}

// Enabled 判断是否启用
func (p *Publisher) Enabled() bool {
	return p != nil && p.enabled && p.writer != nil
}

// PublishOrderPlaced 发布下单成功事件，分区 key 为订单 ID
func (p *Publisher) PublishOrderPlaced(ctx context.Context, traceID string, event OrderPlaced) error {
	if !p.Enabled() {
		return nil
	}
	env, err := NewEnvelope(constants.EventTypeOrderPlaced, constants.EventVersionOrderPlaced, p.producer, traceID, event)
	if err != nil {
		return err
	}
	return p.publish(ctx, strconv.FormatUint(uint64(event.OrderID), 10), env)
}

func (p *Publisher) publish(ctx context.Context, key string, env Envelope) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(env.EventType)},
			{Key: headerEventVersion, Value: []byte(strconv.Itoa(env.EventVersion))},
		},
	})
}

// Close 关闭底层 writer，刷新未发送的批次
func (p *Publisher) Close() error {
	if !p.Enabled() || !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
