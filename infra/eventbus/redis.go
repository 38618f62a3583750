package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

// RedisEventBusConfig names the streams and consumer group used by the bus.
type RedisEventBusConfig struct {
	StreamPrefix string
	Group        string
	Block        time.Duration
}

// RedisEventBus publishes events to one Redis stream per event type and
// consumes them through a consumer group.
type RedisEventBus struct {
	client *redis.Client
	config RedisEventBusConfig
	types  map[events.EventType]func() events.Event
	logger *slog.Logger

	mu        sync.Mutex
	handlers  map[events.EventType][]eventbus.HandlerFunc
	consumers map[events.EventType]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis creates a new Redis-backed event bus.
// url: Redis connection URL (e.g., "redis://localhost:6379")
func NewWithRedis(url string, config RedisEventBusConfig, logger *slog.Logger) (*RedisEventBus, error) {
	if url == "" || config.StreamPrefix == "" || config.Group == "" {
		return nil, fmt.Errorf("redis event bus: url, stream and group are required")
	}
	if config.Block <= 0 {
		config.Block = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus := &RedisEventBus{
		client:    client,
		config:    config,
		types:     events.EventTypes,
		logger:    logger.With("bus", "redis"),
		handlers:  make(map[events.EventType][]eventbus.HandlerFunc),
		consumers: make(map[events.EventType]struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	bus.logger.Info("🚀 Redis event bus initialized", "stream_prefix", config.StreamPrefix, "group", config.Group)
	return bus, nil
}

// Emit publishes an event to the stream of its type.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	envBytes, err := encode(event)
	if err != nil {
		b.logger.Error("failed to encode event", "error", err, "type", event.Type())
		return fmt.Errorf("redis event bus: %w", err)
	}
	stream := streamNameFor(b.config.StreamPrefix, events.EventType(event.Type()))
	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"event": string(envBytes)},
	}).Err(); err != nil {
		b.logger.Error("failed to emit event", "error", err, "type", event.Type())
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	b.logger.Debug("event emitted", "type", event.Type(), "stream", stream)
	return nil
}

// Register adds handler for eventType and starts the stream consumer for
// that type on first use.
func (b *RedisEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	if _, ok := b.consumers[eventType]; ok {
		return
	}
	b.consumers[eventType] = struct{}{}

	stream := streamNameFor(b.config.StreamPrefix, eventType)
	if err := b.client.XGroupCreateMkStream(b.ctx, stream, b.config.Group, "0").Err(); err != nil &&
		!isBusyGroup(err) {
		b.logger.Error("failed to create consumer group", "error", err, "stream", stream)
	}
	host, _ := os.Hostname()
	consumer := fmt.Sprintf("%s-%d", host, os.Getpid())
	b.logger.Info("registering handler", "event_type", eventType, "stream", stream, "consumer", consumer)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(eventType, stream, consumer)
	}()
}

func (b *RedisEventBus) consume(eventType events.EventType, stream, consumer string) {
	for {
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    b.config.Group,
			Consumer: consumer,
			Streams:  []string{stream, ">"},
			Count:    10,
			Block:    b.config.Block,
		}).Result()
		if b.ctx.Err() != nil {
			return
		}
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				b.logger.Error("error reading from stream", "error", err, "stream", stream)
				time.Sleep(time.Second)
			}
			continue
		}
		for _, s := range res {
			for _, msg := range s.Messages {
				b.process(eventType, stream, msg)
			}
		}
	}
}

func (b *RedisEventBus) process(eventType events.EventType, stream string, msg redis.XMessage) {
	defer func() {
		if err := b.client.XAck(b.ctx, stream, b.config.Group, msg.ID).Err(); err != nil {
			b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
		}
	}()
	raw, ok := msg.Values["event"].(string)
	if !ok {
		b.pushToDLQ(eventType, msg.Values)
		return
	}
	evt, err := decode([]byte(raw), b.types)
	if err != nil {
		b.logger.Error("failed to decode event", "error", err, "msg_id", msg.ID)
		b.pushToDLQ(eventType, msg.Values)
		return
	}
	b.mu.Lock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[eventType]...)
	b.mu.Unlock()
	if !executeHandlers(b.ctx, b.logger, evt, handlers, msg.ID) {
		b.pushToDLQ(eventType, msg.Values)
	}
}

// pushToDLQ pushes the raw event to the DLQ stream of its type for inspection.
func (b *RedisEventBus) pushToDLQ(eventType events.EventType, values map[string]any) {
	dlqStream := dlqStreamName(b.config.StreamPrefix, eventType)
	if err := b.client.XAdd(b.ctx, &redis.XAddArgs{
		Stream: dlqStream,
		Values: values,
	}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "error", err, "stream", dlqStream)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlqStream)
}

// Close stops the consumers and closes the client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
