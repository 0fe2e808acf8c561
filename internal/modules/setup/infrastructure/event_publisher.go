package infrastructure

import (
	"context"
	"log/slog"
	"time"

	"entuKaart/internal/modules/setup/application/port"
	"entuKaart/internal/modules/setup/domain"
)

// MessageWriter is satisfied by broker.KafkaProducer.
type MessageWriter interface {
	Publish(ctx context.Context, key string, value any) error
}

// publishTimeout bounds a single event so an unreachable broker cannot stall a setup run.
const publishTimeout = 2 * time.Second

// BrokerEventPublisher sends setup events keyed by run ID so one run stays on one partition.
type BrokerEventPublisher struct {
	writer  MessageWriter
	timeout time.Duration
}

func NewBrokerEventPublisher(writer MessageWriter) *BrokerEventPublisher {
	return &BrokerEventPublisher{writer: writer, timeout: publishTimeout}
}

func (p *BrokerEventPublisher) Publish(ctx context.Context, event domain.SetupEvent) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.Publish(ctx, event.RunID, event); err != nil {
		slog.Warn("setup event publish failed", slog.String("runId", event.RunID), slog.String("key", event.Key), slog.Any("error", err))
		return err
	}
	return nil
}

// NopEventPublisher is used when no brokers are configured.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(context.Context, domain.SetupEvent) error { return nil }

var (
	_ port.EventPublisher = (*BrokerEventPublisher)(nil)
	_ port.EventPublisher = NopEventPublisher{}
)
