package broker

import (
	"context"
	"log/slog"

	feed "entuKaart/internal/modules/feed/domain"
	"entuKaart/internal/modules/feed/infrastructure"
)

// StartKafkaConsumers starts one reader per topic. It is a no-op without brokers.
func StartKafkaConsumers(
	ctx context.Context,
	registry *infrastructure.HandlerRegistry,
	brokers []string,
	groupID string,
	topics []string,
) {
	if len(brokers) == 0 {
		slog.Info("kafka brokers not configured, setup feed consumer disabled")
		return
	}
	for _, topic := range topics {
		go func(tp string) {
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			slog.Info("kafka consumer started", slog.String("topic", tp), slog.String("group", groupID))
			_ = consumer.Consume(ctx, func(msg *feed.Message) error {
				return registry.Dispatch(ctx, msg)
			})
		}(topic)
	}
}
