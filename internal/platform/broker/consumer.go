package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	feed "entuKaart/internal/modules/feed/domain"
	setup "entuKaart/internal/modules/setup/domain"
)

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Consume reads until ctx is cancelled, handing every decoded message to handler.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*feed.Message) error) error {
	defer c.reader.Close()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		msg := decodeMessage(m)
		slog.Debug("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("feedTopic", msg.Topic),
			slog.String("resourceId", msg.ResourceID),
		)
		if err := handler(msg); err != nil {
			slog.Warn("kafka handler error", slog.Any("error", err))
		}
	}
}

// decodeMessage turns a setup event into a feed message. Values that are not
// setup events are forwarded raw on <topic>.raw.
func decodeMessage(m kafka.Message) *feed.Message {
	var event setup.SetupEvent
	if err := json.Unmarshal(m.Value, &event); err != nil || event.Action == "" || event.Kind == "" {
		return &feed.Message{
			Topic:     feed.CustomTopic(normalizeTopic(m.Topic), "raw"),
			Entity:    normalizeTopic(m.Topic),
			Action:    "raw",
			Data:      string(m.Value),
			Timestamp: time.Now().UTC(),
		}
	}

	at := event.At.UTC()
	if event.At.IsZero() {
		at = time.Now().UTC()
	}
	return &feed.Message{
		Topic:      feed.CustomTopic(feed.SetupEntity, string(event.Action)),
		Entity:     string(event.Kind),
		Action:     string(event.Action),
		ResourceID: event.ID,
		Metadata: map[string]string{
			"runId": firstNonEmpty(event.RunID, string(m.Key)),
			"key":   event.Key,
		},
		Data:      event,
		Timestamp: at,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func normalizeTopic(topic string) string {
	if idx := strings.LastIndex(topic, "."); idx >= 0 {
		topic = topic[idx+1:]
	}
	if topic = strings.TrimSpace(topic); topic == "" {
		return "unknown"
	}
	return topic
}
