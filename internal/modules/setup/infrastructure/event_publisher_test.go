package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"entuKaart/internal/modules/setup/domain"
)

type recordingWriter struct {
	keys   []string
	values []any
	err    error
}

func (w *recordingWriter) Publish(_ context.Context, key string, value any) error {
	w.keys = append(w.keys, key)
	w.values = append(w.values, value)
	return w.err
}

func TestBrokerEventPublisher_KeysByRun(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{}
	publisher := NewBrokerEventPublisher(writer)
	event := domain.SetupEvent{RunID: "run-1", Kind: domain.KindType, Key: "kaart", Action: domain.ActionCreated, ID: "k1"}

	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(writer.keys) != 1 || writer.keys[0] != "run-1" {
		t.Fatalf("expected run id key, got %v", writer.keys)
	}
	if got, ok := writer.values[0].(domain.SetupEvent); !ok || got.ID != "k1" {
		t.Fatalf("unexpected published value %#v", writer.values[0])
	}

	writer.err = errors.New("broker down")
	if err := publisher.Publish(context.Background(), event); err == nil {
		t.Fatalf("expected error to propagate")
	}
}

type blockingWriter struct{}

func (blockingWriter) Publish(ctx context.Context, _ string, _ any) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestBrokerEventPublisher_BoundsEachPublish(t *testing.T) {
	t.Parallel()

	publisher := NewBrokerEventPublisher(blockingWriter{})
	publisher.timeout = 20 * time.Millisecond

	start := time.Now()
	err := publisher.Publish(context.Background(), domain.SetupEvent{RunID: "run-1", Key: "kaart"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("publish blocked for %s", elapsed)
	}
}
