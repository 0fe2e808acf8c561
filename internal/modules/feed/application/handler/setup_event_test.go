package handler

import (
	"context"
	"testing"

	"entuKaart/internal/modules/feed/application/usecase"
	"entuKaart/internal/modules/feed/domain"
)

type captureBroadcaster struct {
	topics []string
}

func (c *captureBroadcaster) Broadcast(_ context.Context, msg *domain.Message) {
	c.topics = append(c.topics, msg.Topic)
}

func TestSetupEventHandler(t *testing.T) {
	t.Parallel()

	b := &captureBroadcaster{}
	h := NewSetupEventHandler("setup.created", usecase.NewBroadcastUseCase(b))
	if h.Topic() != "setup.created" {
		t.Fatalf("unexpected topic %q", h.Topic())
	}
	if err := h.Handle(context.Background(), &domain.Message{Topic: "setup.created"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.topics) != 1 {
		t.Fatalf("expected one broadcast, got %v", b.topics)
	}
}
