package usecase

import (
	"context"
	"testing"

	"entuKaart/internal/modules/feed/domain"
)

type captureBroadcaster struct {
	messages []*domain.Message
}

func (c *captureBroadcaster) Broadcast(_ context.Context, msg *domain.Message) {
	c.messages = append(c.messages, msg)
}

func TestBroadcastUseCase_Execute(t *testing.T) {
	t.Parallel()

	b := &captureBroadcaster{}
	uc := NewBroadcastUseCase(b)

	uc.Execute(context.Background(), nil)
	uc.Execute(context.Background(), &domain.Message{})
	uc.Execute(context.Background(), &domain.Message{Topic: "setup.created"})

	if len(b.messages) != 1 || b.messages[0].Topic != "setup.created" {
		t.Fatalf("expected only the topical message to be broadcast, got %+v", b.messages)
	}
}
