package handler

import (
	"context"
	"log/slog"

	"entuKaart/internal/modules/feed/application/usecase"
	"entuKaart/internal/modules/feed/domain"
)

// SetupEventHandler forwards one setup.* topic to the websocket clients.
type SetupEventHandler struct {
	topic   string
	useCase *usecase.BroadcastUseCase
}

func NewSetupEventHandler(topic string, uc *usecase.BroadcastUseCase) *SetupEventHandler {
	return &SetupEventHandler{topic: topic, useCase: uc}
}

func (h *SetupEventHandler) Topic() string { return h.topic }

func (h *SetupEventHandler) Handle(ctx context.Context, msg *domain.Message) error {
	slog.Debug("setup event broadcast", slog.String("topic", msg.Topic), slog.String("runId", msg.RunID()), slog.String("resourceId", msg.ResourceID))
	h.useCase.Execute(ctx, msg)
	return nil
}
