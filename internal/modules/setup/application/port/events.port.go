package port

import (
	"context"

	"entuKaart/internal/modules/setup/domain"
)

// EventPublisher receives one event per reconciliation step.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SetupEvent) error
}

// Reporter is the human-facing progress output of a run.
type Reporter interface {
	Section(msg string)
	Success(msg string)
	Info(msg string)
	Warning(msg string)
	Skip(msg string)
	Progress(msg string)
	Detail(colour, msg string)
}
