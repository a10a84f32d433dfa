package event

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the log instead of a broker. It is used when
// RabbitMQ is not configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ Publisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "LogPublisher")}
}

func (p *LogPublisher) PublishLoanDecided(ctx context.Context, event LoanDecidedEvent) error {
	p.logger.InfoContext(ctx, "Loan decided",
		slog.String("eventId", event.EventID),
		slog.Int64("customerId", event.CustomerID),
		slog.Bool("approved", event.Approved),
		slog.Int("score", event.Score),
	)
	return nil
}

func (p *LogPublisher) PublishCustomerRegistered(ctx context.Context, event CustomerRegisteredEvent) error {
	p.logger.InfoContext(ctx, "Customer registered",
		slog.String("eventId", event.EventID),
		slog.Int64("customerId", event.CustomerID),
		slog.Float64("approvedLimit", event.ApprovedLimit),
	)
	return nil
}
