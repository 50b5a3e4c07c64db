package notification

import (
	"log/slog"
)

// Message is a fire-and-forget notification to the operations team. Delivery
// failures are logged, never propagated back into the mutation path.
type Message struct {
	Topic   string
	Subject string
	Body    string
	Fields  map[string]interface{}
}

// Sender delivers notifications. The default implementation writes them to
// the structured log; a mail or chat integration can replace it without
// touching the subscribers.
type Sender interface {
	Send(msg Message) error
}

type logSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(msg Message) error {
	attrs := []any{
		"topic", msg.Topic,
		"subject", msg.Subject,
		"body", msg.Body,
	}
	for k, v := range msg.Fields {
		attrs = append(attrs, k, v)
	}
	s.logger.Info("notification", attrs...)
	return nil
}
