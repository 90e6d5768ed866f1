package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Producer publishes domain events (submissions received, announcements
// posted) on subjects under a common prefix, e.g. records.announcement.posted.
type Producer struct {
	conn          *nats.Conn
	subjectPrefix string
	logger        *slog.Logger
}

func NewProducer(url string, subjectPrefix string, logger *slog.Logger) (*Producer, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	logger.Info("NATS producer initialized", "url", url, "subject_prefix", subjectPrefix)

	return &Producer{
		conn:          nc,
		subjectPrefix: subjectPrefix,
		logger:        logger,
	}, nil
}

func (p *Producer) Publish(event string, value interface{}) error {
	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, event)

	valueBytes, err := json.Marshal(value)
	if err != nil {
		p.logger.Error("failed to marshal event", "event", event, "error", err)
		return err
	}

	if err := p.conn.Publish(subject, valueBytes); err != nil {
		p.logger.Error("failed to publish event to NATS", "subject", subject, "error", err)
		return err
	}

	p.logger.Info("event published to NATS", "subject", subject)
	return nil
}

func (p *Producer) Close() error {
	p.conn.Close()
	return nil
}
