package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event types emitted by the admission workflow.
const (
	EventApplicationAdmitted = "admitted"
	EventApplicationRejected = "rejected"
	EventFeePaid             = "fee_paid"
	EventLetterGenerated     = "letter_generated"
)

// AdmissionEvent is the JSON payload published for downstream consumers
// (student onboarding, reporting) whenever the workflow changes state.
type AdmissionEvent struct {
	Type              string    `json:"type"`
	ApplicationID     uint      `json:"application_id"`
	ApplicationNumber string    `json:"application_number"`
	Program           string    `json:"program"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// EventPublisher publishes admission events. Publishing is best effort
// and never fails the triggering operation.
type EventPublisher interface {
	Publish(ctx context.Context, event AdmissionEvent) error
}

type natsEventPublisher struct {
	conn        *nats.Conn
	subjectBase string
	logger      zerolog.Logger
}

// NewNATSEventPublisher constructs a NATS-backed event publisher. Events
// go to <subjectBase>.<type>, e.g. admissions.application.admitted.
func NewNATSEventPublisher(conn *nats.Conn, subjectBase string, logger zerolog.Logger) EventPublisher {
	return &natsEventPublisher{
		conn:        conn,
		subjectBase: subjectBase,
		logger:      logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) Publish(_ context.Context, event AdmissionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	subject := p.subjectBase + "." + event.Type
	if err := p.conn.Publish(subject, payload); err != nil {
		return err
	}

	p.logger.Debug().Str("subject", subject).Uint("application_id", event.ApplicationID).Msg("admission event published")
	return nil
}
