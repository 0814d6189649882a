// Package notify tells the operator about new registrations. Delivery is best-effort:
// nothing here ever reports failure to the caller.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"ministryhub/internal/metrics"
	"ministryhub/internal/model"
)

const (
	TransportSMTP     = "smtp"
	TransportRabbitMQ = "rabbitmq"
)

type Sender interface {
	Configured() bool
	SendRegistrationNotification(reg model.Registration) error
}

type Publisher interface {
	Publish(ctx context.Context, message []byte) error
}

// Message is the queued notification payload.
type Message struct {
	Registration model.Registration `json:"registration"`
}

type Dispatcher struct {
	transport string
	sender    Sender
	pub       Publisher
	log       *zerolog.Logger
}

// NewDirect sends each notification inline through sender.
func NewDirect(sender Sender, log *zerolog.Logger) *Dispatcher {
	return &Dispatcher{transport: TransportSMTP, sender: sender, log: log}
}

// NewQueued publishes notifications; a consumer calls Deliver to send them.
func NewQueued(sender Sender, pub Publisher, log *zerolog.Logger) *Dispatcher {
	return &Dispatcher{transport: TransportRabbitMQ, sender: sender, pub: pub, log: log}
}

func (d *Dispatcher) Transport() string {
	return d.transport
}

// RegistrationCreated notifies the operator about reg, logging and swallowing any
// failure.
func (d *Dispatcher) RegistrationCreated(ctx context.Context, reg model.Registration) {
	if d.sender == nil || !d.sender.Configured() {
		d.log.Warn().Str("registration_id", reg.ID).Msg("Email service not configured. Skipping email notification.")
		metrics.Notifications.WithLabelValues(d.transport, "skipped").Inc()
		return
	}

	var err error
	switch d.transport {
	case TransportRabbitMQ:
		err = d.publish(ctx, reg)
	default:
		err = d.sender.SendRegistrationNotification(reg)
	}

	if err != nil {
		d.log.Warn().Err(err).
			Str("transport", d.transport).
			Str("registration_id", reg.ID).
			Msg("failed to dispatch registration notification")
		metrics.Notifications.WithLabelValues(d.transport, "failed").Inc()
		return
	}
	metrics.Notifications.WithLabelValues(d.transport, "ok").Inc()
}

func (d *Dispatcher) publish(ctx context.Context, reg model.Registration) error {
	if d.pub == nil {
		return errors.New("no publisher configured")
	}
	payload, err := json.Marshal(Message{Registration: reg})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return d.pub.Publish(ctx, payload)
}

// Deliver decodes a queued message and sends it. Malformed payloads are logged and
// dropped.
func (d *Dispatcher) Deliver(body []byte) error {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		d.log.Error().Err(err).Msgf("Failed to unmarshal notification: %s", string(body))
		metrics.Notifications.WithLabelValues("consumer", "dropped").Inc()
		return nil
	}

	if err := d.sender.SendRegistrationNotification(msg.Registration); err != nil {
		metrics.Notifications.WithLabelValues("consumer", "failed").Inc()
		return err
	}
	metrics.Notifications.WithLabelValues("consumer", "ok").Inc()
	return nil
}
