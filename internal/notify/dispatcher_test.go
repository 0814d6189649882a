package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ministryhub/internal/model"
)

type fakeSender struct {
	configured bool
	err        error
	sent       []model.Registration
}

func (f *fakeSender) Configured() bool { return f.configured }

func (f *fakeSender) SendRegistrationNotification(reg model.Registration) error {
	f.sent = append(f.sent, reg)
	return f.err
}

type fakePublisher struct {
	err      error
	messages [][]byte
}

func (f *fakePublisher) Publish(_ context.Context, message []byte) error {
	f.messages = append(f.messages, message)
	return f.err
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestDispatcher_DirectSends(t *testing.T) {
	sender := &fakeSender{configured: true}
	d := NewDirect(sender, nopLogger())

	d.RegistrationCreated(context.Background(), model.Registration{ID: "r1", MinistryType: "proskuneo"})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "r1", sender.sent[0].ID)
}

func TestDispatcher_SwallowsFailures(t *testing.T) {
	sender := &fakeSender{configured: true, err: errors.New("smtp down")}
	d := NewDirect(sender, nopLogger())

	assert.NotPanics(t, func() {
		d.RegistrationCreated(context.Background(), model.Registration{ID: "r1"})
	})
	assert.Len(t, sender.sent, 1)
}

func TestDispatcher_SkipsWhenUnconfigured(t *testing.T) {
	sender := &fakeSender{configured: false}
	pub := &fakePublisher{}

	NewDirect(sender, nopLogger()).RegistrationCreated(context.Background(), model.Registration{ID: "r1"})
	NewQueued(sender, pub, nopLogger()).RegistrationCreated(context.Background(), model.Registration{ID: "r1"})

	assert.Empty(t, sender.sent)
	assert.Empty(t, pub.messages)
}

func TestDispatcher_QueuedPublishesAndDelivers(t *testing.T) {
	sender := &fakeSender{configured: true}
	pub := &fakePublisher{}
	d := NewQueued(sender, pub, nopLogger())
	assert.Equal(t, TransportRabbitMQ, d.Transport())

	d.RegistrationCreated(context.Background(), model.Registration{ID: "r7", FullName: "Jane Doe"})
	require.Len(t, pub.messages, 1)
	assert.Empty(t, sender.sent, "queued transport must not send inline")

	var msg Message
	require.NoError(t, json.Unmarshal(pub.messages[0], &msg))
	assert.Equal(t, "r7", msg.Registration.ID)

	require.NoError(t, d.Deliver(pub.messages[0]))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Jane Doe", sender.sent[0].FullName)
}

func TestDispatcher_QueuedPublishFailureSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	d := NewQueued(&fakeSender{configured: true}, pub, nopLogger())

	assert.NotPanics(t, func() {
		d.RegistrationCreated(context.Background(), model.Registration{ID: "r1"})
	})
}

func TestDispatcher_DeliverDropsMalformed(t *testing.T) {
	sender := &fakeSender{configured: true}
	d := NewQueued(sender, &fakePublisher{}, nopLogger())

	assert.NoError(t, d.Deliver([]byte("{not json")))
	assert.Empty(t, sender.sent)
}

func TestDispatcher_DeliverReturnsSendError(t *testing.T) {
	sender := &fakeSender{configured: true, err: errors.New("smtp down")}
	d := NewQueued(sender, &fakePublisher{}, nopLogger())

	body, err := json.Marshal(Message{Registration: model.Registration{ID: "r1"}})
	require.NoError(t, err)
	assert.Error(t, d.Deliver(body))
}
