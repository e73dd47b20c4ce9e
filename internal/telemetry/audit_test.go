package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type publisherStub struct {
	mock.Mock
}

func (p *publisherStub) Publish(ctx context.Context, routingKey string, event any) error {
	args := p.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (p *publisherStub) Close() error {
	args := p.Called()
	return args.Error(0)
}

func TestEmitPublishesEnvelope(t *testing.T) {
	publisher := new(publisherStub)
	emitter := NewAuditEmitter(publisher, "audit.chat", "chat-svc", "test")

	userID := "u-1"
	publisher.On("Publish", mock.Anything, "audit.chat", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(AuditEnvelope)
		return ok &&
			envelope.SchemaVersion == 1 &&
			envelope.EventType == "audit_log" &&
			envelope.Service == "chat-svc" &&
			envelope.RequestID == "req-1" &&
			envelope.Payload.Level == "ERROR" &&
			envelope.Payload.RoomID == "room-1"
	})).Return(nil).Once()

	emitter.Emit(context.Background(), "ERROR", "something broke", "req-1", "room-1", &userID)
	publisher.AssertExpectations(t)
}

func TestEmitNilEmitterIsNoop(t *testing.T) {
	var emitter *AuditEmitter
	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), "INFO", "ignored", "req", "room", nil)
	})
}

func TestEmitPublishFailureDoesNotPropagate(t *testing.T) {
	publisher := new(publisherStub)
	emitter := NewAuditEmitter(publisher, "audit.chat", "chat-svc", "test")

	publisher.On("Publish", mock.Anything, "audit.chat", mock.Anything).Return(assert.AnError).Once()

	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), "WARN", "flaky broker", "req-2", "room-2", nil)
	})
	publisher.AssertExpectations(t)
}
