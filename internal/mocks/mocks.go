package mocks

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"llm-chat-service/internal/auth"
	"llm-chat-service/internal/llm"
	"llm-chat-service/internal/models"
	"llm-chat-service/internal/repositories"
	"llm-chat-service/internal/telemetry"
)

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) CreateRoom(ctx context.Context, ownerID string) (models.ChatRoom, error) {
	args := m.Called(ctx, ownerID)
	var room models.ChatRoom
	if val := args.Get(0); val != nil {
		room = val.(models.ChatRoom)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) GetRoom(ctx context.Context, roomID string) (models.ChatRoom, error) {
	args := m.Called(ctx, roomID)
	var room models.ChatRoom
	if val := args.Get(0); val != nil {
		room = val.(models.ChatRoom)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) IsMember(ctx context.Context, roomID string, userID string) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) AppendMessages(ctx context.Context, roomID string, msgs []models.NewMessage) ([]models.Message, error) {
	args := m.Called(ctx, roomID, msgs)
	var stored []models.Message
	if val := args.Get(0); val != nil {
		stored = val.([]models.Message)
	}
	return stored, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, roomID string) ([]models.Message, error) {
	args := m.Called(ctx, roomID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type PartRepositoryMock struct {
	mock.Mock
}

func (m *PartRepositoryMock) InsertParts(ctx context.Context, messageID string, payloads []models.PartPayload) ([]models.Part, error) {
	args := m.Called(ctx, messageID, payloads)
	var parts []models.Part
	if val := args.Get(0); val != nil {
		parts = val.([]models.Part)
	}
	return parts, args.Error(1)
}

func (m *PartRepositoryMock) ListParts(ctx context.Context, roomID, messageID string) ([]models.Part, error) {
	args := m.Called(ctx, roomID, messageID)
	var parts []models.Part
	if val := args.Get(0); val != nil {
		parts = val.([]models.Part)
	}
	return parts, args.Error(1)
}

type SessionClientMock struct {
	mock.Mock
}

func (m *SessionClientMock) GetSession(ctx context.Context, header http.Header) (auth.Session, error) {
	args := m.Called(ctx, header)
	var session auth.Session
	if val := args.Get(0); val != nil {
		session = val.(auth.Session)
	}
	return session, args.Error(1)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(provider, model string) (llm.Generator, error) {
	args := m.Called(provider, model)
	var gen llm.Generator
	if val := args.Get(0); val != nil {
		gen = val.(llm.Generator)
	}
	return gen, args.Error(1)
}

type GeneratorMock struct {
	mock.Mock
}

func (m *GeneratorMock) Stream(ctx context.Context, history []llm.Message) (<-chan llm.TokenEvent, error) {
	args := m.Called(ctx, history)
	var stream <-chan llm.TokenEvent
	if val := args.Get(0); val != nil {
		stream = val.(<-chan llm.TokenEvent)
	}
	return stream, args.Error(1)
}

// PublisherMock stands in for the AMQP audit publisher in handler and
// telemetry tests.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ repositories.RoomRepository = (*RoomRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.PartRepository = (*PartRepositoryMock)(nil)
var _ auth.SessionClient = (*SessionClientMock)(nil)
var _ llm.Resolver = (*ResolverMock)(nil)
var _ llm.Generator = (*GeneratorMock)(nil)
var _ telemetry.Publisher = (*PublisherMock)(nil)
