package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"llm-chat-service/internal/llm"
	"llm-chat-service/internal/models"
	"llm-chat-service/internal/observability"
	"llm-chat-service/internal/repositories"
	"llm-chat-service/internal/telemetry"
)

// ChatHandler serves room creation, the streaming chat turn, and session
// resume.
type ChatHandler struct {
	roomRepo    repositories.RoomRepository
	messageRepo repositories.MessageRepository
	partRepo    repositories.PartRepository
	resolver    llm.Resolver
	audit       *telemetry.AuditEmitter
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(roomRepo repositories.RoomRepository, messageRepo repositories.MessageRepository, partRepo repositories.PartRepository, resolver llm.Resolver, audit *telemetry.AuditEmitter) *ChatHandler {
	return &ChatHandler{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		partRepo:    partRepo,
		resolver:    resolver,
		audit:       audit,
	}
}

// chatRequest is the closed schema of one streaming chat turn.
type chatRequest struct {
	Provider string            `json:"provider" binding:"required"`
	Model    string            `json:"model" binding:"required"`
	Messages []incomingMessage `json:"messages" binding:"required"`
}

type incomingMessage struct {
	Role    models.Role           `json:"role"`
	Content models.MessageContent `json:"content"`
}

// CreateRoom inserts a room owned by the caller and returns its uuid.
func (h *ChatHandler) CreateRoom(c *gin.Context) {
	userID := c.GetString("userID")

	room, err := h.roomRepo.CreateRoom(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("room creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": room.ID})
}

// GetHistory returns the room's full message log, ascending by creation time,
// so a reloaded client can rebuild its state. An empty array means the room
// has taken no turns yet and the client should start the first generation.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	roomID, ok := h.authorizeRoom(c)
	if !ok {
		return
	}

	msgs, err := h.messageRepo.ListMessages(c.Request.Context(), roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, msgs)
}

// authorizeRoom re-derives access for the authenticated user: 404 when the
// room does not exist, 403 when no membership row binds the user to it. Room
// existence is checked first.
func (h *ChatHandler) authorizeRoom(c *gin.Context) (string, bool) {
	roomUUID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return "", false
	}
	roomID := roomUUID.String()
	userID := c.GetString("userID")

	if _, err := h.roomRepo.GetRoom(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return "", false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat"})
		return "", false
	}

	member, err := h.roomRepo.IsMember(c.Request.Context(), roomID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return "", false
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return "", false
	}

	return roomID, true
}

// StreamChat runs one chat turn: validate, authorize, persist the inbound
// message, then relay the provider's token stream to the client while
// assembling the assistant reply for persistence.
func (h *ChatHandler) StreamChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages must not be empty"})
		return
	}
	for _, m := range req.Messages {
		if !m.Role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message role"})
			return
		}
	}
	if !llm.Supported(req.Provider, req.Model) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported provider or model"})
		return
	}

	roomID, ok := h.authorizeRoom(c)
	if !ok {
		return
	}

	// Only the newest entry is persisted; earlier history is already in the
	// log from previous turns.
	last := req.Messages[len(req.Messages)-1]
	if _, err := h.messageRepo.AppendMessages(c.Request.Context(), roomID, []models.NewMessage{{
		Role:    last.Role,
		Content: last.Content.Flatten(),
	}}); err != nil {
		observability.IncPersistFailure("inbound")
		log.Error().Err(err).Str("room_id", roomID).Msg("inbound message persistence failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	generator, err := h.resolver.Resolve(req.Provider, req.Model)
	if err != nil {
		// Unreachable past validation, guarded independently anyway.
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported provider or model"})
		return
	}

	history := make([]llm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		history = append(history, llm.Message{Role: string(m.Role), Content: m.Content.Flatten()})
	}

	// Generation outlives the client connection: a disconnect stops delivery
	// but must not lose the assistant's turn.
	genCtx, span := otel.Tracer("llm-chat-service/handlers").Start(
		context.WithoutCancel(c.Request.Context()), "chat.generate",
		trace.WithAttributes(
			attribute.String("chat.provider", req.Provider),
			attribute.String("chat.model", req.Model),
			attribute.String("chat.room_id", roomID),
		),
	)
	defer span.End()

	stream, err := generator.Stream(genCtx, history)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("generation failed to start")
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed to start"})
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Transfer-Encoding", "chunked")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	observability.IncStreamActive(req.Provider)
	defer observability.DecStreamActive(req.Provider)

	var full strings.Builder
	clientGone := false
	disconnected := c.Request.Context().Done()
	for event := range stream {
		if event.Err != nil {
			// Truncates delivery; whatever was produced still gets persisted.
			log.Error().Err(event.Err).Str("room_id", roomID).Msg("upstream generation error")
			break
		}

		full.WriteString(event.Delta)
		observability.AddStreamDelta(req.Provider, req.Model)

		if clientGone {
			continue
		}
		select {
		case <-disconnected:
			clientGone = true
			continue
		default:
		}
		if _, err := c.Writer.WriteString(event.Delta); err != nil {
			clientGone = true
			continue
		}
		c.Writer.Flush()
	}

	if full.Len() == 0 {
		return
	}
	stored, err := h.messageRepo.AppendMessages(genCtx, roomID, []models.NewMessage{{
		Role:    models.RoleAssistant,
		Content: full.String(),
	}})
	if err != nil {
		// The response is already committed; surface for reconciliation
		// instead of failing the request.
		observability.IncPersistFailure("outbound")
		log.Error().Err(err).Str("room_id", roomID).Msg("assistant message persistence failed")
		userID := c.GetString("userID")
		h.audit.Emit(genCtx, "ERROR", "assistant message not persisted", requestIDFromContext(c), roomID, &userID)
		return
	}

	// Mirror the reply into the structured part log. Best effort: the
	// flattened message is already the source of truth for resume.
	if len(stored) == 1 {
		if _, err := h.partRepo.InsertParts(genCtx, stored[0].ID, []models.PartPayload{
			models.TextPayload{Text: full.String()},
		}); err != nil {
			log.Error().Err(err).Str("message_id", stored[0].ID).Msg("part persistence failed")
		}
	}
}

// GetMessageParts returns the ordered structured parts of one message in the
// room. The message must belong to the authorized room; one outside it is
// indistinguishable from one that does not exist.
func (h *ChatHandler) GetMessageParts(c *gin.Context) {
	roomID, ok := h.authorizeRoom(c)
	if !ok {
		return
	}

	messageUUID, err := uuid.Parse(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}

	parts, err := h.partRepo.ListParts(c.Request.Context(), roomID, messageUUID.String())
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load parts"})
		return
	}
	if parts == nil {
		parts = []models.Part{}
	}
	c.JSON(http.StatusOK, parts)
}
