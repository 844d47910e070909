package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/http/respond"
	"github.com/hongminglow/myrent-be/internal/middleware"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/models/dto"
	"github.com/hongminglow/myrent-be/internal/storage"
)

// MessageHandler sends messages and reads property conversations.
type MessageHandler struct {
	messages storage.MessageStore
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(messages storage.MessageStore) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Register attaches the message routes; any authenticated role may use them.
func (h *MessageHandler) Register(r *mux.Router, gate *middleware.Gate) {
	r.Handle("/api/messages", protect(gate, h.handleSend)).Methods(http.MethodPost)
	r.Handle("/api/messages", protect(gate, h.handleConversation)).Methods(http.MethodGet)
}

func (h *MessageHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Failure(w, err)
		return
	}
	body := strings.TrimSpace(req.Message)
	if req.RecipientID <= 0 || req.PropertyID <= 0 || body == "" {
		respond.Failure(w, apperr.Validation("recipientId, propertyId, and message are required"))
		return
	}
	msg, err := h.messages.CreateMessage(r.Context(), models.Message{
		SenderID:    caller(r).ID,
		RecipientID: req.RecipientID,
		PropertyID:  req.PropertyID,
		Body:        body,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrRecipientNotFound):
			respond.Failure(w, apperr.NotFound("recipient not found"))
		case errors.Is(err, storage.ErrPropertyNotFound):
			respond.Failure(w, apperr.NotFound("property not found"))
		case errors.Is(err, storage.ErrNotFound):
			respond.Failure(w, apperr.NotFound("recipient or property not found"))
		default:
			respond.Failure(w, apperr.Internal("failed to send message", err))
		}
		return
	}
	respond.JSON(w, http.StatusCreated, "Message sent", dto.SendMessageResponse{MessageID: msg.ID, Timestamp: msg.SentAt})
}

// handleConversation returns the messages between the caller and participantId on one property.
func (h *MessageHandler) handleConversation(w http.ResponseWriter, r *http.Request) {
	propertyID, err := queryID(r, "propertyId")
	if err != nil {
		respond.Failure(w, err)
		return
	}
	participantID, err := queryID(r, "participantId")
	if err != nil {
		respond.Failure(w, err)
		return
	}
	msgs, err := h.messages.Conversation(r.Context(), propertyID, caller(r).ID, participantID)
	if err != nil {
		respond.Failure(w, apperr.Internal("failed to fetch messages", err))
		return
	}
	respond.JSON(w, http.StatusOK, "ok", msgs)
}
