// internal/app/features/chat/handler.go
package chat

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/colloquy/internal/app/features/shared"
	"github.com/dalemusser/colloquy/internal/app/store/messages"
	"github.com/dalemusser/colloquy/internal/app/system/auth"
	"github.com/dalemusser/colloquy/internal/app/system/timeouts"
	"github.com/dalemusser/colloquy/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the per-session message API.
type Handler struct {
	store *messages.Store
	log   *zap.Logger
}

// NewHandler constructs a chat Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		store: messages.New(db),
		log:   logger,
	}
}

type sendRequest struct {
	UserID      string `json:"user_id"`
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
	Metadata    bson.M `json:"metadata"`
}

// Send handles POST /api/sessions/{sessionID}/messages.
//
// This endpoint is not idempotent: retrying a timed-out request can
// post the same message twice. Clients that cannot tolerate duplicates
// should re-read the message list before retrying.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	sessionID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.BadRequest(w, "sessionID must be a valid object id")
		return
	}

	var req sendRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.BadRequest(w, err.Error())
		return
	}

	if req.UserID == "" {
		if caller, ok := auth.CurrentCaller(r); ok && caller.Authenticated() {
			req.UserID = caller.UserID
		}
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		shared.BadRequest(w, "user_id must be a valid object id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	view, err := h.store.Send(ctx, sessionID, userID, req.Content, req.MessageType, req.Metadata)
	if err != nil {
		shared.Error(w, h.log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, view)
}

// List handles GET /api/sessions/{sessionID}/messages with an optional
// limit query parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sessionID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.BadRequest(w, "sessionID must be a valid object id")
		return
	}

	var limit int64
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 0 {
			shared.BadRequest(w, "limit must be a non-negative integer")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	views, err := h.store.ListBySession(ctx, sessionID, limit)
	if err != nil {
		shared.Error(w, h.log, err)
		return
	}
	if views == nil {
		views = []models.MessageView{}
	}
	shared.JSON(w, http.StatusOK, views)
}
