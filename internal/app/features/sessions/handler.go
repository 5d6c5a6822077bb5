// internal/app/features/sessions/handler.go
package sessions

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/colloquy/internal/app/features/shared"
	groupstore "github.com/dalemusser/colloquy/internal/app/store/groups"
	"github.com/dalemusser/colloquy/internal/app/store/studysessions"
	"github.com/dalemusser/colloquy/internal/app/system/apperr"
	"github.com/dalemusser/colloquy/internal/app/system/auth"
	"github.com/dalemusser/colloquy/internal/app/system/timeouts"
	"github.com/dalemusser/colloquy/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the session registry API.
type Handler struct {
	store            *studysessions.Store
	groups           *groupstore.Store
	defaultGroupName string
	log              *zap.Logger
}

// NewHandler constructs a sessions Handler. defaultGroupName names the
// group used when a create request carries no group_id; blank disables
// the fallback.
func NewHandler(db *mongo.Database, defaultGroupName string, logger *zap.Logger) *Handler {
	return &Handler{
		store:            studysessions.New(db),
		groups:           groupstore.New(db),
		defaultGroupName: defaultGroupName,
		log:              logger,
	}
}

type createRequest struct {
	Title   string `json:"title"`
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id"`
}

// Create handles POST /api/sessions.
//
// user_id may be omitted when the caller is authenticated; group_id may
// be omitted when a default group is configured.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
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

	groupID, ok := h.resolveGroup(ctx, w, req.GroupID)
	if !ok {
		return
	}

	view, err := h.store.Create(ctx, req.Title, userID, groupID)
	if err != nil {
		shared.Error(w, h.log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, view)
}

// resolveGroup turns an optional group_id into a concrete group,
// falling back to the configured default group. It writes the error
// response itself and reports success through the bool.
func (h *Handler) resolveGroup(ctx context.Context, w http.ResponseWriter, groupID string) (primitive.ObjectID, bool) {
	if groupID != "" {
		id, err := primitive.ObjectIDFromHex(groupID)
		if err != nil {
			shared.BadRequest(w, "group_id must be a valid object id")
			return primitive.NilObjectID, false
		}
		return id, true
	}

	if h.defaultGroupName == "" {
		shared.BadRequest(w, "group_id is required")
		return primitive.NilObjectID, false
	}

	group, err := h.groups.GetByName(ctx, h.defaultGroupName)
	if apperr.IsNotFound(err) {
		shared.BadRequest(w, "group_id is required (no default group available)")
		return primitive.NilObjectID, false
	}
	if err != nil {
		shared.Error(w, h.log, err)
		return primitive.NilObjectID, false
	}
	return group.ID, true
}

// List handles GET /api/sessions with optional user_id and active
// query filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var filter studysessions.ListFilter

	if v := r.URL.Query().Get("user_id"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			shared.BadRequest(w, "user_id must be a valid object id")
			return
		}
		filter.CreatedBy = &id
	}
	if v := r.URL.Query().Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			shared.BadRequest(w, "active must be true or false")
			return
		}
		filter.Active = &active
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	views, err := h.store.List(ctx, filter)
	if err != nil {
		shared.Error(w, h.log, err)
		return
	}
	if views == nil {
		views = []models.SessionView{}
	}
	shared.JSON(w, http.StatusOK, views)
}

// Get handles GET /api/sessions/{sessionID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.BadRequest(w, "sessionID must be a valid object id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	view, err := h.store.GetByID(ctx, id)
	if err != nil {
		shared.Error(w, h.log, err)
		return
	}
	shared.JSON(w, http.StatusOK, view)
}

// End handles POST /api/sessions/{sessionID}/end.
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.BadRequest(w, "sessionID must be a valid object id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sess, err := h.store.End(ctx, id)
	if err != nil {
		shared.Error(w, h.log, err)
		return
	}
	shared.JSON(w, http.StatusOK, sess)
}
