// internal/app/features/papers/handler.go
package papers

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/colloquy/internal/app/features/shared"
	paperstore "github.com/dalemusser/colloquy/internal/app/store/papers"
	"github.com/dalemusser/colloquy/internal/app/system/timeouts"
	"github.com/dalemusser/colloquy/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the paper catalog and the per-session attachment API.
type Handler struct {
	store *paperstore.Store
	log   *zap.Logger
}

// NewHandler constructs a papers Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		store: paperstore.New(db),
		log:   logger,
	}
}

type createRequest struct {
	Title       string     `json:"title"`
	Abstract    string     `json:"abstract"`
	Authors     string     `json:"authors"`
	DOI         string     `json:"doi"`
	URL         string     `json:"url"`
	PDFPath     string     `json:"pdf_path"`
	Tags        []string   `json:"tags"`
	PublishDate *time.Time `json:"publish_date"`
	Journal     string     `json:"journal"`
}

// Create handles POST /api/papers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	paper, err := h.store.Create(ctx, models.Paper{
		Title:       req.Title,
		Abstract:    req.Abstract,
		Authors:     req.Authors,
		DOI:         req.DOI,
		URL:         req.URL,
		PDFPath:     req.PDFPath,
		Tags:        req.Tags,
		PublishDate: req.PublishDate,
		Journal:     req.Journal,
	})
	if err != nil {
		shared.Error(w, h.log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, paper)
}

// Get handles GET /api/papers/{paperID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "paperID"))
	if err != nil {
		shared.BadRequest(w, "paperID must be a valid object id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	paper, err := h.store.GetByID(ctx, id)
	if err != nil {
		shared.Error(w, h.log, err)
		return
	}
	shared.JSON(w, http.StatusOK, paper)
}

type attachRequest struct {
	PaperID string `json:"paper_id"`
}

// Attach handles POST /api/sessions/{sessionID}/papers.
func (h *Handler) Attach(w http.ResponseWriter, r *http.Request) {
	sessionID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.BadRequest(w, "sessionID must be a valid object id")
		return
	}

	var req attachRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.BadRequest(w, err.Error())
		return
	}
	paperID, err := primitive.ObjectIDFromHex(req.PaperID)
	if err != nil {
		shared.BadRequest(w, "paper_id must be a valid object id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	link, err := h.store.Attach(ctx, sessionID, paperID)
	if err != nil {
		shared.Error(w, h.log, err)
		return
	}
	shared.JSON(w, http.StatusCreated, link)
}

// ListBySession handles GET /api/sessions/{sessionID}/papers.
func (h *Handler) ListBySession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.BadRequest(w, "sessionID must be a valid object id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	papers, err := h.store.ListBySession(ctx, sessionID)
	if err != nil {
		shared.Error(w, h.log, err)
		return
	}
	if papers == nil {
		papers = []paperstore.AttachedPaper{}
	}
	shared.JSON(w, http.StatusOK, papers)
}
