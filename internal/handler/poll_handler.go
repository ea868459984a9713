package handler

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"dappvotes/internal/domain"
	"dappvotes/internal/middleware"
	"dappvotes/pkg/errors"
	"dappvotes/pkg/logger"
	"dappvotes/pkg/strictjson"
)

// maxBodyBytes bounds command and query payloads.
const maxBodyBytes = 1 << 20

// Ledger is what the HTTP layer needs from the ledger host
type Ledger interface {
	Execute(ctx context.Context, env domain.Env, cmd domain.Command) (*domain.Response, error)
	Query(ctx context.Context, q domain.Query) (any, error)
}

// PollHandler serves the poll REST routes and the message endpoints.
type PollHandler struct {
	ledger Ledger
	logger *logger.Logger
	now    func() time.Time
}

// NewPollHandler creates a new poll handler
func NewPollHandler(ledger Ledger, logger *logger.Logger) *PollHandler {
	return &PollHandler{
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterRoutes mounts the poll routes; auth guards every mutating route
func (h *PollHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/polls", func(r chi.Router) {
		r.Get("/", h.ListPolls)
		r.Get("/{id}", h.GetPoll)
		r.Get("/{id}/contestants", h.ListContestants)
		r.Get("/{id}/contestants/{contestantId}", h.GetContestant)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/", h.CreatePoll)
			r.Put("/{id}", h.UpdatePoll)
			r.Delete("/{id}", h.DeletePoll)
			r.Post("/{id}/contestants", h.Contest)
			r.Post("/{id}/contestants/{contestantId}/vote", h.Vote)
		})
	})

	r.With(auth).Post("/execute", h.Execute)
	r.Post("/query", h.Query)
}

// ListPolls handles GET /api/v1/polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	h.runQuery(w, r, domain.GetPolls{})
}

// GetPoll handles GET /api/v1/polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uintParam(w, r, "id")
	if !ok {
		return
	}
	h.runQuery(w, r, domain.GetPoll{ID: id})
}

// ListContestants handles GET /api/v1/polls/{id}/contestants
func (h *PollHandler) ListContestants(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uintParam(w, r, "id")
	if !ok {
		return
	}
	h.runQuery(w, r, domain.GetContestants{PollID: id})
}

// GetContestant handles GET /api/v1/polls/{id}/contestants/{contestantId}
func (h *PollHandler) GetContestant(w http.ResponseWriter, r *http.Request) {
	pollID, ok := h.uintParam(w, r, "id")
	if !ok {
		return
	}
	contestantID, ok := h.uintParam(w, r, "contestantId")
	if !ok {
		return
	}
	h.runQuery(w, r, domain.GetContestant{PollID: pollID, ContestantID: contestantID})
}

// CreatePoll handles POST /api/v1/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var cmd domain.CreatePoll
	if !h.decodeBody(w, r, &cmd) {
		return
	}
	h.runCommand(w, r, cmd, http.StatusCreated)
}

type updatePollRequest struct {
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    uint64 `json:"starts_at"`
	EndsAt      uint64 `json:"ends_at"`
}

// UpdatePoll handles PUT /api/v1/polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uintParam(w, r, "id")
	if !ok {
		return
	}
	var req updatePollRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	h.runCommand(w, r, domain.UpdatePoll{
		ID:          id,
		Image:       req.Image,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}, http.StatusOK)
}

// DeletePoll handles DELETE /api/v1/polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uintParam(w, r, "id")
	if !ok {
		return
	}
	h.runCommand(w, r, domain.DeletePoll{ID: id}, http.StatusOK)
}

type contestRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Contest handles POST /api/v1/polls/{id}/contestants
func (h *PollHandler) Contest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uintParam(w, r, "id")
	if !ok {
		return
	}
	var req contestRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	h.runCommand(w, r, domain.Contest{PollID: id, Name: req.Name, Avatar: req.Avatar}, http.StatusCreated)
}

// Vote handles POST /api/v1/polls/{id}/contestants/{contestantId}/vote
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID, ok := h.uintParam(w, r, "id")
	if !ok {
		return
	}
	contestantID, ok := h.uintParam(w, r, "contestantId")
	if !ok {
		return
	}
	h.runCommand(w, r, domain.Vote{PollID: pollID, ContestantID: contestantID}, http.StatusOK)
}

// Execute handles POST /api/v1/execute with a tagged command envelope
func (h *PollHandler) Execute(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}
	cmd, err := domain.DecodeCommand(raw)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.runCommand(w, r, cmd, http.StatusOK)
}

// Query handles POST /api/v1/query with a tagged query envelope
func (h *PollHandler) Query(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}
	q, err := domain.DecodeQuery(raw)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.runQuery(w, r, q)
}

func (h *PollHandler) runCommand(w http.ResponseWriter, r *http.Request, cmd domain.Command, status int) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		h.respondError(w, r, errors.NewAuthenticationError("Authentication required"))
		return
	}

	env := domain.Env{Caller: caller, BlockTime: uint64(h.now().Unix())}
	resp, err := h.ledger.Execute(r.Context(), env, cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, status, resp)
}

func (h *PollHandler) runQuery(w http.ResponseWriter, r *http.Request, q domain.Query) {
	result, err := h.ledger.Query(r.Context(), q)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		h.respondError(w, r, errors.NewInternalError("Failed to encode response", err))
		return
	}

	// Generate ETag based on content
	etag := fmt.Sprintf(`"%x"`, md5.Sum(body))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *PollHandler) uintParam(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.respondError(w, r, errors.NewValidationError("Invalid path parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		}))
		return 0, false
	}
	return v, true
}

func (h *PollHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.respondError(w, r, errors.NewValidationError("Invalid request body", map[string]interface{}{
			"cause": err.Error(),
		}))
		return nil, false
	}
	return raw, true
}

func (h *PollHandler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	raw, ok := h.readBody(w, r)
	if !ok {
		return false
	}
	if err := strictjson.Unmarshal(raw, v); err != nil {
		h.respondError(w, r, errors.NewValidationError("Invalid request body", map[string]interface{}{
			"cause": err.Error(),
		}))
		return false
	}
	return true
}

func (h *PollHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *PollHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError("Internal server error", err)
	}
	middleware.WriteError(w, r, appErr, h.logger)
}
