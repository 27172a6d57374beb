package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/toumakido/my-claude/todoapi/internal/model"
	"github.com/toumakido/my-claude/todoapi/internal/store"
)

// BasePath is the collection path every todo route is rooted at.
const BasePath = "/api/todos"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// TodoHandler handles HTTP requests for todos
type TodoHandler struct {
	store   store.Store
	log     zerolog.Logger
	origins []string
	mux     *http.ServeMux
	root    http.Handler
}

// Option configures a TodoHandler.
type Option func(*TodoHandler)

// WithLogger sets the logger used for request logging.
func WithLogger(l zerolog.Logger) Option {
	return func(h *TodoHandler) { h.log = l }
}

// WithAllowedOrigins sets the origins allowed by CORS. "*" allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *TodoHandler) { h.origins = origins }
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(s store.Store, opts ...Option) *TodoHandler {
	h := &TodoHandler{
		store:   s,
		log:     zerolog.Nop(),
		origins: []string{"*"},
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux.HandleFunc("GET "+BasePath, h.handleList)
	h.mux.HandleFunc("GET "+BasePath+"/{id}", h.handleGet)
	h.mux.HandleFunc("POST "+BasePath, h.handleCreate)
	h.mux.HandleFunc("POST "+BasePath+"/{id}", h.handleSetCompleted)
	h.mux.HandleFunc("DELETE "+BasePath+"/{id}", h.handleDelete)
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	h.root = h.middleware(h.mux)

	return h
}

// ServeHTTP implements http.Handler
func (h *TodoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

func (h *TodoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.List(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	todo, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validateCreate(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.store.Create(r.Context(), req.Name)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	hlog.FromRequest(r).Debug().Int("id", todo.ID).Msg("todo created")
	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) handleSetCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	// An unknown id is reported before the body is looked at.
	if _, err := h.store.Get(r.Context(), id); err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	var req model.CompletionRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.store.SetCompleted(r.Context(), id, req.IsComplete); err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Todo not found")
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("store operation failed")
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

// Helper functions

func validateCreate(req model.CreateRequest) error {
	return criterio.ValidateStruct(
		criterio.Run("name", req.Name, requiredString),
	)
}

func requiredString(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("is required")
	}
	return nil
}

// decodeBody reads exactly one JSON value of bounded size into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func parseID(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
