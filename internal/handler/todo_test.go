package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toumakido/my-claude/todoapi/internal/model"
	"github.com/toumakido/my-claude/todoapi/internal/store"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []model.Todo {
	t.Helper()
	var todos []model.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todos))
	return todos
}

func TestTodoHandler_CreateThenList(t *testing.T) {
	h := NewTodoHandler(store.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/api/todos", `{"name":"Buy milk"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String(), "create should not echo the created item")

	rec = do(t, h, http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	todos := decodeList(t, rec)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Name)
	assert.False(t, todos[0].IsComplete)
}

func TestTodoHandler_ListEmptyIsArray(t *testing.T) {
	h := NewTodoHandler(store.NewMemoryStore())

	rec := do(t, h, http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTodoHandler_WireFieldNames(t *testing.T) {
	s := store.NewMemoryStore()
	_, err := s.Create(context.Background(), "Feed cat")
	require.NoError(t, err)

	rec := do(t, NewTodoHandler(s), http.MethodGet, "/api/todos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Feed cat","isComplete":false}`, rec.Body.String())
}

func TestTodoHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "get missing", method: http.MethodGet, path: "/api/todos/999", want: http.StatusNotFound},
		{name: "get non-integer", method: http.MethodGet, path: "/api/todos/abc", want: http.StatusBadRequest},
		{name: "get existing", method: http.MethodGet, path: "/api/todos/1", want: http.StatusOK},
		{name: "update non-integer", method: http.MethodPost, path: "/api/todos/abc", body: `{"isComplete":true}`, want: http.StatusBadRequest},
		{name: "update missing", method: http.MethodPost, path: "/api/todos/999", body: `{"isComplete":true}`, want: http.StatusNotFound},
		{name: "update missing ignores bad body", method: http.MethodPost, path: "/api/todos/999", body: `{`, want: http.StatusNotFound},
		{name: "update bad body", method: http.MethodPost, path: "/api/todos/1", body: `{`, want: http.StatusBadRequest},
		{name: "update existing", method: http.MethodPost, path: "/api/todos/1", body: `{"isComplete":true}`, want: http.StatusNoContent},
		{name: "delete non-integer", method: http.MethodDelete, path: "/api/todos/abc", want: http.StatusBadRequest},
		{name: "delete missing", method: http.MethodDelete, path: "/api/todos/999", want: http.StatusNotFound},
		{name: "create bad body", method: http.MethodPost, path: "/api/todos", body: `not json`, want: http.StatusBadRequest},
		{name: "create blank name", method: http.MethodPost, path: "/api/todos", body: `{"name":"  "}`, want: http.StatusBadRequest},
		{name: "create missing name", method: http.MethodPost, path: "/api/todos", body: `{}`, want: http.StatusBadRequest},
		{name: "unsupported method", method: http.MethodPut, path: "/api/todos/1", body: `{}`, want: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/api/other", want: http.StatusNotFound},
		{name: "health", method: http.MethodGet, path: "/healthz", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemoryStore()
			_, err := s.Create(context.Background(), "existing")
			require.NoError(t, err)

			rec := do(t, NewTodoHandler(s), tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, "%s %s", tt.method, tt.path)
		})
	}
}

func TestTodoHandler_UpdateTogglesOnlyCompletion(t *testing.T) {
	s := store.NewMemoryStore()
	created, err := s.Create(context.Background(), "Write tests")
	require.NoError(t, err)

	h := NewTodoHandler(s)

	rec := do(t, h, http.MethodPost, "/api/todos/1", `{"id":42,"name":"renamed","isComplete":true}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	got, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: created.ID, Name: "Write tests", IsComplete: true}, got)

	rec = do(t, h, http.MethodPost, "/api/todos/1", `{"isComplete":false}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	got, err = s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsComplete)
}

func TestTodoHandler_DeleteThenGet(t *testing.T) {
	h := NewTodoHandler(store.NewMemoryStore())

	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/api/todos", `{"name":"Temporary"}`).Code)

	rec := do(t, h, http.MethodDelete, "/api/todos/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/todos/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTodoHandler_CORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		method     string
		path       string
		origin     string
		preflight  bool
		wantStatus int
		wantHeader string
	}{
		{name: "preflight wildcard", origins: []string{"*"}, method: http.MethodOptions, path: "/api/todos", origin: "http://localhost:3000", preflight: true, wantStatus: http.StatusNoContent, wantHeader: "*"},
		{name: "preflight listed origin", origins: []string{"http://localhost:5173"}, method: http.MethodOptions, path: "/api/todos/1", origin: "http://localhost:5173", preflight: true, wantStatus: http.StatusNoContent, wantHeader: "http://localhost:5173"},
		{name: "preflight unlisted origin", origins: []string{"http://localhost:5173"}, method: http.MethodOptions, path: "/api/todos", origin: "http://evil.example", preflight: true, wantStatus: http.StatusNoContent, wantHeader: ""},
		{name: "plain options unknown path", origins: []string{"http://localhost:5173"}, method: http.MethodOptions, path: "/nope/at/all", origin: "http://evil.example", wantStatus: http.StatusNotFound, wantHeader: ""},
		{name: "plain options known path", origins: []string{"http://localhost:5173"}, method: http.MethodOptions, path: "/api/todos", origin: "http://evil.example", wantStatus: http.StatusMethodNotAllowed, wantHeader: ""},
		{name: "simple request listed origin", origins: []string{"http://localhost:5173"}, method: http.MethodGet, path: "/api/todos", origin: "http://localhost:5173", wantStatus: http.StatusOK, wantHeader: "http://localhost:5173"},
		{name: "simple request unlisted origin", origins: []string{"http://localhost:5173"}, method: http.MethodGet, path: "/api/todos", origin: "http://evil.example", wantStatus: http.StatusOK, wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTodoHandler(store.NewMemoryStore(), WithAllowedOrigins(tt.origins...))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantHeader, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestTodoHandler_AccessLog(t *testing.T) {
	var buf bytes.Buffer
	h := NewTodoHandler(store.NewMemoryStore(), WithLogger(zerolog.New(&buf)))

	rec := do(t, h, http.MethodGet, "/api/todos/7", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), "log output %q", buf.String())
	assert.Equal(t, "request", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/todos/7", entry["path"])
	assert.EqualValues(t, http.StatusNotFound, entry["status"])
}

func TestTodoHandler_RejectsMalformedBodies(t *testing.T) {
	oversized := `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "create trailing garbage", path: "/api/todos", body: `{"name":"a"} trailing garbage`},
		{name: "create two values", path: "/api/todos", body: `{"name":"a"}{"name":"b"}`},
		{name: "create oversized", path: "/api/todos", body: oversized},
		{name: "update trailing garbage", path: "/api/todos/1", body: `{"isComplete":true} junk`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemoryStore()
			_, err := s.Create(context.Background(), "existing")
			require.NoError(t, err)

			rec := do(t, NewTodoHandler(s), http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			todos, err := s.List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []model.Todo{{ID: 1, Name: "existing"}}, todos, "store must be unchanged")
		})
	}
}

func TestTodoHandler_TrailingWhitespaceAccepted(t *testing.T) {
	h := NewTodoHandler(store.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/api/todos", "{\"name\":\"a\"}\n  ")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

type failingStore struct {
	store.Store
}

func (failingStore) List(context.Context) ([]model.Todo, error) {
	return nil, errors.New("boom")
}

func TestTodoHandler_StoreFailure(t *testing.T) {
	h := NewTodoHandler(failingStore{Store: store.NewMemoryStore()})

	rec := do(t, h, http.MethodGet, "/api/todos", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
