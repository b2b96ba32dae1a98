package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/gql-todo/internal/config"
	"github.com/Tomlord1122/gql-todo/internal/database"
	"github.com/Tomlord1122/gql-todo/internal/graph"
	"github.com/Tomlord1122/gql-todo/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(t *testing.T, store storage.Provider, db database.Service) http.Handler {
	t.Helper()
	schema, err := graph.NewSchema(quietLogger())
	require.NoError(t, err)
	srv := NewServer(Options{Port: 0, GraphiQL: true, Logger: quietLogger()}, schema, store, db)
	return srv.Handler
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func postGraphQL(t *testing.T, h http.Handler, query string, vars map[string]interface{}) gqlResponse {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGraphQLEndpoint_RoundTrip(t *testing.T) {
	h := newTestHandler(t, storage.NewMemoryStore(), nil)

	resp := postGraphQL(t, h,
		`mutation($todo: TodoInput) { todoMutation { addTodo(todo: $todo) { todoId userId title status } } }`,
		map[string]interface{}{"todo": map[string]interface{}{"userId": 1, "title": "A", "description": "d"}},
	)
	require.Empty(t, resp.Errors)

	var added struct {
		TodoMutation struct {
			AddTodo struct {
				TodoID int  `json:"todoId"`
				Status bool `json:"status"`
			} `json:"addTodo"`
		} `json:"todoMutation"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &added))
	assert.NotZero(t, added.TodoMutation.AddTodo.TodoID)
	assert.False(t, added.TodoMutation.AddTodo.Status)

	resp = postGraphQL(t, h, `{ todoQuery { alltodosofuser(userId: 1) { todoId title } } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t,
		fmt.Sprintf(`{"todoQuery":{"alltodosofuser":[{"todoId":%d,"title":"A"}]}}`, added.TodoMutation.AddTodo.TodoID),
		string(resp.Data))
}

func TestGraphQLEndpoint_ErrorExtensions(t *testing.T) {
	h := newTestHandler(t, storage.NewMemoryStore(), nil)

	resp := postGraphQL(t, h,
		`mutation { todoMutation { updateTodo(userId: 2, updatedTodo: {todoId: 1, userId: 1}) { todoId } } }`,
		nil,
	)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, graph.CodeForbidden, resp.Errors[0].Extensions["code"])
}

func TestGraphQLEndpoint_SQLite(t *testing.T) {
	db, err := database.New(config.Database{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "todos.db"),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	h := newTestHandler(t, storage.NewGormProvider(db.GetDB()), db)

	resp := postGraphQL(t, h,
		`mutation { todoMutation { addTodo(todo: {userId: 3, title: "sql"}) { todoId } } }`, nil)
	require.Empty(t, resp.Errors)

	resp = postGraphQL(t, h,
		`mutation { todoMutation { deleteTodo(userId: 3, todoToDelete: {todoId: 1, userId: 3}) } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"todoMutation":{"deleteTodo":true}}`, string(resp.Data))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"up"`)
}

func TestHealth_MemoryStore(t *testing.T) {
	h := newTestHandler(t, storage.NewMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"up","message":"in-memory storage"}`, rec.Body.String())
}

func TestHelloWorld(t *testing.T) {
	h := newTestHandler(t, storage.NewMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fixed-id", rec.Header().Get(requestIDHeader))
	assert.Contains(t, rec.Body.String(), "/graphql")
}

func TestGraphiQL_ServedToBrowsers(t *testing.T) {
	h := newTestHandler(t, storage.NewMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graphiql")
}
