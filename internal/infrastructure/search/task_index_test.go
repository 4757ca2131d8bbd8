package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   string
}

// fakeES answers like an Elasticsearch node and records every request.
func fakeES(t *testing.T, respond func(r *http.Request) (int, string)) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		mu.Unlock()
		code, body := respond(r)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &reqs
}

func TestTaskIndex_IndexDocument(t *testing.T) {
	es, reqs := fakeES(t, func(*http.Request) (int, string) {
		return http.StatusCreated, `{"result":"created"}`
	})
	idx := NewTaskIndex(es, "tasks")

	due := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	err := idx.Index(context.Background(), &entity.Task{
		ID: "t1", UserID: "u1", Title: "buy milk", Status: entity.TaskPending, DueDate: &due,
	})
	require.NoError(t, err)
	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/tasks/_doc/t1", got.path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.body), &doc))
	assert.Equal(t, "u1", doc["user_id"])
	assert.Equal(t, "2025-01-02", doc["due_date"])
}

func TestTaskIndex_DeleteMissingIsFine(t *testing.T) {
	es, _ := fakeES(t, func(*http.Request) (int, string) {
		return http.StatusNotFound, `{"result":"not_found"}`
	})
	assert.NoError(t, NewTaskIndex(es, "tasks").Delete(context.Background(), "gone"))
}

func TestTaskIndex_SearchFiltersByOwner(t *testing.T) {
	es, reqs := fakeES(t, func(*http.Request) (int, string) {
		return http.StatusOK, `{"hits":{"hits":[{"_id":"t2"},{"_id":"t1"}]}}`
	})
	ids, err := NewTaskIndex(es, "tasks").Search(context.Background(), "u1", "milk", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t1"}, ids)

	require.Len(t, *reqs, 1)
	assert.True(t, strings.HasSuffix((*reqs)[0].path, "/_search"))
	assert.Contains(t, (*reqs)[0].body, `"user_id":"u1"`)
	assert.Contains(t, (*reqs)[0].body, `"query":"milk"`)
}

func TestTaskIndex_SearchErrorStatus(t *testing.T) {
	es, _ := fakeES(t, func(*http.Request) (int, string) {
		return http.StatusBadRequest, `{"error":"bad"}`
	})
	_, err := NewTaskIndex(es, "tasks").Search(context.Background(), "u1", "x", 10)
	assert.Error(t, err)
}
