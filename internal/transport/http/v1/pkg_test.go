package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/websearch-rag/gateway/internal/adapter/ragclient"
	"github.com/websearch-rag/gateway/internal/hub"
	"github.com/websearch-rag/gateway/internal/service"
	"github.com/websearch-rag/gateway/internal/store"
	"github.com/websearch-rag/gateway/policy"
)

// newTestHandler wires a handler against an in-memory store and a stub
// RAG server.
func newTestHandler(t *testing.T, ragHandler http.HandlerFunc) (*Handler, *store.SQLiteStore, *hub.Hub) {
	t.Helper()

	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if ragHandler == nil {
		ragHandler = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unexpected rag call", http.StatusInternalServerError)
		}
	}
	server := httptest.NewServer(ragHandler)
	t.Cleanup(server.Close)

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	log := zap.NewNop()
	rag := ragclient.NewClient(server.URL, 2*time.Second)
	svc := service.New(db, rag, engine, log)

	h := hub.New(log)
	go h.Run()

	return NewHandler(svc, h, log), db, h
}
