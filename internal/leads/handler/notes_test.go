package handler

import (
	"testing"

	"crmhr_backend/internal/leads/notes"

	"github.com/gin-gonic/gin"
)

// The note ledger is append-only at the API surface: nothing but add and
// list may ever be mounted for note entries.
func TestNoteRoutesExposeOnlyAddAndList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	h := NewNotesHandler(notes.NewService(nil))
	h.RegisterRoutes(engine.Group("/api/v1"))

	routes := engine.Routes()
	if len(routes) != 2 {
		t.Fatalf("expected exactly 2 note routes, got %d", len(routes))
	}
	for _, route := range routes {
		if route.Method != "GET" && route.Method != "POST" {
			t.Fatalf("unexpected %s route %s mounted for notes", route.Method, route.Path)
		}
	}
}
