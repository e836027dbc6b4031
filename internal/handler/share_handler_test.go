package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/quillpress/internal/db"
)

func TestSharePostRendersHTML(t *testing.T) {
	env := setupHandlerTest(t)
	env.registerRoutes()
	owner := env.seedUser(t, "authoruser", true)
	post := env.seedPost(t, owner.ID, "Shared & Cared")

	rr := env.do(t, http.MethodGet, "/p/"+post.Slug, nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %q", ct)
	}
	html := rr.Body.String()
	for _, want := range []string{"Shared &amp; Cared", "<p>seeded</p>", "by authoruser", "/p/" + post.Slug} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected page to contain %q, got %s", want, html)
		}
	}
}

func TestSharePostUnknownSlug(t *testing.T) {
	env := setupHandlerTest(t)
	env.registerRoutes()

	rr := env.do(t, http.MethodGet, "/p/nope", nil, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	env := setupHandlerTest(t)
	env.registerRoutes()

	rr := env.do(t, http.MethodGet, "/api/health", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := decodeJSON[map[string]any](t, rr); body["status"] != "ok" {
		t.Fatalf("unexpected payload: %v", body)
	}
}

func TestHealthCheckReportsUnreachableDatabase(t *testing.T) {
	env := setupHandlerTest(t)
	env.registerRoutes()

	if err := db.Close(env.db); err != nil {
		t.Fatalf("close: %v", err)
	}

	rr := env.do(t, http.MethodGet, "/api/health", nil, nil)
	body := assertErrorBody(t, rr, http.StatusServiceUnavailable)
	if body["message"] != "database unreachable" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}
