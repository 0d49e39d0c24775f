package share

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/cookaihq/cookai/internal/auth"
	"github.com/cookaihq/cookai/internal/db"
	"github.com/cookaihq/cookai/internal/logging"
)

func init() {
	logging.Disable()
}

func testRouter(t *testing.T) (*chi.Mux, *db.Store) {
	t.Helper()
	store, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	router := chi.NewRouter()
	router.Get("/share/{token}", PreviewHandler(store))
	router.Post("/api/share", CreateHandler(store))
	return router, store
}

func shareToken(t *testing.T, store *db.Store) string {
	t.Helper()
	token, err := store.CreateSharedRecipe(context.Background(), "u1",
		json.RawMessage(`{"title":"Pasta Carbonara","description":"Roman classic","image":"/img/pasta.jpg"}`))
	if err != nil {
		t.Fatalf("create shared recipe: %v", err)
	}
	return token
}

func TestPreviewForCrawler(t *testing.T) {
	router, store := testRouter(t)
	token := shareToken(t, store)

	req := httptest.NewRequest(http.MethodGet, "/share/"+token, nil)
	req.Host = "cookai.example.com"
	req.Header.Set("User-Agent", "facebookexternalhit/1.1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`og:title" content="Pasta Carbonara"`,
		`og:image" content="http://cookai.example.com/img/pasta.jpg"`,
		`og:url" content="http://cookai.example.com/share/` + token,
		"<h1>Pasta Carbonara</h1>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "http-equiv") {
		t.Fatal("crawler page must not redirect")
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Fatalf("cache control = %q", cc)
	}
}

func TestPreviewRedirectsHumans(t *testing.T) {
	router, store := testRouter(t)
	token := shareToken(t, store)

	req := httptest.NewRequest(http.MethodGet, "/share/"+token, nil)
	req.Host = "cookai.example.com"
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `http-equiv="refresh"`) {
		t.Fatal("human page must meta-refresh")
	}
	if !strings.Contains(body, "/?share="+token) {
		t.Fatalf("missing SPA redirect in:\n%s", body)
	}
}

func TestPreviewUnknownToken(t *testing.T) {
	router, _ := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/share/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateShare(t *testing.T) {
	router, store := testRouter(t)

	body := strings.NewReader(`{"recipe":{"title":"Soup","description":"warm"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/share", body)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, "u1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" || !strings.Contains(resp.URL, "/share/"+resp.Token) {
		t.Fatalf("resp = %+v", resp)
	}

	shared, err := store.GetSharedRecipe(context.Background(), resp.Token)
	if err != nil || shared == nil {
		t.Fatalf("stored share missing: %v", err)
	}
}

func TestCreateShareRejectsNonObject(t *testing.T) {
	router, _ := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/share", strings.NewReader(`{"recipe":"just text"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAbsoluteImageURL(t *testing.T) {
	origin := "https://cookai.example.com"
	cases := map[string]string{
		"":                        "",
		"https://cdn.x.com/a.jpg": "https://cdn.x.com/a.jpg",
		"/img/a.jpg":              origin + "/img/a.jpg",
		"img/a.jpg":               origin + "/img/a.jpg",
	}
	for in, want := range cases {
		if got := absoluteImageURL(in, origin); got != want {
			t.Fatalf("absoluteImageURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsCrawler(t *testing.T) {
	if !isCrawler("WhatsApp/2.23.2") {
		t.Fatal("whatsapp should be a crawler")
	}
	if !isCrawler("Twitterbot/1.0") {
		t.Fatal("twitterbot should be a crawler")
	}
	if isCrawler("Mozilla/5.0 (Macintosh)") {
		t.Fatal("browser flagged as crawler")
	}
}
