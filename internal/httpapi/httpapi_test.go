package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jdparse-engine/internal/config"
	"jdparse-engine/internal/domain"
	"jdparse-engine/internal/events"
	"jdparse-engine/internal/extract"
)

func buildParser(cfg config.Config) (*extract.Parser, error) {
	return extract.NewParser(extract.Options{Vocabulary: cfg.ParserVocabulary(), Concurrent: cfg.Parser.Concurrent})
}

func newTestDeps(t *testing.T, cfg config.Config) Deps {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := config.SaveAtomic(path, cfg); err != nil {
		t.Fatal(err)
	}
	p, err := buildParser(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var cfgVal, parserVal atomic.Value
	cfgVal.Store(cfg)
	parserVal.Store(p)
	return Deps{
		Hub:         events.NewHub(),
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		CfgVal:      &cfgVal,
		ParserVal:   &parserVal,
		UserCfgPath: path,
		LoadCfg:     func() (config.Config, error) { return config.Load(path) },
		NewParser:   buildParser,
	}
}

func newTestHandler(d Deps, lim *ClientLimiter) http.Handler {
	return Chain(NewMux(d), RequestID, Recover(d.Log), AccessLog(d.Log), RateLimit(lim), Cors)
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	h := newTestHandler(newTestDeps(t, config.Default()), nil)

	rr := do(t, h, http.MethodGet, "/health", "", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != `{"ok":true}` {
		t.Fatalf("GET /health = %d %s", rr.Code, rr.Body)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}

	rr = do(t, h, http.MethodPost, "/health", "", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health = %d", rr.Code)
	}
	if e := decode[APIError](t, rr); e.Error.Code != CodeMethodNotAllowed || e.Error.RequestID == "" {
		t.Errorf("error = %+v", e)
	}
}

func TestErrorEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteError(rr, r, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, "too big")

	if rr.Code != http.StatusRequestEntityTooLarge || rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("status = %d, content type %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	want := `{"error":{"code":"body_too_large","message":"too big"}}`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestSchema(t *testing.T) {
	h := newTestHandler(newTestDeps(t, config.Default()), nil)

	rr := do(t, h, http.MethodGet, "/schema", "", "")
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/schema+json" {
		t.Fatalf("GET /schema = %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	var doc map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc["title"] != "JobPosting" {
		t.Errorf("title = %v", doc["title"])
	}
}

func TestParseContentTypes(t *testing.T) {
	h := newTestHandler(newTestDeps(t, config.Default()), nil)

	t.Run("plain text", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/parse", "text/plain; charset=utf-8", "Salary: $50,000 - $70,000 per year")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d %s", rr.Code, rr.Body)
		}
		if err := domain.ValidateJSON(rr.Body.Bytes()); err != nil {
			t.Errorf("response does not match schema: %v", err)
		}
		rec := decode[domain.JobPosting](t, rr)
		if rec.Salary.Min == nil || *rec.Salary.Min != 50000 || rec.Salary.Period != "annual" {
			t.Errorf("salary = %+v", rec.Salary)
		}
	})

	t.Run("html", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/parse", "text/html", "<h2>Responsibilities</h2><ul><li>Write code</li><li>Review PRs</li></ul>")
		rec := decode[domain.JobPosting](t, rr)
		if diff := cmp.Diff([]string{"Write code", "Review PRs"}, rec.Responsibilities); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("json non-text value", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/parse", "application/json", `{"text": 42}`)
		if diff := cmp.Diff(domain.NewJobPosting(), decode[domain.JobPosting](t, rr)); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/parse", "image/png", "\x89PNG")
		if rr.Code != http.StatusUnsupportedMediaType {
			t.Errorf("status = %d %s", rr.Code, rr.Body)
		}
	})

	t.Run("unreadable pdf", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/parse", "application/pdf", "not a pdf")
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d %s", rr.Code, rr.Body)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		rr := do(t, h, http.MethodPost, "/parse", "application/json", `{"text":`)
		if rr.Code != http.StatusBadRequest || decode[APIError](t, rr).Error.Code != CodeInvalidJSON {
			t.Errorf("status = %d %s", rr.Code, rr.Body)
		}
	})
}

func TestParseBodyTooLarge(t *testing.T) {
	cfg := config.Default()
	cfg.Parser.MaxInputBytes = 16
	h := newTestHandler(newTestDeps(t, cfg), nil)

	rr := do(t, h, http.MethodPost, "/parse", "text/plain", strings.Repeat("a", 100))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rr.Code)
	}
	if e := decode[APIError](t, rr); e.Error.Code != CodeBodyTooLarge {
		t.Errorf("error = %+v", e)
	}
}

func TestParseBatch(t *testing.T) {
	h := newTestHandler(newTestDeps(t, config.Default()), nil)

	rr := do(t, h, http.MethodPost, "/parse/batch", "application/json", `{"texts": ["60k-80k", null, "Requirements:\n- Go"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rr.Code, rr.Body)
	}
	recs := decode[[]domain.JobPosting](t, rr)
	if len(recs) != 3 {
		t.Fatalf("len = %d", len(recs))
	}
	if recs[0].Salary.Min == nil || *recs[0].Salary.Min != 60000 {
		t.Errorf("first salary = %+v", recs[0].Salary)
	}
	if diff := cmp.Diff(domain.NewJobPosting(), recs[1]); diff != "" {
		t.Errorf("null entry (-want +got):\n%s", diff)
	}
	if len(recs[2].Requirements.Skills) != 1 || recs[2].Requirements.Skills[0].Name != "Go" {
		t.Errorf("third skills = %+v", recs[2].Requirements.Skills)
	}

	rr = do(t, h, http.MethodPost, "/parse/batch", "application/json", `{"texts": []}`)
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("empty batch = %s", rr.Body)
	}
}

func TestConfigPut(t *testing.T) {
	d := newTestDeps(t, config.Default())
	h := newTestHandler(d, nil)

	cfg := decode[config.Config](t, do(t, h, http.MethodGet, "/config", "", ""))
	cfg.Vocabulary.Skills = []string{" Zig ", "zig"}
	b, _ := json.Marshal(cfg)

	rr := do(t, h, http.MethodPut, "/config", "application/json", string(b))
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT /config = %d %s", rr.Code, rr.Body)
	}
	if got := decode[config.Config](t, rr).Vocabulary.Skills; !cmp.Equal(got, []string{"Zig"}) {
		t.Errorf("saved skills = %v", got)
	}
	onDisk, err := os.ReadFile(d.UserCfgPath)
	if err != nil || !strings.Contains(string(onDisk), "Zig") {
		t.Errorf("config file = %s (%v)", onDisk, err)
	}

	rec := decode[domain.JobPosting](t, do(t, h, http.MethodPost, "/parse", "text/plain", "Requirements:\n- Zig"))
	if len(rec.Requirements.Skills) != 1 || rec.Requirements.Skills[0].Name != "Zig" {
		t.Errorf("parser not rebuilt: skills = %+v", rec.Requirements.Skills)
	}
}

func TestConfigPutRejects(t *testing.T) {
	h := newTestHandler(newTestDeps(t, config.Default()), nil)

	bad := config.Default()
	bad.App.Port = 0
	b, _ := json.Marshal(bad)
	rr := do(t, h, http.MethodPut, "/config", "application/json", string(b))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if v := decode[config.Validation](t, rr); len(v.Errors) != 1 {
		t.Errorf("validation = %+v", v)
	}

	rr = do(t, h, http.MethodPut, "/config", "application/json", `{"nope": 1}`)
	if rr.Code != http.StatusBadRequest || decode[APIError](t, rr).Error.Code != CodeInvalidJSON {
		t.Errorf("unknown field: %d %s", rr.Code, rr.Body)
	}

	if got := decode[config.Config](t, do(t, h, http.MethodGet, "/config", "", "")); got.App.Port != 38471 {
		t.Errorf("rejected config was stored: port %d", got.App.Port)
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(newTestDeps(t, config.Default()), NewClientLimiter(1, 1))

	if rr := do(t, h, http.MethodGet, "/health", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("first = %d", rr.Code)
	}
	rr := do(t, h, http.MethodGet, "/health", "", "")
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") == "" {
		t.Fatalf("second = %d", rr.Code)
	}
	if e := decode[APIError](t, rr); e.Error.Code != CodeRateLimited {
		t.Errorf("error = %+v", e)
	}
	if NewClientLimiter(0, 5) != nil {
		t.Error("zero rate should disable the limiter")
	}
}

func TestRecover(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), RequestID, Recover(log))

	rr := do(t, h, http.MethodGet, "/", "", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if e := decode[APIError](t, rr); e.Error.Code != CodeInternal || e.Error.RequestID != rr.Header().Get("X-Request-ID") {
		t.Errorf("error = %+v", e)
	}
}

func TestCorsPreflight(t *testing.T) {
	h := newTestHandler(newTestDeps(t, config.Default()), nil)
	req := httptest.NewRequest(http.MethodOptions, "/parse", nil)
	req.Header.Set("Origin", "tauri://localhost")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent || rr.Header().Get("Access-Control-Allow-Origin") != "tauri://localhost" {
		t.Errorf("preflight = %d %v", rr.Code, rr.Header())
	}
}

func TestShutdown(t *testing.T) {
	h := Shutdown("secret", &http.Server{})
	tests := []struct {
		name   string
		remote string
		token  string
		want   int
	}{
		{"remote caller", "203.0.113.9:4000", "secret", http.StatusForbidden},
		{"missing token", "127.0.0.1:4000", "", http.StatusUnauthorized},
		{"wrong token", "127.0.0.1:4000", "guess", http.StatusUnauthorized},
		{"ok", "127.0.0.1:4000", "secret", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
			req.RemoteAddr = tc.remote
			if tc.token != "" {
				req.Header.Set("X-Shutdown-Token", tc.token)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Errorf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestParsePublishesEvent(t *testing.T) {
	d := newTestDeps(t, config.Default())
	h := newTestHandler(d, nil)
	ch := d.Hub.Subscribe()
	defer d.Hub.Unsubscribe(ch)

	do(t, h, http.MethodPost, "/parse", "text/plain", "Job Title: Staff Engineer")
	evt := <-ch
	if evt.Type != events.TypeParsed {
		t.Fatalf("event = %+v", evt)
	}
	var data events.ParsedData
	if err := json.Unmarshal(evt.Data, &data); err != nil || data.Title != "Staff Engineer" {
		t.Errorf("data = %s (%v)", evt.Data, err)
	}
}

func TestEventsStreamPing(t *testing.T) {
	d := newTestDeps(t, config.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	NewMux(d).ServeHTTP(rr, req)

	if ct := rr.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content-type = %q", ct)
	}
	if !strings.Contains(rr.Body.String(), `"type":"ping"`) {
		t.Errorf("body = %q", rr.Body)
	}
	if d.Hub.Subscribers() != 0 {
		t.Error("subscriber left behind")
	}
}
