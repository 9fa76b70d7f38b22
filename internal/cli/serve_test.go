package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	stdio "io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	apperrors "github.com/fractile/fractile/pkg/errors"
	"github.com/fractile/fractile/pkg/fractal"
	patio "github.com/fractile/fractile/pkg/io"
	"github.com/fractile/fractile/pkg/pipeline"
)

func testServer(t *testing.T) *server {
	t.Helper()
	logger := log.New(stdio.Discard)
	return &server{
		logger: logger,
		runner: pipeline.NewRunner(nil, logger),
	}
}

func referenceWire(t *testing.T) json.RawMessage {
	t.Helper()
	wire, err := patio.Marshal(fractal.Reference())
	if err != nil {
		t.Fatal(err)
	}
	return wire
}

func postRender(t *testing.T, s *server, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/render", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	s.handleRender(rec, req)
	return rec
}

func TestHandleRenderOK(t *testing.T) {
	s := testServer(t)
	rec := postRender(t, s, map[string]any{
		"pattern":    referenceWire(t),
		"iterations": 3,
		"decay":      0.5,
		"format":     "png",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("X-Pattern-Hash"); len(got) != 64 {
		t.Errorf("X-Pattern-Hash = %q, want 64 hex chars", got)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	if got := img.Bounds().Dx(); got != 8 {
		t.Errorf("image side = %d, want 8", got)
	}
}

func TestHandleRenderDefaultsApply(t *testing.T) {
	s := testServer(t)
	rec := postRender(t, s, map[string]any{
		"pattern":    referenceWire(t),
		"iterations": 2,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("default format Content-Type = %q", got)
	}
}

func TestHandleRenderBadJSON(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	s.handleRender(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRenderMissingPattern(t *testing.T) {
	s := testServer(t)
	rec := postRender(t, s, map[string]any{"iterations": 3})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if body["code"] != "INVALID_REQUEST" {
		t.Errorf("code = %q", body["code"])
	}
}

func TestHandleRenderMalformedPatternShape(t *testing.T) {
	s := testServer(t)
	rec := postRender(t, s, map[string]any{
		"pattern": map[string]any{"pixels": []any{}},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != string(apperrors.ErrCodeInvalidPatternFile) {
		t.Errorf("code = %q, want %s", body["code"], apperrors.ErrCodeInvalidPatternFile)
	}
}

func TestHandleRenderInvariantViolation(t *testing.T) {
	p := fractal.Reference()
	p[0][0].Color.R = 1.5
	wire, err := patio.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}

	s := testServer(t)
	rec := postRender(t, s, map[string]any{
		"pattern":    json.RawMessage(wire),
		"iterations": 2,
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != string(apperrors.ErrCodeColorRange) {
		t.Errorf("code = %q, want %s", body["code"], apperrors.ErrCodeColorRange)
	}
}

func TestHandleRenderBadParams(t *testing.T) {
	s := testServer(t)
	decay := 2.0
	rec := postRender(t, s, map[string]any{
		"pattern": referenceWire(t),
		"decay":   decay,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != string(apperrors.ErrCodeInvalidParams) {
		t.Errorf("code = %q, want %s", body["code"], apperrors.ErrCodeInvalidParams)
	}
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var sawID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawID, _ = r.Context().Value(requestIDKey).(string)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	requestID(inner).ServeHTTP(rec, req)

	header := rec.Header().Get("X-Request-ID")
	if header == "" {
		t.Fatal("missing X-Request-ID header")
	}
	if sawID != header {
		t.Errorf("context id %q != header id %q", sawID, header)
	}
}
