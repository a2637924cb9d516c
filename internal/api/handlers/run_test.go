package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"TrapWars/internal/game"
	"TrapWars/internal/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := game.NewEngine("test-wallet", store.NewMemoryStore(), nil, nil, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	h := NewRunHandler(engine)

	r := gin.New()
	r.POST("/api/v1/run/start", h.StartRun)
	r.POST("/api/v1/run/buy", h.Buy)
	r.POST("/api/v1/run/sell", h.Sell)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse error body %q: %v", w.Body.String(), err)
	}
	return resp.Error.Code
}

// An explicit zero or negative quantity is a well-formed request; it must
// reach the engine and come back with its validation code, not as a
// malformed body.
func TestTrade_NonPositiveQuantityCode(t *testing.T) {
	r := newTestRouter(t)

	if w := doJSON(t, r, "/api/v1/run/start", ""); w.Code != http.StatusOK {
		t.Fatalf("start: status %d, body %s", w.Code, w.Body.String())
	}

	for _, body := range []string{
		`{"product":"Weed","quantity":0}`,
		`{"product":"Weed","quantity":-5}`,
	} {
		w := doJSON(t, r, "/api/v1/run/buy", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("buy %s: expected 400, got %d", body, w.Code)
		}
		if code := errorCode(t, w); code != "INVALID_QUANTITY" {
			t.Errorf("buy %s: expected INVALID_QUANTITY, got %s", body, code)
		}

		w = doJSON(t, r, "/api/v1/run/sell", body)
		if code := errorCode(t, w); w.Code != http.StatusBadRequest || code != "INVALID_QUANTITY" {
			t.Errorf("sell %s: expected 400 INVALID_QUANTITY, got %d %s", body, w.Code, code)
		}
	}

	// A missing product is still a malformed request.
	w := doJSON(t, r, "/api/v1/run/buy", `{"quantity":1}`)
	if code := errorCode(t, w); w.Code != http.StatusBadRequest || code != "INVALID_REQUEST" {
		t.Errorf("expected 400 INVALID_REQUEST without a product, got %d %s", w.Code, code)
	}
}
