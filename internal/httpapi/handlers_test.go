package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/solien-labs/affective-state/internal/affect"
	"github.com/solien-labs/affective-state/internal/engine"
	"github.com/solien-labs/affective-state/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *engine.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.NewStore(filepath.Join(t.TempDir(), "api_test.db"), 10)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	eng := engine.New(s, nil, zap.NewNop())
	if _, err := eng.RunCycle(context.Background(), engine.CycleInput{}); err != nil {
		t.Fatalf("bootstrap cycle: %v", err)
	}
	return NewRouter(zap.NewNop(), NewHandlers(zap.NewNop(), eng)), eng
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetState(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/v1/state", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var st affect.State
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.Dominant == "" {
		t.Fatal("state missing dominant emotion")
	}
}

func TestPostStimuliQueuesForNextCycle(t *testing.T) {
	r, eng := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/v1/stimuli",
		`{"stimuli":[{"emotion":"joy","intensity":0.4,"source":"test feed","weightCategory":"chainActivityJoy"}]}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	res, err := eng.RunCycle(context.Background(), engine.CycleInput{})
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if res.State.Emotions[affect.Joy] <= affect.Baseline {
		t.Fatal("queued stimulus had no effect")
	}
}

func TestPostStimuliRejectsUnknownEmotion(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/v1/stimuli",
		`{"stimuli":[{"emotion":"vibes","intensity":0.4,"source":"bad"}]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPostStimuliAcceptsUnknownCategory(t *testing.T) {
	r, _ := newTestRouter(t)

	// Unknown categories are an unweighted passthrough, never an error.
	w := doRequest(t, r, http.MethodPost, "/v1/stimuli",
		`{"stimuli":[{"emotion":"fear","intensity":0.2,"source":"odd detector","weightCategory":"somethingNew"}]}`)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPostAdjustmentsPartialRejection(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/v1/adjustments",
		`{"adjustments":[
			{"category":"gasPressure","delta":0.2,"reason":"gas mattered"},
			{"category":"weatherOnMars","delta":0.2,"reason":"nope"}
		]}`)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Queued   int               `json:"queued"`
		Rejected []map[string]any  `json:"rejected"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Queued != 1 || len(resp.Rejected) != 1 {
		t.Fatalf("expected 1 queued / 1 rejected, got %+v", resp)
	}
}

func TestGetLearningAndThresholds(t *testing.T) {
	r, _ := newTestRouter(t)

	if w := doRequest(t, r, http.MethodGet, "/v1/learning", ""); w.Code != http.StatusOK {
		t.Fatalf("learning: expected 200, got %d", w.Code)
	}
	w := doRequest(t, r, http.MethodGet, "/v1/thresholds", "")
	if w.Code != http.StatusOK {
		t.Fatalf("thresholds: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "whaleTransferSize") {
		t.Fatalf("thresholds response missing defaults: %s", w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	if w := doRequest(t, r, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
