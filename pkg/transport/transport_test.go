package transport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookatitude/irene/pkg/component"
	"github.com/lookatitude/irene/pkg/config"
	"github.com/lookatitude/irene/pkg/donation"
	"github.com/lookatitude/irene/pkg/intent"
	"github.com/lookatitude/irene/pkg/nlu"
	"github.com/lookatitude/irene/pkg/nlu/providers/keyword"
	"github.com/lookatitude/irene/pkg/transport"
	"github.com/lookatitude/irene/pkg/workflow"
)

type echoHandler struct{}

func (echoHandler) Execute(ctx context.Context, in intent.Intent, convo intent.ConversationContext) (intent.Result, error) {
	return intent.Result{Text: "you said: " + in.RawText, ShouldSpeak: true}, nil
}
func (echoHandler) RequiredParameters(string) []string     { return nil }
func (echoHandler) ClarifyingPrompt(string, string) string { return "" }

func buildServer(t *testing.T) *transport.Server {
	t.Helper()
	kw := keyword.New(0.1)
	require.NoError(t, kw.InitializeFromDonations(map[string]*donation.HandlerDonation{
		"chat": {HandlerDomain: "chat", Methods: map[string]*donation.MethodDonation{
			"chat.echo": {Intent: "chat.echo", Method: "echo", Phrases: []string{"hello"}},
		}},
	}))
	reg := intent.NewRegistry()
	reg.RegisterDomain("chat", echoHandler{})
	reg.SetFallback(echoHandler{})
	ctxMgr := intent.NewContextManager(time.Hour, 10)
	orch := intent.NewOrchestrator(reg, ctxMgr)
	cascade := nlu.NewCascade(kw)

	s := transport.NewServer()
	s.Registry = component.NewRegistry()
	s.Cascade = cascade
	s.Orchestrator = orch
	s.ContextMgr = ctxMgr
	s.ApiSvc = workflow.NewApiService(workflow.Dependencies{Cascade: cascade, Orchestrator: orch})
	return s
}

func TestHandleStatus_ReturnsOK(t *testing.T) {
	s := buildServer(t)
	req := httptest.NewRequest(http.MethodGet, "/monitoring/status", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleNLURecognize_ReturnsRecognizedIntent(t *testing.T) {
	s := buildServer(t)
	payload, _ := json.Marshal(map[string]string{"text": "hello", "session_id": "s1"})
	req := httptest.NewRequest(http.MethodPost, "/nlu/recognize", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got intent.Intent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "chat.echo", got.Name)
}

func TestHandleProcessText_DispatchesToApiService(t *testing.T) {
	s := buildServer(t)
	payload, _ := json.Marshal(map[string]string{"text": "hello", "session_id": "s1"})
	req := httptest.NewRequest(http.MethodPost, "/workflow/process_text", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got workflow.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got.Result.Text, "you said")
}

func TestHandleComponentSchema_ReturnsJSONSchema(t *testing.T) {
	s := buildServer(t)
	s.AutoRegistry = config.NewAutoRegistry()
	type params struct {
		Threshold float64 `validate:"required"`
	}
	s.AutoRegistry.RegisterProviderSchema("nlu", "keyword", params{})

	req := httptest.NewRequest(http.MethodGet, "/nlu/keyword/schema", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	props, ok := body["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "Threshold")
}

func TestHandleComponentConfigure_UnknownComponentReturns404(t *testing.T) {
	s := buildServer(t)
	payload, _ := json.Marshal(map[string]any{"provider": "mock", "settings": map[string]any{}})
	req := httptest.NewRequest(http.MethodPost, "/tts/configure", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleContext_GetAndReset(t *testing.T) {
	s := buildServer(t)
	s.ContextMgr.GetOrCreate("s1")
	s.ContextMgr.AddUserTurn("s1", intent.Intent{Name: "chat.echo"})

	req := httptest.NewRequest(http.MethodGet, "/intents/context/s1", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	resetReq := httptest.NewRequest(http.MethodPost, "/intents/context/s1", nil)
	resetRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(resetRec, resetReq)
	assert.Equal(t, http.StatusOK, resetRec.Code)

	snap := s.ContextMgr.Snapshot("s1")
	assert.Empty(t, snap.History)
}
