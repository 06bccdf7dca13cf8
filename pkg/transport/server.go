// Package transport implements the HTTP/WS adapter that maps external
// requests onto the core runtime. It is a thin adapter: every route
// either delegates to a workflow variant, the NLU cascade, the intent
// orchestrator, or the component registry.
package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/lookatitude/irene/pkg/component"
	"github.com/lookatitude/irene/pkg/config"
	"github.com/lookatitude/irene/pkg/intent"
	"github.com/lookatitude/irene/pkg/nlu"
	"github.com/lookatitude/irene/pkg/vt"
	"github.com/lookatitude/irene/pkg/workflow"
)

// Server wires every external route to the runtime it adapts.
type Server struct {
	router *mux.Router

	Config       *config.CoreConfig
	Registry     *component.Registry
	AutoRegistry *config.AutoRegistry
	Cascade      *nlu.Cascade
	Orchestrator *intent.Orchestrator
	ContextMgr   *intent.ContextManager
	TextAssist   *workflow.TextAssistant
	ApiSvc       *workflow.ApiService
	VoiceAssist  *workflow.VoiceAssistant
	Trigger      vt.Detector

	// MetricsHandler, when set, backs /monitoring/metrics with Prometheus
	// exposition (see internal/o11y.InitPrometheusExporter). Nil falls
	// back to the JSON component summary.
	MetricsHandler http.Handler

	upgrader websocket.Upgrader
}

// NewServer builds a Server and registers every adapter route.
func NewServer() *Server {
	s := &Server{
		router:   mux.NewRouter(),
		Registry: component.NewRegistry(),
		upgrader: websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
	}
	s.routes()
	return s
}

// Handler returns the http.Handler to pass to http.Server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.HandleFunc("/monitoring/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/monitoring/metrics", s.handleMetrics).Methods(http.MethodGet)
	s.router.HandleFunc("/monitoring/dashboard", s.handleDashboard).Methods(http.MethodGet)

	s.router.HandleFunc("/nlu/providers", s.handleNLUProviders).Methods(http.MethodGet)
	s.router.HandleFunc("/nlu/recognize", s.handleNLURecognize).Methods(http.MethodPost)

	s.router.HandleFunc("/intents/execute", s.handleIntentsExecute).Methods(http.MethodPost)
	s.router.HandleFunc("/intents/handlers", s.handleIntentsHandlers).Methods(http.MethodGet)
	s.router.HandleFunc("/intents/context/{session_id}", s.handleContextGet).Methods(http.MethodGet)
	s.router.HandleFunc("/intents/context/{session_id}", s.handleContextPost).Methods(http.MethodPost)

	s.router.HandleFunc("/{component}/configure", s.handleComponentConfigure).Methods(http.MethodPost)
	s.router.HandleFunc("/{component}/{provider}/schema", s.handleComponentSchema).Methods(http.MethodGet)
	s.router.HandleFunc("/voice_trigger/configure", s.handleVoiceTriggerConfigure).Methods(http.MethodPost)
	s.router.HandleFunc("/voice_trigger/stream", s.handleVoiceTriggerStream)

	s.router.HandleFunc("/workflow/process_text", s.handleProcessText).Methods(http.MethodPost)
	s.router.HandleFunc("/ws/audio/binary", s.handleAudioBinary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestContextFromHTTP(r *http.Request, sessionID string) *workflow.RequestContext {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	rc := workflow.NewRequestContext(workflow.SourceWeb, sessionID)
	if d, ok := r.Context().Deadline(); ok {
		rc.Deadline = d
	}
	return rc
}

// deadlineContext applies rc.Deadline to ctx if set: each stage has a
// configurable deadline.
func deadlineContext(ctx context.Context, rc *workflow.RequestContext) (context.Context, context.CancelFunc) {
	if rc.Deadline.IsZero() {
		return ctx, func() {}
	}
	return context.WithDeadline(ctx, rc.Deadline)
}
