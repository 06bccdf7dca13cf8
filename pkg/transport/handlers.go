package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/lookatitude/irene/internal/o11y"
	"github.com/lookatitude/irene/pkg/audio"
	"github.com/lookatitude/irene/pkg/intent"
	"github.com/lookatitude/irene/pkg/workflow"
)

var startedAt = time.Now()

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"uptime_sec": int(time.Since(startedAt).Seconds()),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.MetricsHandler != nil {
		s.MetricsHandler.ServeHTTP(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"components": s.Registry.Components()})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleComponentSchema(w http.ResponseWriter, r *http.Request) {
	componentName := mux.Vars(r)["component"]
	providerName := mux.Vars(r)["provider"]
	if s.AutoRegistry == nil {
		writeError(w, http.StatusNotFound, "no provider schemas registered")
		return
	}
	schema, ok := s.AutoRegistry.GetProviderParameterSchema(componentName, providerName)
	if !ok {
		writeError(w, http.StatusNotFound, "no schema for "+componentName+"/"+providerName)
		return
	}
	writeJSON(w, http.StatusOK, schema.JSONSchema())
}

func (s *Server) handleNLUProviders(w http.ResponseWriter, r *http.Request) {
	if s.Cascade == nil {
		writeJSON(w, http.StatusOK, []string{})
		return
	}
	names := make([]string, 0, len(s.Cascade.Providers))
	for _, p := range s.Cascade.Providers {
		names = append(names, p.Name())
	}
	writeJSON(w, http.StatusOK, names)
}

type recognizeRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
}

func (s *Server) handleNLURecognize(w http.ResponseWriter, r *http.Request) {
	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	convo := intent.ConversationContext{SessionID: req.SessionID}
	if s.ContextMgr != nil && req.SessionID != "" {
		convo = s.ContextMgr.Snapshot(req.SessionID)
	}
	language := req.Language
	if language == "" {
		language = "en"
	}
	result := s.Cascade.Recognize(r.Context(), req.Text, convo, language)
	writeJSON(w, http.StatusOK, result)
}

type executeRequest struct {
	Intent    intent.Intent `json:"intent"`
	SessionID string        `json:"session_id"`
}

func (s *Server) handleIntentsExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.Orchestrator.ExecuteIntent(r.Context(), req.Intent, req.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleIntentsHandlers(w http.ResponseWriter, r *http.Request) {
	// The registry does not expose an enumeration API by design, to avoid
	// a parallel shadow registry — callers introspect via /nlu/providers
	// and the donation-sourced intent names instead.
	writeJSON(w, http.StatusOK, map[string]any{"note": "enumerate via donated intent names"})
}

func (s *Server) handleContextGet(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]
	snap := s.ContextMgr.Snapshot(sessionID)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleContextPost(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]
	s.ContextMgr.Reset(sessionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

type configureRequest struct {
	Provider string                 `json:"provider"`
	Settings map[string]interface{} `json:"settings"`
}

func (s *Server) handleComponentConfigure(w http.ResponseWriter, r *http.Request) {
	componentName := mux.Vars(r)["component"]
	var req configureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := s.Registry.New(componentName, req.Provider)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err := p.Initialize(r.Context(), req.Settings); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"component": componentName, "provider": req.Provider, "status": "configured"})
}

func (s *Server) handleVoiceTriggerConfigure(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WakeWords []string `json:"wake_words"`
		Threshold float64  `json:"threshold"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.Trigger == nil {
		writeError(w, http.StatusServiceUnavailable, "voice trigger not configured")
		return
	}
	if len(req.WakeWords) > 0 {
		s.Trigger.SetWakeWords(req.WakeWords)
	}
	if req.Threshold > 0 {
		s.Trigger.SetThreshold(req.Threshold)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "configured"})
}

func (s *Server) handleVoiceTriggerStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		o11y.Default().Warn("voice_trigger stream upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	s.Trigger.Arm()
	defer s.Trigger.Disarm()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		frame := frameFromBinary(data)
		if ev, fired := s.Trigger.Push(r.Context(), frame); fired {
			_ = conn.WriteJSON(ev)
		}
	}
}

type processTextRequest struct {
	Text       string `json:"text"`
	SessionID  string `json:"session_id"`
	WantsAudio bool   `json:"wants_audio"`
}

func (s *Server) handleProcessText(w http.ResponseWriter, r *http.Request) {
	var req processTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rc := requestContextFromHTTP(r, req.SessionID)
	rc.WantsAudio = req.WantsAudio

	ctx, cancel := deadlineContext(r.Context(), rc)
	defer cancel()

	if s.TextAssist != nil {
		result, err := s.TextAssist.ProcessText(ctx, req.Text, rc)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	resp, err := s.ApiSvc.ProcessText(ctx, req.Text, rc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAudioBinary(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		o11y.Default().Warn("audio binary stream upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	if s.VoiceAssist == nil {
		_ = conn.WriteJSON(map[string]string{"error": "voice workflow not configured"})
		return
	}

	frames := make(chan *audio.Frame, 64)
	go func() {
		defer close(frames)
		var seq uint64
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil || mt != websocket.BinaryMessage {
				return
			}
			seq++
			frames <- audio.NewFrame(data, 16000, 1, audio.SampleFormatInt16, time.Now().UnixNano(), seq)
		}
	}()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	rc := workflow.NewRequestContext(workflow.SourceWS, sessionID)
	rc.WantsAudio = true
	rc.SkipWakeWord = r.URL.Query().Get("skip_wake_word") == "true"

	result, err := s.VoiceAssist.ProcessAudioStream(r.Context(), frames, rc)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	_ = conn.WriteJSON(result)
}

func frameFromBinary(data []byte) *audio.Frame {
	return audio.NewFrame(data, 16000, 1, audio.SampleFormatInt16, time.Now().UnixNano(), 0)
}
