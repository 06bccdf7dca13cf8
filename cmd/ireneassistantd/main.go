// Command ireneassistantd runs the Irene voice-assistant runtime: it
// loads configuration, discovers components, loads donations, wires the
// workflow variants, and serves the HTTP/WS adapter surface.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lookatitude/irene/internal/httputil"
	"github.com/lookatitude/irene/internal/o11y"
	"github.com/lookatitude/irene/pkg/asr"
	asrmock "github.com/lookatitude/irene/pkg/asr/providers/mock"
	"github.com/lookatitude/irene/pkg/audioout"
	audiooutmock "github.com/lookatitude/irene/pkg/audioout/providers/mock"
	"github.com/lookatitude/irene/pkg/component"
	"github.com/lookatitude/irene/pkg/config"
	"github.com/lookatitude/irene/pkg/donation"
	"github.com/lookatitude/irene/pkg/intent"
	"github.com/lookatitude/irene/pkg/nlu"
	"github.com/lookatitude/irene/pkg/nlu/providers/keyword"
	"github.com/lookatitude/irene/pkg/observe"
	"github.com/lookatitude/irene/pkg/textproc"
	"github.com/lookatitude/irene/pkg/transport"
	"github.com/lookatitude/irene/pkg/tts"
	ttsmock "github.com/lookatitude/irene/pkg/tts/providers/mock"
	"github.com/lookatitude/irene/pkg/vt"
	vtmock "github.com/lookatitude/irene/pkg/vt/providers/mock"
	"github.com/lookatitude/irene/pkg/workflow"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	log := o11y.NewLogger(o11y.WithJSON())
	o11y.SetDefault(log)

	loader, err := config.NewLoader(config.DefaultLoaderOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if report := config.Validate(cfg); !report.OK() {
		for _, e := range report.Errors {
			fmt.Fprintln(os.Stderr, "config error:", e)
		}
		os.Exit(2)
	}

	registry := component.NewRegistry()
	asrmock.Register(registry)
	ttsmock.Register(registry)
	audiooutmock.Register(registry)
	vtmock.Register(registry)

	asrProvider, err := registry.New("asr", "mock")
	if err != nil {
		fmt.Fprintf(os.Stderr, "asr: %v\n", err)
		os.Exit(1)
	}
	ttsProvider, err := registry.New("tts", "mock")
	if err != nil {
		fmt.Fprintf(os.Stderr, "tts: %v\n", err)
		os.Exit(1)
	}
	audioOutProvider, err := registry.New("audio_output", "mock")
	if err != nil {
		fmt.Fprintf(os.Stderr, "audio_output: %v\n", err)
		os.Exit(1)
	}
	trigger, err := registry.New("voice_trigger", "mock")
	if err != nil {
		fmt.Fprintf(os.Stderr, "voice_trigger: %v\n", err)
		os.Exit(1)
	}

	bus := observe.NewBus(64)
	busCtx, stopBus := context.WithCancel(ctx)
	defer stopBus()
	bus.Subscribe(busCtx, observe.ObserverFunc(func(e observe.Event) {
		log.Debug("event", "type", e.Type, "fields", e.Fields)
	}))

	reg := intent.NewRegistry()
	reg.SetFallback(intent.NewChatFallbackHandler(""))
	reg.SetErrorHandler(intent.NewChatFallbackHandler("Sorry, something went wrong handling that."))

	donationsRoot := filepath.Join(cfg.Assets.Root, "donations")
	donations, err := loadDonations(donationsRoot)
	if err != nil {
		log.Warn("donation load failed, continuing with fallback handler only", "path", donationsRoot, "err", err)
	}
	for handler, hd := range donations {
		templates := donation.NewTemplateSet(cfg.System.Language)
		if err := donation.LoadTemplates(os.DirFS(donationsRoot), templates, handler); err != nil {
			log.Warn("template load failed for handler", "handler", handler, "err", err)
		}
		h := donation.NewHandler(hd, templates, genericDispatch)
		reg.RegisterDomain(hd.HandlerDomain, h)
		bus.Publish(observe.Event{Type: "handler.registered", Fields: map[string]any{"handler": hd.HandlerDomain, "intents": len(hd.Methods)}})
	}

	ctxMgr := intent.NewContextManager(cfg.System.SessionTimeout, cfg.System.MaxHistoryTurns)
	stopGC, err := ctxMgr.StartGC("@every 5m")
	if err != nil {
		fmt.Fprintf(os.Stderr, "context gc: %v\n", err)
		os.Exit(1)
	}
	defer stopGC()
	orch := intent.NewOrchestrator(reg, ctxMgr, intent.LoggingMiddleware())

	kw := keyword.New(0.6)
	cascade := nlu.NewCascade(kw)
	if err := kw.InitializeFromDonations(donations); err != nil {
		log.Warn("keyword provider initialization failed", "err", err)
	}

	deps := workflow.Dependencies{
		Trigger:        trigger.(vt.Detector),
		ASRProvider:    asrProvider.(asr.Provider),
		TTSProvider:    ttsProvider.(tts.Provider),
		AudioOut:       audioOutProvider.(audioout.Player),
		TextPipeline:   textproc.DefaultPipeline(),
		Cascade:        cascade,
		Orchestrator:   orch,
		SystemLanguage: cfg.System.Language,
		Observe:        bus,
	}

	autoRegistry := config.NewAutoRegistry()
	autoRegistry.RegisterProviderSchema("nlu", "keyword", struct {
		Threshold float64 `validate:"required"`
	}{})

	srv := transport.NewServer()
	srv.Config = cfg
	srv.Registry = registry
	srv.AutoRegistry = autoRegistry
	srv.Cascade = cascade
	srv.Orchestrator = orch
	srv.ContextMgr = ctxMgr
	srv.TextAssist = workflow.NewTextAssistant(deps)
	srv.ApiSvc = workflow.NewApiService(deps)
	srv.VoiceAssist = workflow.NewVoiceAssistant(deps)
	srv.Trigger = deps.Trigger

	if metricsHandler, err := o11y.InitPrometheusExporter(cfg.System.Name); err != nil {
		log.Warn("prometheus exporter unavailable", "err", err)
	} else {
		srv.MetricsHandler = metricsHandler
	}

	log.Info("listening", "addr", cfg.Monitoring.ListenAddr)
	var lifecycle httputil.Lifecycle
	lifecycle.OnTransition = func(event string, fields map[string]any) {
		bus.Publish(observe.Event{Type: "server." + event, Fields: fields})
	}
	if err := lifecycle.Serve(ctx, cfg.Monitoring.ListenAddr, srv.Handler(),
		15*time.Second, 15*time.Second, 60*time.Second, "ireneassistantd"); err != nil && ctx.Err() == nil {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// loadDonations loads every handler's merged donation from root if it
// exists. A missing donation root is not an error: the daemon still runs
// with its fallback handler, which keeps a bare checkout runnable before
// any donation assets are installed.
func loadDonations(root string) (map[string]*donation.HandlerDonation, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil
	}
	dloader, err := donation.NewLoader(os.DirFS(root), []byte(donation.DefaultSchemaJSON), nil, false)
	if err != nil {
		return nil, err
	}
	return dloader.LoadAll()
}

// genericDispatch is the default MethodDispatcher wired when no
// domain-specific business logic is linked in: it acknowledges the
// method by name so every donated intent resolves to a concrete result
// instead of "no handler resolved", but real handlers should supply
// their own dispatcher ahead of this one.
func genericDispatch(ctx context.Context, method string, in intent.Intent, convo intent.ConversationContext) (intent.Result, error) {
	return intent.Result{
		Text:        fmt.Sprintf("Okay, I ran %s.", method),
		ShouldSpeak: true,
		Language:    in.Language,
	}, nil
}
