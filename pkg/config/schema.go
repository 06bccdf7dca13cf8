// Package config holds the single typed configuration schema (the "core
// config") and the auto-registry that introspects it. There is exactly
// one source of truth: every section, component, and provider schema is
// projected from CoreConfig itself, never hand-duplicated into a
// parallel registry.
package config

import "time"

// CoreConfig is the root of the declarative configuration tree.
type CoreConfig struct {
	System     SystemConfig               `mapstructure:"system" yaml:"system" validate:"required"`
	Inputs     InputsConfig               `mapstructure:"inputs" yaml:"inputs"`
	Components map[string]ComponentConfig `mapstructure:"components" yaml:"components" validate:"required"`
	Workflows  WorkflowsConfig            `mapstructure:"workflows" yaml:"workflows"`
	Assets     AssetsConfig               `mapstructure:"assets" yaml:"assets"`
	Monitoring MonitoringConfig           `mapstructure:"monitoring" yaml:"monitoring"`
}

// SystemConfig holds process-wide settings.
type SystemConfig struct {
	Name           string `mapstructure:"name" yaml:"name" validate:"required"`
	Language       string `mapstructure:"language" yaml:"language" validate:"required"`
	DataDir        string `mapstructure:"data_dir" yaml:"data_dir"`
	SessionTimeout time.Duration `mapstructure:"session_timeout" yaml:"session_timeout"`
	MaxHistoryTurns int    `mapstructure:"max_history_turns" yaml:"max_history_turns" validate:"min=1"`
}

// InputsConfig declares which external input sources are enabled; used by
// cross-field validation (e.g. microphone hardware requires a microphone
// input source).
type InputsConfig struct {
	Microphone bool `mapstructure:"microphone" yaml:"microphone"`
	CLI        bool `mapstructure:"cli" yaml:"cli"`
	Web        bool `mapstructure:"web" yaml:"web"`
	WebSocket  bool `mapstructure:"websocket" yaml:"websocket"`
	File       bool `mapstructure:"file" yaml:"file"`
}

// ComponentConfig configures one pluggable processing component (ASR, TTS,
// NLU, VoiceTrigger, Audio, TextProcessor, LLM) and its providers.
type ComponentConfig struct {
	Enabled           bool                              `mapstructure:"enabled" yaml:"enabled"`
	DefaultProvider   string                            `mapstructure:"default_provider" yaml:"default_provider"`
	FallbackProviders []string                          `mapstructure:"fallback_providers" yaml:"fallback_providers"`
	Providers         map[string]map[string]interface{} `mapstructure:"providers" yaml:"providers"`
}

// WorkflowsConfig declares which orchestrator variants are enabled and
// which components each may use.
type WorkflowsConfig struct {
	Voice WorkflowVariantConfig `mapstructure:"voice" yaml:"voice"`
	Text  WorkflowVariantConfig `mapstructure:"text" yaml:"text"`
	API   WorkflowVariantConfig `mapstructure:"api" yaml:"api"`
}

// WorkflowVariantConfig configures one workflow variant.
type WorkflowVariantConfig struct {
	Enabled                      bool     `mapstructure:"enabled" yaml:"enabled"`
	Components                   []string `mapstructure:"components" yaml:"components"`
	WakeWordMidUtterancePolicy   string   `mapstructure:"wake_word_midutterance_policy" yaml:"wake_word_midutterance_policy"`
	ConcurrentPlayback           bool     `mapstructure:"concurrent_playback" yaml:"concurrent_playback"`
	FatalOnError                 bool     `mapstructure:"fatal_on_error" yaml:"fatal_on_error"`
}

// AssetsConfig locates model/asset directories consumed by providers.
type AssetsConfig struct {
	Root string `mapstructure:"root" yaml:"root"`
}

// MonitoringConfig configures the observer bus and metrics exposition.
type MonitoringConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
}

// ProviderOrder returns the selection order for a component: the pinned
// name (if any and non-empty), then default, then fallbacks, de-duplicated.
func (c ComponentConfig) ProviderOrder(pinned string) []string {
	seen := map[string]bool{}
	var order []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		order = append(order, name)
	}
	add(pinned)
	add(c.DefaultProvider)
	for _, fb := range c.FallbackProviders {
		add(fb)
	}
	return order
}
