package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// Validate checks cross-field constraints: TTS requires Audio; microphone
// hardware enablement requires a microphone input source; workflows can
// only request components that are enabled. It also runs struct-tag
// validation (`validate:"required"` etc.) over CoreConfig.
func Validate(cfg *CoreConfig) Report {
	var report Report

	if err := structValidator.Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				report.Errors = append(report.Errors, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			report.Errors = append(report.Errors, err.Error())
		}
	}

	if tts, ok := cfg.Components["tts"]; ok && tts.Enabled {
		if audio, ok := cfg.Components["audio"]; !ok || !audio.Enabled {
			report.Errors = append(report.Errors, "components.tts is enabled but components.audio is not: TTS requires Audio")
		}
	}

	if mic, ok := cfg.Components["voice_trigger"]; ok && mic.Enabled {
		if !cfg.Inputs.Microphone {
			report.Errors = append(report.Errors, "components.voice_trigger is enabled but inputs.microphone is false")
		}
	}

	checkWorkflowComponents(cfg, "workflows.voice", cfg.Workflows.Voice, &report)
	checkWorkflowComponents(cfg, "workflows.text", cfg.Workflows.Text, &report)
	checkWorkflowComponents(cfg, "workflows.api", cfg.Workflows.API, &report)

	return report
}

func checkWorkflowComponents(cfg *CoreConfig, label string, variant WorkflowVariantConfig, report *Report) {
	if !variant.Enabled {
		return
	}
	for _, name := range variant.Components {
		comp, ok := cfg.Components[name]
		if !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("%s requests unknown component %q", label, name))
			continue
		}
		if !comp.Enabled {
			report.Errors = append(report.Errors, fmt.Sprintf("%s requests component %q which is not enabled", label, name))
		}
	}
	if variant.WakeWordMidUtterancePolicy != "" &&
		variant.WakeWordMidUtterancePolicy != "ignore" &&
		variant.WakeWordMidUtterancePolicy != "barge_in" {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"%s.wake_word_midutterance_policy %q is unrecognised, defaulting to \"ignore\"",
			label, variant.WakeWordMidUtterancePolicy))
	}
}
