package textproc

// DefaultPipeline returns the normalizer chain wired by default: ASR fast
// path cleanup, general-purpose tidying, and number spell-out feeding
// into TTS input.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		Lowercase{},
		FillerWordStrip{},
		Whitespace{},
		SentenceCase{},
		NumberSpellOut{},
	)
}
