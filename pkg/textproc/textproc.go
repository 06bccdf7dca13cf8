// Package textproc implements stage-tagged text normalization
// pipelines: normalizers declare which stages they apply to, and a
// pipeline composes them in order so stage N's output feeds stage N+1.
package textproc

// Stage identifies a point in the pipeline where normalization applies.
type Stage string

const (
	StageASROutput Stage = "asr_output"
	StageGeneral   Stage = "general"
	StageTTSInput  Stage = "tts_input"
	StageNumbers   Stage = "numbers"
)

// Normalizer transforms text for one or more stages. Normalize must be
// idempotent: Normalize(Normalize(x)) == Normalize(x).
type Normalizer interface {
	Name() string
	Stages() []Stage
	Normalize(text string) string
}

// Pipeline composes normalizers and applies them to a stage.
type Pipeline struct {
	normalizers []Normalizer
}

// NewPipeline builds a pipeline from normalizers in registration order.
func NewPipeline(normalizers ...Normalizer) *Pipeline {
	return &Pipeline{normalizers: normalizers}
}

// Process runs every normalizer that declares stage, in registration
// order, feeding each one's output into the next.
func (p *Pipeline) Process(text string, stage Stage) string {
	out := text
	for _, n := range p.normalizers {
		if appliesTo(n, stage) {
			out = n.Normalize(out)
		}
	}
	return out
}

func appliesTo(n Normalizer, stage Stage) bool {
	for _, s := range n.Stages() {
		if s == stage {
			return true
		}
	}
	return false
}
