package textproc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lookatitude/irene/pkg/textproc"
)

func TestPipeline_ASROutput_StripsFillersAndLowercases(t *testing.T) {
	p := textproc.DefaultPipeline()
	got := p.Process("Um, Turn  ON the LIGHTS", textproc.StageASROutput)
	assert.Equal(t, "turn on the lights", got)
}

func TestPipeline_General_CapitalizesSentence(t *testing.T) {
	p := textproc.DefaultPipeline()
	got := p.Process("  hello world  ", textproc.StageGeneral)
	assert.Equal(t, "Hello world", got)
}

func TestPipeline_Numbers_SpellsOutDigits(t *testing.T) {
	p := textproc.DefaultPipeline()
	got := p.Process("set timer for 5 minutes", textproc.StageNumbers)
	assert.Equal(t, "set timer for five minutes", got)
}

func TestPipeline_TTSInput_SpellsOutMultiDigit(t *testing.T) {
	p := textproc.DefaultPipeline()
	got := p.Process("it is 42 degrees", textproc.StageTTSInput)
	assert.Equal(t, "it is four two degrees", got)
}

func TestPipeline_Idempotent_AcrossAllStages(t *testing.T) {
	p := textproc.DefaultPipeline()
	inputs := []string{
		"Um uh Turn ON the LIGHTS please",
		"  set a timer for 12 minutes  ",
		"what is 7 plus 3",
		"",
	}
	for _, stage := range []textproc.Stage{
		textproc.StageASROutput, textproc.StageGeneral, textproc.StageTTSInput, textproc.StageNumbers,
	} {
		for _, in := range inputs {
			once := p.Process(in, stage)
			twice := p.Process(once, stage)
			assert.Equal(t, once, twice, "stage=%s input=%q", stage, in)
		}
	}
}

type stubNormalizer struct {
	stages []textproc.Stage
}

func (s stubNormalizer) Name() string             { return "stub" }
func (s stubNormalizer) Stages() []textproc.Stage { return s.stages }
func (s stubNormalizer) Normalize(text string) string {
	return text + "!"
}

func TestPipeline_OnlyAppliesDeclaredStages(t *testing.T) {
	p := textproc.NewPipeline(stubNormalizer{stages: []textproc.Stage{textproc.StageGeneral}})
	assert.Equal(t, "hi!", p.Process("hi", textproc.StageGeneral))
	assert.Equal(t, "hi", p.Process("hi", textproc.StageASROutput))
}
