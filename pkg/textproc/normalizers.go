package textproc

import (
	"regexp"
	"strconv"
	"strings"
)

// Whitespace collapses runs of whitespace and trims the result. Applies
// to every stage since every downstream consumer benefits from it.
type Whitespace struct{}

func (Whitespace) Name() string     { return "whitespace" }
func (Whitespace) Stages() []Stage  { return []Stage{StageASROutput, StageGeneral, StageTTSInput, StageNumbers} }

var whitespaceRun = regexp.MustCompile(`\s+`)

func (Whitespace) Normalize(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// Lowercase folds text to lowercase, used on the ASR fast path where
// case carries no recognition signal.
type Lowercase struct{}

func (Lowercase) Name() string    { return "lowercase" }
func (Lowercase) Stages() []Stage { return []Stage{StageASROutput} }
func (Lowercase) Normalize(text string) string {
	return strings.ToLower(text)
}

// FillerWordStrip removes common ASR disfluencies ("um", "uh") from the
// fast path before NLU sees the text.
type FillerWordStrip struct{}

func (FillerWordStrip) Name() string    { return "filler_word_strip" }
func (FillerWordStrip) Stages() []Stage { return []Stage{StageASROutput} }

var fillerWord = regexp.MustCompile(`(?i)\b(um+|uh+|erm+)\b,?`)

func (FillerWordStrip) Normalize(text string) string {
	return whitespaceCollapse(fillerWord.ReplaceAllString(text, ""))
}

func whitespaceCollapse(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// NumberSpellOut converts standalone integers into their word form so
// TTS engines pronounce them naturally; idempotent since it only matches
// digit runs, and a digit run never contains already-spelled words.
type NumberSpellOut struct{}

func (NumberSpellOut) Name() string    { return "number_spell_out" }
func (NumberSpellOut) Stages() []Stage { return []Stage{StageNumbers, StageTTSInput} }

var digitRun = regexp.MustCompile(`\b\d+\b`)

var ones = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}

func (NumberSpellOut) Normalize(text string) string {
	return digitRun.ReplaceAllStringFunc(text, spellOut)
}

func spellOut(digits string) string {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || n > 9999 {
		return digits
	}
	if n < 10 {
		return ones[n]
	}
	// Fall back to digit-by-digit pronunciation for 10 through 9999 (larger
	// numbers are left as digits above); still idempotent since digits
	// never reappear in the output.
	var parts []string
	for _, r := range digits {
		parts = append(parts, ones[r-'0'])
	}
	return strings.Join(parts, " ")
}

// SentenceCase capitalizes the first letter of text, applied last on the
// general stage for readable transcripts/logs.
type SentenceCase struct{}

func (SentenceCase) Name() string    { return "sentence_case" }
func (SentenceCase) Stages() []Stage { return []Stage{StageGeneral} }

func (SentenceCase) Normalize(text string) string {
	if text == "" {
		return text
	}
	r := []rune(text)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
