package nlu

import "github.com/lookatitude/irene/pkg/intent"

// LanguageDetector guesses the language of raw text; a real provider
// might wrap a fasttext/cld3-style model, the mock just returns a fixed
// default.
type LanguageDetector func(text string) (lang string, ok bool)

// ResolveLanguage resolves the active language in priority order:
// explicit override, user preference, previous turn language,
// text-based detection, system default.
func ResolveLanguage(override string, convo intent.ConversationContext, detect LanguageDetector, text, systemDefault string) string {
	if override != "" {
		return override
	}
	if convo.PreferredLanguage != "" {
		return convo.PreferredLanguage
	}
	if lang, ok := previousTurnLanguage(convo); ok {
		return lang
	}
	if detect != nil {
		if lang, ok := detect(text); ok {
			return lang
		}
	}
	return systemDefault
}

func previousTurnLanguage(convo intent.ConversationContext) (string, bool) {
	for i := len(convo.History) - 1; i >= 0; i-- {
		if u := convo.History[i].User; u != nil && u.Language != "" {
			return u.Language, true
		}
		if a := convo.History[i].Assistant; a != nil && a.Language != "" {
			return a.Language, true
		}
	}
	return "", false
}
