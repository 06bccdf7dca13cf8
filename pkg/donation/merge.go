package donation

import "sort"

func sortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func sortedParams(in []ParameterSpec) []ParameterSpec {
	out := append([]ParameterSpec(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Merge combines per-language HandlerDonations for the same handler into
// one unified HandlerDonation: phrases accumulate (set union), parameters
// are shared (first-seen wins per name), and pattern lists are unioned.
// Merge is associative and deterministic — every accumulation step is a
// set union keyed by name/intent and every resulting list is sorted, so
// the result does not depend on input order as long as inputs that
// declare the same parameter name agree on its spec.
func Merge(perLanguage ...*HandlerDonation) *HandlerDonation {
	if len(perLanguage) == 0 {
		return &HandlerDonation{Methods: map[string]*MethodDonation{}}
	}
	out := &HandlerDonation{
		HandlerDomain:     perLanguage[0].HandlerDomain,
		Methods:           map[string]*MethodDonation{},
		RequiredMethodSet: map[string]bool{},
	}
	paramSeen := map[string]bool{}

	for _, hd := range perLanguage {
		if hd == nil {
			continue
		}
		out.IntentPatterns = unionStrings(out.IntentPatterns, hd.IntentPatterns)
		out.ActionPatterns = unionStrings(out.ActionPatterns, hd.ActionPatterns)
		out.DomainPatterns = unionStrings(out.DomainPatterns, hd.DomainPatterns)
		out.NegativePatterns = unionStrings(out.NegativePatterns, hd.NegativePatterns)

		for _, p := range hd.GlobalParameters {
			if !paramSeen[p.Name] {
				paramSeen[p.Name] = true
				out.GlobalParameters = append(out.GlobalParameters, p)
			}
		}

		for intent, m := range hd.Methods {
			existing, ok := out.Methods[intent]
			if !ok {
				merged := *m
				merged.Phrases = unionStrings(nil, m.Phrases)
				out.Methods[intent] = &merged
				out.RequiredMethodSet[m.Method] = true
				continue
			}
			existing.Phrases = unionStrings(existing.Phrases, m.Phrases)
			existing.TokenPatterns = unionStrings(existing.TokenPatterns, m.TokenPatterns)
			existing.SlotPatterns = unionStrings(existing.SlotPatterns, m.SlotPatterns)
			existing.ExtractionPatterns = unionStrings(existing.ExtractionPatterns, m.ExtractionPatterns)
			for _, p := range m.Parameters {
				if !containsParam(existing.Parameters, p.Name) {
					existing.Parameters = append(existing.Parameters, p)
				}
			}
		}
	}

	out.IntentPatterns = sortedStrings(out.IntentPatterns)
	out.ActionPatterns = sortedStrings(out.ActionPatterns)
	out.DomainPatterns = sortedStrings(out.DomainPatterns)
	out.NegativePatterns = sortedStrings(out.NegativePatterns)
	out.GlobalParameters = sortedParams(out.GlobalParameters)
	for _, m := range out.Methods {
		m.Phrases = sortedStrings(m.Phrases)
		m.TokenPatterns = sortedStrings(m.TokenPatterns)
		m.SlotPatterns = sortedStrings(m.SlotPatterns)
		m.ExtractionPatterns = sortedStrings(m.ExtractionPatterns)
		m.Parameters = sortedParams(m.Parameters)
	}
	return out
}

func containsParam(specs []ParameterSpec, name string) bool {
	for _, s := range specs {
		if s.Name == name {
			return true
		}
	}
	return false
}

func unionStrings(a, b []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// ToKeywordDonations flattens a unified HandlerDonation into per-intent
// KeywordDonations, the shape NLU keyword providers consume.
func ToKeywordDonations(hd *HandlerDonation) []KeywordDonation {
	out := make([]KeywordDonation, 0, len(hd.Methods))
	for intent, m := range hd.Methods {
		phrases := make(map[string]struct{}, len(m.Phrases))
		for _, p := range m.Phrases {
			phrases[p] = struct{}{}
		}
		out = append(out, KeywordDonation{
			Intent:             intent,
			Handler:            hd.HandlerDomain,
			Method:             m.Method,
			Phrases:            phrases,
			Parameters:         append(append([]ParameterSpec{}, hd.GlobalParameters...), m.Parameters...),
			TokenPatterns:      m.TokenPatterns,
			SlotPatterns:       m.SlotPatterns,
			ExtractionPatterns: m.ExtractionPatterns,
		})
	}
	return out
}
