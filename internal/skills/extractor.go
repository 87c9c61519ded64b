// Package skills extracts categorized skill mentions from free text using a
// deterministic keyword matcher over five static vocabularies (spec §6).
package skills

import (
	"regexp"
	"sort"
	"strings"
)

var wordRe = regexp.MustCompile(`[a-z0-9#+.\-]+`)

// Extracted is the categorized skill mentions found in a text.
type Extracted struct {
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
	Tools           []string `json:"tools"`
	Frameworks      []string `json:"frameworks"`
	Languages       []string `json:"languages"`
}

// Extractor matches lowercase keyword vocabularies against input text.
type Extractor struct{}

// NewExtractor returns an Extractor. It holds no mutable state, so one
// instance may be shared across goroutines and requests.
func NewExtractor() *Extractor { return &Extractor{} }

// Extract finds skill mentions in text. Multi-token vocabulary entries
// (containing a space, hyphen, or dot) are matched by substring against the
// lowercased text; single-token entries are matched against the tokenized
// word set. soft_skills is left empty unless includeSoftSkills is true.
func (e *Extractor) Extract(text string, includeSoftSkills bool) Extracted {
	lower := strings.ToLower(text)
	words := tokenize(lower)

	result := Extracted{
		Languages:       matchSet(words, lower, programmingLanguages),
		Frameworks:      matchSet(words, lower, frameworks),
		Tools:           matchSet(words, lower, tools),
		TechnicalSkills: matchSet(words, lower, technicalSkills),
	}
	if includeSoftSkills {
		result.SoftSkills = matchSet(words, lower, softSkills)
	} else {
		result.SoftSkills = []string{}
	}
	return result
}

// tokenize splits lowercased text into [a-z0-9#+.-]+ runs and strips trailing
// dots, so sentence punctuation ("rust.") does not hide a keyword while inner
// dots ("next.js") are kept.
func tokenize(lower string) []string {
	words := wordRe.FindAllString(lower, -1)
	out := words[:0]
	for _, w := range words {
		if w = strings.TrimRight(w, "."); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// matchSet finds every vocabulary entry present in words (single-token) or
// as a substring of text (multi-token), de-duplicated and sorted.
func matchSet(words []string, text string, vocab map[string]struct{}) []string {
	found := make(map[string]struct{})

	for skill := range vocab {
		if strings.ContainsAny(skill, " -.") && strings.Contains(text, skill) {
			found[skill] = struct{}{}
		}
	}
	for _, w := range words {
		if _, ok := vocab[w]; ok {
			found[w] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for s := range found {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
