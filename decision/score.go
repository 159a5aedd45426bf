package decision

import (
	"strings"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

// Implicit-intent scoring weights. Reproduced exactly as documented; this is
// a compatibility contract, not a tuning surface.
const (
	weightExactName   = 0.5
	weightNameWord    = 0.1
	weightCategory    = 0.15
	weightDescWord    = 0.05
	maxUsageBonus     = 0.2
	maxDescBonus      = 0.3
	implicitThreshold = 0.3
)

// semanticCategory links stems that identify a tool's purpose (matched
// against its name and description) with phrases that signal that purpose
// in model text.
type semanticCategory struct {
	name     string
	stems    []string
	triggers []string
}

var semanticCategories = []semanticCategory{
	{
		name:     "search",
		stems:    []string{"search", "find", "lookup", "query", "fetch", "list"},
		triggers: []string{"search", "find", "look up", "look for", "query", "where is", "what is"},
	},
	{
		name:     "create",
		stems:    []string{"creat", "generat", "writ", "compos", "send", "new"},
		triggers: []string{"create", "generate", "write", "compose", "make a"},
	},
	{
		name:     "update",
		stems:    []string{"updat", "modif", "edit", "chang", "renam", "set"},
		triggers: []string{"update", "modify", "edit", "change", "rename"},
	},
	{
		name:     "delete",
		stems:    []string{"delet", "remov", "clear", "drop", "purg"},
		triggers: []string{"delete", "remove", "clear", "drop"},
	},
	{
		name:     "analyze",
		stems:    []string{"analy", "calc", "comput", "evaluat", "measur", "stat"},
		triggers: []string{"analyze", "calculate", "compute", "evaluate", "how much", "how many"},
	},
	{
		name:     "execute",
		stems:    []string{"execut", "run", "invok", "perform", "launch"},
		triggers: []string{"execute", "run", "launch", "perform", "invoke"},
	},
}

// scoreImplicit rates how strongly lowered (the lowercased model text)
// implies an invocation of def, before any usage bonus: exact tool-name
// substring +0.5, +0.1 per overlapping name word, +0.15 per semantic
// category matched both ways, up to +0.3 of description-word overlap.
// The result plus usageBonus is capped at 1.
func scoreImplicit(lowered string, def tool.Definition, usageBonus float64) float64 {
	score := 0.0
	name := strings.ToLower(def.Name)
	desc := strings.ToLower(def.Description)

	if strings.Contains(lowered, name) {
		score += weightExactName
	}

	textWords := wordSet(lowered)
	for _, w := range splitName(name) {
		if overlaps(w, textWords) {
			score += weightNameWord
		}
	}

	for _, cat := range semanticCategories {
		if categoryMember(name, desc, cat) && categoryTriggered(lowered, cat) {
			score += weightCategory
		}
	}

	descBonus := 0.0
	for w := range wordSet(desc) {
		if len(w) <= 3 {
			continue
		}
		if _, ok := textWords[w]; ok {
			descBonus += weightDescWord
		}
	}
	if descBonus > maxDescBonus {
		descBonus = maxDescBonus
	}
	score += descBonus

	if usageBonus > maxUsageBonus {
		usageBonus = maxUsageBonus
	}
	score += usageBonus

	if score > 1 {
		score = 1
	}
	return score
}

func splitName(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
}

func wordSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	}) {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// overlaps reports whether a name word appears in the text, tolerating
// inflection: an exact hit, or a shared prefix of at least six characters
// ("calculator" vs "calculate").
func overlaps(word string, textWords map[string]struct{}) bool {
	if _, ok := textWords[word]; ok {
		return true
	}
	for w := range textWords {
		if commonPrefix(word, w) >= 6 {
			return true
		}
	}
	return false
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func categoryMember(name, desc string, cat semanticCategory) bool {
	for _, stem := range cat.stems {
		if strings.Contains(name, stem) || strings.Contains(desc, stem) {
			return true
		}
	}
	return false
}

func categoryTriggered(lowered string, cat semanticCategory) bool {
	for _, trigger := range cat.triggers {
		if strings.Contains(lowered, trigger) {
			return true
		}
	}
	return false
}
