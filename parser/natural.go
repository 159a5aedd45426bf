package parser

import (
	"fmt"
	"strings"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

const (
	naturalBaseConfidence = 0.6
	// naturalExactBonus is added when the tool's exact name appears in the
	// text, lifting clean mentions like "use the calculator" above the
	// default invocation threshold.
	naturalExactBonus = 0.25
)

// naturalTriggers are the English phrase templates tested against each
// catalog tool's lowercased name. Reproduced exactly; they are part of the
// compatibility contract, not a tuning surface.
var naturalTriggers = []string{
	"use the %s",
	"use %s",
	"using the %s",
	"using %s",
	"call the %s",
	"call %s",
	"run the %s",
	"run %s",
	"let me %s",
	"i'll %s",
	"i will %s",
	"i need to %s",
}

// naturalStrategy is the always-applicable fallback: it looks for trigger
// phrases naming a catalog tool and pulls arguments out of the surrounding
// prose.
type naturalStrategy struct{}

func (s *naturalStrategy) Name() string { return "natural" }

func (s *naturalStrategy) CanParse(string) bool { return true }

func (s *naturalStrategy) Parse(text string, catalog tool.Catalog) ([]ParsedCall, error) {
	lowered := strings.ToLower(text)
	var calls []ParsedCall
	for _, def := range catalog {
		name := strings.ToLower(def.Name)
		spoken := strings.NewReplacer("_", " ", "-", " ").Replace(name)

		matched := false
		for _, tmpl := range naturalTriggers {
			if strings.Contains(lowered, fmt.Sprintf(tmpl, name)) ||
				(spoken != name && strings.Contains(lowered, fmt.Sprintf(tmpl, spoken))) {
				matched = true
				break
			}
		}
		// A response that leads with the tool name ("email the result to
		// ...") is as strong a signal as any trigger phrase.
		if !matched {
			trimmed := strings.TrimSpace(lowered)
			matched = strings.HasPrefix(trimmed, name+" ") || strings.HasPrefix(trimmed, spoken+" ")
		}
		if !matched {
			continue
		}

		confidence := naturalBaseConfidence
		if strings.Contains(lowered, name) {
			confidence += naturalExactBonus
		}
		calls = append(calls, ParsedCall{
			ToolName:   def.Name,
			Arguments:  ExtractArguments(text, def),
			Confidence: clamp01(confidence),
			RawMatch:   text,
		})
	}
	return calls, nil
}
