package prompts

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cbroglie/mustache"
)

// DefaultKnowledge is the built-in company knowledge base.
const DefaultKnowledge = `
# Capture This - Company SOPs and Knowledge Base

## Client Communication Guidelines
- Respond to client feedback within 24 hours
- Always acknowledge their input before providing solutions
- Use "we" language to show collaboration
- Provide realistic timelines with buffer time

## Frame.io Workflow
1. Upload rough cuts by end of business Tuesday
2. Client has 48 hours to provide feedback
3. Incorporate feedback and upload revision
4. Final approval needed before color/audio finishing

## Production Standards
- All footage backed up to 3 locations
- Color correction using DaVinci Resolve
- Audio mixing in Pro Tools
- Final delivery in client-specified formats

## Emergency Contacts
- Production Manager: [Contact info]
- Technical Support: [Contact info]
- Client Services: [Contact info]

## Common Issues & Solutions
- Frame.io not loading: Clear cache, try incognito
- Playback issues: Check internet connection, lower quality
- Missing footage: Check backup drives, contact PM
`

const baseSystemPrompt = "You are Capture This GPT, an AI assistant for Capture This video production company."

// systemTemplate uses a triple mustache for the knowledge so that markdown in
// it is not HTML-escaped.
const systemTemplate = baseSystemPrompt +
	"{{#useKnowledge}} Use the following company knowledge when relevant:\n\n{{{knowledge}}}\n\nAlways respond in a helpful, professional tone.{{/useKnowledge}}" +
	"{{^useKnowledge}} Please respond in a helpful, professional tone.{{/useKnowledge}}"

// Library renders system prompts with an optional knowledge base.
type Library struct {
	knowledge string
	tmpl      *mustache.Template
}

// NewLibrary compiles the system prompt template around knowledge.
func NewLibrary(knowledge string) (*Library, error) {
	tmpl, err := mustache.ParseString(systemTemplate)
	if err != nil {
		return nil, fmt.Errorf("could not parse system prompt template: %w", err)
	}
	return &Library{knowledge: knowledge, tmpl: tmpl}, nil
}

// DefaultLibrary returns a Library over DefaultKnowledge.
func DefaultLibrary() *Library {
	lib, err := NewLibrary(DefaultKnowledge)
	if err != nil {
		// The template is a constant; a parse failure is a programming error.
		panic(err)
	}
	return lib
}

// LoadKnowledge reads a knowledge base file. An empty path selects the
// built-in text.
func LoadKnowledge(path string) (string, error) {
	if path == "" {
		return DefaultKnowledge, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read knowledge base %s: %w", path, err)
	}
	return string(data), nil
}

// Knowledge returns the knowledge base text.
func (l *Library) Knowledge() string { return l.knowledge }

// System returns the system instruction, with the knowledge base when
// useKnowledge is set.
func (l *Library) System(useKnowledge bool) string {
	out, err := l.tmpl.Render(map[string]any{
		"useKnowledge": useKnowledge,
		"knowledge":    l.knowledge,
	})
	if err != nil {
		slog.Warn("Failed to render system prompt, using plain instruction", "error", err)
		return baseSystemPrompt + " Please respond in a helpful, professional tone."
	}
	return out
}

var knowledgeKeywords = []string{"sop", "procedure", "workflow"}

// NeedsKnowledge reports whether a send should carry the knowledge base: the
// SOP preset is active or the text mentions SOPs, procedures or workflows.
func NeedsKnowledge(presetID, text string) bool {
	if presetID == PresetSOP {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range knowledgeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
