package runtime

import (
	"strings"

	"github.com/animus-ai/animus/core"
	"github.com/animus-ai/animus/internal/util"
)

// messageTemplate is the default prompt for responding to an inbound
// message. The model is instructed to answer with the tagged response
// format the stream extractors and ParseResponse understand.
const messageTemplate = `{{if .system}}{{.system}}

{{end}}# About {{.agentName}}
{{bullet .bio}}
{{if .adjectives}}
{{.agentName}} is {{join ", " .adjectives}}.
{{end}}{{if .styleDirections}}
# Style
{{bullet .styleDirections}}
{{end}}{{if .providers}}
# Context
{{.providers}}
{{end}}{{if .actionNames}}
# Available actions
{{join ", " .actionNames}}
{{end}}{{if .recentMessages}}
# Recent conversation
{{.recentMessages}}
{{end}}
# Instructions
Respond as {{.agentName}} to the last message. Reply in this exact format:
<response>
<thought>your private reasoning</thought>
<actions>REPLY</actions>
<text>your reply to the user</text>
</response>
Use REPLY alone when a plain answer suffices; list additional action names
comma separated when the message calls for them.`

// composeState builds the template state for a message prompt.
func (r *Runtime) composeState(providerText, recentMessages string) map[string]any {
	ch := r.character
	style := append(append([]string{}, ch.Style.All...), ch.Style.Chat...)

	r.mu.RLock()
	actionNames := make([]string, 0, len(r.actions))
	for _, a := range r.actions {
		actionNames = append(actionNames, a.Name)
	}
	r.mu.RUnlock()

	return map[string]any{
		"agentName":       ch.Name,
		"system":          ch.System,
		"bio":             ch.Bio,
		"adjectives":      ch.Adjectives,
		"styleDirections": style,
		"providers":       providerText,
		"actionNames":     actionNames,
		"recentMessages":  recentMessages,
	}
}

// formatTranscript renders memories as a plain conversation transcript,
// oldest first.
func formatTranscript(agentName string, memories []*core.Memory) string {
	var b strings.Builder
	for _, m := range memories {
		if m.Content.Text == "" {
			continue
		}
		name := m.EntityID
		if m.AgentID != "" && m.EntityID == m.AgentID {
			name = agentName
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(m.Content.Text)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderPrompt renders the message template against the composed state.
func renderPrompt(state map[string]any) (string, error) {
	return util.RenderTemplate(messageTemplate, state)
}
