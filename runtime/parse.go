package runtime

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/animus-ai/animus/core"
)

// ParseResponse extracts thought, text and action names from a raw model
// response. JSON-shaped responses are parsed with gjson; XML-shaped
// responses by tag scanning. Anything else is treated as plain text with an
// implicit REPLY action.
func ParseResponse(raw string) core.Content {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "{") && gjson.Valid(trimmed) {
		return parseJSONResponse(trimmed)
	}
	if strings.HasPrefix(trimmed, "<") {
		return parseXMLResponse(trimmed)
	}
	return core.Content{Text: trimmed, Actions: []string{"REPLY"}}
}

func parseJSONResponse(raw string) core.Content {
	c := core.Content{
		Thought: gjson.Get(raw, "thought").String(),
		Text:    gjson.Get(raw, "text").String(),
	}
	actions := gjson.Get(raw, "actions")
	if actions.IsArray() {
		for _, a := range actions.Array() {
			if name := strings.TrimSpace(a.String()); name != "" {
				c.Actions = append(c.Actions, name)
			}
		}
	} else if actions.Exists() {
		c.Actions = splitActions(actions.String())
	}
	if params := gjson.Get(raw, "params"); params.IsObject() {
		if m, ok := params.Value().(map[string]any); ok {
			c.Metadata = m
		}
	}
	if len(c.Actions) == 0 {
		c.Actions = []string{"REPLY"}
	}
	return c
}

func parseXMLResponse(raw string) core.Content {
	c := core.Content{
		Thought: tagContent(raw, "thought"),
		Text:    tagContent(raw, "text"),
	}
	c.Actions = splitActions(tagContent(raw, "actions"))
	if len(c.Actions) == 0 {
		c.Actions = []string{"REPLY"}
	}
	return c
}

// tagContent returns the trimmed content of the first <tag>...</tag> pair,
// or "" when the tag is absent or unterminated.
func tagContent(raw, tag string) string {
	open := "<" + tag + ">"
	close := "</" + tag + ">"
	start := strings.Index(raw, open)
	if start < 0 {
		return ""
	}
	rest := raw[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// splitActions splits a comma separated action list, dropping empties.
func splitActions(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}
