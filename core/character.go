package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Style groups tone guidance applied when composing prompts. All entries are
// free-form directives merged into the system context.
type Style struct {
	All  []string `json:"all,omitempty" yaml:"all,omitempty"`
	Chat []string `json:"chat,omitempty" yaml:"chat,omitempty"`
	Post []string `json:"post,omitempty" yaml:"post,omitempty"`
}

// MessageExample is a single turn inside an example conversation used to
// demonstrate the character's voice to the model.
type MessageExample struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

// Character is the declarative persona definition an agent is built from.
// Name is the canonical identity. Plugins lists plugin references (short or
// scoped form) resolved at startup. Settings carries arbitrary plugin and
// runtime configuration; Secrets is kept separate so stores can redact it.
type Character struct {
	Name            string             `json:"name" yaml:"name"`
	Username        string             `json:"username,omitempty" yaml:"username,omitempty"`
	System          string             `json:"system,omitempty" yaml:"system,omitempty"`
	Bio             []string           `json:"bio,omitempty" yaml:"bio,omitempty"`
	Topics          []string           `json:"topics,omitempty" yaml:"topics,omitempty"`
	Adjectives      []string           `json:"adjectives,omitempty" yaml:"adjectives,omitempty"`
	Style           Style              `json:"style,omitempty" yaml:"style,omitempty"`
	MessageExamples [][]MessageExample `json:"messageExamples,omitempty" yaml:"messageExamples,omitempty"`
	Plugins         []string           `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	Settings        map[string]any     `json:"settings,omitempty" yaml:"settings,omitempty"`
	Secrets         map[string]string  `json:"secrets,omitempty" yaml:"secrets,omitempty"`
}

// Validate checks the minimal shape requirements for a usable character.
func (c *Character) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("character name is required")
	}
	return nil
}

// Setting returns a settings value with Secrets taking precedence over
// Settings, mirroring how runtime configuration is looked up.
func (c *Character) Setting(key string) (any, bool) {
	if v, ok := c.Secrets[key]; ok {
		return v, true
	}
	v, ok := c.Settings[key]
	return v, ok
}

// LoadCharacter reads a character definition from a JSON (.json) or YAML
// (.yaml/.yml) file and validates it.
func LoadCharacter(path string) (*Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read character file: %w", err)
	}

	var ch Character
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &ch); err != nil {
			return nil, fmt.Errorf("failed to parse character yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &ch); err != nil {
			return nil, fmt.Errorf("failed to parse character json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported character file extension: %s", filepath.Ext(path))
	}

	if err := ch.Validate(); err != nil {
		return nil, err
	}

	return &ch, nil
}
