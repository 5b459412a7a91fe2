package testutil

import (
	"context"

	"github.com/animus-ai/animus/core"
)

// PluginBuilder provides a fluent helper for constructing plugins in tests.
// The zero builder yields a minimal valid plugin with a description.
type PluginBuilder struct {
	p core.Plugin
}

// NewPluginBuilder creates a builder for a plugin with the given name.
func NewPluginBuilder(name string) *PluginBuilder {
	return &PluginBuilder{p: core.Plugin{Name: name, Description: name + " test plugin"}}
}

// Deps sets the plugin dependencies (chainable).
func (b *PluginBuilder) Deps(deps ...string) *PluginBuilder {
	b.p.Dependencies = deps
	return b
}

// TestDeps sets the test-only dependencies (chainable).
func (b *PluginBuilder) TestDeps(deps ...string) *PluginBuilder {
	b.p.TestDependencies = deps
	return b
}

// Priority sets the plugin priority (chainable).
func (b *PluginBuilder) Priority(p int) *PluginBuilder {
	b.p.Priority = p
	return b
}

// Action appends an action (chainable).
func (b *PluginBuilder) Action(a *core.Action) *PluginBuilder {
	b.p.Actions = append(b.p.Actions, a)
	return b
}

// Provider appends a provider (chainable).
func (b *PluginBuilder) Provider(p *core.Provider) *PluginBuilder {
	b.p.Providers = append(b.p.Providers, p)
	return b
}

// Model registers a model handler for the given type (chainable).
func (b *PluginBuilder) Model(mt core.ModelType, h core.ModelHandler) *PluginBuilder {
	if b.p.Models == nil {
		b.p.Models = make(map[core.ModelType]core.ModelHandler)
	}
	b.p.Models[mt] = h
	return b
}

// Init sets the plugin init function (chainable).
func (b *PluginBuilder) Init(fn func(ctx context.Context, rt core.Runtime) error) *PluginBuilder {
	b.p.Init = fn
	return b
}

// Build materializes the plugin.
func (b *PluginBuilder) Build() *core.Plugin {
	p := b.p
	return &p
}
