package plugin

import (
	"context"
	"testing"

	"github.com/animus-ai/animus/core"
	"github.com/stretchr/testify/assert"
)

func testPlugin(name string, deps ...string) *core.Plugin {
	return &core.Plugin{Name: name, Description: "test plugin " + name, Dependencies: deps}
}

func names(plugins []*core.Plugin) []string {
	out := make([]string, len(plugins))
	for i, p := range plugins {
		out[i] = p.Name
	}
	return out
}

func newTestResolver() *Resolver {
	return NewResolver(NewLoader(NewRegistry()))
}

func indexOf(list []string, name string) int {
	for i, n := range list {
		if n == name {
			return i
		}
	}
	return -1
}

func TestResolve_DependencyOrdering(t *testing.T) {
	r := newTestResolver()
	res := r.Resolve(context.Background(), []Ref{
		RefPlugin(testPlugin("c", "b")),
		RefPlugin(testPlugin("a")),
		RefPlugin(testPlugin("b", "a")),
	}, false)

	got := names(res.Plugins)
	assert.Len(t, got, 3)
	assert.Less(t, indexOf(got, "a"), indexOf(got, "b"))
	assert.Less(t, indexOf(got, "b"), indexOf(got, "c"))
	assert.True(t, res.Complete())
}

func TestResolve_EndToEndScenario(t *testing.T) {
	r := newTestResolver()
	res := r.Resolve(context.Background(), []Ref{
		RefPlugin(testPlugin("bootstrap", "discord")),
		RefPlugin(testPlugin("@elizaos/plugin-discord", "sql")),
		RefPlugin(testPlugin("sql")),
	}, false)

	assert.Equal(t, []string{"sql", "@elizaos/plugin-discord", "bootstrap"}, names(res.Plugins))
}

func TestResolve_CycleTolerance(t *testing.T) {
	r := newTestResolver()
	res := r.Resolve(context.Background(), []Ref{
		RefPlugin(testPlugin("a", "b")),
		RefPlugin(testPlugin("b", "a")),
	}, false)

	got := names(res.Plugins)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "a")
	assert.Contains(t, got, "b")

	// The dropped edge is reported, not thrown.
	assert.False(t, res.Complete())
	var cycles int
	for _, d := range res.Diagnostics {
		if d.Code == CodeCycle {
			cycles++
			assert.Equal(t, SeverityError, d.Severity)
		}
	}
	assert.Equal(t, 1, cycles)
}

func TestResolve_ScopedAliasEquivalence(t *testing.T) {
	// A plugin named @elizaos/plugin-discord satisfies a dependency declared
	// in either form and is never duplicated.
	r := newTestResolver()
	res := r.Resolve(context.Background(), []Ref{
		RefPlugin(testPlugin("a", "discord")),
		RefPlugin(testPlugin("b", "@elizaos/plugin-discord")),
		RefPlugin(testPlugin("@elizaos/plugin-discord")),
	}, false)

	got := names(res.Plugins)
	assert.Len(t, got, 3)
	occurrences := 0
	for _, n := range got {
		if n == "@elizaos/plugin-discord" {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences)
	assert.Less(t, indexOf(got, "@elizaos/plugin-discord"), indexOf(got, "a"))
	assert.Less(t, indexOf(got, "@elizaos/plugin-discord"), indexOf(got, "b"))
	assert.True(t, res.Complete())
}

func TestResolve_SynthesizedScopedAlias(t *testing.T) {
	// An unscoped plugin gains an @elizaos/plugin-<name> alias so scoped
	// dependency declarations resolve against it.
	r := newTestResolver()
	res := r.Resolve(context.Background(), []Ref{
		RefPlugin(testPlugin("a", "@elizaos/plugin-sql")),
		RefPlugin(testPlugin("sql")),
	}, false)

	got := names(res.Plugins)
	assert.Equal(t, []string{"sql", "a"}, got)
	assert.True(t, res.Complete())
}

func TestResolve_DeduplicatesSharedDependency(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterPlugin(testPlugin("@elizaos/plugin-c"))
	r := NewResolver(NewLoader(reg))

	res := r.Resolve(context.Background(), []Ref{
		RefPlugin(testPlugin("a", "c")),
		RefPlugin(testPlugin("b", "@elizaos/plugin-c")),
	}, false)

	got := names(res.Plugins)
	assert.Len(t, got, 3)
	count := 0
	for _, n := range got {
		if Normalize(n) == "c" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestResolve_MissingDependencyDropped(t *testing.T) {
	r := newTestResolver()
	res := r.Resolve(context.Background(), []Ref{
		RefPlugin(testPlugin("a", "ghost")),
	}, false)

	assert.Equal(t, []string{"a"}, names(res.Plugins))
	assert.False(t, res.Complete())
	assert.True(t, res.Has("a"))
	assert.False(t, res.Has("ghost"))
}

func TestResolve_TestModeDependencies(t *testing.T) {
	b := testPlugin("b")
	a := testPlugin("a")
	a.TestDependencies = []string{"b"}

	reg := NewRegistry()
	reg.RegisterPlugin(b)
	r := NewResolver(NewLoader(reg))

	// testMode=false: b is neither required nor loaded.
	res := r.Resolve(context.Background(), []Ref{RefPlugin(a)}, false)
	assert.Equal(t, []string{"a"}, names(res.Plugins))
	assert.True(t, res.Complete())

	// testMode=true: b is loaded and ordered before a.
	res = r.Resolve(context.Background(), []Ref{RefPlugin(a)}, true)
	assert.Equal(t, []string{"b", "a"}, names(res.Plugins))
}

func TestResolve_TransitiveClosureFromRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterPlugin(testPlugin("sql"))
	reg.RegisterPlugin(testPlugin("@elizaos/plugin-discord", "sql"))
	r := NewResolver(NewLoader(reg))

	res := r.Resolve(context.Background(), []Ref{
		RefPlugin(testPlugin("bootstrap", "discord")),
	}, false)

	assert.Equal(t, []string{"sql", "@elizaos/plugin-discord", "bootstrap"}, names(res.Plugins))
	assert.True(t, res.Complete())
}

func TestResolve_BadPluginSkipped(t *testing.T) {
	r := newTestResolver()
	res := r.Resolve(context.Background(), []Ref{
		RefPlugin(&core.Plugin{Name: ""}),
		RefPlugin(testPlugin("a")),
	}, false)

	assert.Equal(t, []string{"a"}, names(res.Plugins))
	assert.False(t, res.Complete())
	assert.Equal(t, CodeInvalidShape, res.Diagnostics[0].Code)
}

func TestResolve_UnknownNameWithoutRegistry(t *testing.T) {
	r := NewResolver(NewLoader(nil))
	res := r.Resolve(context.Background(), []Ref{
		RefNamed("discord"),
		RefPlugin(testPlugin("a")),
	}, false)

	assert.Equal(t, []string{"a"}, names(res.Plugins))
	assert.False(t, res.Complete())
	assert.Equal(t, CodeUnsupported, res.Diagnostics[0].Code)
}

func TestResolve_InputOrderPreservedForIndependents(t *testing.T) {
	r := newTestResolver()
	res := r.Resolve(context.Background(), []Ref{
		RefPlugin(testPlugin("x")),
		RefPlugin(testPlugin("y")),
		RefPlugin(testPlugin("z")),
	}, false)

	assert.Equal(t, []string{"x", "y", "z"}, names(res.Plugins))
}
