package plugin

import (
	"strings"

	"github.com/animus-ai/animus/core"
	"github.com/animus-ai/animus/logging"
)

// DefaultScope is the scope used when synthesizing scoped aliases for
// unscoped plugin names, kept wire compatible with the @elizaos ecosystem.
const DefaultScope = "elizaos"

// entry pairs a map key with its loaded plugin, preserving the insertion
// order established by the resolution driver's queue processing.
type entry struct {
	key    string
	plugin *core.Plugin
}

// orderer runs the cycle tolerant depth-first post-order topological sort
// over a fully loaded plugin set.
type orderer struct {
	lookup   map[string]*core.Plugin
	visited  map[string]bool
	visiting map[string]bool
	order    []string
	testMode bool
	logger   logging.Logger
	diags    *[]Diagnostic
}

// resolveOrder produces a total order over the loaded plugins respecting
// declared dependency edges. Dependencies precede dependents; unresolvable
// references and cycles degrade to logged diagnostics rather than failures,
// so the caller always receives a valid ordering of the plugins that exist.
func resolveOrder(entries []entry, testMode bool, scope string, logger logging.Logger, diags *[]Diagnostic) []*core.Plugin {
	o := &orderer{
		lookup:   make(map[string]*core.Plugin, len(entries)*3),
		visited:  make(map[string]bool, len(entries)),
		visiting: make(map[string]bool),
		testMode: testMode,
		logger:   logger,
		diags:    diags,
	}

	// Every available naming form maps to its plugin: the key itself, the
	// canonical name, a synthesized scoped alias for unscoped names, and the
	// normalized key. First registration wins so earlier entries keep their
	// aliases when names collide.
	for _, e := range entries {
		o.alias(e.key, e.plugin)
		o.alias(e.plugin.Name, e.plugin)
		if !strings.HasPrefix(e.plugin.Name, "@") {
			o.alias("@"+scope+"/plugin-"+e.plugin.Name, e.plugin)
		}
		o.alias(Normalize(e.key), e.plugin)
	}

	for _, e := range entries {
		if !o.visited[e.plugin.Name] {
			o.visit(e.plugin.Name)
		}
	}

	// Map the emitted names back to plugin values in input order scan.
	resolved := make([]*core.Plugin, 0, len(o.order))
	for _, name := range o.order {
		for _, e := range entries {
			if e.plugin.Name == name {
				resolved = append(resolved, e.plugin)
				break
			}
		}
	}
	return resolved
}

func (o *orderer) alias(form string, p *core.Plugin) {
	if _, exists := o.lookup[form]; !exists {
		o.lookup[form] = p
	}
}

func (o *orderer) visit(ref string) {
	p, ok := o.lookup[ref]
	if !ok {
		p, ok = o.lookup[Normalize(ref)]
	}
	if !ok {
		// Best effort policy: a missing dependency must not block the
		// plugins that do exist.
		o.logger.Warn("dependency %s not found among loaded plugins, skipping", ref)
		*o.diags = append(*o.diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeUnresolved,
			Plugin:   ref,
			Detail:   "dependency not present in loaded set",
		})
		return
	}

	canonical := p.Name
	if o.visited[canonical] {
		return
	}
	if o.visiting[canonical] {
		o.logger.Error("circular dependency detected involving plugin %s", canonical)
		*o.diags = append(*o.diags, Diagnostic{
			Severity: SeverityError,
			Code:     CodeCycle,
			Plugin:   canonical,
			Detail:   "circular dependency edge dropped",
		})
		return
	}

	o.visiting[canonical] = true

	deps := p.Dependencies
	if o.testMode && len(p.TestDependencies) > 0 {
		deps = append(append([]string{}, deps...), p.TestDependencies...)
	}
	for _, dep := range deps {
		o.visit(dep)
	}

	delete(o.visiting, canonical)
	o.visited[canonical] = true
	o.order = append(o.order, canonical)
}
