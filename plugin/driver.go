package plugin

import (
	"context"

	"github.com/animus-ai/animus/core"
	"github.com/animus-ai/animus/logging"
)

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	Logger logging.Logger
	// Scope overrides the scope used when synthesizing scoped aliases.
	Scope string
}

// Resolver orchestrates iterative plugin loading: it materializes the full
// transitive dependency closure breadth-first (dependency names are only
// discoverable after a plugin has been loaded), then runs a single
// topological pass over the accumulated set. Loads are strictly sequential,
// trading throughput for deterministic ordering and the absence of
// duplicate-load races.
type Resolver struct {
	loader *Loader
	logger logging.Logger
	scope  string
}

// NewResolver constructs a Resolver over a loader.
func NewResolver(loader *Loader, optFns ...func(o *ResolverOptions)) *Resolver {
	opts := ResolverOptions{Logger: logging.NoOpLogger{}, Scope: DefaultScope}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resolver{loader: loader, logger: opts.Logger, scope: opts.Scope}
}

// Resolve loads the requested plugins plus their transitive dependencies and
// returns them in initialization order (dependencies first). Failures along
// the way are collected as diagnostics; Resolve itself never fails. When
// testMode is true, testDependencies participate in both discovery and
// ordering.
func (r *Resolver) Resolve(ctx context.Context, refs []Ref, testMode bool) Result {
	var diags []Diagnostic

	byName := make(map[string]*core.Plugin)
	var entries []entry
	seen := make(map[string]struct{})

	queue := make([]Ref, len(refs))
	copy(queue, refs)

	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]

		// A name queued before its plugin arrived through another reference
		// is already satisfied; loading it again would only produce a bogus
		// not-found diagnostic or install attempt.
		if ref.plugin == nil && r.known(ref.name, nil, byName) {
			continue
		}

		p, diag := r.loader.Load(ctx, ref)
		if diag != nil {
			diags = append(diags, *diag)
		}
		if p == nil {
			// A single bad plugin must not abort the whole batch.
			continue
		}

		if _, exists := byName[p.Name]; exists {
			continue
		}
		byName[p.Name] = p
		entries = append(entries, entry{key: p.Name, plugin: p})

		deps := p.Dependencies
		if testMode && len(p.TestDependencies) > 0 {
			deps = append(append([]string{}, deps...), p.TestDependencies...)
		}
		for _, dep := range deps {
			if r.known(dep, seen, byName) {
				continue
			}
			seen[dep] = struct{}{}
			seen[Normalize(dep)] = struct{}{}
			queue = append(queue, RefNamed(dep))
		}
	}

	plugins := resolveOrder(entries, testMode, r.scope, r.logger, &diags)

	r.logger.Debug("resolved %d plugins (%d diagnostics)", len(plugins), len(diags))

	return Result{Plugins: plugins, Diagnostics: diags}
}

// known reports whether a dependency name has already been queued or loaded,
// comparing both raw and normalized forms against the seen set and the
// accumulated plugin names.
func (r *Resolver) known(dep string, seen map[string]struct{}, byName map[string]*core.Plugin) bool {
	if _, ok := seen[dep]; ok {
		return true
	}
	norm := Normalize(dep)
	if _, ok := seen[norm]; ok {
		return true
	}
	for name := range byName {
		if name == dep || Normalize(name) == norm {
			return true
		}
	}
	return false
}
