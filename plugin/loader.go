package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/animus-ai/animus/core"
	"github.com/animus-ai/animus/logging"
)

// Ref references a plugin either by name (resolved through the registry) or
// as an in-memory plugin value passed through unchanged.
type Ref struct {
	name   string
	plugin *core.Plugin
}

// RefNamed references a plugin by short or scoped name.
func RefNamed(name string) Ref { return Ref{name: name} }

// RefPlugin references an in-memory plugin value directly.
func RefPlugin(p *core.Plugin) Ref { return Ref{plugin: p} }

// Refs is a convenience constructor building name references in bulk,
// typically from a character's plugin list.
func Refs(names ...string) []Ref {
	refs := make([]Ref, len(names))
	for i, n := range names {
		refs[i] = RefNamed(n)
	}
	return refs
}

// String returns a human readable identifier for diagnostics.
func (r Ref) String() string {
	if r.plugin != nil {
		return r.plugin.Name
	}
	return r.name
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Installer *Installer
	Logger    logging.Logger
}

// Loader turns plugin references into validated plugin values. Failures are
// non-fatal by contract: Load reports them through a Diagnostic and returns
// nil so the resolution driver can skip the node and continue.
type Loader struct {
	registry  *Registry
	installer *Installer
	logger    logging.Logger
}

// NewLoader constructs a Loader over a registry. A nil registry is allowed;
// name references then fail with an unsupported-reference diagnostic and
// only in-memory plugin values resolve, mirroring hosts that cannot import
// packages at runtime.
func NewLoader(registry *Registry, optFns ...func(o *LoaderOptions)) *Loader {
	opts := LoaderOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Loader{registry: registry, installer: opts.Installer, logger: opts.Logger}
}

// Load resolves a single reference to a validated plugin. The returned
// Diagnostic is nil on success; the returned plugin is nil on failure.
func (l *Loader) Load(ctx context.Context, ref Ref) (*core.Plugin, *Diagnostic) {
	if ref.plugin != nil {
		return l.validate(ref.plugin)
	}

	name := ref.name
	if strings.TrimSpace(name) == "" {
		return nil, &Diagnostic{Severity: SeverityWarning, Code: CodeUnsupported, Detail: "empty plugin reference"}
	}

	if l.registry == nil {
		l.logger.Warn("no plugin registry configured, cannot resolve plugin %s", name)
		return nil, &Diagnostic{Severity: SeverityWarning, Code: CodeUnsupported, Plugin: name, Detail: "no registry configured for name references"}
	}

	factory, ok := l.registry.Lookup(name)
	if !ok && l.installer != nil && l.installer.Install(ctx, name) {
		// Exactly one retry after a successful install side effect. The
		// host's init hook is expected to have registered the package.
		factory, ok = l.registry.Lookup(name)
	}
	if !ok {
		l.logger.Warn("plugin %s not found in registry", name)
		return nil, &Diagnostic{Severity: SeverityWarning, Code: CodeNotFound, Plugin: name, Detail: "plugin not registered"}
	}

	p := factory()
	if p == nil {
		l.logger.Warn("factory for plugin %s returned nil", name)
		return nil, &Diagnostic{Severity: SeverityWarning, Code: CodeInvalidShape, Plugin: name, Detail: "factory returned nil"}
	}
	return l.validate(p)
}

func (l *Loader) validate(p *core.Plugin) (*core.Plugin, *Diagnostic) {
	if errs := p.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		detail := strings.Join(msgs, "; ")
		l.logger.Warn("plugin %s failed validation: %s", p.Name, detail)
		return nil, &Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeInvalidShape,
			Plugin:   p.Name,
			Detail:   fmt.Sprintf("validation failed: %s", detail),
		}
	}
	return p, nil
}
