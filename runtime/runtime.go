package runtime

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/animus-ai/animus/attachment"
	"github.com/animus-ai/animus/core"
	"github.com/animus-ai/animus/logging"
	"github.com/animus-ai/animus/memory"
	"github.com/animus-ai/animus/plugin"
	"github.com/animus-ai/animus/room"
)

// Compile-time check that Runtime satisfies the core contract.
var _ core.Runtime = (*Runtime)(nil)

// Options configure a Runtime.
type Options struct {
	// Logger receives runtime and plugin lifecycle logs.
	Logger logging.Logger
	// Registry resolves plugin name references. Optional; without one only
	// in-memory plugin values load.
	Registry *plugin.Registry
	// Installer attempts package installation for unknown plugin names.
	Installer *plugin.Installer
	// TestMode includes test dependencies in plugin resolution.
	TestMode bool
	// Scope overrides the default scope used for plugin alias synthesis.
	Scope string

	// Stores. In-memory defaults are used when unset.
	MemoryStore     core.MemoryStore
	RoomStore       core.RoomStore
	AttachmentStore core.AttachmentStore

	// MaxModelCalls caps model invocations per runtime (0 = unlimited).
	MaxModelCalls int
}

// modelEntry is one registered model handler for a type. Selection prefers
// the highest priority; ties resolve to the lowest registration sequence.
type modelEntry struct {
	provider string
	priority int
	seq      int
	handler  core.ModelHandler
}

// Runtime is the concrete core.Runtime implementation. It owns the plugin
// set resolved at start, the capability registries populated from it and the
// configured stores. All registries are guarded for concurrent access;
// plugin initialization itself is strictly sequential in resolution order.
type Runtime struct {
	agentID   string
	character *core.Character
	logger    logging.Logger

	refs     []plugin.Ref
	resolver *plugin.Resolver
	testMode bool

	mu         sync.RWMutex
	models     map[core.ModelType][]modelEntry
	modelSeq   int
	actions    []*core.Action
	providers  []*core.Provider
	evaluators []*core.Evaluator
	events     map[core.EventType][]core.EventHandler
	routes     []core.Route
	services   []core.Service

	memories    core.MemoryStore
	rooms       core.RoomStore
	attachments core.AttachmentStore

	limiter *core.ModelLimiter

	plugins []*core.Plugin
	diags   []plugin.Diagnostic
	started bool
}

// New constructs a Runtime for a character and a set of plugin references.
// The character's own plugin list is resolved first, followed by refs.
// Resolution and initialization happen in Start, not here.
func New(ch *core.Character, refs []plugin.Ref, optFns ...func(o *Options)) (*Runtime, error) {
	if ch == nil {
		return nil, fmt.Errorf("character is required")
	}
	if err := ch.Validate(); err != nil {
		return nil, err
	}

	opts := Options{Logger: logging.NoOpLogger{}, Scope: plugin.DefaultScope}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MemoryStore == nil {
		opts.MemoryStore = memory.NewInMemoryStore()
	}
	if opts.RoomStore == nil {
		opts.RoomStore = room.NewInMemoryStore()
	}
	if opts.AttachmentStore == nil {
		opts.AttachmentStore = attachment.NewInMemoryStore()
	}

	loader := plugin.NewLoader(opts.Registry, func(o *plugin.LoaderOptions) {
		o.Installer = opts.Installer
		o.Logger = opts.Logger
	})
	resolver := plugin.NewResolver(loader, func(o *plugin.ResolverOptions) {
		o.Logger = opts.Logger
		o.Scope = opts.Scope
	})

	all := append(plugin.Refs(ch.Plugins...), refs...)

	var limiter *core.ModelLimiter
	if opts.MaxModelCalls > 0 {
		limiter = core.NewModelLimiter(opts.MaxModelCalls)
	}

	return &Runtime{
		agentID:     core.NewID(),
		character:   ch,
		logger:      opts.Logger,
		refs:        all,
		resolver:    resolver,
		testMode:    opts.TestMode,
		models:      make(map[core.ModelType][]modelEntry),
		events:      make(map[core.EventType][]core.EventHandler),
		memories:    opts.MemoryStore,
		rooms:       opts.RoomStore,
		attachments: opts.AttachmentStore,
		limiter:     limiter,
	}, nil
}

// Start resolves the plugin set and initializes each plugin in dependency
// order: Init runs first, then capability collections are registered, then
// services start. A failing plugin is logged and skipped; Start only fails
// on a nil runtime invariant, never on plugin errors.
func (r *Runtime) Start(ctx context.Context) error {
	if r.started {
		return fmt.Errorf("runtime already started")
	}
	r.started = true

	result := r.resolver.Resolve(ctx, r.refs, r.testMode)
	r.plugins = result.Plugins
	r.diags = result.Diagnostics

	for _, d := range result.Diagnostics {
		r.logger.Warn("plugin diagnostic: %s", d.String())
	}

	for _, p := range result.Plugins {
		if err := r.initPlugin(ctx, p); err != nil {
			r.logger.Error("plugin %s failed to initialize: %v", p.Name, err)
			continue
		}
		r.registerPlugin(ctx, p)
	}

	r.logger.Info("runtime started: agent=%s plugins=%d", r.character.Name, len(r.plugins))
	return nil
}

// initPlugin runs the plugin's Init hook, if any.
func (r *Runtime) initPlugin(ctx context.Context, p *core.Plugin) error {
	if p.Init == nil {
		return nil
	}
	start := time.Now()
	err := p.Init(ctx, r)
	r.logger.Debug("plugin %s init took %s", p.Name, time.Since(start))
	return err
}

// registerPlugin merges the plugin's capability collections into the runtime
// registries and starts its services.
func (r *Runtime) registerPlugin(ctx context.Context, p *core.Plugin) {
	for _, a := range p.Actions {
		r.RegisterAction(a)
	}
	for _, prov := range p.Providers {
		r.RegisterProvider(prov)
	}
	for _, e := range p.Evaluators {
		r.RegisterEvaluator(e)
	}
	for mt, h := range p.Models {
		r.RegisterModel(mt, p.Name, p.Priority, h)
	}

	r.mu.Lock()
	for et, handlers := range p.Events {
		r.events[et] = append(r.events[et], handlers...)
	}
	r.routes = append(r.routes, p.Routes...)
	r.mu.Unlock()

	for _, factory := range p.Services {
		svc, err := factory(ctx, r)
		if err != nil {
			r.logger.Error("plugin %s service failed to start: %v", p.Name, err)
			continue
		}
		r.mu.Lock()
		r.services = append(r.services, svc)
		r.mu.Unlock()
		r.logger.Debug("service %s started", svc.Name())
	}
}

// Stop shuts down plugin services in reverse start order. Errors are logged
// and do not abort the remaining stops.
func (r *Runtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	services := r.services
	r.services = nil
	r.mu.Unlock()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Stop(ctx); err != nil {
			r.logger.Error("service %s stop failed: %v", services[i].Name(), err)
		}
	}
	return nil
}

// AgentID returns the stable identifier of the running agent.
func (r *Runtime) AgentID() string { return r.agentID }

// Character returns the persona definition the runtime was built from.
func (r *Runtime) Character() *core.Character { return r.character }

// Logger returns the runtime logger.
func (r *Runtime) Logger() logging.Logger { return r.logger }

// Plugins returns the resolved plugin set in initialization order.
func (r *Runtime) Plugins() []*core.Plugin { return r.plugins }

// Diagnostics returns the problems collected during plugin resolution.
func (r *Runtime) Diagnostics() []plugin.Diagnostic { return r.diags }

// Routes returns all HTTP routes contributed by plugins. The host decides
// whether and where to mount them.
func (r *Runtime) Routes() []core.Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Setting resolves a configuration value from the character, consulting
// secrets before settings.
func (r *Runtime) Setting(key string) (any, bool) {
	return r.character.Setting(key)
}

// RegisterModel adds a model handler for a type.
func (r *Runtime) RegisterModel(mt core.ModelType, provider string, priority int, h core.ModelHandler) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modelSeq++
	r.models[mt] = append(r.models[mt], modelEntry{
		provider: provider,
		priority: priority,
		seq:      r.modelSeq,
		handler:  h,
	})
}

// RegisterAction adds an action to the runtime registry.
func (r *Runtime) RegisterAction(a *core.Action) {
	if a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
}

// RegisterProvider adds a provider to the runtime registry.
func (r *Runtime) RegisterProvider(p *core.Provider) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// RegisterEvaluator adds an evaluator to the runtime registry.
func (r *Runtime) RegisterEvaluator(e *core.Evaluator) {
	if e == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluators = append(r.evaluators, e)
}

// selectModel picks the handler for a type: highest priority wins, ties
// resolve to the earliest registration.
func (r *Runtime) selectModel(mt core.ModelType) (modelEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.models[mt]
	if len(entries) == 0 {
		return modelEntry{}, fmt.Errorf("no model registered for type %s", mt)
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.priority > best.priority {
			best = e
		}
	}
	return best, nil
}

// UseModel invokes the selected handler and drains its stream into the full
// response text.
func (r *Runtime) UseModel(ctx context.Context, mt core.ModelType, call core.ModelCall) (string, error) {
	chunks, errs, provider, err := r.useModel(ctx, mt, call)
	if err != nil {
		return "", err
	}

	start := time.Now()
	var b strings.Builder
	for chunk := range chunks {
		b.WriteString(chunk)
	}
	if err := <-errs; err != nil {
		r.logger.Error("model call failed: type=%s provider=%s err=%v", mt, provider, err)
		return "", err
	}
	r.logger.Debug("model call completed: type=%s provider=%s duration=%s", mt, provider, time.Since(start))
	return b.String(), nil
}

// UseModelStream invokes the selected handler and returns its chunk stream.
func (r *Runtime) UseModelStream(ctx context.Context, mt core.ModelType, call core.ModelCall) (<-chan string, <-chan error) {
	chunks, errs, _, err := r.useModel(ctx, mt, call)
	if err != nil {
		out := make(chan string)
		close(out)
		errCh := make(chan error, 1)
		errCh <- err
		close(errCh)
		return out, errCh
	}
	return chunks, errs
}

func (r *Runtime) useModel(ctx context.Context, mt core.ModelType, call core.ModelCall) (<-chan string, <-chan error, string, error) {
	entry, err := r.selectModel(mt)
	if err != nil {
		return nil, nil, "", err
	}
	if r.limiter != nil {
		if err := r.limiter.Increment(); err != nil {
			return nil, nil, "", err
		}
	}
	chunks, errs := entry.handler(ctx, r, call)
	return chunks, errs, entry.provider, nil
}

// EmitEvent dispatches the payload to all handlers registered for the event
// type, sequentially in registration order. Handler errors are logged and do
// not stop dispatch.
func (r *Runtime) EmitEvent(ctx context.Context, et core.EventType, payload core.EventPayload) {
	r.mu.RLock()
	handlers := make([]core.EventHandler, len(r.events[et]))
	copy(handlers, r.events[et])
	r.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, r, payload); err != nil {
			r.logger.Warn("event handler error: type=%s err=%v", et, err)
		}
	}
}

// Memories exposes the configured memory store.
func (r *Runtime) Memories() core.MemoryStore { return r.memories }

// Rooms exposes the configured room store.
func (r *Runtime) Rooms() core.RoomStore { return r.rooms }

// Attachments exposes the configured attachment store.
func (r *Runtime) Attachments() core.AttachmentStore { return r.attachments }

// composeProviders returns the non-dynamic, non-private providers sorted by
// ascending position with stable registration order for ties.
func (r *Runtime) composeProviders() []*core.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*core.Provider, 0, len(r.providers))
	for _, p := range r.providers {
		if p.Dynamic {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// findAction returns the first registered action matching the name.
func (r *Runtime) findAction(name string) *core.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.actions {
		if a.Matches(name) {
			return a
		}
	}
	return nil
}

// allEvaluators returns a snapshot of the registered evaluators.
func (r *Runtime) allEvaluators() []*core.Evaluator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*core.Evaluator, len(r.evaluators))
	copy(out, r.evaluators)
	return out
}
