// Package animus provides a high-level façade over the runtime, plugin
// resolution and store abstractions enabling rapid construction of
// character-driven agents. Most applications interact with this package by:
//  1. Creating an Agent via New() from a character definition (optionally
//     overriding default in-memory stores)
//  2. Adding plugins by value or by registry name
//  3. Sending messages with Respond (full response) or RespondStream
//     (incremental user-visible text)
//
// The façade delegates orchestration to runtime.Runtime while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply durable store
// implementations and a structured logger.
package animus

import (
	"context"

	"github.com/animus-ai/animus/core"
	"github.com/animus-ai/animus/logging"
	"github.com/animus-ai/animus/plugin"
	"github.com/animus-ai/animus/runtime"
)

// Options configures an Agent instance.
type Options struct {
	// Plugins are loaded in addition to the character's plugin list.
	Plugins []plugin.Ref

	// Registry resolves plugin name references. Optional; without one only
	// in-memory plugin values load.
	Registry *plugin.Registry

	// AutoInstall enables package installation attempts for unknown plugin
	// names, subject to the environment gates.
	AutoInstall bool

	// TestMode includes test dependencies in plugin resolution.
	TestMode bool

	// Stores (defaults to in-memory implementations if not provided)
	MemoryStore     core.MemoryStore
	RoomStore       core.RoomStore
	AttachmentStore core.AttachmentStore

	// MaxModelCalls caps model invocations for the agent (0 = unlimited).
	MaxModelCalls int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Agent is the high-level façade aggregating the runtime and its services.
type Agent struct {
	opts Options
	rt   *runtime.Runtime
}

// New creates an Agent for the given character with optional overrides and
// starts it: plugins are resolved and initialized before New returns.
func New(ctx context.Context, ch *core.Character, optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	var installer *plugin.Installer
	if opts.AutoInstall {
		installer = plugin.NewInstaller(func(o *plugin.InstallerOptions) {
			o.Logger = opts.Logger
		})
	}

	rt, err := runtime.New(ch, opts.Plugins, func(o *runtime.Options) {
		o.Logger = opts.Logger
		o.Registry = opts.Registry
		o.Installer = installer
		o.TestMode = opts.TestMode
		o.MemoryStore = opts.MemoryStore
		o.RoomStore = opts.RoomStore
		o.AttachmentStore = opts.AttachmentStore
		o.MaxModelCalls = opts.MaxModelCalls
	})
	if err != nil {
		return nil, err
	}
	if err := rt.Start(ctx); err != nil {
		return nil, err
	}

	return &Agent{opts: opts, rt: rt}, nil
}

// Runtime exposes the underlying runtime for advanced use.
func (a *Agent) Runtime() *runtime.Runtime { return a.rt }

// Character returns the persona the agent was built from.
func (a *Agent) Character() *core.Character { return a.rt.Character() }

// Diagnostics returns problems collected during plugin resolution.
func (a *Agent) Diagnostics() []plugin.Diagnostic { return a.rt.Diagnostics() }

// Respond processes a user message in a room and returns the persisted
// response memory.
func (a *Agent) Respond(ctx context.Context, roomID, userID, text string) (*core.Memory, error) {
	msg := core.NewMemory(userID, roomID, text)
	return a.rt.ProcessMessage(ctx, msg)
}

// RespondStream processes a user message and forwards user-visible response
// text to onChunk as it streams. The persisted response is returned once the
// run completes.
func (a *Agent) RespondStream(ctx context.Context, roomID, userID, text string, onChunk func(chunk string)) (*core.Memory, error) {
	msg := core.NewMemory(userID, roomID, text)
	return a.rt.ProcessMessage(ctx, msg, func(o *runtime.ProcessOptions) {
		o.OnChunk = onChunk
	})
}

// Stop shuts down plugin services.
func (a *Agent) Stop(ctx context.Context) error { return a.rt.Stop(ctx) }
