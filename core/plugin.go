package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Plugin is a named unit of capability. The resolver treats Name as the
// canonical identity: two plugin values with the same Name are the same
// logical plugin regardless of how they were referenced (scoped vs short
// form). Capability collections are opaque to the resolver and consumed by
// the runtime during sequential initialization.
type Plugin struct {
	// Name identifies the plugin, possibly in scoped form (@scope/plugin-x).
	Name        string
	Description string

	// Dependencies lists plugin names required at normal load time.
	// TestDependencies are additionally honored only in test mode.
	Dependencies     []string
	TestDependencies []string

	// Priority is a numeric hint applied to model handler registration.
	// It does not influence dependency ordering.
	Priority int

	// Config carries plugin specific configuration passed to Init.
	Config map[string]any

	// Init runs once when the runtime initializes the plugin, before its
	// capability collections are registered.
	Init func(ctx context.Context, rt Runtime) error

	Actions    []*Action
	Providers  []*Provider
	Evaluators []*Evaluator
	Services   []ServiceFactory
	Models     map[ModelType]ModelHandler
	Events     map[EventType][]EventHandler
	Routes     []Route
}

// Validate reports the shape problems that make a plugin unusable. A valid
// plugin has a non-empty name and at least one of Init, Services, Providers,
// Actions, Evaluators or Description.
func (p *Plugin) Validate() []error {
	var errs []error
	if p == nil {
		return []error{fmt.Errorf("plugin is nil")}
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("plugin name is required"))
	}
	if p.Init == nil && len(p.Services) == 0 && len(p.Providers) == 0 &&
		len(p.Actions) == 0 && len(p.Evaluators) == 0 && p.Description == "" {
		errs = append(errs, fmt.Errorf("plugin %q declares no capabilities", p.Name))
	}
	return errs
}

// ActionResult is the outcome of a handled action.
type ActionResult struct {
	Text    string
	Success bool
	Data    map[string]any
}

// ActionHandler executes an action against the triggering message.
type ActionHandler func(ctx context.Context, rt Runtime, msg *Memory) (*ActionResult, error)

// Action is a named behavior the model can select in its response. Matching
// is case-insensitive over Name and Similes. Validate, when present, gates
// execution; Parameters optionally declares a JSON schema for arguments the
// model may supply alongside the action name.
type Action struct {
	Name        string
	Description string
	Similes     []string
	Examples    [][]MessageExample
	Parameters  map[string]any
	Validate    func(ctx context.Context, rt Runtime, msg *Memory) (bool, error)
	Handler     ActionHandler
}

// Matches reports whether the given name selects this action, comparing
// case-insensitively against Name and Similes.
func (a *Action) Matches(name string) bool {
	if strings.EqualFold(a.Name, name) {
		return true
	}
	for _, s := range a.Similes {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// ProviderResult carries the context fragment a provider contributes.
type ProviderResult struct {
	Text   string
	Values map[string]any
	Data   map[string]any
}

// Provider supplies context for prompt composition. Providers run in
// ascending Position order. Dynamic providers are skipped during default
// composition and only run when explicitly requested. Private providers are
// never listed to external callers.
type Provider struct {
	Name        string
	Description string
	Dynamic     bool
	Private     bool
	Position    int
	Get         func(ctx context.Context, rt Runtime, msg *Memory) (*ProviderResult, error)
}

// Evaluator runs after a response has been produced, typically extracting
// facts or scoring the exchange. AlwaysRun bypasses Validate.
type Evaluator struct {
	Name        string
	Description string
	Similes     []string
	AlwaysRun   bool
	Validate    func(ctx context.Context, rt Runtime, msg *Memory) (bool, error)
	Handler     func(ctx context.Context, rt Runtime, msg, response *Memory) error
}

// Service is a long-lived background capability owned by a plugin. Services
// are started in plugin resolution order and stopped in reverse.
type Service interface {
	Name() string
	Stop(ctx context.Context) error
}

// ServiceFactory constructs and starts a service against the runtime.
type ServiceFactory func(ctx context.Context, rt Runtime) (Service, error)

// Route exposes an HTTP endpoint contributed by a plugin. The host decides
// whether and where to mount routes; the runtime only collects them.
type Route struct {
	Name    string
	Method  string
	Path    string
	Public  bool
	Handler http.HandlerFunc
}
