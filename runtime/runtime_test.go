package runtime

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animus-ai/animus/core"
	"github.com/animus-ai/animus/internal/testutil"
	"github.com/animus-ai/animus/plugin"
)

// staticHandler returns a model handler that streams the given text in two
// chunks.
func staticHandler(text string) core.ModelHandler {
	return func(ctx context.Context, rt core.Runtime, call core.ModelCall) (<-chan string, <-chan error) {
		out := make(chan string, 2)
		errs := make(chan error, 1)
		mid := len(text) / 2
		out <- text[:mid]
		out <- text[mid:]
		close(out)
		close(errs)
		return out, errs
	}
}

func testCharacter() *core.Character {
	return &core.Character{
		Name: "Ada",
		Bio:  []string{"a test agent"},
	}
}

func TestNew_RequiresValidCharacter(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)

	_, err = New(&core.Character{}, nil)
	require.Error(t, err)
}

func TestStart_InitializesPluginsInDependencyOrder(t *testing.T) {
	var order []string
	initFn := func(name string) func(ctx context.Context, rt core.Runtime) error {
		return func(ctx context.Context, rt core.Runtime) error {
			order = append(order, name)
			return nil
		}
	}

	base := testutil.NewPluginBuilder("base").Init(initFn("base")).Build()
	dependent := testutil.NewPluginBuilder("dependent").Deps("base").Init(initFn("dependent")).Build()

	rt, err := New(testCharacter(), []plugin.Ref{plugin.RefPlugin(dependent), plugin.RefPlugin(base)})
	require.NoError(t, err)
	require.NoError(t, rt.Start(context.Background()))

	assert.Equal(t, []string{"base", "dependent"}, order)
	assert.Len(t, rt.Plugins(), 2)
	assert.Empty(t, rt.Diagnostics())
}

func TestStart_FailingInitSkipsCapabilities(t *testing.T) {
	bad := testutil.NewPluginBuilder("bad").
		Init(func(ctx context.Context, rt core.Runtime) error { return fmt.Errorf("boom") }).
		Action(&core.Action{Name: "NOPE", Handler: func(ctx context.Context, rt core.Runtime, msg *core.Memory) (*core.ActionResult, error) {
			return nil, nil
		}}).
		Build()

	rt, err := New(testCharacter(), []plugin.Ref{plugin.RefPlugin(bad)})
	require.NoError(t, err)
	require.NoError(t, rt.Start(context.Background()))

	assert.Nil(t, rt.findAction("NOPE"))
}

func TestStart_Twice(t *testing.T) {
	rt, err := New(testCharacter(), nil)
	require.NoError(t, err)
	require.NoError(t, rt.Start(context.Background()))
	require.Error(t, rt.Start(context.Background()))
}

func TestModelSelection_PriorityAndRegistrationOrder(t *testing.T) {
	rt, err := New(testCharacter(), nil)
	require.NoError(t, err)

	rt.RegisterModel(core.ModelTextLarge, "first", 0, staticHandler("from first"))
	rt.RegisterModel(core.ModelTextLarge, "second", 0, staticHandler("from second"))
	rt.RegisterModel(core.ModelTextLarge, "third", 5, staticHandler("from third"))

	// highest priority wins
	text, err := rt.UseModel(context.Background(), core.ModelTextLarge, core.ModelCall{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "from third", text)

	// among equal priorities the earliest registration wins
	rt2, _ := New(testCharacter(), nil)
	rt2.RegisterModel(core.ModelTextSmall, "a", 1, staticHandler("A"))
	rt2.RegisterModel(core.ModelTextSmall, "b", 1, staticHandler("B"))
	text, err = rt2.UseModel(context.Background(), core.ModelTextSmall, core.ModelCall{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "A", text)
}

func TestUseModel_NoHandlerRegistered(t *testing.T) {
	rt, err := New(testCharacter(), nil)
	require.NoError(t, err)

	_, err = rt.UseModel(context.Background(), core.ModelTextLarge, core.ModelCall{})
	require.Error(t, err)

	chunks, errs := rt.UseModelStream(context.Background(), core.ModelTextLarge, core.ModelCall{})
	for range chunks {
		t.Fatal("expected no chunks")
	}
	require.Error(t, <-errs)
}

func TestUseModel_LimiterCapsCalls(t *testing.T) {
	rt, err := New(testCharacter(), nil, func(o *Options) { o.MaxModelCalls = 2 })
	require.NoError(t, err)
	rt.RegisterModel(core.ModelTextLarge, "m", 0, staticHandler("ok"))

	for i := 0; i < 2; i++ {
		_, err := rt.UseModel(context.Background(), core.ModelTextLarge, core.ModelCall{})
		require.NoError(t, err)
	}
	_, err = rt.UseModel(context.Background(), core.ModelTextLarge, core.ModelCall{})
	require.Error(t, err)
}

func TestEmitEvent_SequentialAndErrorTolerant(t *testing.T) {
	events := testutil.NewPluginBuilder("events").Build()
	var seen []string
	events.Events = map[core.EventType][]core.EventHandler{
		core.EventMessageReceived: {
			func(ctx context.Context, rt core.Runtime, p core.EventPayload) error {
				seen = append(seen, "first")
				return fmt.Errorf("handler error")
			},
			func(ctx context.Context, rt core.Runtime, p core.EventPayload) error {
				seen = append(seen, "second")
				return nil
			},
		},
	}

	rt, err := New(testCharacter(), []plugin.Ref{plugin.RefPlugin(events)})
	require.NoError(t, err)
	require.NoError(t, rt.Start(context.Background()))

	rt.EmitEvent(context.Background(), core.EventMessageReceived, core.EventPayload{})
	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestSetting_SecretsPrecedence(t *testing.T) {
	ch := testCharacter()
	ch.Settings = map[string]any{"key": "setting", "only": "s"}
	ch.Secrets = map[string]string{"key": "secret"}

	rt, err := New(ch, nil)
	require.NoError(t, err)

	v, ok := rt.Setting("key")
	require.True(t, ok)
	assert.Equal(t, "secret", v)

	v, ok = rt.Setting("only")
	require.True(t, ok)
	assert.Equal(t, "s", v)

	_, ok = rt.Setting("missing")
	assert.False(t, ok)
}

func TestServices_StartAndReverseStop(t *testing.T) {
	var log []string
	svcFactory := func(name string) core.ServiceFactory {
		return func(ctx context.Context, rt core.Runtime) (core.Service, error) {
			log = append(log, "start:"+name)
			return &fakeService{name: name, log: &log}, nil
		}
	}

	p := testutil.NewPluginBuilder("svc").Build()
	p.Services = []core.ServiceFactory{svcFactory("one"), svcFactory("two")}

	rt, err := New(testCharacter(), []plugin.Ref{plugin.RefPlugin(p)})
	require.NoError(t, err)
	require.NoError(t, rt.Start(context.Background()))
	require.NoError(t, rt.Stop(context.Background()))

	assert.Equal(t, []string{"start:one", "start:two", "stop:two", "stop:one"}, log)
}

type fakeService struct {
	name string
	log  *[]string
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Stop(ctx context.Context) error {
	*s.log = append(*s.log, "stop:"+s.name)
	return nil
}
