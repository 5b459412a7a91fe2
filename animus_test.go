package animus

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animus-ai/animus/core"
	"github.com/animus-ai/animus/plugin"
)

func modelPlugin(response string) *core.Plugin {
	return &core.Plugin{
		Name:        "test-model",
		Description: "canned model for tests",
		Models: map[core.ModelType]core.ModelHandler{
			core.ModelTextLarge: func(ctx context.Context, rt core.Runtime, call core.ModelCall) (<-chan string, <-chan error) {
				out := make(chan string, len(response))
				for _, r := range response {
					out <- string(r)
				}
				close(out)
				errs := make(chan error, 1)
				close(errs)
				return out, errs
			},
		},
	}
}

func TestAgent_Respond(t *testing.T) {
	response := "<response><thought>hi</thought><actions>REPLY</actions><text>Hello!</text></response>"
	agent, err := New(context.Background(), &core.Character{Name: "Ada"}, func(o *Options) {
		o.Plugins = []plugin.Ref{plugin.RefPlugin(modelPlugin(response))}
	})
	require.NoError(t, err)
	defer agent.Stop(context.Background())

	resp, err := agent.Respond(context.Background(), "room1", "user1", "hey")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", resp.Content.Text)
	assert.Empty(t, agent.Diagnostics())
}

func TestAgent_RespondStream(t *testing.T) {
	response := "<response><actions>REPLY</actions><text>streamed reply</text></response>"
	agent, err := New(context.Background(), &core.Character{Name: "Ada"}, func(o *Options) {
		o.Plugins = []plugin.Ref{plugin.RefPlugin(modelPlugin(response))}
	})
	require.NoError(t, err)
	defer agent.Stop(context.Background())

	var streamed strings.Builder
	resp, err := agent.RespondStream(context.Background(), "room1", "user1", "hey",
		func(c string) { streamed.WriteString(c) })
	require.NoError(t, err)

	assert.Equal(t, "streamed reply", streamed.String())
	assert.Equal(t, "streamed reply", resp.Content.Text)
}

func TestAgent_RegistryPluginsByName(t *testing.T) {
	registry := plugin.NewRegistry()
	registry.RegisterPlugin(modelPlugin("<response><actions>REPLY</actions><text>ok</text></response>"))
	registry.RegisterPlugin(&core.Plugin{Name: "@animus/plugin-extras", Description: "extras"})

	ch := &core.Character{Name: "Ada", Plugins: []string{"test-model", "extras"}}
	agent, err := New(context.Background(), ch, func(o *Options) {
		o.Registry = registry
	})
	require.NoError(t, err)
	defer agent.Stop(context.Background())

	assert.Empty(t, agent.Diagnostics())
	assert.Len(t, agent.Runtime().Plugins(), 2)
}

func TestAgent_InvalidCharacter(t *testing.T) {
	_, err := New(context.Background(), &core.Character{})
	require.Error(t, err)
}
