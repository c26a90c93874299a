package scribeserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_scribe/internal/agents"
	"github.com/anatolykoptev/go_scribe/internal/engine"
)

type fakeRunner struct {
	got []agents.Request
	err error
}

func (f *fakeRunner) Run(_ context.Context, req agents.Request) (*agents.Result, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return &agents.Result{
		RequestID: "r1",
		Variant:   req.Variant,
		Subject:   req.Subject,
		Source:    agents.StageOutput{Stage: agents.StageResearch, Text: "research text"},
		Output:    agents.StageOutput{Stage: agents.StageWriter, Text: "final post"},
	}, nil
}

func connect(t *testing.T, r Runner) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	server := mcp.NewServer(&mcp.Implementation{Name: "go_scribe", Version: "test"}, nil)
	n := RegisterTools(server, agents.DefaultVariants(), r, engine.Config{LLMProvider: "groq", SearchBackend: "serpapi"})
	require.Equal(t, 5, n)

	st, ct := mcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestPipelineTool(t *testing.T) {
	r := &fakeRunner{}
	cs := connect(t, r)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "linkedin_post_write",
		Arguments: map[string]any{"subject": "remote work", "preference": "inspiring"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.Len(t, r.got, 1)
	assert.Equal(t, agents.Request{Variant: "linkedin", Subject: "remote work", Preference: "inspiring"}, r.got[0])
}

func TestPipelineToolError(t *testing.T) {
	r := &fakeRunner{err: engine.Wrap(engine.ErrInput, "input", "subject", "please enter a subject", nil)}
	cs := connect(t, r)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "blog_write",
		Arguments: map[string]any{"subject": ""},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "Invalid input: Please enter a subject.", text.Text)
}

func TestToOutput(t *testing.T) {
	reg := agents.DefaultVariants()
	res := &agents.Result{RequestID: "r", Variant: "blog", Subject: "s",
		Source: agents.StageOutput{Text: "research"}, Output: agents.StageOutput{Text: "post"}}

	blog, _ := reg.Lookup("blog")
	assert.Equal(t, "research", ToOutput(blog, res).Source)

	li, _ := reg.Lookup("linkedin")
	out := ToOutput(li, res)
	assert.Empty(t, out.Source)
	assert.Equal(t, "post", out.Output)
}

func TestListPipelines(t *testing.T) {
	out := ListPipelines(agents.DefaultVariants(), engine.Config{LLMProvider: "groq", SearchBackend: "ddg"})
	assert.Equal(t, "llama-3.3-70b-versatile", out.Model)
	assert.Equal(t, "ddg", out.Backend)
	require.Len(t, out.Pipelines, 4)
	assert.Equal(t, "youtube_summarize", out.Pipelines[3].Tool)
	assert.Equal(t, agents.SourceCaptions, out.Pipelines[3].Source)
}
