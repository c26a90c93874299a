// Package scribeserver exposes the writing pipelines as MCP tools.
package scribeserver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_scribe/internal/agents"
	"github.com/anatolykoptev/go_scribe/internal/engine"
	"github.com/anatolykoptev/go_scribe/internal/toolutil"
)

// Runner executes one pipeline request.
type Runner interface {
	Run(ctx context.Context, req agents.Request) (*agents.Result, error)
}

// RegisterTools registers one tool per variant plus pipeline_list.
// It returns the number of tools registered.
func RegisterTools(server *mcp.Server, reg *agents.Registry, r Runner, c engine.Config) int {
	n := 0
	for _, v := range reg.All() {
		if v.Tool == "" {
			continue
		}
		registerPipeline(server, v, r)
		n++
	}
	registerPipelineList(server, reg, c)
	return n + 1
}

func registerPipeline(server *mcp.Server, v *agents.Variant, r Runner) {
	variant := v.Name
	mcp.AddTool(server, &mcp.Tool{
		Name:        v.Tool,
		Description: v.ToolDescription,
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.PipelineInput) (*mcp.CallToolResult, engine.PipelineOutput, error) {
		res, err := r.Run(ctx, agents.Request{
			Variant:    variant,
			Subject:    input.Subject,
			Preference: input.Preference,
		})
		if err != nil {
			slog.Debug("tool failed", slog.String("tool", v.Tool), slog.Any("error", err))
			return nil, engine.PipelineOutput{}, errors.New(toolutil.UserMessage(err))
		}
		return nil, ToOutput(v, res), nil
	})
}

// ToOutput flattens a Result for tool callers. The source text is included
// only for variants that display it.
func ToOutput(v *agents.Variant, res *agents.Result) engine.PipelineOutput {
	out := engine.PipelineOutput{
		RequestID: res.RequestID,
		Variant:   res.Variant,
		Subject:   res.Subject,
		Title:     res.Source.Title,
		Output:    res.Output.Text,
	}
	if v.ShowSource {
		out.Source = res.Source.Text
	}
	return out
}

func registerPipelineList(server *mcp.Server, reg *agents.Registry, c engine.Config) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_list",
		Description: "List the available writing pipelines with their input fields, and the configured language model and search backend.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ engine.PipelineListInput) (*mcp.CallToolResult, engine.PipelineListOutput, error) {
		return nil, ListPipelines(reg, c), nil
	})
}

// ListPipelines describes the registered variants and active configuration.
func ListPipelines(reg *agents.Registry, c engine.Config) engine.PipelineListOutput {
	out := engine.PipelineListOutput{
		Provider: c.LLMProvider,
		Model:    c.ResolvedModel(),
		Backend:  c.SearchBackend,
	}
	for _, v := range reg.All() {
		out.Pipelines = append(out.Pipelines, engine.PipelineInfo{
			Name:            v.Name,
			Tool:            v.Tool,
			Title:           v.Title,
			Source:          v.Source,
			SubjectLabel:    v.SubjectLabel,
			PreferenceLabel: v.PreferenceLabel,
		})
	}
	return out
}
