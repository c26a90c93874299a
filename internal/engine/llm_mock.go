package engine

import (
	"context"
	"strings"
)

// MockCompleter is a placeholder provider for local runs; it never calls an
// external model and its output depends only on its input.
type MockCompleter struct{}

func (MockCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	var sb strings.Builder
	sb.WriteString("# Mock response\n\n")
	if first, _, _ := strings.Cut(strings.TrimSpace(system), "\n"); first != "" {
		sb.WriteString("_" + first + "_\n\n")
	}
	sb.WriteString("```\n")
	sb.WriteString(prompt)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}
