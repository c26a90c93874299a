package agents

import (
	"strings"
	"time"
)

const datetimeLayout = "2006-01-02 15:04 MST"

// SystemPrompt assembles the system message for an agent. The current time
// is appended as a final instruction when the agent asks for it.
func SystemPrompt(a Agent, now time.Time) string {
	var sb strings.Builder
	if d := strings.TrimSpace(a.Description); d != "" {
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	if a.Role != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Your role: ")
		sb.WriteString(a.Role)
		sb.WriteString("\n")
	}

	instructions := a.Instructions
	if a.AddDatetime {
		instructions = append(instructions[:len(instructions):len(instructions)],
			"The current time is "+now.Format(datetimeLayout)+".")
	}
	if len(instructions) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Instructions:\n")
		for _, in := range instructions {
			sb.WriteString("- ")
			sb.WriteString(strings.TrimSpace(in))
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}
