// Package toolutil provides helpers shared by the MCP tools, the web UI and
// the CLI for turning pipeline results and errors into user-facing text.
package toolutil

import (
	"errors"
	"strings"

	"github.com/anatolykoptev/go_scribe/internal/engine"
)

// UserMessage maps an error to the message shown to the user. Each marker
// gets a distinct wording so the cause is clear without reading logs.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	detail := err.Error()
	var se *engine.StageError
	if errors.As(err, &se) && se.Message != "" {
		detail = se.Message
	}

	switch engine.Kind(err) {
	case engine.ErrConfig:
		return "Configuration problem: " + sentence(detail) + " Set the missing value in the environment and restart."
	case engine.ErrInput:
		return "Invalid input: " + sentence(detail)
	case engine.ErrUnsupported:
		return "This video cannot be summarized: " + sentence(detail)
	case engine.ErrService:
		stage := ""
		if se != nil && se.Stage != "" {
			stage = " during " + se.Stage
		}
		return "An external service failed" + stage + ": " + sentence(detail) + " Please try again later."
	default:
		return "Unexpected error: " + sentence(detail)
	}
}

// Title returns a short heading for an error, used by the web UI.
func Title(err error) string {
	switch engine.Kind(err) {
	case engine.ErrConfig:
		return "Configuration error"
	case engine.ErrInput:
		return "Check your input"
	case engine.ErrUnsupported:
		return "Not available"
	case engine.ErrService:
		return "Service error"
	default:
		return "Error"
	}
}

func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "?") && !strings.HasSuffix(s, "!") {
		s += "."
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
