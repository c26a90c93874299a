package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/anatolykoptev/go_scribe/internal/engine"
	"github.com/anatolykoptev/go_scribe/internal/toolutil"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			p := newPainter(os.Stderr)
			fmt.Fprintln(os.Stderr, p.error(describeError(err)))
		}
		os.Exit(1)
	}
}

// describeError prefers the user-facing message for pipeline errors.
func describeError(err error) string {
	if engine.Kind(err) != nil {
		return toolutil.UserMessage(err)
	}
	return err.Error()
}
