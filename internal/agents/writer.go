package agents

import (
	"context"

	"github.com/anatolykoptev/go_scribe/internal/engine"
)

// Writer produces the final artifact from the request and the source text.
// The source text is passed through untruncated.
type Writer struct {
	LLM   engine.Completer
	Clock Clock
}

func (w *Writer) Run(ctx context.Context, v *Variant, d PromptData) (StageOutput, error) {
	prompt, err := v.WriterPrompt(d)
	if err != nil {
		return StageOutput{}, engine.Wrap(engine.ErrConfig, StageWriter, "prompt", "writer prompt template failed", err)
	}
	text, err := engine.CallLLM(ctx, w.LLM, StageWriter, SystemPrompt(v.WriterAgent, w.Clock.now()), prompt)
	if err != nil {
		return StageOutput{}, err
	}
	return StageOutput{Stage: StageWriter, Text: text}, nil
}
