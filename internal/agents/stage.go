package agents

import (
	"context"
	"time"
)

// Stage names used in logs, errors and results.
const (
	StageResearch = "research"
	StageCaptions = "captions"
	StageWriter   = "writer"
)

// StageOutput is the opaque text one stage hands to the next.
type StageOutput struct {
	Stage string `json:"stage"`
	Text  string `json:"text"`
	Title string `json:"title,omitempty"` // video title when known
}

// Stage is one step of a pipeline. Source stages read Subject, Preference
// and VideoID; the writer also reads Source.
type Stage interface {
	Run(ctx context.Context, v *Variant, d PromptData) (StageOutput, error)
}

// Clock returns the current time. Tests pin it for deterministic prompts.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
