package agents

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_scribe/internal/engine"
	"github.com/anatolykoptev/go_scribe/internal/engine/sources"
)

// TranscriptFetcher is a video-transcript endpoint.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string, langs []string) (*sources.Transcript, error)
}

// CaptionFetcher returns the transcript of the requested video as its output.
// It does not call a language model.
type CaptionFetcher struct {
	Transcripts TranscriptFetcher
	Langs       []string // empty = engine.Cfg.TranscriptLangs
}

func (c *CaptionFetcher) Run(ctx context.Context, _ *Variant, d PromptData) (StageOutput, error) {
	if d.VideoID == "" {
		return StageOutput{}, engine.Wrap(engine.ErrInput, StageCaptions, "video id", "no video id in the given URL", sources.ErrVideoIDNotFound)
	}
	langs := c.Langs
	if len(langs) == 0 {
		langs = engine.Cfg.TranscriptLangs
	}
	t, err := c.Transcripts.Fetch(ctx, d.VideoID, langs)
	if err != nil {
		return StageOutput{}, classifyTranscriptErr(err)
	}
	return StageOutput{Stage: StageCaptions, Text: t.Text, Title: t.Title}, nil
}

// classifyTranscriptErr maps transcript outcomes to error markers.
func classifyTranscriptErr(err error) error {
	switch {
	case errors.Is(err, sources.ErrCaptionsDisabled):
		return engine.Wrap(engine.ErrUnsupported, StageCaptions, "transcript", "captions are disabled for this video", err)
	case errors.Is(err, sources.ErrNoTranscript):
		return engine.Wrap(engine.ErrUnsupported, StageCaptions, "transcript", "no transcript in the requested languages", err)
	case errors.Is(err, sources.ErrVideoUnavailable):
		return engine.Wrap(engine.ErrUnsupported, StageCaptions, "transcript", "the video is unavailable", err)
	default:
		return engine.Wrap(engine.ErrService, StageCaptions, "transcript", "fetching the transcript failed", err)
	}
}
