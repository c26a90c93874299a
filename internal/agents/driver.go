package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anatolykoptev/go_scribe/internal/engine"
	"github.com/anatolykoptev/go_scribe/internal/engine/sources"
)

// Request is one user action.
type Request struct {
	Variant    string
	Subject    string // topic, or the video URL for caption variants
	Preference string // audience or style
}

// Result is what a successful run hands to the renderer.
type Result struct {
	RequestID  string        `json:"request_id"`
	Variant    string        `json:"variant"`
	Subject    string        `json:"subject"`
	Preference string        `json:"preference,omitempty"`
	Source     StageOutput   `json:"source"`
	Output     StageOutput   `json:"output"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Driver validates a request, runs the source stage, then the writer.
// Stages run sequentially on the calling goroutine.
type Driver struct {
	Variants   *Registry
	Researcher Stage // nil = research variants report a configuration error
	Captions   Stage
	Writer     Stage

	// CheckConfig verifies credentials before any outbound call.
	CheckConfig func(needsSearch bool) error
	NewID       func() string
}

// Run executes one pipeline. Every error carries one of the engine markers.
func (d *Driver) Run(ctx context.Context, req Request) (*Result, error) {
	id := d.newID()
	log := slog.With(slog.String("request_id", id), slog.String("variant", req.Variant))
	start := time.Now()

	engine.IncrPipelineRun()
	res, err := d.run(ctx, id, req, log)
	if err != nil {
		engine.IncrPipelineFailure()
		log.Warn("pipeline failed", slog.Any("error", err), slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}
	res.Elapsed = time.Since(start)
	log.Info("pipeline done",
		slog.Int("source_chars", len(res.Source.Text)),
		slog.Int("output_chars", len(res.Output.Text)),
		slog.Duration("elapsed", res.Elapsed))
	return res, nil
}

func (d *Driver) run(ctx context.Context, id string, req Request, log *slog.Logger) (*Result, error) {
	v, ok := d.Variants.Lookup(req.Variant)
	if !ok {
		return nil, engine.Wrap(engine.ErrInput, "input", "variant", fmt.Sprintf("unknown pipeline %q", req.Variant), nil)
	}

	data, err := validate(v, req)
	if err != nil {
		return nil, err
	}

	if d.CheckConfig != nil {
		if err := d.CheckConfig(v.NeedsSearch()); err != nil {
			return nil, err
		}
	}

	source := d.sourceStage(v)
	if source == nil || d.Writer == nil {
		return nil, engine.Wrap(engine.ErrConfig, "config", v.Source, "pipeline stage is not configured", nil)
	}

	log.Info("stage start", slog.String("stage", v.Source))
	src, err := source.Run(ctx, v, data)
	if err != nil {
		return nil, err
	}

	data.Source = src.Text
	data.VideoTitle = src.Title
	log.Info("stage start", slog.String("stage", StageWriter), slog.Int("source_chars", len(src.Text)))
	out, err := d.Writer.Run(ctx, v, data)
	if err != nil {
		return nil, err
	}

	return &Result{
		RequestID:  id,
		Variant:    v.Name,
		Subject:    data.Subject,
		Preference: data.Preference,
		Source:     src,
		Output:     out,
	}, nil
}

// validate checks the request fields before any stage runs.
func validate(v *Variant, req Request) (PromptData, error) {
	d := PromptData{
		Subject:    strings.TrimSpace(req.Subject),
		Preference: strings.TrimSpace(req.Preference),
	}
	if d.Subject == "" {
		return d, engine.Wrap(engine.ErrInput, "input", "subject", fieldMessage(v.SubjectLabel, "a subject"), nil)
	}
	if v.RequirePreference && d.Preference == "" {
		return d, engine.Wrap(engine.ErrInput, "input", "preference", fieldMessage(v.PreferenceLabel, "a preference"), nil)
	}
	if v.Source == SourceCaptions {
		id, err := sources.ExtractVideoID(d.Subject)
		if err != nil {
			return d, engine.Wrap(engine.ErrInput, "input", "video url", fmt.Sprintf("no YouTube video id found in %q", d.Subject), err)
		}
		d.VideoID = id
	}
	return d, nil
}

func fieldMessage(label, fallback string) string {
	label = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), ":"))
	if label == "" {
		return "please enter " + fallback
	}
	return "please answer: " + label
}

func (d *Driver) sourceStage(v *Variant) Stage {
	switch v.Source {
	case SourceResearch:
		return d.Researcher
	case SourceCaptions:
		return d.Captions
	}
	return nil
}

func (d *Driver) newID() string {
	if d.NewID != nil {
		return d.NewID()
	}
	return uuid.NewString()
}
