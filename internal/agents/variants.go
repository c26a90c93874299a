// Package agents holds the pipeline variants and the stages that run them:
// a source stage (web research or video captions) followed by a writer.
package agents

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed variants.yaml
var variantsYAML []byte

// Source kinds.
const (
	SourceResearch = "research"
	SourceCaptions = "captions"
)

// Agent is one hosted-model persona: system prompt parts plus the user
// prompt template.
type Agent struct {
	Name         string   `yaml:"name"`
	Role         string   `yaml:"role"`
	Description  string   `yaml:"description"`
	Instructions []string `yaml:"instructions"`
	AddDatetime  bool     `yaml:"add_datetime"`
	Prompt       string   `yaml:"prompt"`

	tmpl *template.Template
}

// Variant is a named pipeline definition.
type Variant struct {
	Name              string `yaml:"name"`
	Tool              string `yaml:"tool"`
	ToolDescription   string `yaml:"tool_description"`
	Title             string `yaml:"title"`
	Caption           string `yaml:"caption"`
	SubjectLabel      string `yaml:"subject_label"`
	PreferenceLabel   string `yaml:"preference_label"`
	RequirePreference bool   `yaml:"require_preference"`
	ButtonLabel       string `yaml:"button_label"`
	Spinner           string `yaml:"spinner"`
	Source            string `yaml:"source"`
	ShowSource        bool   `yaml:"show_source"`
	SourceHeading     string `yaml:"source_heading"`
	OutputHeading     string `yaml:"output_heading"`
	SourceAgent       Agent  `yaml:"source_agent"`
	WriterAgent       Agent  `yaml:"writer_agent"`
}

// HasPreference reports whether the variant asks for a preference field.
func (v *Variant) HasPreference() bool { return v.PreferenceLabel != "" }

// NeedsSearch reports whether running the variant calls the search backend.
func (v *Variant) NeedsSearch() bool { return v.Source == SourceResearch }

// PromptData is the template context for every agent prompt.
type PromptData struct {
	Subject    string
	Preference string
	Source     string // Stage A output; empty while rendering Stage A
	VideoID    string
	VideoTitle string
}

// SourcePrompt renders the Stage A user prompt.
func (v *Variant) SourcePrompt(d PromptData) (string, error) {
	return v.SourceAgent.render(d)
}

// WriterPrompt renders the Stage B user prompt.
func (v *Variant) WriterPrompt(d PromptData) (string, error) {
	return v.WriterAgent.render(d)
}

func (a *Agent) render(d PromptData) (string, error) {
	if a.tmpl == nil {
		return "", fmt.Errorf("agent %s has no prompt", a.Name)
	}
	var sb strings.Builder
	if err := a.tmpl.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", a.Name, err)
	}
	return sb.String(), nil
}

// Registry is an ordered, read-only set of variants.
type Registry struct {
	order  []*Variant
	byName map[string]*Variant
	byTool map[string]*Variant
}

// LoadVariants parses and validates a YAML list of variants.
func LoadVariants(data []byte) (*Registry, error) {
	var vs []*Variant
	if err := yaml.Unmarshal(data, &vs); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}
	r := &Registry{byName: make(map[string]*Variant), byTool: make(map[string]*Variant)}
	for i, v := range vs {
		if v.Name == "" {
			return nil, fmt.Errorf("variant #%d: missing name", i+1)
		}
		if _, dup := r.byName[v.Name]; dup {
			return nil, fmt.Errorf("variant %s: duplicate name", v.Name)
		}
		switch v.Source {
		case SourceResearch:
			if v.SourceAgent.Prompt == "" {
				return nil, fmt.Errorf("variant %s: research source needs a prompt", v.Name)
			}
		case SourceCaptions:
		default:
			return nil, fmt.Errorf("variant %s: unknown source %q", v.Name, v.Source)
		}
		if v.WriterAgent.Prompt == "" {
			return nil, fmt.Errorf("variant %s: writer needs a prompt", v.Name)
		}
		if v.RequirePreference && !v.HasPreference() {
			return nil, fmt.Errorf("variant %s: required preference has no label", v.Name)
		}
		for _, a := range []*Agent{&v.SourceAgent, &v.WriterAgent} {
			if a.Prompt == "" {
				continue
			}
			t, err := template.New(v.Name + "/" + a.Name).Option("missingkey=error").Parse(a.Prompt)
			if err != nil {
				return nil, fmt.Errorf("variant %s: %w", v.Name, err)
			}
			a.tmpl = t
		}
		r.order = append(r.order, v)
		r.byName[v.Name] = v
		if v.Tool != "" {
			if _, dup := r.byTool[v.Tool]; dup {
				return nil, fmt.Errorf("variant %s: duplicate tool %s", v.Name, v.Tool)
			}
			r.byTool[v.Tool] = v
		}
	}
	if len(r.order) == 0 {
		return nil, fmt.Errorf("no variants defined")
	}
	return r, nil
}

var defaultVariants = sync.OnceValues(func() (*Registry, error) {
	return LoadVariants(variantsYAML)
})

// DefaultVariants returns the built-in variants. The embedded document is
// validated by tests, so a parse failure here is a build defect.
func DefaultVariants() *Registry {
	r, err := defaultVariants()
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the variant registered under name.
func (r *Registry) Lookup(name string) (*Variant, bool) {
	v, ok := r.byName[strings.TrimSpace(name)]
	return v, ok
}

// ByTool returns the variant exposed as the named MCP tool.
func (r *Registry) ByTool(tool string) (*Variant, bool) {
	v, ok := r.byTool[tool]
	return v, ok
}

// All lists variants in definition order.
func (r *Registry) All() []*Variant {
	return r.order
}
