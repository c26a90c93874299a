package agents

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVariants(t *testing.T) {
	reg, err := LoadVariants(variantsYAML)
	require.NoError(t, err)

	var names []string
	for _, v := range reg.All() {
		names = append(names, v.Name)
		assert.NotEmpty(t, v.Tool, v.Name)
		assert.NotEmpty(t, v.Title, v.Name)
		assert.NotEmpty(t, v.SubjectLabel, v.Name)
		assert.NotEmpty(t, v.ButtonLabel, v.Name)
	}
	assert.Equal(t, []string{"blog", "blog-style", "linkedin", "youtube"}, names)

	for tool, name := range map[string]string{
		"blog_write":          "blog",
		"blog_style_write":    "blog-style",
		"linkedin_post_write": "linkedin",
		"youtube_summarize":   "youtube",
	} {
		v, ok := reg.ByTool(tool)
		require.True(t, ok, tool)
		assert.Equal(t, name, v.Name)
	}

	yt, _ := reg.Lookup("youtube")
	assert.False(t, yt.NeedsSearch())
	assert.False(t, yt.HasPreference())
	blog, _ := reg.Lookup(" blog ")
	assert.True(t, blog.NeedsSearch())
	assert.True(t, blog.ShowSource)
}

func TestVariantPrompts(t *testing.T) {
	v, ok := DefaultVariants().Lookup("linkedin")
	require.True(t, ok)

	d := PromptData{Subject: "AI in hiring", Preference: "professional", Source: "line1\nline2 <b>&</b>"}
	src, err := v.SourcePrompt(d)
	require.NoError(t, err)
	assert.Equal(t, "Linkedin Post topic: AI in hiring for the style preference: professional", src)

	out, err := v.WriterPrompt(d)
	require.NoError(t, err)
	assert.Equal(t, "LinkedIn post on 'AI in hiring' with style 'professional' using the following research:\n\nline1\nline2 <b>&</b>", out)
}

func TestYouTubeWriterPromptWithoutTitle(t *testing.T) {
	v, _ := DefaultVariants().Lookup("youtube")
	out, err := v.WriterPrompt(PromptData{Subject: "https://youtu.be/x", Source: "caps"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Summarize the youtube video : https://youtu.be/x using"), out)
}

func TestLoadVariantsErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"not yaml", "- name: [a", "parse variants"},
		{"empty", "[]", "no variants"},
		{"missing name", `- source: captions`, "missing name"},
		{"unknown source", "- name: a\n  source: rss\n  writer_agent: {prompt: x}", "unknown source"},
		{"research without prompt", "- name: a\n  source: research\n  writer_agent: {prompt: x}", "needs a prompt"},
		{"writer without prompt", "- name: a\n  source: captions", "writer needs a prompt"},
		{"bad template", "- name: a\n  source: captions\n  writer_agent: {prompt: '{{.Source'}", "variant a"},
		{"duplicate", "- name: a\n  source: captions\n  writer_agent: {prompt: x}\n- name: a\n  source: captions\n  writer_agent: {prompt: x}", "duplicate name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadVariants([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSystemPrompt(t *testing.T) {
	now := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	a := Agent{
		Role:         "Drafts posts",
		Description:  "You are a writer.\n",
		Instructions: []string{"Be brief.", "Cite sources."},
		AddDatetime:  true,
	}
	want := "You are a writer.\n\nYour role: Drafts posts\n\nInstructions:\n- Be brief.\n- Cite sources.\n- The current time is 2024-05-17 09:30 UTC."
	assert.Equal(t, want, SystemPrompt(a, now))
	assert.Len(t, a.Instructions, 2, "instructions slice must not grow")

	a.AddDatetime = false
	assert.NotContains(t, SystemPrompt(a, now), "current time")
	assert.Equal(t, "", SystemPrompt(Agent{}, now))
}
