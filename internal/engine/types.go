package engine

// --- MCP tool types ---

// PipelineInput is the input for every writing pipeline tool.
type PipelineInput struct {
	Subject    string `json:"subject" jsonschema:"Topic to write about, or the YouTube video URL for youtube_summarize"`
	Preference string `json:"preference,omitempty" jsonschema:"Target audience or writing style (e.g. casual, professional, informative)"`
}

// PipelineOutput is the structured output of a pipeline run.
type PipelineOutput struct {
	RequestID string `json:"request_id"`
	Variant   string `json:"variant"`
	Subject   string `json:"subject"`
	Title     string `json:"title,omitempty"`
	Source    string `json:"source,omitempty"`
	Output    string `json:"output"`
}

type PipelineListInput struct{}

// PipelineInfo describes one registered pipeline variant.
type PipelineInfo struct {
	Name            string `json:"name"`
	Tool            string `json:"tool"`
	Title           string `json:"title"`
	Source          string `json:"source"`
	SubjectLabel    string `json:"subject_label"`
	PreferenceLabel string `json:"preference_label,omitempty"`
}

type PipelineListOutput struct {
	Provider  string         `json:"provider"`
	Model     string         `json:"model"`
	Backend   string         `json:"search_backend"`
	Pipelines []PipelineInfo `json:"pipelines"`
}

// --- Search types ---

// SearchResult is one web search hit, shared by every backend.
type SearchResult struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
}

type searxngResponse struct {
	Results []SearchResult `json:"results"`
}

type serpAPIResponse struct {
	Error          string `json:"error"`
	OrganicResults []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
	} `json:"organic_results"`
}
