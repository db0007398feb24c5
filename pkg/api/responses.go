package api

// ChatResponse is the OpenAI-compatible chat completion body.
type ChatResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"` // "chat.completion"
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []Choice       `json:"choices"`
	Usage   *ResponseUsage `json:"usage,omitempty"`
}

type Choice struct {
	Index        int          `json:"index"`
	Message      *ChatMessage `json:"message,omitempty"`
	FinishReason string       `json:"finish_reason"`
}

type ResponseUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Cost is filled in by the router, never by the upstream.
	Cost *float64 `json:"cost,omitempty"`
}

// FirstContent returns the content of the first choice, if any.
func (r *ChatResponse) FirstContent() string {
	if r == nil || len(r.Choices) == 0 || r.Choices[0].Message == nil {
		return ""
	}
	return r.Choices[0].Message.Content
}

// RoutingInfo describes how a request was routed.
type RoutingInfo struct {
	Intent      string         `json:"intent"`
	Model       string         `json:"model"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature float64        `json:"temperature"`
	Confidence  float64        `json:"confidence"`
	Scores      map[string]int `json:"scores,omitempty"`
}

// CompletionResult is the router's answer to a CompletionRequest.
type CompletionResult struct {
	*ChatResponse
	Routing *RoutingInfo `json:"routing,omitempty"`
	Cost    float64      `json:"cost"`
}

type ClassifyResponse struct {
	Intent     string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Scores     map[string]int `json:"scores"`
}

type CostResponse struct {
	Model  string  `json:"model"`
	Tokens int     `json:"tokens"`
	Rate   float64 `json:"rate"`
	Cost   float64 `json:"cost"`
}
