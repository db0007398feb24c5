package api

// ChatRequest is the body sent upstream to {base}/chat/completions. Every
// field is always serialised; the completion client fills in defaults.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// ChatMessage is one turn of the conversation. Order is significant and is
// replayed verbatim to the backend.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

// CompletionRequest is what hosts send to the router. An empty model or
// "auto" means the model is picked from the classified intent of the last
// user message.
type CompletionRequest struct {
	// message array is required, dive in and deep validate
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`

	Model string `json:"model,omitempty"`

	// nil means "use the routed or default value"
	MaxTokens   *int     `json:"max_tokens,omitempty" binding:"omitempty,gte=1"`
	Temperature *float64 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=2"`
	Stream      bool     `json:"stream,omitempty"`
}

// ClassifyRequest asks for the intent of a query. A missing query classifies
// as "simple".
type ClassifyRequest struct {
	Query string `json:"query"`
}

// CostRequest prices a token count for a model.
type CostRequest struct {
	Model  string `json:"model" binding:"required"`
	Tokens int    `json:"tokens" binding:"gte=0"`
}

// AutoModel selects routing by intent.
const AutoModel = "auto"

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
)
