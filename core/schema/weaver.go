package schema

// APIError provides error information returned to API clients.
type APIError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

type ErrorResponse struct {
	Error *APIError `json:"error,omitempty"`
}

// GenerationRequest is the form payload accepted by POST /generate.
type GenerationRequest struct {
	Prompt string `json:"prompt" form:"prompt"`
	Steps  int    `json:"steps" form:"steps"`
	Seed   int64  `json:"seed" form:"seed"`
}

// GenerationResponse is returned by POST /generate. Seed and Steps carry
// the values actually used for sampling, which may differ from the
// request (sentinel seed resolution, step clamping).
type GenerationResponse struct {
	Success        bool   `json:"success"`
	Image          string `json:"image,omitempty"`
	Seed           int64  `json:"seed"`
	Steps          int    `json:"steps"`
	OriginalPrompt string `json:"original_prompt,omitempty"`
	EnhancedPrompt string `json:"enhanced_prompt,omitempty"`
	URL            string `json:"url,omitempty"`
	Error          string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// PreviewResponse is returned by GET /default-preview. Image is null
// when the bundled preview asset is missing.
type PreviewResponse struct {
	Prompt string  `json:"prompt"`
	Image  *string `json:"image"`
}
