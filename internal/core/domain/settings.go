package domain

// AIProvider identifies a completion backend
type AIProvider string

const (
	AIProviderOpenAI     AIProvider = "openai"
	AIProviderOpenRouter AIProvider = "openrouter"
)

// LLMSettings configures the completion service. Fixed at process start.
type LLMSettings struct {
	Provider AIProvider `json:"provider"`
	APIKey   string     `json:"api_key"`
	Model    string     `json:"model"`
	BaseURL  string     `json:"base_url,omitempty"`
}

// IsConfigured reports whether the settings are usable
func (s *LLMSettings) IsConfigured() bool {
	return s != nil && s.Provider != "" && s.Model != ""
}
