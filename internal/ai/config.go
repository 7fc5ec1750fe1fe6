package ai

const (
	DefaultModel   = "gpt-3.5-turbo"
	DefaultBaseURL = "https://api.openai.com/v1"
)

// Config is handed to every service constructor. An empty APIKey is allowed at
// construction time and reported as ErrMissingCredential on first use.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

func (c Config) model() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

func (c Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

func (c Config) hasCredential() bool {
	return c.APIKey != ""
}
