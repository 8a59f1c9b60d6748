package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	LogLevel       string
	Debug          bool
	ServiceName    string
	Environment    string
	Hostname       string
	ServerPort     string
	APIPrefix      string
	AllowedOrigins []string
	DatabaseURL    string

	LLM LLMConfig
}

// LLMConfig selects the chat model backend and carries its credentials.
type LLMConfig struct {
	Provider    string
	Timeout     time.Duration
	Temperature float32

	AzureEndpoint        string
	AzureDeployment      string
	AzureAPIKey          string
	AzureAPIVersion      string
	AzureSubscriptionKey string
	AzureTenantID        string
	AzureClientID        string
	AzureClientSecret    string
	AzureScope           string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	GeminiAPIKeys []string
	GeminiModel   string
}

// UsesAzureAD reports whether bearer tokens should be fetched from Azure AD.
func (c LLMConfig) UsesAzureAD() bool {
	return c.AzureTenantID != "" && c.AzureClientID != "" && c.AzureClientSecret != ""
}

func LoadConfig() (*Config, error) {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8000"
	}

	allowedOrigins := splitList(os.Getenv("ALLOWED_ORIGINS"))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173"}
	}
	if err := validateOrigins(allowedOrigins); err != nil {
		return nil, err
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "crm-assistant"
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "crm-assistant"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	apiPrefix := strings.TrimRight(strings.TrimSpace(os.Getenv("API_PREFIX")), "/")
	if apiPrefix != "" && !strings.HasPrefix(apiPrefix, "/") {
		apiPrefix = "/" + apiPrefix
	}

	llmCfg, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		LogLevel:       logLevel,
		Debug:          os.Getenv("DEBUG") == "true",
		ServiceName:    serviceName,
		Environment:    environment,
		Hostname:       hostname,
		ServerPort:     serverPort,
		APIPrefix:      apiPrefix,
		AllowedOrigins: allowedOrigins,
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LLM:            llmCfg,
	}, nil
}

func loadLLMConfig() (LLMConfig, error) {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		provider = ProviderAzure
	}

	timeout := 30 * time.Second
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			return LLMConfig{}, errors.New("LLM_TIMEOUT must be a positive duration")
		}
		timeout = parsed
	}

	var temperature float32 = 0.7
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		parsed, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return LLMConfig{}, errors.New("LLM_TEMPERATURE must be a number")
		}
		temperature = float32(parsed)
	}

	cfg := LLMConfig{
		Provider:             provider,
		Timeout:              timeout,
		Temperature:          temperature,
		AzureEndpoint:        strings.TrimSpace(os.Getenv("AZURE_OPENAI_ENDPOINT")),
		AzureDeployment:      envOr("AZURE_OPENAI_DEPLOYMENT", "gpt-4o"),
		AzureAPIVersion:      envOr("AZURE_OPENAI_API_VERSION", "2025-01-01-preview"),
		AzureAPIKey:          strings.TrimSpace(os.Getenv("AZURE_OPENAI_API_KEY")),
		AzureSubscriptionKey: strings.TrimSpace(os.Getenv("AZURE_SUBSCRIPTION_KEY")),
		AzureTenantID:        strings.TrimSpace(os.Getenv("AZURE_TENANT_ID")),
		AzureClientID:        strings.TrimSpace(os.Getenv("AZURE_CLIENT_ID")),
		AzureClientSecret:    strings.TrimSpace(os.Getenv("AZURE_CLIENT_SECRET")),
		AzureScope:           strings.TrimSpace(os.Getenv("AZURE_SCOPE")),
		OpenAIAPIKey:         strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:        strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		OpenAIModel:          envOr("OPENAI_MODEL", "gpt-4o"),
		GeminiAPIKeys:        splitList(os.Getenv("GEMINI_API_KEYS")),
		GeminiModel:          envOr("GEMINI_MODEL", "gemini-2.0-flash-lite"),
	}

	switch cfg.Provider {
	case ProviderAzure:
		if cfg.AzureEndpoint == "" {
			return LLMConfig{}, errors.New("AZURE_OPENAI_ENDPOINT is required for the azure provider")
		}
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return LLMConfig{}, errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if len(cfg.GeminiAPIKeys) == 0 {
			return LLMConfig{}, errors.New("GEMINI_API_KEYS is required for the gemini provider")
		}
	default:
		return LLMConfig{}, errors.New("LLM_PROVIDER must be one of azure, openai, gemini")
	}

	return cfg, nil
}

// validateOrigins accepts "*" or absolute http(s) origins.
func validateOrigins(origins []string) error {
	for _, o := range origins {
		if o == "*" || strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://") {
			continue
		}
		return fmt.Errorf("ALLOWED_ORIGINS entry %q must be * or start with http:// or https://", o)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// splitList splits a comma-separated value and drops blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
