package llm

import (
	"context"
	"fmt"
	"net/http"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	acl "github.com/cloudwego/eino-ext/libs/acl/openai"
	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/Conversly/crm-assistant/internal/config"
	"github.com/Conversly/crm-assistant/internal/utils"
)

// placeholderAPIKey satisfies the client when auth is carried by BearerTransport.
const placeholderAPIKey = "unused"

type options struct {
	jsonOutput  bool
	temperature *float32
}

type Option func(*options)

// WithJSONOutput asks the backend for a JSON object response where supported.
func WithJSONOutput() Option {
	return func(o *options) { o.jsonOutput = true }
}

func WithTemperature(t float32) Option {
	return func(o *options) { o.temperature = &t }
}

// NewChatModel builds the chat model for cfg.Provider.
func NewChatModel(ctx context.Context, cfg config.LLMConfig, opts ...Option) (model.BaseChatModel, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	temperature := cfg.Temperature
	if o.temperature != nil {
		temperature = *o.temperature
	}

	switch cfg.Provider {
	case config.ProviderAzure:
		return newAzureModel(ctx, cfg, temperature, o.jsonOutput)
	case config.ProviderOpenAI:
		return newOpenAIModel(ctx, cfg, temperature, o.jsonOutput)
	case config.ProviderGemini:
		return NewMultiKeyChatModel(ctx, cfg.GeminiAPIKeys, cfg.GeminiModel, &temperature, nil)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

func newAzureModel(ctx context.Context, cfg config.LLMConfig, temperature float32, jsonOutput bool) (model.BaseChatModel, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	var tokens *TokenSource
	if cfg.UsesAzureAD() {
		tokens = NewAzureADTokenSource(cfg.AzureTenantID, cfg.AzureClientID, cfg.AzureClientSecret, cfg.AzureScope)
	}
	if tokens != nil || cfg.AzureSubscriptionKey != "" {
		httpClient.Transport = &BearerTransport{
			Tokens:          tokens,
			SubscriptionKey: cfg.AzureSubscriptionKey,
		}
	}

	apiKey := cfg.AzureAPIKey
	if apiKey == "" {
		apiKey = placeholderAPIKey
	}

	conf := &openaimodel.ChatModelConfig{
		ByAzure:     true,
		BaseURL:     cfg.AzureEndpoint,
		APIVersion:  cfg.AzureAPIVersion,
		APIKey:      apiKey,
		Model:       cfg.AzureDeployment,
		Temperature: &temperature,
		HTTPClient:  httpClient,
	}
	if jsonOutput {
		conf.ResponseFormat = jsonObjectFormat()
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure chat model: %w", err)
	}
	utils.Zlog.Info("Created Azure OpenAI chat model",
		zap.String("deployment", cfg.AzureDeployment),
		zap.Bool("azure_ad", tokens != nil),
		zap.Bool("json_output", jsonOutput))
	return m, nil
}

func newOpenAIModel(ctx context.Context, cfg config.LLMConfig, temperature float32, jsonOutput bool) (model.BaseChatModel, error) {
	conf := &openaimodel.ChatModelConfig{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: &temperature,
		Timeout:     cfg.Timeout,
	}
	if jsonOutput {
		conf.ResponseFormat = jsonObjectFormat()
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai chat model: %w", err)
	}
	utils.Zlog.Info("Created OpenAI chat model", zap.String("model", cfg.OpenAIModel))
	return m, nil
}

func jsonObjectFormat() *acl.ChatCompletionResponseFormat {
	return &acl.ChatCompletionResponseFormat{Type: acl.ChatCompletionResponseFormatTypeJSONObject}
}
