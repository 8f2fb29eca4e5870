package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	geminiEmbed "github.com/cloudwego/eino-ext/components/embedding/gemini"
	ollamaEmbed "github.com/cloudwego/eino-ext/components/embedding/ollama"
	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// CloseableChatModel wraps a chat model with optional cleanup. Call Close()
// when done to release resources (required for the Gemini-backed Custom
// provider).
type CloseableChatModel struct {
	model.BaseChatModel
	closer io.Closer
}

// Close releases underlying resources. Safe to call multiple times.
func (c *CloseableChatModel) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// CloseableEmbedder wraps an embedder with optional cleanup.
type CloseableEmbedder struct {
	embedding.Embedder
	closer io.Closer
}

// Close releases underlying resources. Safe to call multiple times.
func (c *CloseableEmbedder) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

type genaiClientCloser struct {
	client *genai.Client
}

func (g *genaiClientCloser) Close() error {
	g.client = nil
	return nil
}

func apiKey(cfg ProviderConfig) (string, error) {
	if cfg.APIKeyEnv == "" {
		return "", nil
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return "", &ProviderKeyError{Provider: cfg.Name, EnvVar: cfg.APIKeyEnv}
	}
	return key, nil
}

// ProviderKeyError reports a missing API key environment variable. Its
// message names the env var so the CLI can surface a remediation hint
// without ever printing the key itself.
type ProviderKeyError struct {
	Provider string
	EnvVar   string
}

func (e *ProviderKeyError) Error() string {
	return fmt.Sprintf("provider %s: environment variable %s is not set", e.Provider, e.EnvVar)
}

func newOpenAICompatibleChatModel(ctx context.Context, cfg ProviderConfig, model_ string) (*CloseableChatModel, error) {
	key, err := apiKey(cfg)
	if err != nil {
		return nil, err
	}
	chatCfg := &openai.ChatModelConfig{
		Model:   model_,
		APIKey:  key,
		Timeout: cfg.Timeout(),
	}
	if cfg.BaseURL != "" {
		chatCfg.BaseURL = cfg.BaseURL
	}
	m, err := openai.NewChatModel(ctx, chatCfg)
	if err != nil {
		return nil, &ProviderError{Provider: cfg.Name, Message: "create chat model", Cause: err}
	}
	return &CloseableChatModel{BaseChatModel: m}, nil
}

// ProviderError mirrors domain.ProviderError's shape for llm-package errors
// raised before a domain.Task is available to attach them to.
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Message, e.Cause)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// NewChatModel constructs a chat model for the given provider config and
// model name. Mistral and Groq speak the OpenAI-compatible chat-completions
// shape, reusing the same helper with a provider-specific BaseURL. Custom
// is wired onto the Gemini eino-ext adapter as the worked example of an
// open-ended provider extension point.
func NewChatModel(ctx context.Context, cfg ProviderConfig, model_ string) (*CloseableChatModel, error) {
	switch cfg.Type {
	case ProviderOpenAI, ProviderMistral, ProviderGroq:
		return newOpenAICompatibleChatModel(ctx, cfg, model_)

	case ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		m, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   model_,
			Timeout: cfg.Timeout(),
		})
		if err != nil {
			return nil, &ProviderError{Provider: cfg.Name, Message: "create chat model", Cause: err}
		}
		return &CloseableChatModel{BaseChatModel: m}, nil

	case ProviderAnthropic:
		key, err := apiKey(cfg)
		if err != nil {
			return nil, err
		}
		claudeCfg := &claude.Config{APIKey: key, Model: model_}
		if t := cfg.Timeout(); t > 0 {
			claudeCfg.HTTPClient = &http.Client{Timeout: t}
		}
		m, err := claude.NewChatModel(ctx, claudeCfg)
		if err != nil {
			return nil, &ProviderError{Provider: cfg.Name, Message: "create chat model", Cause: err}
		}
		return &CloseableChatModel{BaseChatModel: m}, nil

	case ProviderCustom:
		key, err := apiKey(cfg)
		if err != nil {
			return nil, err
		}
		var httpClient *http.Client
		if t := cfg.Timeout(); t > 0 {
			httpClient = &http.Client{Timeout: t}
		}
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     key,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, &ProviderError{Provider: cfg.Name, Message: "create genai client", Cause: err}
		}
		m, err := gemini.NewChatModel(ctx, &gemini.Config{Client: genaiClient, Model: model_})
		if err != nil {
			return nil, &ProviderError{Provider: cfg.Name, Message: "create chat model", Cause: err}
		}
		return &CloseableChatModel{BaseChatModel: m, closer: &genaiClientCloser{client: genaiClient}}, nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Type)
	}
}

// NewEmbedder constructs an embedder for the given provider config.
func NewEmbedder(ctx context.Context, cfg ProviderConfig, model_ string) (*CloseableEmbedder, error) {
	switch cfg.Type {
	case ProviderOpenAI, ProviderMistral, ProviderGroq:
		key, err := apiKey(cfg)
		if err != nil {
			return nil, err
		}
		embCfg := &openaiEmbed.EmbeddingConfig{Model: model_, APIKey: key}
		if cfg.BaseURL != "" {
			embCfg.BaseURL = cfg.BaseURL
		}
		e, err := openaiEmbed.NewEmbedder(ctx, embCfg)
		if err != nil {
			return nil, &ProviderError{Provider: cfg.Name, Message: "create embedder", Cause: err}
		}
		return &CloseableEmbedder{Embedder: e}, nil

	case ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		e, err := ollamaEmbed.NewEmbedder(ctx, &ollamaEmbed.EmbeddingConfig{BaseURL: baseURL, Model: model_})
		if err != nil {
			return nil, &ProviderError{Provider: cfg.Name, Message: "create embedder", Cause: err}
		}
		return &CloseableEmbedder{Embedder: e}, nil

	case ProviderCustom:
		key, err := apiKey(cfg)
		if err != nil {
			return nil, err
		}
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key, Backend: genai.BackendGeminiAPI})
		if err != nil {
			return nil, &ProviderError{Provider: cfg.Name, Message: "create genai client", Cause: err}
		}
		e, err := geminiEmbed.NewEmbedder(ctx, &geminiEmbed.EmbeddingConfig{Client: genaiClient, Model: model_})
		if err != nil {
			return nil, &ProviderError{Provider: cfg.Name, Message: "create embedder", Cause: err}
		}
		return &CloseableEmbedder{Embedder: e, closer: &genaiClientCloser{client: genaiClient}}, nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Type)
	}
}

// defaultRequestTimeout mirrors the teacher's fallback when a provider
// config omits an explicit timeout.
const defaultRequestTimeout = 120 * time.Second
