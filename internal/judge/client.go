package judge

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultEndpointURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	DefaultModel       = "qwen-turbo"

	defaultTimeout     = 30 * time.Second
	defaultTemperature = 0.7

	chatCompletionsPath = "/chat/completions"
)

// AIConfig is the read-only configuration of the chat-completion endpoint.
// It is built once at start-up and passed by value.
type AIConfig struct {
	APIKey      string
	EndpointURL string
	Model       string
	Timeout     time.Duration
	Temperature float32
}

// DefaultAIConfig returns default configuration without credentials
func DefaultAIConfig() AIConfig {
	return AIConfig{
		EndpointURL: DefaultEndpointURL,
		Model:       DefaultModel,
		Timeout:     defaultTimeout,
		Temperature: defaultTemperature,
	}
}

// Configured reports whether the AI strategy can be attempted
func (c AIConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Completer sends one system + user prompt pair and returns the reply text
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ChatClient talks to an OpenAI-compatible chat-completion endpoint
type ChatClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewChatClient creates a client for config. Zero fields take defaults.
func NewChatClient(config AIConfig) *ChatClient {
	def := DefaultAIConfig()
	if config.EndpointURL == "" {
		config.EndpointURL = def.EndpointURL
	}
	if config.Model == "" {
		config.Model = def.Model
	}
	if config.Timeout == 0 {
		config.Timeout = def.Timeout
	}
	if config.Temperature == 0 {
		config.Temperature = def.Temperature
	}

	cc := openai.DefaultConfig(config.APIKey)
	cc.BaseURL = baseURL(config.EndpointURL)
	cc.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &ChatClient{
		client:      openai.NewClientWithConfig(cc),
		model:       config.Model,
		temperature: config.Temperature,
	}
}

// baseURL turns a full chat-completions URL into the API base the client
// appends paths to. URLs without the suffix are used as they are.
func baseURL(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	return strings.TrimSuffix(endpoint, chatCompletionsPath)
}

// Complete issues one request, without retries
func (c *ChatClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyReply
	}

	return resp.Choices[0].Message.Content, nil
}
