package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answers without any content.
var ErrEmptyResponse = errors.New("model returned an empty response")

const (
	DefaultMaxTokens   = 4000
	DefaultTemperature = float32(0.3)
)

// GenerationOptions bound a single completion.
type GenerationOptions struct {
	MaxTokens   int
	Temperature float32
}

func (o GenerationOptions) withDefaults() GenerationOptions {
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature < 0 {
		o.Temperature = DefaultTemperature
	}
	return o
}

type ClaudeModelOptions struct {
	Model    string
	Thinking bool
	GenerationOptions
}

type OpenAIModelOptions struct {
	Model           string
	ReasoningEffort string
	GenerationOptions
}

type GeminiModelOptions struct {
	Model    string
	Thinking bool
	GenerationOptions
}

// LLMClient is a provider-agnostic handle on a chat model.
type LLMClient struct {
	chatModel  model.BaseChatModel
	providerID string
	modelName  string
}

// NewLLMClient wraps an already constructed chat model.
func NewLLMClient(providerID, modelName string, chatModel model.BaseChatModel) (*LLMClient, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}
	return &LLMClient{chatModel: chatModel, providerID: providerID, modelName: modelName}, nil
}

func NewClaudeClient(ctx context.Context, key string, opts ClaudeModelOptions) (*LLMClient, error) {
	gen := opts.GenerationOptions.withDefaults()
	cfg := &claude.Config{
		APIKey:    key,
		Model:     opts.Model,
		MaxTokens: gen.MaxTokens,
	}
	if opts.Thinking {
		// Extended thinking rejects custom temperatures.
		cfg.Thinking = &claude.Thinking{Enable: true, BudgetTokens: 1024}
	} else {
		temp := gen.Temperature
		cfg.Temperature = &temp
	}

	chatModel, err := claude.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create claude chat model: %w", err)
	}
	return NewLLMClient("anthropic", opts.Model, chatModel)
}

func NewOpenAIClient(ctx context.Context, key string, opts OpenAIModelOptions) (*LLMClient, error) {
	gen := opts.GenerationOptions.withDefaults()
	maxTokens := gen.MaxTokens
	cfg := &openai.ChatModelConfig{
		APIKey: key,
		Model:  opts.Model,
	}
	if effort := strings.TrimSpace(opts.ReasoningEffort); effort != "" {
		// Reasoning models only accept max_completion_tokens and the default temperature.
		cfg.ReasoningEffort = openai.ReasoningEffortLevel(effort)
		cfg.MaxCompletionTokens = &maxTokens
	} else {
		temp := gen.Temperature
		cfg.MaxTokens = &maxTokens
		cfg.Temperature = &temp
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return NewLLMClient("openai", opts.Model, chatModel)
}

func NewGeminiClient(ctx context.Context, key string, opts GeminiModelOptions) (*LLMClient, error) {
	gen := opts.GenerationOptions.withDefaults()
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	maxTokens := gen.MaxTokens
	temp := gen.Temperature
	cfg := &gemini.Config{
		Client:      genaiClient,
		Model:       opts.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temp,
	}
	if opts.Thinking {
		cfg.ThinkingConfig = &genai.ThinkingConfig{IncludeThoughts: false}
	}

	chatModel, err := gemini.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini chat model: %w", err)
	}
	return NewLLMClient("gemini", opts.Model, chatModel)
}

// Provider returns the provider identifier the client was built for.
func (c *LLMClient) Provider() string { return c.providerID }

// ModelName returns the provider-side model name.
func (c *LLMClient) ModelName() string { return c.modelName }

// Generate sends prompt as a single user turn and returns the text answer.
func (c *LLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.chatModel == nil {
		return "", fmt.Errorf("llm client not initialized")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	msg, err := c.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", c.providerID, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", ErrEmptyResponse
	}
	return msg.Content, nil
}
