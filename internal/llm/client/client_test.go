package client

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply    *schema.Message
	err      error
	received []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.received = input
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestNewLLMClient_RequiresModel(t *testing.T) {
	_, err := NewLLMClient("anthropic", "claude", nil)
	assert.Error(t, err)
}

func TestGenerate_SendsSingleUserMessage(t *testing.T) {
	fake := &fakeChatModel{reply: schema.AssistantMessage("print('hi')", nil)}
	c, err := NewLLMClient("anthropic", "claude-sonnet-4-20250514", fake)
	require.NoError(t, err)

	out, err := c.Generate(context.Background(), "write code")
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", out)
	require.Len(t, fake.received, 1)
	assert.Equal(t, schema.User, fake.received[0].Role)
	assert.Equal(t, "write code", fake.received[0].Content)
}

func TestGenerate_EmptyReplyIsError(t *testing.T) {
	fake := &fakeChatModel{reply: schema.AssistantMessage("   ", nil)}
	c, err := NewLLMClient("openai", "gpt-4.1", fake)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "write code")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerate_WrapsProviderError(t *testing.T) {
	cause := errors.New("401 unauthorized")
	c, err := NewLLMClient("gemini", "gemini-2.5-pro", &fakeChatModel{err: cause})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "write code")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gemini generate")
}

func TestGenerate_RejectsBlankPrompt(t *testing.T) {
	c, err := NewLLMClient("openai", "gpt-4.1", &fakeChatModel{})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "\n\t")
	assert.Error(t, err)
}

func TestGenerationOptions_Defaults(t *testing.T) {
	got := GenerationOptions{Temperature: -1}.withDefaults()
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, DefaultTemperature, got.Temperature)
}
