// Package llm wraps an OpenAI-compatible chat endpoint (Ollama by default) for token analysis.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const analystPrompt = `You are a cautious Solana token analyst working on devnet.
Given token metadata, supply and market data as JSON, reply with a short plain-text
assessment: what the token is, liquidity and volume red flags, and a risk level of
LOW, MEDIUM or HIGH on the last line.`

// ErrEmptyResponse is returned when the model produced no choices.
var ErrEmptyResponse = errors.New("no response from LLM")

// Client sends chat completions to an OpenAI-compatible server.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewClient points go-openai at baseURL, authenticating with apiKey.
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   600,
		temperature: 0.1,
	}
}

// Chat runs a single system+user exchange and returns the first choice.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// AnalyzeToken asks the model for a risk assessment of token, which is sent as JSON.
func (c *Client) AnalyzeToken(ctx context.Context, token any) (string, error) {
	payload, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal token: %w", err)
	}
	return c.Chat(ctx, analystPrompt, string(payload))
}
