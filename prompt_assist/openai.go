package prompt_assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// The generation backend exposes an OpenAI-compatible completions endpoint,
// so the official SDK talks to it with only a base URL override.
const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

const defaultModel = "gemini-2.5-flash"

const translateTemplate = `Translate the following text to English, returning only the translated text: "%s"`

const buildPromptTemplate = `Based on these keywords: "%s", create a detailed, creative, and well-structured image generation prompt. ` +
	`The prompt should be evocative and provide clear instructions for an AI image generator. Return only the generated prompt.`

type assistantImpl struct {
	model string
	opts  []option.RequestOption
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

func New(cfg Config) (Assistant, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing API key")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	}

	return &assistantImpl{
		model: cfg.Model,
		opts:  opts,
	}, nil
}

func (a *assistantImpl) Translate(ctx context.Context, text string) (string, error) {
	return a.complete(ctx, fmt.Sprintf(translateTemplate, text))
}

func (a *assistantImpl) BuildCreativePrompt(ctx context.Context, keywords string) (string, error) {
	return a.complete(ctx, fmt.Sprintf(buildPromptTemplate, keywords))
}

func (a *assistantImpl) complete(ctx context.Context, prompt string) (string, error) {
	client := openai.NewClient(a.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
