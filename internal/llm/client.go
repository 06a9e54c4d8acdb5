package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.groq.com/openai/v1"

var (
	ErrMissingAPIKey = errors.New("LLM_API_KEY is not set")
	ErrEmptyResponse = errors.New("llm empty response")
)

// Request es una completion de un solo turno: instruccion de sistema y mensaje de usuario.
type Request struct {
	System      string
	User        string
	Temperature float32
	// JSON activa el modo json_object del proveedor.
	JSON bool
}

// LLMClient define la interfaz para generar respuestas con un LLM.
type LLMClient interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// OpenAIClient implementa LLMClient contra una API compatible con OpenAI (Groq por defecto).
type OpenAIClient struct {
	client *openai.Client
	apiKey string
	model  string
	logger *zap.Logger
}

// NewOpenAIClient construye el cliente; una apiKey vacia no es error hasta la primera llamada.
func NewOpenAIClient(baseURL, apiKey, model string, logger *zap.Logger) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		apiKey: apiKey,
		model:  model,
		logger: logger,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, r Request) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", ErrMissingAPIKey
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if r.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: r.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: r.User})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: r.Temperature,
	}
	if r.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Warn("llm api error", zap.Int("status", apiErr.HTTPStatusCode), zap.String("message", apiErr.Message))
			return "", fmt.Errorf("llm http error: status=%d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			c.logger.Warn("llm request error", zap.Int("status", reqErr.HTTPStatusCode), zap.Error(reqErr.Err))
			return "", fmt.Errorf("llm http error: status=%d: %w", reqErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
