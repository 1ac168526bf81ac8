package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-travel-recommendations/app/breaker"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

const DefaultOpenAIModel = openai.GPT3Dot5Turbo

type OpenAIConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// OpenAIClient generates text with the chat completions API in JSON-object
// mode, so its output is always a bare JSON object.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	breaker *breaker.Breaker
	logger  *slog.Logger
}

var _ Generator = (*OpenAIClient)(nil)

func NewOpenAIClient(cfg OpenAIConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is not configured")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(oc),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(limit, 1),
		breaker: breaker.New("openai", breaker.DefaultSettings(), logger),
		logger:  logger,
	}, nil
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) StrictJSON() bool { return true }

func (c *OpenAIClient) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	ctx, span := otel.Tracer("OpenAIClient").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("llm.provider", c.Name()),
		attribute.String("llm.model", c.model),
	))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: openai rate limiter: %v", types.ErrUpstream, err)
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if cfg.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: cfg.SystemInstruction})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: cfg.Temperature,
	}
	if cfg.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	start := time.Now()
	text, err := breaker.Execute(c.breaker, func() (string, error) {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("%w: openai: %v", types.ErrUpstream, err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: openai returned no choices", types.ErrUpstream)
		}
		text := strings.TrimSpace(resp.Choices[0].Message.Content)
		if text == "" {
			return "", fmt.Errorf("%w: openai returned an empty response", types.ErrUpstream)
		}
		return text, nil
	})
	observe(ctx, c.Name(), start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		c.logger.WarnContext(ctx, "OpenAI generation failed", slog.Any("error", err))
		return "", err
	}
	span.SetAttributes(attribute.Int("llm.response_length", len(text)))
	return text, nil
}
