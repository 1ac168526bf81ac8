package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-travel-recommendations/app/breaker"
	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

const DefaultGeminiModel = "gemini-2.0-flash"

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL overrides the Gemini endpoint; tests point it at httptest.
	BaseURL string
}

// AIClient generates text with Gemini. Its output is free text that may
// wrap JSON in prose or code fences.
type AIClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	breaker *breaker.Breaker
	logger  *slog.Logger
}

var _ Generator = (*AIClient)(nil)

func NewAIClient(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*AIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &AIClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		breaker: breaker.New("gemini", breaker.DefaultSettings(), logger),
		logger:  logger,
	}, nil
}

func (ai *AIClient) Name() string { return "gemini" }

func (ai *AIClient) StrictJSON() bool { return false }

func (ai *AIClient) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	ctx, span := otel.Tracer("GeminiClient").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("llm.provider", ai.Name()),
		attribute.String("llm.model", ai.model),
	))
	defer span.End()

	if ai.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ai.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](cfg.Temperature),
	}
	if cfg.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(cfg.SystemInstruction, genai.RoleUser)
	}

	start := time.Now()
	text, err := breaker.Execute(ai.breaker, func() (string, error) {
		result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
		if err != nil {
			return "", fmt.Errorf("%w: gemini: %v", types.ErrUpstream, err)
		}
		text := strings.TrimSpace(result.Text())
		if text == "" {
			return "", fmt.Errorf("%w: gemini returned an empty response", types.ErrUpstream)
		}
		return text, nil
	})
	observe(ctx, ai.Name(), start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		ai.logger.WarnContext(ctx, "Gemini generation failed", slog.Any("error", err))
		return "", err
	}
	span.SetAttributes(attribute.Int("llm.response_length", len(text)))
	return text, nil
}
