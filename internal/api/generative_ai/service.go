package generativeAI

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-travel-recommendations/app/observability/metrics"
)

// GenerationConfig is the provider-neutral knob set for one generation.
type GenerationConfig struct {
	SystemInstruction string
	Temperature       float32
	// JSON asks the provider for a JSON object. Only providers whose
	// StrictJSON reports true guarantee it.
	JSON bool
}

// Generator turns a prompt into raw text.
type Generator interface {
	Name() string
	StrictJSON() bool
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)
}

func observe(ctx context.Context, provider string, start time.Time, err error) {
	m := metrics.Get()
	outcome := "success"
	if err != nil {
		outcome = "error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("op", "generate"),
		attribute.String("outcome", outcome),
	)
	m.ProviderRequestsTotal.Add(ctx, 1, attrs)
	m.ProviderDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
}
