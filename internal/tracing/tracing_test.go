package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitTracingWithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	tracer, shutdown, err := InitTracing(ctx, "loanfolio-test", "", zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, tracer)

	_, span := tracer.Start(ctx, "schedule")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(ctx))
}
