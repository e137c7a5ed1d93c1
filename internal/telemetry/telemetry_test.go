package telemetry

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitWithoutEndpoint(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	p, err := Init(context.Background(), Config{ServiceName: "ai-services-test"}, log)
	require.NoError(t, err)
	defer func() { assert.NoError(t, p.Shutdown(context.Background())) }()

	counter, err := p.AppMeter().Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestSplitEndpoint(t *testing.T) {
	host, insecure, err := splitEndpoint("collector:4318")
	require.NoError(t, err)
	assert.Equal(t, "collector:4318", host)
	assert.True(t, insecure)

	host, insecure, err = splitEndpoint("https://otel.example.com:4318")
	require.NoError(t, err)
	assert.Equal(t, "otel.example.com:4318", host)
	assert.False(t, insecure)

	_, _, err = splitEndpoint("http://")
	assert.Error(t, err)
}
