package tracing_test

import (
	"context"
	"testing"

	"github.com/Astemirdum/library-circulation/pkg/tracing"
	"github.com/stretchr/testify/require"
)

func TestInitProvider_Disabled(t *testing.T) {
	shutdown, err := tracing.InitProvider(context.Background(), tracing.Config{}, "circulation")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitProvider_Enabled(t *testing.T) {
	// the exporter connects lazily, so no collector is needed here
	shutdown, err := tracing.InitProvider(context.Background(), tracing.Config{
		Endpoint:    "localhost:4318",
		Insecure:    true,
		SampleRatio: 1,
	}, "circulation")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
}
