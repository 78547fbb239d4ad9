package metrics

import (
	"context"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestRegistryCountersIncrement(t *testing.T) {
	reg := NewRegistry()
	reg.FramesProcessed.Add(3)
	reg.EventsEmitted.Inc()

	var m dto.Metric
	require.NoError(t, reg.FramesProcessed.Write(&m))
	require.InDelta(t, 3, m.GetCounter().GetValue(), 0.0001)
}

func TestServerShutsDownOnContextCancel(t *testing.T) {
	reg := NewRegistry()
	srv := NewServer("127.0.0.1:0", reg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
