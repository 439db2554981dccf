package natsutil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout", nats.ErrTimeout, true},
		{"wrapped no servers", fmt.Errorf("get key: %w", nats.ErrNoServers), true},
		{"connection closed", nats.ErrConnectionClosed, true},
		{"no stream response", jetstream.ErrNoStreamResponse, true},
		{"refused text", errors.New("dial tcp 127.0.0.1:4222: connection refused"), true},
		{"key not found", jetstream.ErrKeyNotFound, false},
		{"context canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsConnectivityError(tt.err))
		})
	}
}
