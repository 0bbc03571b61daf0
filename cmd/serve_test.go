package main

import (
	"context"
	"net"
	"testing"

	"hydration_monitor/internal/config"
	"hydration_monitor/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServe_BrokerUnreachableStartsNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the MQTT connect timeout")
	}

	cfg := config.Default()
	cfg.Port = freeAddr(t)
	cfg.DB.DSN = "file:" + t.Name() + "?mode=memory&cache=shared"
	cfg.MQTT.Broker = "tcp://127.0.0.1:1"

	err := serve(context.Background(), cfg, logger.Nop())
	require.Error(t, err)

	// the HTTP server never bound its port
	l, err := net.Listen("tcp", cfg.Port)
	require.NoError(t, err)
	assert.NoError(t, l.Close())
}
