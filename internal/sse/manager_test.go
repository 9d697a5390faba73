package sse

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestConnectDisconnect(t *testing.T) {
	m := newTestManager(t)

	client, err := m.Connect()
	require.NoError(t, err)
	assert.Equal(t, 1, m.ClientCount())

	m.Disconnect(client.ID)
	assert.Equal(t, 0, m.ClientCount())

	select {
	case <-client.Done:
	default:
		t.Fatal("Done channel not closed on disconnect")
	}
}

func TestPublishDeliversToClients(t *testing.T) {
	m := newTestManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	client, err := m.Connect()
	require.NoError(t, err)
	defer m.Disconnect(client.ID)

	m.Publish("record.imported", map[string]string{"id": "rec-1"})

	select {
	case event := <-client.EventChan:
		assert.Equal(t, EventRecordImported, event.Type)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(5 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestPublishAfterShutdownIsDropped(t *testing.T) {
	m := newTestManager(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))

	assert.NotPanics(t, func() {
		m.Publish("record.imported", nil)
	})
}

func TestShutdownClosesClients(t *testing.T) {
	m := newTestManager(t)

	client, err := m.Connect()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))

	select {
	case <-client.Done:
	case <-time.After(time.Second):
		t.Fatal("client not closed on shutdown")
	}
	assert.Equal(t, 0, m.ClientCount())
}
