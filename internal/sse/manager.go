package sse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/campusgrid/timetable-server/internal/id"
)

// Client represents a connected SSE client.
type Client struct {
	ID          string
	ConnectedAt time.Time
	EventChan   chan Event
	Done        chan struct{}
}

// Manager manages SSE connections and broadcasts events.
type Manager struct {
	logger            *slog.Logger
	events            chan Event
	heartbeatInterval time.Duration
	wg                sync.WaitGroup

	mu      sync.RWMutex
	clients map[string]*Client

	shutdownMu sync.RWMutex
	shutdown   bool
}

// NewManager creates a new SSE Manager.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		clients:           make(map[string]*Client),
		events:            make(chan Event, 256),
		logger:            logger,
		heartbeatInterval: 30 * time.Second,
	}
}

// Start begins the event broadcasting loop.
// This should be called once at server startup in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	defer m.wg.Done()

	m.logger.Info("SSE manager starting")

	heartbeatTicker := time.NewTicker(m.heartbeatInterval)
	defer heartbeatTicker.Stop()

	for {
		select {
		case event := <-m.events:
			m.broadcast(event)

		case <-heartbeatTicker.C:
			m.broadcast(NewHeartbeatEvent())

		case <-ctx.Done():
			m.logger.Info("SSE manager stopping")
			m.closeAllClients()
			return
		}
	}
}

// Publish queues an event for broadcast. Events published after shutdown or
// when the queue is full are dropped.
func (m *Manager) Publish(event string, data any) {
	m.shutdownMu.RLock()
	defer m.shutdownMu.RUnlock()
	if m.shutdown {
		return
	}

	select {
	case m.events <- NewEvent(EventType(event), data):
	default:
		m.logger.Warn("SSE event queue full, dropping event", "event", event)
	}
}

// Connect registers a new client and returns it.
func (m *Manager) Connect() (*Client, error) {
	clientID, err := id.Generate("client")
	if err != nil {
		return nil, err
	}

	client := &Client{
		ID:          clientID,
		ConnectedAt: time.Now().UTC(),
		EventChan:   make(chan Event, 32),
		Done:        make(chan struct{}),
	}

	m.mu.Lock()
	m.clients[clientID] = client
	count := len(m.clients)
	m.mu.Unlock()

	m.logger.Debug("SSE client connected", "client_id", clientID, "total", count)
	return client, nil
}

// Disconnect removes a client.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	client, ok := m.clients[clientID]
	if ok {
		delete(m.clients, clientID)
	}
	count := len(m.clients)
	m.mu.Unlock()

	if ok {
		close(client.Done)
		m.logger.Debug("SSE client disconnected", "client_id", clientID, "total", count)
	}
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Shutdown gracefully shuts down the manager. It stops accepting new events,
// drains remaining events, and closes all clients.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("SSE manager shutdown initiated")

	// Mark as shutdown and close the channel atomically while holding the
	// lock; Publish holds the read lock during send.
	m.shutdownMu.Lock()
	m.shutdown = true
	close(m.events)
	m.shutdownMu.Unlock()

	done := make(chan struct{})
	go func() {
		for event := range m.events {
			m.broadcast(event)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("SSE event drain timeout, some events may be lost")
	}

	m.wg.Wait()
	m.closeAllClients()

	m.logger.Info("SSE manager shutdown complete")
	return nil
}

// broadcast delivers an event to every connected client. Slow clients have
// the event dropped rather than blocking the loop.
func (m *Manager) broadcast(event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, client := range m.clients {
		select {
		case client.EventChan <- event:
		default:
			m.logger.Debug("dropping event for slow client", "client_id", client.ID, "event", event.Type)
		}
	}
}

func (m *Manager) closeAllClients() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for clientID, client := range m.clients {
		close(client.Done)
		delete(m.clients, clientID)
	}
}
