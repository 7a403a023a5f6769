package relay

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pulselabs/community-pulse-go/internal/util"
	"go.uber.org/zap"
)

type EventCallback func(event *Event)

type StateCallback func(state WebSocketState)

type callbackEntry struct {
	id       int
	callback EventCallback
}

type stateCallbackEntry struct {
	id       int
	callback StateCallback
}

// WebSocket is the streaming side of the relay: it delivers anonymized
// activity events and reconnects with a bounded retry budget.
type WebSocket struct {
	wsURL string

	// connMu guards conn and reconnectAttempts, which Connect, listen
	// and Disconnect all touch from different goroutines.
	connMu            sync.Mutex
	conn              *websocket.Conn
	reconnectAttempts int

	state                WebSocketState
	stateMu              sync.RWMutex
	eventCallbacks       []callbackEntry
	stateCallbacks       []stateCallbackEntry
	nextCallbackID       int
	callbacksMu          sync.RWMutex
	maxReconnectAttempts int
	reconnectDelay       time.Duration
	logger               *zap.Logger
	stopCh               chan struct{}
	stopOnce             sync.Once
	listenerWg           sync.WaitGroup
}

func NewWebSocket(wsURL string, maxReconnectAttempts int, reconnectDelay time.Duration, logger *zap.Logger) *WebSocket {
	return &WebSocket{
		wsURL:                wsURL,
		state:                WSStateDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		reconnectDelay:       reconnectDelay,
		logger:               logger,
		stopCh:               make(chan struct{}),
		eventCallbacks:       make([]callbackEntry, 0),
		stateCallbacks:       make([]stateCallbackEntry, 0),
		nextCallbackID:       1,
	}
}

func (ws *WebSocket) Connect(ctx context.Context) error {
	ws.stateMu.Lock()
	if ws.state == WSStateConnected || ws.state == WSStateConnecting {
		ws.stateMu.Unlock()
		ws.logger.Warn("WebSocket already connected or connecting")
		return nil
	}
	ws.stateMu.Unlock()

	ws.setState(WSStateConnecting)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, ws.wsURL, nil)
	if err != nil {
		ws.logger.Error("Failed to connect WebSocket", zap.Error(err))
		ws.setState(WSStateFailed)
		ws.scheduleReconnect(ctx)
		return err
	}

	ws.connMu.Lock()
	ws.conn = conn
	ws.reconnectAttempts = 0
	ws.connMu.Unlock()
	ws.setState(WSStateConnected)

	ws.logger.Info("WebSocket connected", zap.String("url", ws.wsURL))

	ws.listenerWg.Add(1)
	go ws.listen(ctx)

	return nil
}

func (ws *WebSocket) listen(ctx context.Context) {
	defer ws.listenerWg.Done()
	defer ws.logger.Info("WebSocket listener stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ws.stopCh:
			return
		default:
			ws.connMu.Lock()
			conn := ws.conn
			ws.connMu.Unlock()
			if conn == nil {
				return
			}

			_, msgBytes, err := conn.ReadMessage()
			if err != nil {
				// A read error after Disconnect is just the closed
				// socket; don't reconnect on it.
				select {
				case <-ws.stopCh:
					return
				default:
				}
				ws.logger.Error("WebSocket read error", zap.Error(err))
				ws.setState(WSStateDisconnected)
				ws.scheduleReconnect(ctx)
				return
			}

			ws.handleEvent(msgBytes)
		}
	}
}

func (ws *WebSocket) handleEvent(data []byte) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		ws.logger.Error("Failed to parse event",
			zap.Error(err),
			zap.String("data", util.TruncateString(string(data), 200)),
		)
		return
	}

	ws.callbacksMu.RLock()
	callbacks := make([]callbackEntry, len(ws.eventCallbacks))
	copy(callbacks, ws.eventCallbacks)
	ws.callbacksMu.RUnlock()

	for _, entry := range callbacks {
		entry.callback(&event)
	}
}

func (ws *WebSocket) scheduleReconnect(ctx context.Context) {
	ws.connMu.Lock()
	ws.reconnectAttempts++
	attempts := ws.reconnectAttempts
	ws.connMu.Unlock()

	if attempts > ws.maxReconnectAttempts {
		ws.logger.Error("Max reconnect attempts reached",
			zap.Int("attempts", attempts),
		)
		ws.setState(WSStateFailed)
		return
	}

	ws.setState(WSStateReconnecting)

	ws.logger.Info("Scheduling reconnect",
		zap.Int("attempt", attempts),
		zap.Int("max", ws.maxReconnectAttempts),
		zap.Duration("delay", ws.reconnectDelay),
	)

	go func() {
		select {
		case <-time.After(ws.reconnectDelay):
			if err := ws.Connect(ctx); err != nil {
				ws.logger.Error("Reconnect failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}()
}

// OnEvent registers a callback for incoming events and returns an
// unsubscribe func.
func (ws *WebSocket) OnEvent(callback EventCallback) func() {
	ws.callbacksMu.Lock()
	id := ws.nextCallbackID
	ws.nextCallbackID++
	ws.eventCallbacks = append(ws.eventCallbacks, callbackEntry{
		id:       id,
		callback: callback,
	})
	ws.callbacksMu.Unlock()

	return func() {
		ws.callbacksMu.Lock()
		defer ws.callbacksMu.Unlock()
		for i, entry := range ws.eventCallbacks {
			if entry.id == id {
				ws.eventCallbacks = append(ws.eventCallbacks[:i], ws.eventCallbacks[i+1:]...)
				break
			}
		}
	}
}

func (ws *WebSocket) OnStateChange(callback StateCallback) func() {
	ws.callbacksMu.Lock()
	id := ws.nextCallbackID
	ws.nextCallbackID++
	ws.stateCallbacks = append(ws.stateCallbacks, stateCallbackEntry{
		id:       id,
		callback: callback,
	})
	ws.callbacksMu.Unlock()

	return func() {
		ws.callbacksMu.Lock()
		defer ws.callbacksMu.Unlock()
		for i, entry := range ws.stateCallbacks {
			if entry.id == id {
				ws.stateCallbacks = append(ws.stateCallbacks[:i], ws.stateCallbacks[i+1:]...)
				break
			}
		}
	}
}

func (ws *WebSocket) setState(newState WebSocketState) {
	ws.stateMu.Lock()
	oldState := ws.state
	ws.state = newState
	ws.stateMu.Unlock()

	if oldState != newState {
		ws.logger.Info("WebSocket state changed",
			zap.String("from", oldState.String()),
			zap.String("to", newState.String()),
		)

		ws.callbacksMu.RLock()
		callbacks := make([]stateCallbackEntry, len(ws.stateCallbacks))
		copy(callbacks, ws.stateCallbacks)
		ws.callbacksMu.RUnlock()

		for _, entry := range callbacks {
			entry.callback(newState)
		}
	}
}

func (ws *WebSocket) GetState() WebSocketState {
	ws.stateMu.RLock()
	defer ws.stateMu.RUnlock()
	return ws.state
}

func (ws *WebSocket) IsConnected() bool {
	return ws.GetState() == WSStateConnected
}

func (ws *WebSocket) Disconnect() error {
	ws.stopOnce.Do(func() {
		close(ws.stopCh)
	})

	ws.connMu.Lock()
	conn := ws.conn
	ws.conn = nil
	ws.reconnectAttempts = 0
	ws.connMu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			ws.logger.Error("Failed to close WebSocket", zap.Error(err))
			return err
		}
	}

	ws.setState(WSStateDisconnected)
	ws.logger.Info("WebSocket disconnected")

	done := make(chan struct{})
	go func() {
		ws.listenerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		ws.logger.Info("Listener stopped cleanly")
	case <-time.After(5 * time.Second):
		ws.logger.Warn("Timeout waiting for listener to stop")
	}

	return nil
}
