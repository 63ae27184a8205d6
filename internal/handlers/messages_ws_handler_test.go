package handlers_test

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"teslo/internal/app"
	"teslo/internal/presence"
	"teslo/internal/services"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type wsEnv struct {
	*testEnv
	addr string
}

// startServer serves the application on a random local port.
func startServer(t *testing.T) *wsEnv {
	t.Helper()
	env := setupApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = env.app.Listener(ln) }()
	t.Cleanup(func() { _ = env.app.ShutdownWithTimeout(time.Second) })

	return &wsEnv{testEnv: env, addr: ln.Addr().String()}
}

func dial(t *testing.T, addr, token string) *websocket.Conn {
	t.Helper()
	header := http.Header{}
	header.Set("authentication", token)
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readEvent reads frames until one named event arrives.
func readEvent(t *testing.T, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Event == event {
			return f.Data
		}
	}
}

func TestMessagesWs_PresenceAndChat(t *testing.T) {
	srv := startServer(t)
	aliceToken := srv.login(t, "alice@example.com")
	bobToken := srv.login(t, "bob@example.com")

	alice := dial(t, srv.addr, aliceToken)
	var ids []string
	require.NoError(t, json.Unmarshal(readEvent(t, alice, presence.EventClientsUpdated), &ids))
	assert.Len(t, ids, 1)

	bob := dial(t, srv.addr, bobToken)
	require.NoError(t, json.Unmarshal(readEvent(t, bob, presence.EventClientsUpdated), &ids))
	assert.Len(t, ids, 2)
	require.NoError(t, json.Unmarshal(readEvent(t, alice, presence.EventClientsUpdated), &ids))
	assert.Len(t, ids, 2)

	require.NoError(t, alice.WriteJSON(map[string]interface{}{
		"event": presence.EventMessageFromClient,
		"data":  map[string]string{"message": "hello"},
	}))
	for _, conn := range []*websocket.Conn{alice, bob} {
		var msg presence.ChatMessage
		require.NoError(t, json.Unmarshal(readEvent(t, conn, presence.EventMessageFromServer), &msg))
		assert.Equal(t, presence.ChatMessage{FullName: "Test User", Message: "hello"}, msg)
	}

	// An empty message still goes out
	require.NoError(t, bob.WriteJSON(map[string]interface{}{"event": presence.EventMessageFromClient, "data": map[string]string{}}))
	var msg presence.ChatMessage
	require.NoError(t, json.Unmarshal(readEvent(t, alice, presence.EventMessageFromServer), &msg))
	assert.Equal(t, "no message!!", msg.Message)

	// Leaving is announced to the others
	require.NoError(t, bob.Close())
	require.NoError(t, json.Unmarshal(readEvent(t, alice, presence.EventClientsUpdated), &ids))
	assert.Len(t, ids, 1)
}

func TestMessagesWs_RejectsInvalidToken(t *testing.T) {
	srv := startServer(t)

	conn := dial(t, srv.addr, "not-a-token")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Empty(t, srv.registry.ConnectedClients())
}

func TestMessagesWs_ReconnectReplacesConnection(t *testing.T) {
	srv := startServer(t)
	token := srv.login(t, "alice@example.com")

	first := dial(t, srv.addr, token)
	readEvent(t, first, presence.EventClientsUpdated)

	second := dial(t, srv.addr, token)
	var ids []string
	require.NoError(t, json.Unmarshal(readEvent(t, second, presence.EventClientsUpdated), &ids))
	assert.Len(t, ids, 1)

	// The first connection is closed by the server
	require.NoError(t, first.SetReadDeadline(time.Now().Add(5*time.Second)))
	var err error
	for err == nil {
		_, _, err = first.ReadMessage()
	}
	var netErr net.Error
	assert.False(t, errors.As(err, &netErr) && netErr.Timeout(), "connection should be closed, not timed out")
}

func TestCatalogRelay(t *testing.T) {
	srv := startServer(t)
	token := srv.login(t, "alice@example.com")
	conn := dial(t, srv.addr, token)
	readEvent(t, conn, presence.EventClientsUpdated)

	relay := app.CatalogRelay(srv.registry)
	require.NoError(t, relay(services.EventProductCreated, []byte(`{"event":"product.created","productId":"p1"}`)))
	assert.Error(t, relay(services.EventProductCreated, []byte("not json")))

	var event services.CatalogEvent
	require.NoError(t, json.Unmarshal(readEvent(t, conn, presence.EventCatalogUpdated), &event))
	assert.Equal(t, "p1", event.ProductID)
}
