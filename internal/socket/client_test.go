package socket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-org/skillswap-backend/internal/logger"
)

func TestClientCloseIsIdempotent(t *testing.T) {
	log, err := logger.New("development")
	require.NoError(t, err)
	hub := NewHub(log)

	client := testClient(t, log, hub)
	hub.Subscribe(client, []string{FeedChannel})

	// both pump loops defer close on exit; the second call must be a no-op
	client.close()
	client.close()

	_, open := <-client.Outbound
	require.False(t, open)
	hub.BroadcastGlobal(context.Background(), Message{Channel: FeedChannel, Payload: "late"})
}

func TestClientDisconnectShutsDownBothLoops(t *testing.T) {
	log, err := logger.New("development")
	require.NoError(t, err)
	hub := NewHub(log)

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	loopsDone := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		client := NewClient(conn, hub, uuid.New(), cancel, log)
		hub.Subscribe(client, []string{UserChannel(client.ID), FeedChannel})

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); client.ReadLoop(ctx) }()
		go func() { defer wg.Done(); client.WriteLoop(ctx) }()
		wg.Wait()
		close(loopsDone)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	require.NoError(t, conn.Close())

	select {
	case <-loopsDone:
	case <-time.After(5 * time.Second):
		t.Fatal("pump loops did not shut down after client disconnect")
	}

	// the hub forgot the client; a broadcast after disconnect is harmless
	hub.BroadcastGlobal(context.Background(), Message{Channel: FeedChannel, Payload: "after"})
}
