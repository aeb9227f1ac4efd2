package socket

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-org/skillswap-backend/internal/logger"
)

func testClient(t *testing.T, log *logger.Logger, hub *Hub) *Client {
	t.Helper()
	return &Client{
		ID:       uuid.New(),
		Hub:      hub,
		Log:      log,
		Outbound: make(chan Message, OutboundChanBuffer),
	}
}

func TestHubBroadcastReachesSubscribers(t *testing.T) {
	log, err := logger.New("development")
	require.NoError(t, err)
	hub := NewHub(log)

	subscribed := testClient(t, log, hub)
	other := testClient(t, log, hub)
	hub.Subscribe(subscribed, []string{FeedChannel})
	hub.Subscribe(other, []string{UserChannel(other.ID)})

	hub.BroadcastGlobal(context.Background(), Message{Channel: FeedChannel, Payload: "hello"})

	select {
	case msg := <-subscribed.Outbound:
		require.Equal(t, FeedChannel, msg.Channel)
		require.Equal(t, "hello", msg.Payload)
	default:
		t.Fatal("expected feed subscriber to receive the broadcast")
	}
	require.Empty(t, other.Outbound)
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	log, err := logger.New("development")
	require.NoError(t, err)
	hub := NewHub(log)

	client := testClient(t, log, hub)
	hub.Subscribe(client, []string{FeedChannel, UserChannel(client.ID)})
	hub.Unsubscribe(client)

	hub.BroadcastGlobal(context.Background(), Message{Channel: FeedChannel, Payload: "gone"})
	require.Empty(t, client.Outbound)
}

func TestHubUserChannelIsolation(t *testing.T) {
	log, err := logger.New("development")
	require.NoError(t, err)
	hub := NewHub(log)

	a := testClient(t, log, hub)
	b := testClient(t, log, hub)
	hub.Subscribe(a, []string{UserChannel(a.ID)})
	hub.Subscribe(b, []string{UserChannel(b.ID)})

	hub.BroadcastGlobal(context.Background(), Message{Channel: UserChannel(a.ID), Payload: "private"})
	require.Len(t, a.Outbound, 1)
	require.Empty(t, b.Outbound)
}
