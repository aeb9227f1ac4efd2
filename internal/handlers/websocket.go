package handlers

import (
  "context"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/gorilla/websocket"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
  "github.com/skillswap-org/skillswap-backend/internal/requestdata"
  "github.com/skillswap-org/skillswap-backend/internal/socket"
)

var upgrader = websocket.Upgrader{
  CheckOrigin: func(r *http.Request) bool {
    return true
  },
}

func WsHandler(hub *socket.Hub, log *logger.Logger) gin.HandlerFunc {
  return func(c *gin.Context) {
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd == nil || rd.UserID == uuid.Nil {
      c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
      return
    }
    conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
    if err != nil {
      log.Warn("Failed to upgrade to websocket", "error", err)
      return
    }

    // Detach from the HTTP request context; the socket outlives it.
    ctx, cancel := context.WithCancel(context.Background())
    client := socket.NewClient(conn, hub, rd.UserID, cancel, log)

    channels := []string{
      socket.UserChannel(rd.UserID),
      socket.FeedChannel,
    }
    hub.Subscribe(client, channels)

    go client.ReadLoop(ctx)
    go client.WriteLoop(ctx)
  }
}
