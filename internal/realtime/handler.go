package realtime

import (
	"fmt"
	"sync"

	"github.com/festive-labs/santagames-backend/internal/pkg/middleware"
	"github.com/festive-labs/santagames-backend/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type wsHandler struct {
	coordinator *Coordinator
	registry    *Registry
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func RegisterRoutes(rg *gin.RouterGroup, coordinator *Coordinator, registry *Registry) {
	handler := wsHandler{
		coordinator: coordinator,
		registry:    registry,
	}

	routes := rg.Group("/ws")
	routes.GET("/tambola", middleware.VerifyAuthToken, handler.serveWs)
}

func (wsh *wsHandler) serveWs(c *gin.Context) {
	userId := utils.GetUserId(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Error upgrading ws connection")
		return
	}

	sc := &safeConn{conn: conn}
	wsh.registry.Register(userId, sc)
	defer func() {
		wsh.registry.Unregister(userId, sc)
		_ = sc.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Warn().Err(err).Msg("Error reading ws message")
			return
		}

		event, decodeErr := DecodeGameEvent(data)
		if decodeErr != nil {
			log.Warn().Err(decodeErr).Msg(fmt.Sprintf("Dropping ws message from user %d", userId))
			continue
		}

		wsh.coordinator.Dispatch(userId, event)
	}
}

// safeConn serializes writes to one socket. Broadcasts for different games
// can target the same player concurrently, and gorilla connections allow
// only one writer at a time.
type safeConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *safeConn) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *safeConn) Close() error {
	return s.conn.Close()
}
