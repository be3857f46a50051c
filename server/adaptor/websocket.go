package adaptor

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ponyo877/roomchat/server/domain"
)

// serveWS attaches one websocket to a room. Unknown rooms and users are
// rejected before the upgrade.
func (a *Adaptor) serveWS(c *gin.Context) {
	roomID, ok := paramID(c, "room_id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	client, err := a.chat.Connect(ctx, roomID, userID, c.ClientIP())
	if err != nil {
		writeError(c, err, "")
		return
	}

	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adaptor.ws").Str("client", client.ID).Msg("upgrade failed")
		if err := a.chat.Disconnect(ctx, client); err != nil {
			log.Error().Err(err).Str("module", "adaptor.ws").Msg("disconnect failed")
		}
		return
	}

	a.conns.Add(1)
	defer a.conns.Done()

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.writePump(conn, client)
	}()
	a.readPump(ctx, conn, client)
	<-done
}

func (a *Adaptor) readPump(ctx context.Context, conn *websocket.Conn, client *domain.Client) {
	defer func() {
		if err := a.chat.Disconnect(ctx, client); err != nil {
			log.Error().Err(err).Str("module", "adaptor.ws").Str("client", client.ID).Msg("disconnect failed")
		}
	}()

	conn.SetReadLimit(a.cfg.ReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(a.cfg.PongWait()))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(a.cfg.PongWait()))
	})

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("module", "adaptor.ws").Str("client", client.ID).Msg("read error")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(a.cfg.PongWait()))
		if kind != websocket.TextMessage {
			log.Debug().Str("module", "adaptor.ws").Str("client", client.ID).Msg("non-text frame ignored")
			continue
		}
		if err := a.chat.Message(ctx, client, string(data)); err != nil {
			log.Warn().Err(err).Str("module", "adaptor.ws").Str("client", client.ID).Msg("message dropped")
		}
	}
}

// writePump owns every write on conn. It ends when the hub closes the
// client's frames, sending a going-away close first.
func (a *Adaptor) writePump(conn *websocket.Conn, client *domain.Client) {
	ticker := time.NewTicker(a.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case text, ok := <-client.Frames():
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closed the connection")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(a.cfg.WriteTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(a.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
				log.Error().Err(err).Str("module", "adaptor.ws").Str("client", client.ID).Msg("write error")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(a.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
