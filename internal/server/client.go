package server

import (
	"context"
	"net/http"
	"time"

	"deskmate-server/internal/network"
	"deskmate-server/pkg/api"
	"deskmate-server/pkg/logger"
	"deskmate-server/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	commandTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - один websocket-подписчик. Получает каждую рассылку и может
// присылать команды NAVIGATE, APPROACH и STATE.
type Client struct {
	id     string
	srv    *Server
	conn   *websocket.Conn
	events <-chan api.NavigationEvent
	log    *logrus.Entry
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	id := utils.GenerateID("ws_")
	hub := s.pub.Hub()
	client := &Client{
		id:     id,
		srv:    s,
		conn:   conn,
		events: hub.Register(id),
		log:    logger.For("ws").WithField("client_id", id),
	}
	client.log.Info("client connected")

	// Начальный снапшот, чтобы клиент отрисовался до первого перемещения.
	client.sendState(r.Context())

	go client.writePump()
	go client.readPump()
}

// readPump читает команды, пока соединение не оборвется.
func (c *Client) readPump() {
	defer func() {
		c.srv.pub.Hub().Unregister(c.id)
		if err := c.conn.Close(); err != nil {
			c.log.WithError(err).Debug("close websocket")
		}
		c.log.Info("client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd api.ClientCommand
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("websocket read error")
			}
			return
		}
		c.handle(cmd)
	}
}

func (c *Client) handle(cmd api.ClientCommand) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	c.log.WithField("action", cmd.Action).Debug("command received")

	var (
		resp *api.NavigationResponse
		err  error
	)
	switch cmd.Action {
	case api.ActionNavigate:
		var req api.NavigateRequest
		if req, err = decodePayload[api.NavigateRequest](cmd.Payload); err == nil {
			resp, err = c.srv.navigate(ctx, req, sourceWS)
		}
	case api.ActionApproach:
		var req api.ApproachRequest
		if req, err = decodePayload[api.ApproachRequest](cmd.Payload); err == nil {
			resp, err = c.srv.approach(ctx, req, sourceWS)
		}
	case api.ActionState:
		c.sendState(ctx)
		return
	default:
		c.sendError("unknown action " + cmd.Action)
		return
	}

	if err != nil {
		c.sendError(err.Error())
		return
	}
	// Успешные перемещения уже дошли до всех подписчиков через Hub.
	if !resp.Applied {
		ev := network.NewEvent(api.EventNavigation, sourceWS)
		ev.Navigation = resp
		c.srv.pub.Hub().SendTo(c.id, ev)
	}
}

func (c *Client) sendState(ctx context.Context) {
	view, err := c.srv.state(ctx)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	ev := network.NewEvent(api.EventState, sourceWS)
	ev.State = view
	c.srv.pub.Hub().SendTo(c.id, ev)
}

func (c *Client) sendError(msg string) {
	ev := network.NewEvent(api.EventError, sourceWS)
	ev.Error = msg
	c.srv.pub.Hub().SendTo(c.id, ev)
}

// writePump пересылает события Hub в сокет и держит его живым пингами.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.log.WithError(err).Debug("close websocket in writePump")
		}
	}()

	for {
		select {
		case ev, ok := <-c.events:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				c.log.WithError(err).Debug("write event failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
