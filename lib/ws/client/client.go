package wsclient

import (
	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

func NewClient(userID string, c *websocket.Conn) *WsClient {
	return &WsClient{
		conn:   c,
		userID: userID,
	}
}

type WsClient struct {
	conn   *websocket.Conn
	userID string
}

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

// Dispatch reads until the peer goes away, incoming frames are only logged.
func (c *WsClient) Dispatch() {
	for {
		if c.conn == nil {
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, closeCodes...) {
				log.
					WithField("user_id", c.userID).
					WithError(err).
					Error("ws read failed")
			}
			return
		}
		log.
			WithField("user_id", c.userID).
			WithField("ws_message", string(data)).
			Debug("ws-msg")
	}
}
