package connectionhub

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

// Sender writes one message to a client connection.
type Sender interface {
	WriteJSON(v interface{}) error
	Close() error
}

type clientSession struct {
	conn Sender

	// outbound messages, buffered
	sendCh chan any
	stop   func()
}

const sendBufferSize = 16

func newSession(conn Sender) clientSession {
	ctx, cancelFn := context.WithCancel(context.Background())
	sess := clientSession{
		stop:   cancelFn,
		conn:   conn,
		sendCh: make(chan any, sendBufferSize),
	}
	go sess.startSend(ctx)
	return sess
}

func (s clientSession) startSend(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.close()
			return
		case msg, opened := <-s.sendCh:
			if !opened {
				return
			}
			if err := s.conn.WriteJSON(msg); err != nil {
				log.WithError(err).Error("ws message send failed")
			}
		}
	}
}

func (s clientSession) close() {
	if wsConn, ok := s.conn.(*websocket.Conn); ok {
		if wsConn == nil || wsConn.Conn == nil {
			return
		}
		err := wsConn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		if err != nil {
			log.WithError(err).Debug("ws close message failed")
		}
		return
	}
	_ = s.conn.Close()
}
