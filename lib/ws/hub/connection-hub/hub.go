package connectionhub

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"hrms-backend/db"
	pushdatastore "hrms-backend/lib/notify/data-store"
	dbmodels "hrms-backend/models/db"
	wsmodels "hrms-backend/models/ws"
)

type Provider interface {
	AddClient(userID string, conn Sender)
	DeleteClient(userID string, conn Sender)
	// SendMessage delivers msg now or stores it until the user connects.
	SendMessage(msg wsmodels.ServerMessage)
	IsConnected(userID string) bool
}

var Instance Provider

const timeLayout = "2006-01-02T15:04:05Z07:00"

func Init() {
	Instance = NewHub(pushdatastore.NewInstance(db.DB))
}

func NewHub(store pushdatastore.Provider) Provider {
	return &impl{
		clients: map[string]clientSession{},
		store:   store,
	}
}

type impl struct {
	mu      sync.Mutex
	clients map[string]clientSession // map[userID]
	store   pushdatastore.Provider
}

func (i *impl) AddClient(userID string, conn Sender) {
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	i.clients[userID] = newSession(conn)
	i.mu.Unlock()
	if ok {
		oldSess.stop()
	}
	go i.sendDelayedMessages(userID)
}

// DeleteClient ignores the call when conn was already replaced by a newer one.
func (i *impl) DeleteClient(userID string, conn Sender) {
	i.mu.Lock()
	sess, ok := i.clients[userID]
	if !ok || sess.conn != conn {
		i.mu.Unlock()
		return
	}
	delete(i.clients, userID)
	i.mu.Unlock()
	sess.stop()
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) {
	if msg.Time == "" {
		msg.Time = time.Now().Format(timeLayout)
	}
	i.mu.Lock()
	sess, ok := i.clients[msg.ToUserID]
	i.mu.Unlock()
	if ok {
		select {
		case sess.sendCh <- msg:
			return
		default:
			log.WithField("user_id", msg.ToUserID).Warn("ws send buffer is full, event is stored")
		}
	}
	i.storeMessage(msg)
}

func (i *impl) IsConnected(userID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.clients[userID]
	return ok
}

func (i *impl) storeMessage(msg wsmodels.ServerMessage) {
	if i.store == nil {
		return
	}
	err := i.store.Create(dbmodels.PushData{
		UserID: msg.ToUserID,
		Code:   msg.Code,
		Msg:    msg.Msg,
	})
	if err != nil {
		log.
			WithField("user_id", msg.ToUserID).
			WithError(err).
			Error("ws event store failed")
	}
}

func (i *impl) sendDelayedMessages(userID string) {
	if i.store == nil {
		return
	}
	logger := log.WithField("user_id", userID)
	list, err := i.store.List(userID)
	if err != nil {
		logger.WithError(err).Error("pending ws events load failed")
		return
	}
	sentIDs := []string{}
	for _, item := range list {
		i.mu.Lock()
		sess, ok := i.clients[userID]
		i.mu.Unlock()
		if !ok {
			break
		}
		msg := wsmodels.ServerMessage{
			ToUserID: userID,
			Time:     item.CreatedAt.Format(timeLayout),
			Code:     item.Code,
			Msg:      item.Msg,
		}
		select {
		case sess.sendCh <- msg:
			sentIDs = append(sentIDs, item.ID)
		default:
		}
	}
	if len(sentIDs) > 0 {
		if err = i.store.Delete(sentIDs); err != nil {
			logger.WithError(err).Error("sent ws events delete failed")
		}
	}
}
