package notify

import (
	"time"

	log "github.com/sirupsen/logrus"
	"hrms-backend/db"
	"hrms-backend/lib/smtp"
	usersstore "hrms-backend/lib/users/store"
	initchecker "hrms-backend/lib/utils/init-checker"
	connectionhub "hrms-backend/lib/ws/hub/connection-hub"
	wsmodels "hrms-backend/models/ws"
)

type Provider interface {
	// SendNotification pushes the event to the user socket and mails it, errors are only logged.
	SendNotification(userID, code, subject, msg string)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		userStore: usersstore.NewInstance(db.DB),
		mail:      smtp.Instance,
		hub:       connectionhub.Instance,
	}
	initchecker.CheckInit(
		"userStore", instance.userStore,
		"mail", instance.mail,
		"hub", instance.hub,
	)
	Instance = instance
}

type impl struct {
	userStore usersstore.Provider
	mail      smtp.Provider
	hub       connectionhub.Provider
}

func (i impl) getLogger(userID, code string) *log.Entry {
	return log.
		WithField("user_id", userID).
		WithField("event_code", code)
}

func (i impl) SendNotification(userID, code, subject, msg string) {
	logger := i.getLogger(userID, code)
	i.hub.SendMessage(wsmodels.ServerMessage{
		ToUserID: userID,
		Time:     time.Now().Format(time.RFC3339),
		Code:     code,
		Msg:      msg,
	})
	if !i.mail.IsConfigured() {
		return
	}
	user, err := i.userStore.GetByID(userID)
	if err != nil {
		logger.WithError(err).Error("user lookup failed")
		return
	}
	if user == nil || user.Email == "" {
		logger.Warn("user has no email")
		return
	}
	if err = i.mail.SendEMail(user.Email, subject, msg); err != nil {
		logger.WithError(err).Error("notification mail failed")
	}
}
