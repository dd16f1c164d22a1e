package smtp

import (
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	log "github.com/sirupsen/logrus"
)

var Instance Provider

type Provider interface {
	IsConfigured() bool
	SendEMail(to, subject, message string) error
}

func Connect(user, password, host, port string, tlsEnabled bool) error {
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		tlsEnabled: tlsEnabled,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	tlsEnabled bool
}

func (i impl) IsConfigured() bool {
	return i.user != "" && i.host != "" && i.port != ""
}

func (i impl) SendEMail(to, subject, message string) (err error) {
	logger := log.WithField("recipient", to)
	if !i.IsConfigured() {
		logger.Warn("mail is not sent, smtp client is not configured")
		return nil
	}
	sendTo := []string{
		to,
	}
	auth := sasl.NewPlainClient("", i.user, i.password)
	body := strings.NewReader(buildMessage(i.user, to, subject, message))
	if i.tlsEnabled {
		err = smtp.SendMailTLS(i.host+":"+i.port, auth, i.user, sendTo, body)
	} else {
		err = smtp.SendMail(i.host+":"+i.port, auth, i.user, sendTo, body)
	}
	if err != nil {
		logger.WithError(err).Error("mail send failed")
		return err
	}
	logger.Info("mail sent")
	return nil
}

func buildMessage(from, to, subject, message string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: HRMS Pro - %s\r\nMIME-version: 1.0;\r\nContent-Type: text/plain; charset=\"UTF-8\";\r\n\r\n%s\r\n",
		from, to, subject, message)
}
