package session

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
	usersapimodels "hrms-backend/models/api/users"
)

// TokenKey is the storage key of the active session.
const TokenKey = "hrms_active_session_token"

type storedSession struct {
	User  usersapimodels.User `json:"user"`
	Token string              `json:"token"`
}

func encodeSession(s storedSession) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrap(err, "session encode failed")
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func decodeSession(value string) (storedSession, error) {
	s := storedSession{}
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return s, errors.Wrap(err, "session token is not base64")
	}
	if err = json.Unmarshal(raw, &s); err != nil {
		return s, errors.Wrap(err, "session token is not valid JSON")
	}
	if s.User.ID == "" {
		return s, errors.New("session token has no user id")
	}
	return s, nil
}
