package dbmodels

// PushData is a websocket event waiting for its user to connect.
type PushData struct {
	BaseModel
	UserID string `gorm:"type:varchar(36);index:idx_push_user"`
	Code   string `gorm:"type:varchar(64)"`
	Msg    string
}
