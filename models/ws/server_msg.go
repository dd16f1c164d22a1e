package wsmodels

type ServerMessage struct {
	ToUserID string `json:"-"`
	Time     string `json:"time"` // event time
	Code     string `json:"code"` // event code
	Msg      string `json:"msg"`
}

const (
	LeaveStatusChangedCode = "LEAVE_STATUS_CHANGED"
	PayrollPaidCode        = "PAYROLL_PAID"
)
