package models

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceHalfDay AttendanceStatus = "HALF_DAY"
	AttendanceLeave   AttendanceStatus = "LEAVE"
)

func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceHalfDay, AttendanceLeave:
		return true
	}
	return false
}

type Mood string

const (
	MoodHappy    Mood = "HAPPY"
	MoodNeutral  Mood = "NEUTRAL"
	MoodSad      Mood = "SAD"
	MoodTired    Mood = "TIRED"
	MoodStressed Mood = "STRESSED"
)

func (m Mood) IsValid() bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodSad, MoodTired, MoodStressed:
		return true
	}
	return false
}

// IsNegative is used by the burnout and happiness analytics.
func (m Mood) IsNegative() bool {
	return m == MoodSad || m == MoodTired || m == MoodStressed
}

type LeaveType string

const (
	LeavePaid   LeaveType = "PAID"
	LeaveSick   LeaveType = "SICK"
	LeaveUnpaid LeaveType = "UNPAID"
	LeaveCasual LeaveType = "CASUAL"
)

func (t LeaveType) IsValid() bool {
	switch t {
	case LeavePaid, LeaveSick, LeaveUnpaid, LeaveCasual:
		return true
	}
	return false
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

func (s LeaveStatus) IsTerminal() bool {
	return s == LeaveApproved || s == LeaveRejected
}

// CanMoveTo allows only PENDING -> APPROVED and PENDING -> REJECTED.
func (s LeaveStatus) CanMoveTo(next LeaveStatus) bool {
	return s == LeavePending && next.IsTerminal()
}

type PayrollStatus string

const (
	PayrollPending PayrollStatus = "PENDING"
	PayrollPaid    PayrollStatus = "PAID"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)
