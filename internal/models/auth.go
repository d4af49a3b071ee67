package models

// User is the authenticated account returned by /auth/me.
type User struct {
	ID       int64  `json:"id"`
	Account  string `json:"account"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// TokenPair is the credential set issued at login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AttendanceMark is the record a kiosk submits after a face match.
type AttendanceMark struct {
	StudentID  int64  `json:"studentId"`
	ScheduleID int64  `json:"scheduleId,omitempty"`
	TerminalID string `json:"terminalId"`
	Status     string `json:"status"`
	CheckedAt  string `json:"checkedAt"`
}
