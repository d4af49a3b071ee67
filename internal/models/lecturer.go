package models

// Lecturer represents a teaching staff member.
type Lecturer struct {
	ID          int64  `json:"id"`
	Code        string `json:"lecturerCode"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	FacultyID   int64  `json:"facultyId"`
	FacultyName string `json:"facultyName,omitempty"`
}

// LecturerPayload is the writable subset of a lecturer.
type LecturerPayload struct {
	Code      string `json:"lecturerCode" validate:"required"`
	FullName  string `json:"fullName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FacultyID int64  `json:"facultyId" validate:"required,gt=0"`
}
