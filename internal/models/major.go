package models

// Major represents a study major belonging to a faculty.
type Major struct {
	ID          int64  `json:"id"`
	Name        string `json:"majorName"`
	FacultyID   int64  `json:"facultyId"`
	FacultyName string `json:"facultyName,omitempty"`
}

// MajorPayload is the writable subset of a major.
type MajorPayload struct {
	Name      string `json:"majorName" validate:"required"`
	FacultyID int64  `json:"facultyId" validate:"required,gt=0"`
}
