package models

// Faculty represents an academic faculty.
type Faculty struct {
	ID   int64  `json:"id"`
	Name string `json:"facultyName"`
}

// FacultyPayload is the writable subset of a faculty.
type FacultyPayload struct {
	Name string `json:"facultyName" validate:"required"`
}
