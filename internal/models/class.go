package models

// Class represents a student cohort with an advising lecturer.
type Class struct {
	ID          int64  `json:"id"`
	Name        string `json:"className"`
	Capacity    int    `json:"capacityStudent"`
	AdvisorID   int64  `json:"lecturerId"`
	AdvisorName string `json:"lecturerName,omitempty"`
}

// ClassPayload is the writable subset of a class.
type ClassPayload struct {
	Name      string `json:"className" validate:"required"`
	Capacity  int    `json:"capacityStudent" validate:"required,gt=0,lte=200"`
	AdvisorID int64  `json:"lecturerId" validate:"required,gt=0"`
}
