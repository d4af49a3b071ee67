package models

// Student represents an enrolled learner.
type Student struct {
	ID          int64  `json:"id"`
	Code        string `json:"studentCode"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
	ClassID     int64  `json:"classId"`
	ClassName   string `json:"className,omitempty"`
	MajorID     int64  `json:"majorId"`
	MajorName   string `json:"majorName,omitempty"`
	FacultyName string `json:"facultyName,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// StudentPayload is the writable subset of a student.
type StudentPayload struct {
	Code        string `json:"studentCode" validate:"required"`
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	ClassID     int64  `json:"classId" validate:"required,gt=0"`
	MajorID     int64  `json:"majorId" validate:"required,gt=0"`
}
