package models

// Course represents a taught subject.
type Course struct {
	ID      int64  `json:"id"`
	Code    string `json:"courseCode"`
	Name    string `json:"courseName"`
	Credits int    `json:"credits"`
}

// CoursePayload is the writable subset of a course.
type CoursePayload struct {
	Code    string `json:"courseCode" validate:"required"`
	Name    string `json:"courseName" validate:"required"`
	Credits int    `json:"credits" validate:"required,gte=1,lte=15"`
}
