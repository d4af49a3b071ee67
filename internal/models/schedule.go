package models

// TeachingSchedule represents a recurring teaching slot binding a course,
// lecturer, class and room over a date range.
type TeachingSchedule struct {
	ID           int64  `json:"id"`
	CourseID     int64  `json:"courseId"`
	CourseName   string `json:"courseName,omitempty"`
	LecturerID   int64  `json:"lecturerId"`
	LecturerName string `json:"lecturerName,omitempty"`
	ClassID      int64  `json:"classId"`
	ClassName    string `json:"className,omitempty"`
	RoomID       int64  `json:"roomId"`
	RoomCode     string `json:"roomCode,omitempty"`
	DayOfWeek    string `json:"dayOfWeek"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
}

// TeachingSchedulePayload is the writable subset of a teaching schedule.
// Dates use 2006-01-02, times 15:04. Cross-field ordering (end after start)
// is enforced by the form gate, not by tags.
type TeachingSchedulePayload struct {
	CourseID   int64  `json:"courseId" validate:"required,gt=0"`
	LecturerID int64  `json:"lecturerId" validate:"required,gt=0"`
	ClassID    int64  `json:"classId" validate:"required,gt=0"`
	RoomID     int64  `json:"roomId" validate:"required,gt=0"`
	DayOfWeek  string `json:"dayOfWeek" validate:"required"`
	StartDate  string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate" validate:"required,datetime=2006-01-02"`
	StartTime  string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime    string `json:"endTime" validate:"required,datetime=15:04"`
}
