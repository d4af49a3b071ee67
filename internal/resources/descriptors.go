package resources

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/api"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/form"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	"github.com/LeDuc-16/smart-attendance-sub000/pkg/export"
)

// Collection paths, all under the common API prefix.
const (
	PathFaculties = api.APIPrefix + "/faculties"
	PathMajors    = api.APIPrefix + "/majors"
	PathClasses   = api.APIPrefix + "/classes"
	PathRooms     = api.APIPrefix + "/class-rooms"
	PathCourses   = api.APIPrefix + "/courses"
	PathLecturers = api.APIPrefix + "/lecturers"
	PathStudents  = api.APIPrefix + "/students"
	PathSchedules = api.APIPrefix + "/teaching-schedules"
)

// NewFacultyManager manages the faculty collection.
func NewFacultyManager(client *api.Client, opts Options) *Manager[models.Faculty, models.FacultyPayload] {
	return newManager[models.Faculty, models.FacultyPayload](
		client, opts, "Faculties", PathFaculties,
		func(f models.Faculty) string { return f.Name },
		[]export.Column{{Header: "ID", Key: "id"}, {Header: "Faculty", Key: "name"}},
		func(f models.Faculty) map[string]string {
			return map[string]string{"id": formatID(f.ID), "name": f.Name}
		},
	)
}

// NewMajorManager manages the major collection.
func NewMajorManager(client *api.Client, opts Options) *Manager[models.Major, models.MajorPayload] {
	m := newManager[models.Major, models.MajorPayload](
		client, opts, "Majors", PathMajors,
		func(m models.Major) string { return m.Name },
		[]export.Column{
			{Header: "ID", Key: "id"},
			{Header: "Major", Key: "name"},
			{Header: "Faculty", Key: "faculty"},
		},
		func(m models.Major) map[string]string {
			return map[string]string{"id": formatID(m.ID), "name": m.Name, "faculty": m.FacultyName}
		},
	)
	faculties := api.NewResource[models.Faculty, models.FacultyPayload](client, PathFaculties)
	m.join = func(ctx context.Context, majors []models.Major) error {
		return JoinMajorFaculties(ctx, majors, faculties)
	}
	return m
}

// NewClassManager manages the class collection.
func NewClassManager(client *api.Client, opts Options) *Manager[models.Class, models.ClassPayload] {
	m := newManager[models.Class, models.ClassPayload](
		client, opts, "Classes", PathClasses,
		func(c models.Class) string { return c.Name },
		[]export.Column{
			{Header: "ID", Key: "id"},
			{Header: "Class", Key: "name"},
			{Header: "Capacity", Key: "capacity"},
			{Header: "Advisor", Key: "advisor"},
		},
		func(c models.Class) map[string]string {
			return map[string]string{
				"id":       formatID(c.ID),
				"name":     c.Name,
				"capacity": strconv.Itoa(c.Capacity),
				"advisor":  c.AdvisorName,
			}
		},
	)
	lecturers := api.NewResource[models.Lecturer, models.LecturerPayload](client, PathLecturers)
	m.join = func(ctx context.Context, classes []models.Class) error {
		return JoinClassAdvisors(ctx, classes, lecturers)
	}
	return m
}

// NewClassRoomManager manages the room collection.
func NewClassRoomManager(client *api.Client, opts Options) *Manager[models.ClassRoom, models.ClassRoomPayload] {
	return newManager[models.ClassRoom, models.ClassRoomPayload](
		client, opts, "Class rooms", PathRooms,
		func(r models.ClassRoom) string { return r.Code },
		[]export.Column{
			{Header: "ID", Key: "id"},
			{Header: "Room", Key: "code"},
			{Header: "Capacity", Key: "capacity"},
			{Header: "Location", Key: "location"},
		},
		func(r models.ClassRoom) map[string]string {
			return map[string]string{
				"id":       formatID(r.ID),
				"code":     r.Code,
				"capacity": strconv.Itoa(r.Capacity),
				"location": r.Location,
			}
		},
	)
}

// NewCourseManager manages the course collection.
func NewCourseManager(client *api.Client, opts Options) *Manager[models.Course, models.CoursePayload] {
	return newManager[models.Course, models.CoursePayload](
		client, opts, "Courses", PathCourses,
		func(c models.Course) string { return c.Name },
		[]export.Column{
			{Header: "ID", Key: "id"},
			{Header: "Code", Key: "code"},
			{Header: "Course", Key: "name"},
			{Header: "Credits", Key: "credits"},
		},
		func(c models.Course) map[string]string {
			return map[string]string{
				"id":      formatID(c.ID),
				"code":    c.Code,
				"name":    c.Name,
				"credits": strconv.Itoa(c.Credits),
			}
		},
	)
}

// NewLecturerManager manages the lecturer collection.
func NewLecturerManager(client *api.Client, opts Options) *Manager[models.Lecturer, models.LecturerPayload] {
	return newManager[models.Lecturer, models.LecturerPayload](
		client, opts, "Lecturers", PathLecturers,
		func(l models.Lecturer) string { return l.FullName },
		[]export.Column{
			{Header: "ID", Key: "id"},
			{Header: "Code", Key: "code"},
			{Header: "Name", Key: "name"},
			{Header: "Email", Key: "email"},
			{Header: "Faculty", Key: "faculty"},
		},
		func(l models.Lecturer) map[string]string {
			return map[string]string{
				"id":      formatID(l.ID),
				"code":    l.Code,
				"name":    l.FullName,
				"email":   l.Email,
				"faculty": l.FacultyName,
			}
		},
	)
}

// NewStudentManager manages the student collection.
func NewStudentManager(client *api.Client, opts Options) *Manager[models.Student, models.StudentPayload] {
	m := newManager[models.Student, models.StudentPayload](
		client, opts, "Students", PathStudents,
		func(s models.Student) string { return s.FullName },
		[]export.Column{
			{Header: "ID", Key: "id"},
			{Header: "Code", Key: "code"},
			{Header: "Name", Key: "name"},
			{Header: "Email", Key: "email"},
			{Header: "Class", Key: "class"},
			{Header: "Major", Key: "major"},
		},
		func(s models.Student) map[string]string {
			return map[string]string{
				"id":    formatID(s.ID),
				"code":  s.Code,
				"name":  s.FullName,
				"email": s.Email,
				"class": s.ClassName,
				"major": s.MajorName,
			}
		},
	)
	majors := api.NewResource[models.Major, models.MajorPayload](client, PathMajors)
	m.join = func(ctx context.Context, students []models.Student) error {
		return JoinStudentMajors(ctx, students, majors)
	}
	return m
}

// NewScheduleManager manages the teaching-schedule collection. The cross-
// field ordering rules live here rather than in struct tags.
func NewScheduleManager(client *api.Client, opts Options) *Manager[models.TeachingSchedule, models.TeachingSchedulePayload] {
	m := newManager[models.TeachingSchedule, models.TeachingSchedulePayload](
		client, opts, "Teaching schedules", PathSchedules,
		func(s models.TeachingSchedule) string { return s.CourseName },
		[]export.Column{
			{Header: "ID", Key: "id"},
			{Header: "Course", Key: "course"},
			{Header: "Lecturer", Key: "lecturer"},
			{Header: "Class", Key: "class"},
			{Header: "Room", Key: "room"},
			{Header: "Day", Key: "day"},
			{Header: "Time", Key: "time"},
		},
		func(s models.TeachingSchedule) map[string]string {
			return map[string]string{
				"id":       formatID(s.ID),
				"course":   s.CourseName,
				"lecturer": s.LecturerName,
				"class":    s.ClassName,
				"room":     s.RoomCode,
				"day":      s.DayOfWeek,
				"time":     fmt.Sprintf("%s-%s", s.StartTime, s.EndTime),
			}
		},
		scheduleTimeOrder,
		scheduleDateOrder,
	)
	courses := api.NewResource[models.Course, models.CoursePayload](client, PathCourses)
	lecturers := api.NewResource[models.Lecturer, models.LecturerPayload](client, PathLecturers)
	classes := api.NewResource[models.Class, models.ClassPayload](client, PathClasses)
	rooms := api.NewResource[models.ClassRoom, models.ClassRoomPayload](client, PathRooms)
	m.join = func(ctx context.Context, schedules []models.TeachingSchedule) error {
		return JoinScheduleNames(ctx, schedules, courses, lecturers, classes, rooms)
	}
	return m
}

func scheduleTimeOrder(p models.TeachingSchedulePayload) string {
	start, err1 := time.Parse("15:04", p.StartTime)
	end, err2 := time.Parse("15:04", p.EndTime)
	if err1 != nil || err2 != nil {
		return ""
	}
	if !end.After(start) {
		return "endTime must be after startTime"
	}
	return ""
}

func scheduleDateOrder(p models.TeachingSchedulePayload) string {
	start, err1 := time.Parse("2006-01-02", p.StartDate)
	end, err2 := time.Parse("2006-01-02", p.EndDate)
	if err1 != nil || err2 != nil {
		return ""
	}
	if end.Before(start) {
		return "endDate must be on or after startDate"
	}
	return ""
}

// KnownID builds a rule checking a foreign id against an option list the
// caller already loaded (e.g. the faculty dropdown). It never fetches.
func KnownID[P any](label string, ids []int64, get func(P) int64) form.Rule[P] {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(p P) string {
		if _, ok := set[get(p)]; !ok {
			return fmt.Sprintf("%s must reference a known option", label)
		}
		return ""
	}
}
