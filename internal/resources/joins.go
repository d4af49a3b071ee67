package resources

import (
	"context"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
)

// Getter is the single-item lookup a join needs. *api.Resource satisfies it.
type Getter[R any] interface {
	Get(ctx context.Context, id int64) (*R, error)
}

// joinNames resolves a display name per distinct foreign id with one
// secondary lookup each, then writes it back. Lookup failures leave the
// name blank rather than failing the whole list; the backend sometimes
// embeds the name itself, in which case the row is skipped.
func joinNames[R any, F any](
	ctx context.Context,
	items []R,
	source Getter[F],
	foreignID func(*R) int64,
	name func(*R) *string,
	displayName func(*F) string,
) error {
	cache := map[int64]string{}
	for i := range items {
		if *name(&items[i]) != "" {
			continue
		}
		id := foreignID(&items[i])
		if id == 0 {
			continue
		}
		resolved, ok := cache[id]
		if !ok {
			related, err := source.Get(ctx, id)
			if err != nil || related == nil {
				cache[id] = ""
				continue
			}
			resolved = displayName(related)
			cache[id] = resolved
		}
		*name(&items[i]) = resolved
	}
	return nil
}

// JoinClassAdvisors fills AdvisorName on classes whose backend rows only
// carry the lecturer id.
func JoinClassAdvisors(ctx context.Context, classes []models.Class, lecturers Getter[models.Lecturer]) error {
	return joinNames[models.Class, models.Lecturer](ctx, classes, lecturers,
		func(c *models.Class) int64 { return c.AdvisorID },
		func(c *models.Class) *string { return &c.AdvisorName },
		func(l *models.Lecturer) string { return l.FullName },
	)
}

// JoinMajorFaculties fills FacultyName on majors.
func JoinMajorFaculties(ctx context.Context, majors []models.Major, faculties Getter[models.Faculty]) error {
	return joinNames[models.Major, models.Faculty](ctx, majors, faculties,
		func(m *models.Major) int64 { return m.FacultyID },
		func(m *models.Major) *string { return &m.FacultyName },
		func(f *models.Faculty) string { return f.Name },
	)
}

// JoinStudentMajors fills MajorName (and the denormalised faculty name when
// the major carries one) on students.
func JoinStudentMajors(ctx context.Context, students []models.Student, majors Getter[models.Major]) error {
	cache := map[int64]*models.Major{}
	for i := range students {
		s := &students[i]
		if s.MajorName != "" || s.MajorID == 0 {
			continue
		}
		major, ok := cache[s.MajorID]
		if !ok {
			loaded, err := majors.Get(ctx, s.MajorID)
			if err != nil {
				cache[s.MajorID] = nil
				continue
			}
			major = loaded
			cache[s.MajorID] = major
		}
		if major == nil {
			continue
		}
		s.MajorName = major.Name
		if s.FacultyName == "" {
			s.FacultyName = major.FacultyName
		}
	}
	return nil
}

// JoinScheduleNames fills the four denormalised names on schedules the
// backend returned as bare id references.
func JoinScheduleNames(
	ctx context.Context,
	schedules []models.TeachingSchedule,
	courses Getter[models.Course],
	lecturers Getter[models.Lecturer],
	classes Getter[models.Class],
	rooms Getter[models.ClassRoom],
) error {
	if err := joinNames[models.TeachingSchedule, models.Course](ctx, schedules, courses,
		func(s *models.TeachingSchedule) int64 { return s.CourseID },
		func(s *models.TeachingSchedule) *string { return &s.CourseName },
		func(c *models.Course) string { return c.Name },
	); err != nil {
		return err
	}
	if err := joinNames[models.TeachingSchedule, models.Lecturer](ctx, schedules, lecturers,
		func(s *models.TeachingSchedule) int64 { return s.LecturerID },
		func(s *models.TeachingSchedule) *string { return &s.LecturerName },
		func(l *models.Lecturer) string { return l.FullName },
	); err != nil {
		return err
	}
	if err := joinNames[models.TeachingSchedule, models.Class](ctx, schedules, classes,
		func(s *models.TeachingSchedule) int64 { return s.ClassID },
		func(s *models.TeachingSchedule) *string { return &s.ClassName },
		func(c *models.Class) string { return c.Name },
	); err != nil {
		return err
	}
	return joinNames[models.TeachingSchedule, models.ClassRoom](ctx, schedules, rooms,
		func(s *models.TeachingSchedule) int64 { return s.RoomID },
		func(s *models.TeachingSchedule) *string { return &s.RoomCode },
		func(r *models.ClassRoom) string { return r.Code },
	)
}
