package command

import (
	"context"
	"time"

	"github.com/alem-hub/school-records/internal/domain/attendance"
	"github.com/alem-hub/school-records/internal/domain/course"
	"github.com/alem-hub/school-records/internal/domain/grade"
	"github.com/alem-hub/school-records/internal/domain/schedule"
	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/internal/domain/student"
	"github.com/alem-hub/school-records/pkg/timeutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes for handler tests.
// ──────────────────────────────────────────────────────────────────────────────

type fakePublisher struct {
	published []shared.Event
}

func (p *fakePublisher) Publish(event shared.Event) error {
	p.published = append(p.published, event)
	return nil
}

type fakeStudentRepo struct {
	students map[string]*student.Student
}

func newFakeStudentRepo(students ...*student.Student) *fakeStudentRepo {
	r := &fakeStudentRepo{students: make(map[string]*student.Student)}
	for _, s := range students {
		r.students[s.ID] = s
	}
	return r
}

func (r *fakeStudentRepo) Create(_ context.Context, s *student.Student) error {
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (*student.Student, error) {
	if s, ok := r.students[id]; ok {
		return s, nil
	}
	return nil, student.ErrStudentNotFound
}

func (r *fakeStudentRepo) Update(_ context.Context, s *student.Student) error {
	if _, ok := r.students[s.ID]; !ok {
		return student.ErrStudentNotFound
	}
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) Deactivate(_ context.Context, id string) error {
	if s, ok := r.students[id]; ok {
		s.Deactivate()
		return nil
	}
	return student.ErrStudentNotFound
}

func (r *fakeStudentRepo) GetByClass(_ context.Context, classID string) ([]*student.Student, error) {
	var out []*student.Student
	for _, s := range r.students {
		if s.Active && s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) GetAll(context.Context) ([]*student.Student, error) {
	var out []*student.Student
	for _, s := range r.students {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) SyncAverageGrade(context.Context, string) error  { return nil }
func (r *fakeStudentRepo) SyncAttendanceRate(context.Context, string) error { return nil }
func (r *fakeStudentRepo) SyncAge(context.Context, string) error            { return nil }

type fakeGradeRepo struct {
	grades map[string]*grade.Grade
}

func newFakeGradeRepo() *fakeGradeRepo {
	return &fakeGradeRepo{grades: make(map[string]*grade.Grade)}
}

func (r *fakeGradeRepo) Create(_ context.Context, g *grade.Grade) error {
	r.grades[g.ID] = g
	return nil
}

func (r *fakeGradeRepo) GetByID(_ context.Context, id string) (*grade.Grade, error) {
	if g, ok := r.grades[id]; ok {
		return g, nil
	}
	return nil, grade.ErrGradeNotFound
}

func (r *fakeGradeRepo) Update(_ context.Context, g *grade.Grade) error {
	if _, ok := r.grades[g.ID]; !ok {
		return grade.ErrGradeNotFound
	}
	r.grades[g.ID] = g
	return nil
}

func (r *fakeGradeRepo) Deactivate(_ context.Context, id string) error {
	if g, ok := r.grades[id]; ok {
		g.Deactivate()
		return nil
	}
	return grade.ErrGradeNotFound
}

func (r *fakeGradeRepo) GetByStudent(_ context.Context, studentID string) ([]*grade.Grade, error) {
	var out []*grade.Grade
	for _, g := range r.grades {
		if g.Active && g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGradeRepo) GetByCourse(_ context.Context, courseID string) ([]*grade.Grade, error) {
	var out []*grade.Grade
	for _, g := range r.grades {
		if g.Active && g.CourseID == courseID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGradeRepo) GetByStudentAndCourse(_ context.Context, studentID, courseID string) ([]*grade.Grade, error) {
	var out []*grade.Grade
	for _, g := range r.grades {
		if g.Active && g.StudentID == studentID && g.CourseID == courseID {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeCourseRepo struct {
	courses map[string]*course.Course
}

func newFakeCourseRepo(courses ...*course.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: make(map[string]*course.Course)}
	for _, c := range courses {
		r.courses[c.ID] = c
	}
	return r
}

func (r *fakeCourseRepo) Create(_ context.Context, c *course.Course) error {
	for _, existing := range r.courses {
		if existing.Code == c.Code {
			return course.ErrCodeTaken
		}
	}
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id string) (*course.Course, error) {
	if c, ok := r.courses[id]; ok {
		return c, nil
	}
	return nil, course.ErrCourseNotFound
}

func (r *fakeCourseRepo) GetByCode(_ context.Context, code string) (*course.Course, error) {
	for _, c := range r.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, course.ErrCourseNotFound
}

func (r *fakeCourseRepo) Update(_ context.Context, c *course.Course) error {
	if _, ok := r.courses[c.ID]; !ok {
		return course.ErrCourseNotFound
	}
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) Deactivate(_ context.Context, id string) error {
	if c, ok := r.courses[id]; ok {
		c.Deactivate()
		return nil
	}
	return course.ErrCourseNotFound
}

func (r *fakeCourseRepo) GetByTeacher(_ context.Context, teacherID string) ([]*course.Course, error) {
	var out []*course.Course
	for _, c := range r.courses {
		if c.Active && c.TeacherID == teacherID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) GetByClass(_ context.Context, classID string) ([]*course.Course, error) {
	var out []*course.Course
	for _, c := range r.courses {
		if c.Active && c.ClassID == classID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) SyncAverageGrade(context.Context, string) error { return nil }

type fakeScheduleRepo struct {
	slots map[string]*schedule.Schedule
}

func newFakeScheduleRepo(slots ...*schedule.Schedule) *fakeScheduleRepo {
	r := &fakeScheduleRepo{slots: make(map[string]*schedule.Schedule)}
	for _, s := range slots {
		r.slots[s.ID] = s
	}
	return r
}

func (r *fakeScheduleRepo) Create(_ context.Context, s *schedule.Schedule) error {
	r.slots[s.ID] = s
	return nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id string) (*schedule.Schedule, error) {
	if s, ok := r.slots[id]; ok {
		return s, nil
	}
	return nil, schedule.ErrScheduleNotFound
}

func (r *fakeScheduleRepo) Update(_ context.Context, s *schedule.Schedule) error {
	if _, ok := r.slots[s.ID]; !ok {
		return schedule.ErrScheduleNotFound
	}
	r.slots[s.ID] = s
	return nil
}

func (r *fakeScheduleRepo) Deactivate(_ context.Context, id string) error {
	if s, ok := r.slots[id]; ok {
		s.Deactivate()
		return nil
	}
	return schedule.ErrScheduleNotFound
}

func (r *fakeScheduleRepo) GetByClass(_ context.Context, classID string) ([]*schedule.Schedule, error) {
	var out []*schedule.Schedule
	for _, s := range r.slots {
		if s.Active && s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) GetByTeacher(_ context.Context, teacherID string) ([]*schedule.Schedule, error) {
	var out []*schedule.Schedule
	for _, s := range r.slots {
		if s.Active && s.TeacherID == teacherID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) GetSiblings(_ context.Context, classID, teacherID string, day schedule.Weekday) ([]*schedule.Schedule, error) {
	var out []*schedule.Schedule
	for _, s := range r.slots {
		if !s.Active || s.DayOfWeek != day {
			continue
		}
		if s.ClassID == classID || s.TeacherID == teacherID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	records map[string]*attendance.Record
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.Record)}
}

func (r *fakeAttendanceRepo) Create(_ context.Context, rec *attendance.Record) error {
	r.records[rec.ID] = rec
	return nil
}

func (r *fakeAttendanceRepo) GetByID(_ context.Context, id string) (*attendance.Record, error) {
	if rec, ok := r.records[id]; ok {
		return rec, nil
	}
	return nil, attendance.ErrRecordNotFound
}

func (r *fakeAttendanceRepo) Update(_ context.Context, rec *attendance.Record) error {
	if _, ok := r.records[rec.ID]; !ok {
		return attendance.ErrRecordNotFound
	}
	r.records[rec.ID] = rec
	return nil
}

func (r *fakeAttendanceRepo) Deactivate(_ context.Context, id string) error {
	if rec, ok := r.records[id]; ok {
		rec.Deactivate()
		return nil
	}
	return attendance.ErrRecordNotFound
}

func (r *fakeAttendanceRepo) GetByStudent(_ context.Context, studentID string) ([]*attendance.Record, error) {
	var out []*attendance.Record
	for _, rec := range r.records {
		if rec.Active && rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) GetByClassAndDate(_ context.Context, classID string, date time.Time) ([]*attendance.Record, error) {
	var out []*attendance.Record
	day := timeutil.DateOf(date)
	for _, rec := range r.records {
		if rec.Active && rec.ClassID == classID && rec.Date.Equal(day) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ExistsDuplicate(_ context.Context, studentID string, date time.Time, courseID string) (bool, error) {
	day := timeutil.DateOf(date)
	for _, rec := range r.records {
		if rec.Active && rec.StudentID == studentID && rec.CourseID == courseID && rec.Date.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAttendanceRepo) Report(_ context.Context, filter attendance.ReportFilter) ([]attendance.ReportRow, error) {
	type key struct {
		student string
		class   string
		course  string
		date    time.Time
		status  attendance.Status
	}
	counts := make(map[key]int)
	for _, rec := range r.records {
		if !rec.Active {
			continue
		}
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		if filter.ClassID != "" && rec.ClassID != filter.ClassID {
			continue
		}
		if filter.CourseID != "" && rec.CourseID != filter.CourseID {
			continue
		}
		if !filter.From.IsZero() && rec.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && rec.Date.After(filter.To) {
			continue
		}
		counts[key{rec.StudentID, rec.ClassID, rec.CourseID, rec.Date, rec.Status}]++
	}
	rows := make([]attendance.ReportRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, attendance.ReportRow{
			StudentID: k.student,
			ClassID:   k.class,
			CourseID:  k.course,
			Date:      k.date,
			Status:    k.status,
			Count:     n,
		})
	}
	return rows, nil
}

// newTestStudent builds an enrolled student for handler tests.
func newTestStudent(id, name, classID string) *student.Student {
	return &student.Student{
		ID:      id,
		Name:    name,
		ClassID: classID,
		Status:  student.StatusActive,
		Active:  true,
	}
}
