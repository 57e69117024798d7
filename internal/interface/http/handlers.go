// Package http exposes the school records application over a small REST API.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/alem-hub/school-records/internal/application/command"
	"github.com/alem-hub/school-records/internal/application/query"
	"github.com/alem-hub/school-records/internal/domain/attendance"
	"github.com/alem-hub/school-records/internal/domain/class"
	"github.com/alem-hub/school-records/internal/domain/course"
	"github.com/alem-hub/school-records/internal/domain/grade"
	"github.com/alem-hub/school-records/internal/domain/schedule"
	"github.com/alem-hub/school-records/internal/domain/student"
	"github.com/alem-hub/school-records/internal/domain/teacher"
	"github.com/alem-hub/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "School Records API",
		"version":     "v1",
		"description": "REST API for school academic records: students, grades, schedules, attendance",
		"endpoints": map[string]string{
			"health":     "/health",
			"students":   "/api/v1/students",
			"teachers":   "/api/v1/teachers",
			"grades":     "/api/v1/grades",
			"schedules":  "/api/v1/schedules",
			"attendance": "/api/v1/attendance",
		},
	}

	writeJSON(w, r, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, r, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, r, http.StatusOK, status)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type enrollStudentRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	DateOfBirth   string `json:"date_of_birth"`
	Gender        string `json:"gender"`
	Street        string `json:"street"`
	City          string `json:"city"`
	Zip           string `json:"zip"`
	ClassID       string `json:"class_id"`
	AdmissionDate string `json:"admission_date"`
	Notes         string `json:"notes"`
	Actor         string `json:"actor"`

	Guardian struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Relation string `json:"relation"`
	} `json:"guardian"`
}

// handleEnrollStudent handles POST /api/v1/students
func (s *Server) handleEnrollStudent(w http.ResponseWriter, r *http.Request) {
	var req enrollStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cmd := command.EnrollStudentCommand{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		DateOfBirth:   parseDate(req.DateOfBirth),
		Gender:        student.Gender(req.Gender),
		Street:        req.Street,
		City:          req.City,
		Zip:           req.Zip,
		ClassID:       req.ClassID,
		AdmissionDate: parseDate(req.AdmissionDate),
		Notes:         req.Notes,
		Actor:         req.Actor,
		Guardian: student.Guardian{
			Name:     req.Guardian.Name,
			Phone:    req.Guardian.Phone,
			Email:    req.Guardian.Email,
			Relation: req.Guardian.Relation,
		},
	}

	result, err := s.deps.EnrollStudent.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toStudentResponse(result.Student))
}

type changeStatusRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

// handleChangeStudentStatus handles PATCH /api/v1/students/{id}/status
func (s *Server) handleChangeStudentStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	st, err := s.deps.ChangeStudentStatus.Handle(r.Context(), command.ChangeStudentStatusCommand{
		StudentID: r.PathValue("id"),
		Status:    student.Status(req.Status),
		Actor:     req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toStudentResponse(st))
}

type assignClassRequest struct {
	ClassID string `json:"class_id"`
	Actor   string `json:"actor"`
}

// handleAssignStudentClass handles PUT /api/v1/students/{id}/class
func (s *Server) handleAssignStudentClass(w http.ResponseWriter, r *http.Request) {
	var req assignClassRequest
	if !decodeBody(w, r, &req) {
		return
	}

	st, err := s.deps.AssignStudentClass.Handle(r.Context(), command.AssignStudentClassCommand{
		StudentID: r.PathValue("id"),
		ClassID:   req.ClassID,
		Actor:     req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toStudentResponse(st))
}

// handleStudentTranscript handles GET /api/v1/students/{id}/transcript
func (s *Server) handleStudentTranscript(w http.ResponseWriter, r *http.Request) {
	q := query.StudentTranscriptQuery{
		StudentID: r.PathValue("id"),
		Semester:  grade.Semester(r.URL.Query().Get("semester")),
	}

	transcript, err := s.deps.StudentTranscript.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, transcript)
}

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type registerTeacherRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	HireDate       string `json:"hire_date"`
	Department     string `json:"department"`
	Specialization string `json:"specialization"`
	Qualification  string `json:"qualification"`
	Notes          string `json:"notes"`
	Actor          string `json:"actor"`
}

// handleRegisterTeacher handles POST /api/v1/teachers
func (s *Server) handleRegisterTeacher(w http.ResponseWriter, r *http.Request) {
	var req registerTeacherRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := s.deps.RegisterTeacher.Handle(r.Context(), command.RegisterTeacherCommand{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		HireDate:       parseDate(req.HireDate),
		Department:     req.Department,
		Specialization: req.Specialization,
		Qualification:  teacher.Qualification(req.Qualification),
		Notes:          req.Notes,
		Actor:          req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toTeacherResponse(t))
}

// handleChangeTeacherStatus handles PATCH /api/v1/teachers/{id}/status
func (s *Server) handleChangeTeacherStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := s.deps.ChangeTeacherStatus.Handle(r.Context(), command.ChangeTeacherStatusCommand{
		TeacherID: r.PathValue("id"),
		Status:    teacher.Status(req.Status),
		Actor:     req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toTeacherResponse(t))
}

// ══════════════════════════════════════════════════════════════════════════════
// CLASS & COURSE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type createClassRequest struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	Level         int    `json:"level"`
	Section       string `json:"section"`
	Capacity      int    `json:"capacity"`
	Room          string `json:"room"`
	HeadTeacherID string `json:"head_teacher_id"`
	Notes         string `json:"notes"`
	Actor         string `json:"actor"`
}

// handleCreateClass handles POST /api/v1/classes
func (s *Server) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	var req createClassRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := s.deps.CreateClass.Handle(r.Context(), command.CreateClassCommand{
		Name:          req.Name,
		Code:          req.Code,
		Level:         req.Level,
		Section:       req.Section,
		Capacity:      req.Capacity,
		Room:          req.Room,
		HeadTeacherID: req.HeadTeacherID,
		Notes:         req.Notes,
		Actor:         req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toClassResponse(c))
}

type createCourseRequest struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	Credits      int    `json:"credits"`
	HoursPerWeek int    `json:"hours_per_week"`
	TeacherID    string `json:"teacher_id"`
	ClassID      string `json:"class_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Actor        string `json:"actor"`
}

// handleCreateCourse handles POST /api/v1/courses
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := s.deps.CreateCourse.Handle(r.Context(), command.CreateCourseCommand{
		Name:         req.Name,
		Code:         req.Code,
		Description:  req.Description,
		Credits:      req.Credits,
		HoursPerWeek: req.HoursPerWeek,
		TeacherID:    req.TeacherID,
		ClassID:      req.ClassID,
		StartDate:    parseDate(req.StartDate),
		EndDate:      parseDate(req.EndDate),
		Actor:        req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toCourseResponse(c))
}

type reassignTeacherRequest struct {
	TeacherID string `json:"teacher_id"`
	Actor     string `json:"actor"`
}

// handleReassignCourseTeacher handles PUT /api/v1/courses/{id}/teacher
func (s *Server) handleReassignCourseTeacher(w http.ResponseWriter, r *http.Request) {
	var req reassignTeacherRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := s.deps.ReassignCourseTeacher.Handle(r.Context(), command.ReassignCourseTeacherCommand{
		CourseID:  r.PathValue("id"),
		TeacherID: req.TeacherID,
		Actor:     req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toCourseResponse(c))
}

// ══════════════════════════════════════════════════════════════════════════════
// GRADE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type recordGradeRequest struct {
	StudentID      string  `json:"student_id"`
	CourseID       string  `json:"course_id"`
	Value          float64 `json:"value"`
	MaxValue       float64 `json:"max_value"`
	EvaluationType string  `json:"evaluation_type"`
	Semester       string  `json:"semester"`
	Date           string  `json:"date"`
	GradedBy       string  `json:"graded_by"`
	Remarks        string  `json:"remarks"`
	Actor          string  `json:"actor"`
}

// handleRecordGrade handles POST /api/v1/grades
func (s *Server) handleRecordGrade(w http.ResponseWriter, r *http.Request) {
	var req recordGradeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RecordGrade.Handle(r.Context(), command.RecordGradeCommand{
		StudentID:      req.StudentID,
		CourseID:       req.CourseID,
		Value:          req.Value,
		MaxValue:       req.MaxValue,
		EvaluationType: grade.EvaluationType(req.EvaluationType),
		Semester:       grade.Semester(req.Semester),
		Date:           parseDate(req.Date),
		GradedBy:       req.GradedBy,
		Remarks:        req.Remarks,
		Actor:          req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toGradeResponse(result.Grade))
}

type rescoreGradeRequest struct {
	Value    float64 `json:"value"`
	MaxValue float64 `json:"max_value"`
	Actor    string  `json:"actor"`
}

// handleRescoreGrade handles PUT /api/v1/grades/{id}/score
func (s *Server) handleRescoreGrade(w http.ResponseWriter, r *http.Request) {
	var req rescoreGradeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := s.deps.RescoreGrade.Handle(r.Context(), command.RescoreGradeCommand{
		GradeID:  r.PathValue("id"),
		Value:    req.Value,
		MaxValue: req.MaxValue,
		Actor:    req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toGradeResponse(g))
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type planScheduleRequest struct {
	ClassID     string  `json:"class_id"`
	CourseID    string  `json:"course_id"`
	TeacherID   string  `json:"teacher_id"`
	DayOfWeek   string  `json:"day_of_week"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	Room        string  `json:"room"`
	SessionType string  `json:"session_type"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Notes       string  `json:"notes"`
	Actor       string  `json:"actor"`
}

// handlePlanSchedule handles POST /api/v1/schedules
func (s *Server) handlePlanSchedule(w http.ResponseWriter, r *http.Request) {
	var req planScheduleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.PlanSchedule.Handle(r.Context(), command.PlanScheduleCommand{
		ClassID:     req.ClassID,
		CourseID:    req.CourseID,
		TeacherID:   req.TeacherID,
		DayOfWeek:   schedule.Weekday(req.DayOfWeek),
		StartTime:   timeutil.ClockHours(req.StartTime),
		EndTime:     timeutil.ClockHours(req.EndTime),
		Room:        req.Room,
		SessionType: schedule.SessionType(req.SessionType),
		StartDate:   parseDate(req.StartDate),
		EndDate:     parseDate(req.EndDate),
		Notes:       req.Notes,
		Actor:       req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toScheduleResponse(result.Schedule))
}

type reslotScheduleRequest struct {
	DayOfWeek string  `json:"day_of_week"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Actor     string  `json:"actor"`
}

// handleReslotSchedule handles PUT /api/v1/schedules/{id}/slot
func (s *Server) handleReslotSchedule(w http.ResponseWriter, r *http.Request) {
	var req reslotScheduleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sch, err := s.deps.ReslotSchedule.Handle(r.Context(), command.ReslotScheduleCommand{
		ScheduleID: r.PathValue("id"),
		DayOfWeek:  schedule.Weekday(req.DayOfWeek),
		StartTime:  timeutil.ClockHours(req.StartTime),
		EndTime:    timeutil.ClockHours(req.EndTime),
		Actor:      req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toScheduleResponse(sch))
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type markAttendanceRequest struct {
	StudentID string  `json:"student_id"`
	CourseID  string  `json:"course_id"`
	Date      string  `json:"date"`
	Status    string  `json:"status"`
	CheckIn   float64 `json:"check_in"`
	CheckOut  float64 `json:"check_out"`
	Remarks   string  `json:"remarks"`
	Actor     string  `json:"actor"`
}

// handleMarkAttendance handles POST /api/v1/attendance
func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.MarkAttendance.Handle(r.Context(), command.MarkAttendanceCommand{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Date:      parseDate(req.Date),
		Status:    attendance.Status(req.Status),
		CheckIn:   timeutil.ClockHours(req.CheckIn),
		CheckOut:  timeutil.ClockHours(req.CheckOut),
		Remarks:   req.Remarks,
		Actor:     req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toAttendanceResponse(result.Record))
}

type markBulkAttendanceRequest struct {
	StudentIDs []string `json:"student_ids"`
	CourseID   string   `json:"course_id"`
	Date       string   `json:"date"`
	Status     string   `json:"status"`
	Actor      string   `json:"actor"`
}

type bulkAttendanceResponse struct {
	TotalCount   int                   `json:"total_count"`
	SuccessCount int                   `json:"success_count"`
	FailedCount  int                   `json:"failed_count"`
	Records      []*attendanceResponse `json:"records"`
	Errors       map[string]string     `json:"errors,omitempty"`
}

// handleMarkBulkAttendance handles POST /api/v1/attendance/bulk
func (s *Server) handleMarkBulkAttendance(w http.ResponseWriter, r *http.Request) {
	var req markBulkAttendanceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.MarkBulkAttendance.Handle(r.Context(), command.MarkBulkAttendanceCommand{
		StudentIDs: req.StudentIDs,
		CourseID:   req.CourseID,
		Date:       parseDate(req.Date),
		Status:     attendance.Status(req.Status),
		Actor:      req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := bulkAttendanceResponse{
		TotalCount:   result.TotalCount,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
	}
	for _, rec := range result.Records {
		resp.Records = append(resp.Records, toAttendanceResponse(rec))
	}
	if len(result.Errors) > 0 {
		resp.Errors = make(map[string]string, len(result.Errors))
		for id, e := range result.Errors {
			resp.Errors[id] = e.Error()
		}
	}

	// Partial failure is reported per student, not as a request error.
	writeJSON(w, r, http.StatusOK, resp)
}

// handleAttendanceReport handles GET /api/v1/attendance/report
func (s *Server) handleAttendanceReport(w http.ResponseWriter, r *http.Request) {
	q := query.AttendanceReportQuery{
		StudentID: r.URL.Query().Get("student_id"),
		ClassID:   r.URL.Query().Get("class_id"),
		CourseID:  r.URL.Query().Get("course_id"),
		From:      parseDate(r.URL.Query().Get("from")),
		To:        parseDate(r.URL.Query().Get("to")),
	}

	report, err := s.deps.AttendanceReport.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, r, http.StatusOK, report)
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE MAPPING
// ══════════════════════════════════════════════════════════════════════════════

type studentResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	DateOfBirth    string  `json:"date_of_birth,omitempty"`
	Gender         string  `json:"gender,omitempty"`
	ClassID        string  `json:"class_id,omitempty"`
	AdmissionDate  string  `json:"admission_date,omitempty"`
	Status         string  `json:"status"`
	Age            int     `json:"age"`
	AverageGrade   float64 `json:"average_grade"`
	AttendanceRate float64 `json:"attendance_rate"`
}

func toStudentResponse(s *student.Student) *studentResponse {
	return &studentResponse{
		ID:             s.ID,
		Name:           s.Name,
		Email:          s.Email,
		Phone:          s.Phone,
		DateOfBirth:    formatDate(s.DateOfBirth),
		Gender:         string(s.Gender),
		ClassID:        s.ClassID,
		AdmissionDate:  formatDate(s.AdmissionDate),
		Status:         string(s.Status),
		Age:            s.Age,
		AverageGrade:   s.AverageGrade,
		AttendanceRate: s.AttendanceRate,
	}
}

type teacherResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	HireDate       string `json:"hire_date,omitempty"`
	Department     string `json:"department,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Qualification  string `json:"qualification,omitempty"`
	Status         string `json:"status"`
	TotalCourses   int    `json:"total_courses"`
}

func toTeacherResponse(t *teacher.Teacher) *teacherResponse {
	return &teacherResponse{
		ID:             t.ID,
		Name:           t.Name,
		Email:          t.Email,
		Phone:          t.Phone,
		HireDate:       formatDate(t.HireDate),
		Department:     t.Department,
		Specialization: t.Specialization,
		Qualification:  string(t.Qualification),
		Status:         string(t.Status),
		TotalCourses:   t.TotalCourses,
	}
}

type classResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Code              string  `json:"code"`
	Level             int     `json:"level"`
	Section           string  `json:"section,omitempty"`
	Capacity          int     `json:"capacity"`
	Room              string  `json:"room,omitempty"`
	HeadTeacherID     string  `json:"head_teacher_id,omitempty"`
	StudentCount      int     `json:"student_count"`
	AverageClassGrade float64 `json:"average_class_grade"`
}

func toClassResponse(c *class.Class) *classResponse {
	return &classResponse{
		ID:                c.ID,
		Name:              c.Name,
		Code:              c.Code,
		Level:             c.Level,
		Section:           c.Section,
		Capacity:          c.Capacity,
		Room:              c.Room,
		HeadTeacherID:     c.HeadTeacherID,
		StudentCount:      c.StudentCount,
		AverageClassGrade: c.AverageClassGrade,
	}
}

type courseResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Code               string  `json:"code"`
	Description        string  `json:"description,omitempty"`
	Credits            int     `json:"credits"`
	HoursPerWeek       int     `json:"hours_per_week"`
	TeacherID          string  `json:"teacher_id"`
	ClassID            string  `json:"class_id"`
	StartDate          string  `json:"start_date,omitempty"`
	EndDate            string  `json:"end_date,omitempty"`
	AverageCourseGrade float64 `json:"average_course_grade"`
}

func toCourseResponse(c *course.Course) *courseResponse {
	return &courseResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Code:               c.Code,
		Description:        c.Description,
		Credits:            c.Credits,
		HoursPerWeek:       c.HoursPerWeek,
		TeacherID:          c.TeacherID,
		ClassID:            c.ClassID,
		StartDate:          formatDate(c.StartDate),
		EndDate:            formatDate(c.EndDate),
		AverageCourseGrade: c.AverageCourseGrade,
	}
}

type gradeResponse struct {
	ID             string  `json:"id"`
	StudentID      string  `json:"student_id"`
	CourseID       string  `json:"course_id"`
	Value          float64 `json:"value"`
	MaxValue       float64 `json:"max_value"`
	EvaluationType string  `json:"evaluation_type"`
	Semester       string  `json:"semester"`
	Date           string  `json:"date"`
	GradedBy       string  `json:"graded_by,omitempty"`
	Percentage     float64 `json:"percentage"`
	Letter         string  `json:"letter"`
}

func toGradeResponse(g *grade.Grade) *gradeResponse {
	return &gradeResponse{
		ID:             g.ID,
		StudentID:      g.StudentID,
		CourseID:       g.CourseID,
		Value:          g.Value,
		MaxValue:       g.MaxValue,
		EvaluationType: string(g.EvaluationType),
		Semester:       string(g.Semester),
		Date:           formatDate(g.Date),
		GradedBy:       g.GradedBy,
		Percentage:     g.Percentage,
		Letter:         string(g.Letter),
	}
}

type scheduleResponse struct {
	ID          string  `json:"id"`
	ClassID     string  `json:"class_id"`
	CourseID    string  `json:"course_id"`
	TeacherID   string  `json:"teacher_id"`
	DayOfWeek   string  `json:"day_of_week"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	Room        string  `json:"room,omitempty"`
	SessionType string  `json:"session_type"`
	Duration    float64 `json:"duration"`
	DisplayName string  `json:"display_name"`
}

func toScheduleResponse(s *schedule.Schedule) *scheduleResponse {
	return &scheduleResponse{
		ID:          s.ID,
		ClassID:     s.ClassID,
		CourseID:    s.CourseID,
		TeacherID:   s.TeacherID,
		DayOfWeek:   string(s.DayOfWeek),
		StartTime:   float64(s.StartTime),
		EndTime:     float64(s.EndTime),
		Room:        s.Room,
		SessionType: string(s.SessionType),
		Duration:    s.Duration,
		DisplayName: s.DisplayName,
	}
}

type attendanceResponse struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"student_id"`
	ClassID     string  `json:"class_id,omitempty"`
	CourseID    string  `json:"course_id,omitempty"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	CheckIn     float64 `json:"check_in,omitempty"`
	CheckOut    float64 `json:"check_out,omitempty"`
	Remarks     string  `json:"remarks,omitempty"`
	DisplayName string  `json:"display_name"`
}

func toAttendanceResponse(rec *attendance.Record) *attendanceResponse {
	return &attendanceResponse{
		ID:          rec.ID,
		StudentID:   rec.StudentID,
		ClassID:     rec.ClassID,
		CourseID:    rec.CourseID,
		Date:        formatDate(rec.Date),
		Status:      string(rec.Status),
		CheckIn:     float64(rec.CheckIn),
		CheckOut:    float64(rec.CheckOut),
		Remarks:     rec.Remarks,
		DisplayName: rec.DisplayName,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return false
	}
	return true
}

// parseDate parses an ISO date ("2006-01-02"); empty or malformed input
// yields a zero time, which commands treat as "not provided".
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// formatDate renders a date as ISO; zero times render as empty strings.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
