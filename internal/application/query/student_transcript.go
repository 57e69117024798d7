package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alem-hub/school-records/internal/domain/grade"
	"github.com/alem-hub/school-records/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT TRANSCRIPT QUERY
// Табель ученика: карточка, все активные оценки и вычисляемые итоги.
// ══════════════════════════════════════════════════════════════════════════════

// StudentTranscriptQuery содержит параметры запроса табеля.
type StudentTranscriptQuery struct {
	// StudentID - внутренний ID ученика.
	StudentID string

	// Semester - ограничить одним семестром (пусто = оба).
	Semester grade.Semester
}

// Validate проверяет корректность параметров.
func (q *StudentTranscriptQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("student_transcript: student_id is required")
	}
	if q.Semester != "" && !q.Semester.IsValid() {
		return fmt.Errorf("student_transcript: unknown semester: %s", q.Semester)
	}
	return nil
}

// TranscriptGradeDTO - одна оценка табеля.
type TranscriptGradeDTO struct {
	// CourseID - курс.
	CourseID string `json:"course_id"`

	// EvaluationType - тип оценивания.
	EvaluationType grade.EvaluationType `json:"evaluation_type"`

	// Semester - семестр.
	Semester grade.Semester `json:"semester"`

	// Value, MaxValue - балл и максимум.
	Value    float64 `json:"value"`
	MaxValue float64 `json:"max_value"`

	// Percentage - процент, вычисляемое поле.
	Percentage float64 `json:"percentage"`

	// Letter - буквенная оценка.
	Letter grade.Letter `json:"letter"`

	// Date - дата оценки.
	Date time.Time `json:"date"`
}

// StudentTranscriptDTO - табель ученика.
type StudentTranscriptDTO struct {
	// StudentID, Name - идентификация ученика.
	StudentID string `json:"student_id"`
	Name      string `json:"name"`

	// Status - статус жизненного цикла.
	Status student.Status `json:"status"`

	// Age - возраст, вычисляемое поле.
	Age int `json:"age"`

	// AverageGrade - средний балл по всем активным оценкам
	// (среднее сырых значений, не процентов).
	AverageGrade float64 `json:"average_grade"`

	// AttendanceRate - процент посещаемости.
	AttendanceRate float64 `json:"attendance_rate"`

	// Grades - оценки, отсортированные по дате.
	Grades []TranscriptGradeDTO `json:"grades"`
}

// StudentTranscriptHandler обрабатывает запрос табеля.
type StudentTranscriptHandler struct {
	studentRepo student.Repository
	gradeRepo   grade.Repository
}

// NewStudentTranscriptHandler создаёт новый StudentTranscriptHandler.
func NewStudentTranscriptHandler(studentRepo student.Repository, gradeRepo grade.Repository) *StudentTranscriptHandler {
	return &StudentTranscriptHandler{
		studentRepo: studentRepo,
		gradeRepo:   gradeRepo,
	}
}

// Handle выполняет запрос табеля.
func (h *StudentTranscriptHandler) Handle(ctx context.Context, q StudentTranscriptQuery) (*StudentTranscriptDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	stud, err := h.studentRepo.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("student_transcript: %w", err)
	}

	grades, err := h.gradeRepo.GetByStudent(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("student_transcript: failed to load grades: %w", err)
	}

	transcript := &StudentTranscriptDTO{
		StudentID:      stud.ID,
		Name:           stud.Name,
		Status:         stud.Status,
		Age:            stud.Age,
		AverageGrade:   stud.AverageGrade,
		AttendanceRate: stud.AttendanceRate,
		Grades:         make([]TranscriptGradeDTO, 0, len(grades)),
	}

	for _, g := range grades {
		if q.Semester != "" && g.Semester != q.Semester {
			continue
		}
		transcript.Grades = append(transcript.Grades, TranscriptGradeDTO{
			CourseID:       g.CourseID,
			EvaluationType: g.EvaluationType,
			Semester:       g.Semester,
			Value:          g.Value,
			MaxValue:       g.MaxValue,
			Percentage:     g.Percentage,
			Letter:         g.Letter,
			Date:           g.Date,
		})
	}
	sort.Slice(transcript.Grades, func(i, j int) bool {
		return transcript.Grades[i].Date.Before(transcript.Grades[j].Date)
	})

	return transcript, nil
}
