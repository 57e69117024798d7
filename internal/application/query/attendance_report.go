// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/school-records/internal/domain/attendance"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE REPORT QUERY
// Сводка посещаемости: количество записей в разрезе
// (ученик, класс, курс, дата, статус) плюс итоги по статусам.
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceReportQuery содержит параметры сводки посещаемости.
type AttendanceReportQuery struct {
	// StudentID - ограничить одним учеником (пусто = все).
	StudentID string

	// ClassID - ограничить одним классом (пусто = все).
	ClassID string

	// CourseID - ограничить одним курсом (пусто = все).
	CourseID string

	// From, To - границы периода (нулевые = без границы).
	From time.Time
	To   time.Time
}

// Validate проверяет корректность параметров.
func (q *AttendanceReportQuery) Validate() error {
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return fmt.Errorf("attendance_report: period end precedes start")
	}
	return nil
}

// AttendanceReportRowDTO - строка сводки.
type AttendanceReportRowDTO struct {
	// StudentID - ученик.
	StudentID string `json:"student_id"`

	// ClassID - класс.
	ClassID string `json:"class_id"`

	// CourseID - курс (пусто для общедневных отметок).
	CourseID string `json:"course_id,omitempty"`

	// Date - день.
	Date time.Time `json:"date"`

	// Status - статус посещаемости.
	Status attendance.Status `json:"status"`

	// Count - количество записей.
	Count int `json:"count"`
}

// AttendanceReportDTO - сводка посещаемости за период.
type AttendanceReportDTO struct {
	// Rows - строки сводки.
	Rows []AttendanceReportRowDTO `json:"rows"`

	// Totals - итоги по статусам за весь период.
	Totals map[attendance.Status]int `json:"totals"`

	// AttendedCount - записи, засчитанные как посещение (только present).
	AttendedCount int `json:"attended_count"`

	// TotalCount - все записи периода.
	TotalCount int `json:"total_count"`

	// AttendanceRate - доля посещений в процентах; 0 при пустом периоде.
	AttendanceRate float64 `json:"attendance_rate"`
}

// AttendanceReportHandler обрабатывает запрос сводки.
type AttendanceReportHandler struct {
	attendanceRepo attendance.Repository
}

// NewAttendanceReportHandler создаёт новый AttendanceReportHandler.
func NewAttendanceReportHandler(attendanceRepo attendance.Repository) *AttendanceReportHandler {
	return &AttendanceReportHandler{attendanceRepo: attendanceRepo}
}

// Handle выполняет запрос сводки посещаемости.
func (h *AttendanceReportHandler) Handle(ctx context.Context, q AttendanceReportQuery) (*AttendanceReportDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.attendanceRepo.Report(ctx, attendance.ReportFilter{
		StudentID: q.StudentID,
		ClassID:   q.ClassID,
		CourseID:  q.CourseID,
		From:      q.From,
		To:        q.To,
	})
	if err != nil {
		return nil, fmt.Errorf("attendance_report: %w", err)
	}

	report := &AttendanceReportDTO{
		Rows:   make([]AttendanceReportRowDTO, 0, len(rows)),
		Totals: make(map[attendance.Status]int),
	}
	for _, row := range rows {
		report.Rows = append(report.Rows, AttendanceReportRowDTO{
			StudentID: row.StudentID,
			ClassID:   row.ClassID,
			CourseID:  row.CourseID,
			Date:      row.Date,
			Status:    row.Status,
			Count:     row.Count,
		})
		report.Totals[row.Status] += row.Count
		report.TotalCount += row.Count
		if row.Status.CountsAsAttended() {
			report.AttendedCount += row.Count
		}
	}
	if report.TotalCount > 0 {
		report.AttendanceRate = float64(report.AttendedCount) / float64(report.TotalCount) * 100
	}

	return report, nil
}
