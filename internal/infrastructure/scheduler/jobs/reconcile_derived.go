// Package jobs contains the background jobs of the school records service.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alem-hub/school-records/internal/domain/class"
	"github.com/alem-hub/school-records/internal/domain/course"
	"github.com/alem-hub/school-records/internal/domain/student"
	"github.com/alem-hub/school-records/internal/domain/teacher"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECONCILE DERIVED VALUES JOB
// Пересчёт по событиям покрывает только изменения через команды. Возраст
// растёт без единой записи, а сбой между записью и пересчётом оставляет
// агрегат устаревшим. Ночная сверка пересчитывает все вычисляемые поля
// из первоисточников.
// ══════════════════════════════════════════════════════════════════════════════

// StudentSyncer пересчитывает вычисляемые поля ученика.
type StudentSyncer interface {
	GetAll(ctx context.Context) ([]*student.Student, error)
	SyncAge(ctx context.Context, id string) error
	SyncAverageGrade(ctx context.Context, id string) error
	SyncAttendanceRate(ctx context.Context, id string) error
}

// ClassSyncer пересчитывает вычисляемые поля класса.
type ClassSyncer interface {
	GetAll(ctx context.Context) ([]*class.Class, error)
	SyncStudentCount(ctx context.Context, id string) error
	SyncAverageGrade(ctx context.Context, id string) error
}

// CourseSyncer пересчитывает вычисляемые поля курсов класса.
type CourseSyncer interface {
	GetByClass(ctx context.Context, classID string) ([]*course.Course, error)
	SyncAverageGrade(ctx context.Context, id string) error
}

// TeacherSyncer пересчитывает вычисляемые поля преподавателя.
type TeacherSyncer interface {
	GetAll(ctx context.Context) ([]*teacher.Teacher, error)
	SyncTotalCourses(ctx context.Context, id string) error
}

// ReconcileDerivedJob сверяет все вычисляемые поля с первоисточниками.
type ReconcileDerivedJob struct {
	students StudentSyncer
	classes  ClassSyncer
	courses  CourseSyncer
	teachers TeacherSyncer
	logger   *slog.Logger
}

// NewReconcileDerivedJob создаёт задание сверки.
func NewReconcileDerivedJob(
	students StudentSyncer,
	classes ClassSyncer,
	courses CourseSyncer,
	teachers TeacherSyncer,
	logger *slog.Logger,
) *ReconcileDerivedJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileDerivedJob{
		students: students,
		classes:  classes,
		courses:  courses,
		teachers: teachers,
		logger:   logger.With("job", "reconcile_derived"),
	}
}

// Name возвращает уникальное имя задания.
func (j *ReconcileDerivedJob) Name() string {
	return "reconcile_derived"
}

// Description возвращает описание задания.
func (j *ReconcileDerivedJob) Description() string {
	return "recomputes all derived fields (ages, averages, counts) from their sources"
}

// Run выполняет полную сверку. Ошибки отдельных записей логируются и не
// прерывают проход: одна битая запись не должна останавливать сверку
// остальных.
func (j *ReconcileDerivedJob) Run(ctx context.Context) error {
	var synced, failed int

	students, err := j.students.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}
	for _, s := range students {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.syncStudent(ctx, s.ID); err != nil {
			failed++
			j.logger.Warn("student sync failed", "student_id", s.ID, "error", err)
			continue
		}
		synced++
	}

	classes, err := j.classes.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list classes: %w", err)
	}
	for _, c := range classes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.syncClass(ctx, c.ID); err != nil {
			failed++
			j.logger.Warn("class sync failed", "class_id", c.ID, "error", err)
			continue
		}
		synced++

		courses, err := j.courses.GetByClass(ctx, c.ID)
		if err != nil {
			failed++
			j.logger.Warn("course listing failed", "class_id", c.ID, "error", err)
			continue
		}
		for _, crs := range courses {
			if err := j.courses.SyncAverageGrade(ctx, crs.ID); err != nil {
				failed++
				j.logger.Warn("course sync failed", "course_id", crs.ID, "error", err)
				continue
			}
			synced++
		}
	}

	teachers, err := j.teachers.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list teachers: %w", err)
	}
	for _, t := range teachers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.teachers.SyncTotalCourses(ctx, t.ID); err != nil {
			failed++
			j.logger.Warn("teacher sync failed", "teacher_id", t.ID, "error", err)
			continue
		}
		synced++
	}

	j.logger.Info("reconciliation finished", "synced", synced, "failed", failed)

	if failed > 0 {
		return fmt.Errorf("reconciliation completed with %d failures", failed)
	}
	return nil
}

func (j *ReconcileDerivedJob) syncStudent(ctx context.Context, id string) error {
	if err := j.students.SyncAge(ctx, id); err != nil {
		return err
	}
	if err := j.students.SyncAverageGrade(ctx, id); err != nil {
		return err
	}
	return j.students.SyncAttendanceRate(ctx, id)
}

func (j *ReconcileDerivedJob) syncClass(ctx context.Context, id string) error {
	// Подсчёт учеников раньше среднего: среднее по классу читает
	// сохранённые средние учеников, уже пересчитанные выше.
	if err := j.classes.SyncStudentCount(ctx, id); err != nil {
		return err
	}
	return j.classes.SyncAverageGrade(ctx, id)
}
