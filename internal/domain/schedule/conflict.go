package schedule

import "github.com/alem-hub/school-records/internal/domain/shared"

// ══════════════════════════════════════════════════════════════════════════════
// CONFLICT DETECTION
// Два слота пересекаются тогда и только тогда, когда s1 < e2 && s2 < e1.
// Слоты, соприкасающиеся границами (конец одного == начало другого),
// конфликтом не считаются.
// ══════════════════════════════════════════════════════════════════════════════

// Overlaps сообщает, пересекаются ли интервалы двух слотов одного дня недели.
// День недели и принадлежность (класс/преподаватель) проверяет вызывающая
// сторона; здесь только сравнение интервалов.
func (s *Schedule) Overlaps(other *Schedule) bool {
	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}

// FindConflict ищет первый конфликт кандидата среди существующих слотов.
// Конфликтом считается активный слот того же класса либо того же
// преподавателя в тот же день недели с пересекающимся интервалом.
// Сам кандидат (совпадающий ID) пропускается, что позволяет повторно
// проверять слот при переносе. Календарные границы StartDate/EndDate
// намеренно не учитываются: слоты одного дня недели считаются
// одновременными даже при непересекающихся датах действия.
func FindConflict(candidate *Schedule, existing []*Schedule) error {
	for _, other := range existing {
		if other == nil || !other.Active {
			continue
		}
		if other.ID == candidate.ID {
			continue
		}
		if other.DayOfWeek != candidate.DayOfWeek {
			continue
		}
		if !candidate.Overlaps(other) {
			continue
		}
		if other.ClassID == candidate.ClassID {
			return shared.NewClassConflict(candidate.ClassID, other.ID)
		}
		if other.TeacherID == candidate.TeacherID {
			return shared.NewTeacherConflict(candidate.TeacherID, other.ID)
		}
	}
	return nil
}
