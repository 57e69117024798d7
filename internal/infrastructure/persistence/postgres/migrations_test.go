package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/school-records/internal/domain/attendance"
	"github.com/alem-hub/school-records/internal/domain/student"
	"github.com/alem-hub/school-records/internal/domain/teacher"
)

// Every status the domain can write must pass the CHECK constraint of its
// table, draft included: new students and teachers are inserted in draft
// before activation.
func TestMigrations_StatusChecksAcceptDomainStatuses(t *testing.T) {
	tests := []struct {
		constraint string
		statuses   []string
	}{
		{
			constraint: "teachers_valid_status",
			statuses: []string{
				string(teacher.StatusDraft),
				string(teacher.StatusActive),
				string(teacher.StatusOnLeave),
				string(teacher.StatusTerminated),
			},
		},
		{
			constraint: "students_valid_status",
			statuses: []string{
				string(student.StatusDraft),
				string(student.StatusActive),
				string(student.StatusGraduated),
				string(student.StatusSuspended),
				string(student.StatusExpelled),
			},
		},
		{
			constraint: "attendance_valid_status",
			statuses: []string{
				string(attendance.StatusPresent),
				string(attendance.StatusAbsent),
				string(attendance.StatusLate),
				string(attendance.StatusExcused),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			clause := findCheckClause(t, tt.constraint)
			for _, s := range tt.statuses {
				assert.Contains(t, clause, "'"+s+"'", "status %q must pass %s", s, tt.constraint)
			}
		})
	}
}

// findCheckClause returns the IN list of the named CHECK constraint from
// the embedded migration SQL.
func findCheckClause(t *testing.T, constraint string) string {
	t.Helper()

	for _, m := range GetMigrations() {
		idx := strings.Index(m.UpSQL, constraint)
		if idx < 0 {
			continue
		}
		rest := m.UpSQL[idx:]
		end := strings.Index(rest, ")")
		require.GreaterOrEqual(t, end, 0, "unterminated IN list for %s", constraint)
		return rest[:end]
	}

	t.Fatalf("constraint %s not found in any migration", constraint)
	return ""
}
