// Package postgres implements the PostgreSQL persistence layer for the
// school records system.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE TEACHERS AND CLASSES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create teachers and classes tables
-- Version: 001

CREATE TABLE IF NOT EXISTS teachers (
    id UUID PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    email VARCHAR(200) NOT NULL,
    phone VARCHAR(50) NOT NULL DEFAULT '',
    hire_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    department VARCHAR(100) NOT NULL DEFAULT '',
    specialization VARCHAR(100) NOT NULL DEFAULT '',
    qualification VARCHAR(30) NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    notes TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE,
    total_courses INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT teachers_valid_status CHECK (status IN ('draft', 'active', 'on_leave', 'terminated')),
    CONSTRAINT teachers_valid_total_courses CHECK (total_courses >= 0)
);

CREATE INDEX IF NOT EXISTS idx_teachers_status ON teachers(status);
CREATE INDEX IF NOT EXISTS idx_teachers_active ON teachers(active) WHERE active;

CREATE TABLE IF NOT EXISTS classes (
    id UUID PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    -- Codes stay unique across soft-deleted rows too.
    code VARCHAR(50) NOT NULL UNIQUE,
    level INTEGER NOT NULL,
    section VARCHAR(20) NOT NULL DEFAULT '',
    capacity INTEGER NOT NULL DEFAULT 0,
    room VARCHAR(50) NOT NULL DEFAULT '',
    head_teacher_id UUID REFERENCES teachers(id),
    notes TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE,
    student_count INTEGER NOT NULL DEFAULT 0,
    average_class_grade DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT classes_valid_level CHECK (level >= 1 AND level <= 6),
    CONSTRAINT classes_valid_capacity CHECK (capacity >= 0)
);

CREATE INDEX IF NOT EXISTS idx_classes_code ON classes(code);
CREATE INDEX IF NOT EXISTS idx_classes_head_teacher ON classes(head_teacher_id);
CREATE INDEX IF NOT EXISTS idx_classes_active ON classes(active) WHERE active;
`

const migration001Down = `
DROP TABLE IF EXISTS classes;
DROP TABLE IF EXISTS teachers;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create students table
-- Version: 002

CREATE TABLE IF NOT EXISTS students (
    id UUID PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    email VARCHAR(200) NOT NULL DEFAULT '',
    phone VARCHAR(50) NOT NULL DEFAULT '',
    date_of_birth TIMESTAMP WITH TIME ZONE,
    gender VARCHAR(20) NOT NULL DEFAULT '',
    street VARCHAR(200) NOT NULL DEFAULT '',
    city VARCHAR(100) NOT NULL DEFAULT '',
    zip VARCHAR(20) NOT NULL DEFAULT '',
    guardian_name VARCHAR(200) NOT NULL DEFAULT '',
    guardian_phone VARCHAR(50) NOT NULL DEFAULT '',
    guardian_email VARCHAR(200) NOT NULL DEFAULT '',
    guardian_relation VARCHAR(50) NOT NULL DEFAULT '',
    class_id UUID REFERENCES classes(id),
    admission_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    notes TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE,

    -- Derived fields, recomputed by the recompute engine.
    age INTEGER NOT NULL DEFAULT 0,
    average_grade DOUBLE PRECISION NOT NULL DEFAULT 0,
    attendance_rate DOUBLE PRECISION NOT NULL DEFAULT 0,

    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT students_valid_status CHECK (status IN ('draft', 'active', 'graduated', 'suspended', 'expelled')),
    CONSTRAINT students_valid_age CHECK (age >= 0)
);

CREATE INDEX IF NOT EXISTS idx_students_class ON students(class_id);
CREATE INDEX IF NOT EXISTS idx_students_status ON students(status);
CREATE INDEX IF NOT EXISTS idx_students_active ON students(active) WHERE active;
CREATE INDEX IF NOT EXISTS idx_students_class_active ON students(class_id) WHERE active;
`

const migration002Down = `
DROP TABLE IF EXISTS students;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE COURSES AND GRADES
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create courses and grades tables
-- Version: 003

CREATE TABLE IF NOT EXISTS courses (
    id UUID PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    -- Codes stay unique across soft-deleted rows too.
    code VARCHAR(50) NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    credits INTEGER NOT NULL DEFAULT 0,
    hours_per_week INTEGER NOT NULL DEFAULT 0,
    teacher_id UUID NOT NULL REFERENCES teachers(id),
    class_id UUID NOT NULL REFERENCES classes(id),
    start_date TIMESTAMP WITH TIME ZONE,
    end_date TIMESTAMP WITH TIME ZONE,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    average_course_grade DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT courses_valid_credits CHECK (credits >= 0),
    CONSTRAINT courses_valid_hours CHECK (hours_per_week >= 0)
);

CREATE INDEX IF NOT EXISTS idx_courses_teacher ON courses(teacher_id);
CREATE INDEX IF NOT EXISTS idx_courses_class ON courses(class_id);
CREATE INDEX IF NOT EXISTS idx_courses_teacher_active ON courses(teacher_id) WHERE active;

CREATE TABLE IF NOT EXISTS grades (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    value DOUBLE PRECISION NOT NULL,
    max_value DOUBLE PRECISION NOT NULL,
    evaluation_type VARCHAR(30) NOT NULL,
    semester VARCHAR(20) NOT NULL,
    date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    graded_by UUID,
    remarks TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE,
    percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
    letter VARCHAR(5) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT grades_valid_value CHECK (value >= 0 AND value <= max_value),
    CONSTRAINT grades_valid_max CHECK (max_value > 0)
);

CREATE INDEX IF NOT EXISTS idx_grades_student ON grades(student_id);
CREATE INDEX IF NOT EXISTS idx_grades_course ON grades(course_id);
CREATE INDEX IF NOT EXISTS idx_grades_student_course ON grades(student_id, course_id) WHERE active;
CREATE INDEX IF NOT EXISTS idx_grades_date ON grades(date DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS grades;
DROP TABLE IF EXISTS courses;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE SCHEDULES AND ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create schedules and attendance tables
-- Version: 004

-- btree_gist lets the exclusion constraints mix equality on UUID columns
-- with range overlap on the time window.
CREATE EXTENSION IF NOT EXISTS btree_gist;

CREATE TABLE IF NOT EXISTS schedules (
    id UUID PRIMARY KEY,
    class_id UUID NOT NULL REFERENCES classes(id),
    course_id UUID NOT NULL REFERENCES courses(id),
    teacher_id UUID NOT NULL REFERENCES teachers(id),
    day_of_week VARCHAR(10) NOT NULL,
    start_time DOUBLE PRECISION NOT NULL,
    end_time DOUBLE PRECISION NOT NULL,
    room VARCHAR(50) NOT NULL DEFAULT '',
    session_type VARCHAR(20) NOT NULL DEFAULT 'lecture',
    start_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    end_date TIMESTAMP WITH TIME ZONE,
    notes TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE,
    duration DOUBLE PRECISION NOT NULL DEFAULT 0,
    display_name VARCHAR(300) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT schedules_valid_day CHECK (day_of_week IN ('monday', 'tuesday', 'wednesday', 'thursday', 'friday', 'saturday', 'sunday')),
    CONSTRAINT schedules_valid_start CHECK (start_time >= 0 AND start_time < 24),
    CONSTRAINT schedules_valid_end CHECK (end_time > 0 AND end_time <= 24),
    CONSTRAINT schedules_valid_order CHECK (start_time < end_time),
    CONSTRAINT schedules_valid_session CHECK (session_type IN ('lecture', 'tutorial', 'practical', 'exam')),

    -- Database-level backstop for the application conflict check:
    -- a class cannot sit in two overlapping slots on the same weekday,
    -- and neither can a teacher. Half-open ranges keep back-to-back
    -- slots (end == next start) legal.
    CONSTRAINT schedules_no_class_overlap EXCLUDE USING gist (
        class_id WITH =,
        day_of_week WITH =,
        numrange(start_time::numeric, end_time::numeric, '[)') WITH &&
    ) WHERE (active),
    CONSTRAINT schedules_no_teacher_overlap EXCLUDE USING gist (
        teacher_id WITH =,
        day_of_week WITH =,
        numrange(start_time::numeric, end_time::numeric, '[)') WITH &&
    ) WHERE (active)
);

CREATE INDEX IF NOT EXISTS idx_schedules_class ON schedules(class_id);
CREATE INDEX IF NOT EXISTS idx_schedules_teacher ON schedules(teacher_id);
CREATE INDEX IF NOT EXISTS idx_schedules_class_day ON schedules(class_id, day_of_week) WHERE active;
CREATE INDEX IF NOT EXISTS idx_schedules_teacher_day ON schedules(teacher_id, day_of_week) WHERE active;

CREATE TABLE IF NOT EXISTS attendance (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    class_id UUID,
    course_id UUID,
    date TIMESTAMP WITH TIME ZONE NOT NULL,
    status VARCHAR(20) NOT NULL,
    check_in DOUBLE PRECISION NOT NULL DEFAULT 0,
    check_out DOUBLE PRECISION NOT NULL DEFAULT 0,
    remarks TEXT NOT NULL DEFAULT '',
    marked_by UUID,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    display_name VARCHAR(300) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT attendance_valid_status CHECK (status IN ('present', 'absent', 'late', 'excused'))
);

CREATE INDEX IF NOT EXISTS idx_attendance_student ON attendance(student_id);
CREATE INDEX IF NOT EXISTS idx_attendance_class_date ON attendance(class_id, date);
CREATE INDEX IF NOT EXISTS idx_attendance_student_date ON attendance(student_id, date DESC);

-- One record per student, day and course. Daily records carry no course
-- and are not deduplicated here.
CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_student_date_course
    ON attendance(student_id, date, course_id)
    WHERE active AND course_id IS NOT NULL;
`

const migration004Down = `
DROP TABLE IF EXISTS attendance;
DROP TABLE IF EXISTS schedules;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 005: CREATE AUDIT LOG
// ══════════════════════════════════════════════════════════════════════════════

const migration005Up = `
-- Migration: Create audit log table
-- Version: 005

CREATE TABLE IF NOT EXISTS audit_log (
    id UUID PRIMARY KEY,
    entity_kind VARCHAR(50) NOT NULL,
    entity_id VARCHAR(100) NOT NULL,
    event_type VARCHAR(100) NOT NULL,
    actor VARCHAR(100) NOT NULL DEFAULT '',
    payload JSONB,
    occurred_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_kind, entity_id);
CREATE INDEX IF NOT EXISTS idx_audit_occurred_at ON audit_log(occurred_at DESC);
`

const migration005Down = `
DROP TABLE IF EXISTS audit_log;
`

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_teachers_and_classes",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_students",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_courses_and_grades",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
		{
			Version: 4,
			Name:    "create_schedules_and_attendance",
			UpSQL:   migration004Up,
			DownSQL: migration004Down,
		},
		{
			Version: 5,
			Name:    "create_audit_log",
			UpSQL:   migration005Up,
			DownSQL: migration005Down,
		},
	}
}
