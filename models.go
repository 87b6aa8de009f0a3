package lectures

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Profile is the application record behind a principal. Its ID equals
// the principal id issued by the identity backend.
type Profile struct {
	bun.BaseModel     `bun:"table:profiles,alias:prf"`
	ID                uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email             string         `bun:"email,notnull,unique" json:"email,omitempty"`
	FullName          string         `bun:"full_name,notnull" json:"full_name,omitempty"`
	Role              Role           `bun:"role,notnull" json:"role,omitempty"`
	Department        string         `bun:"department" json:"department,omitempty"`
	Level             string         `bun:"level" json:"level,omitempty"`
	NotificationEmail string         `bun:"notification_email" json:"notification_email,omitempty"`
	PasswordHash      string         `bun:"password_hash" json:"-"`
	LoginAttempts     int            `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt    *time.Time     `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt        *time.Time     `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	Metadata          map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt         *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt         *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt         *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// AddMetadata will append information to a metadata attribute
func (p *Profile) AddMetadata(key string, val any) *Profile {
	if p.Metadata == nil {
		p.Metadata = make(map[string]any)
	}
	p.Metadata[key] = val
	return p
}

// Course groups lectures under a lecturer for a department and level.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:crs"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Code          string     `bun:"code,notnull,unique" json:"code,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	LecturerID    *uuid.UUID `bun:"lecturer_id,type:uuid" json:"lecturer_id,omitempty"`
	Lecturer      *Profile   `bun:"rel:has-one,join:lecturer_id=id" json:"lecturer,omitempty"`
	Department    string     `bun:"department" json:"department,omitempty"`
	Level         string     `bun:"level" json:"level,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// LectureStatus is the lifecycle state of a scheduled lecture
type LectureStatus string

const (
	// LectureStatusScheduled is the initial state for new lectures
	LectureStatusScheduled LectureStatus = "scheduled"
	// LectureStatusOngoing marks a lecture currently in progress
	LectureStatusOngoing LectureStatus = "ongoing"
	// LectureStatusCompleted marks a finished lecture
	LectureStatusCompleted LectureStatus = "completed"
	// LectureStatusCancelled is terminal; cancelled lectures never restart
	LectureStatusCancelled LectureStatus = "cancelled"
)

// Lecture is a single scheduled meeting of a course.
type Lecture struct {
	bun.BaseModel `bun:"table:lectures,alias:lct"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CourseID      uuid.UUID     `bun:"course_id,notnull,type:uuid" json:"course_id,omitempty"`
	Course        *Course       `bun:"rel:has-one,join:course_id=id" json:"course,omitempty"`
	Title         string        `bun:"title,notnull" json:"title,omitempty"`
	Venue         string        `bun:"venue" json:"venue,omitempty"`
	StartsAt      time.Time     `bun:"starts_at,notnull" json:"starts_at,omitempty"`
	EndsAt        time.Time     `bun:"ends_at,notnull" json:"ends_at,omitempty"`
	Status        LectureStatus `bun:"status,notnull,default:'scheduled'" json:"status,omitempty"`
	ReminderSent  bool          `bun:"reminder_sent" json:"reminder_sent,omitempty"`
	CancelledAt   *time.Time    `bun:"cancelled_at,nullzero" json:"cancelled_at,omitempty"`
	CreatedAt     *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time    `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Enrollment links a student profile to a course. The (course,
// student) pair is unique.
type Enrollment struct {
	bun.BaseModel `bun:"table:enrollments,alias:enr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CourseID      uuid.UUID  `bun:"course_id,notnull,type:uuid,unique:enr_course_student" json:"course_id,omitempty"`
	Course        *Course    `bun:"rel:has-one,join:course_id=id" json:"course,omitempty"`
	StudentID     uuid.UUID  `bun:"student_id,notnull,type:uuid,unique:enr_course_student" json:"student_id,omitempty"`
	Student       *Profile   `bun:"rel:has-one,join:student_id=id" json:"student,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// AttendanceStatus is the recorded outcome for a student at a lecture
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// IsValid checks the status against the recognized set
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	default:
		return false
	}
}

// AttendanceRecord captures one student's attendance at one lecture.
type AttendanceRecord struct {
	bun.BaseModel `bun:"table:attendance_records,alias:att"`
	ID            uuid.UUID        `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	LectureID     uuid.UUID        `bun:"lecture_id,notnull,type:uuid,unique:att_lecture_student" json:"lecture_id,omitempty"`
	Lecture       *Lecture         `bun:"rel:has-one,join:lecture_id=id" json:"lecture,omitempty"`
	StudentID     uuid.UUID        `bun:"student_id,notnull,type:uuid,unique:att_lecture_student" json:"student_id,omitempty"`
	Student       *Profile         `bun:"rel:has-one,join:student_id=id" json:"student,omitempty"`
	Status        AttendanceStatus `bun:"status,notnull" json:"status,omitempty"`
	MarkedByID    *uuid.UUID       `bun:"marked_by_id,type:uuid" json:"marked_by_id,omitempty"`
	MarkedAt      *time.Time       `bun:"marked_at,nullzero,default:current_timestamp" json:"marked_at,omitempty"`
	DeletedAt     *time.Time       `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
