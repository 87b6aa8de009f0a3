package lectures

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Enrollments interface {
	repository.Repository[*Enrollment]

	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*Enrollment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Enrollment, error)
	IsEnrolled(ctx context.Context, courseID, studentID uuid.UUID) (bool, error)
	Enroll(ctx context.Context, courseID, studentID uuid.UUID) (*Enrollment, error)
	EnrollTx(ctx context.Context, tx bun.IDB, courseID, studentID uuid.UUID) (*Enrollment, error)
}

type enrollments struct {
	repository.Repository[*Enrollment]
	db *bun.DB
}

var _ Enrollments = (*enrollments)(nil)

func NewEnrollmentsRepository(db *bun.DB) Enrollments {
	repo := repository.NewRepository[*Enrollment](db, repository.ModelHandlers[*Enrollment]{
		NewRecord: func() *Enrollment { return &Enrollment{} },
		GetID: func(e *Enrollment) uuid.UUID {
			if e == nil {
				return uuid.Nil
			}
			return e.ID
		},
		SetID: func(e *Enrollment, id uuid.UUID) {
			if e != nil {
				e.ID = id
			}
		},
	})

	return &enrollments{
		Repository: repo,
		db:         db,
	}
}

func (a *enrollments) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*Enrollment, error) {
	var records []*Enrollment
	err := a.db.NewSelect().
		Model(&records).
		Relation("Course").
		Where("?TableAlias.student_id = ?", studentID).
		Order("created_at DESC").
		Scan(ctx)
	return records, err
}

func (a *enrollments) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Enrollment, error) {
	var records []*Enrollment
	err := a.db.NewSelect().
		Model(&records).
		Relation("Student").
		Where("?TableAlias.course_id = ?", courseID).
		Order("created_at ASC").
		Scan(ctx)
	return records, err
}

func (a *enrollments) IsEnrolled(ctx context.Context, courseID, studentID uuid.UUID) (bool, error) {
	count, err := a.db.NewSelect().
		Model((*Enrollment)(nil)).
		Where("?TableAlias.course_id = ?", courseID).
		Where("?TableAlias.student_id = ?", studentID).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *enrollments) Enroll(ctx context.Context, courseID, studentID uuid.UUID) (*Enrollment, error) {
	return a.EnrollTx(ctx, a.db, courseID, studentID)
}

func (a *enrollments) EnrollTx(ctx context.Context, tx bun.IDB, courseID, studentID uuid.UUID) (*Enrollment, error) {
	record := &Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
	}
	return a.Repository.CreateTx(ctx, tx, record)
}

type Attendance interface {
	repository.Repository[*AttendanceRecord]

	ListByLecture(ctx context.Context, lectureID uuid.UUID) ([]*AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*AttendanceRecord, error)
	Mark(ctx context.Context, record *AttendanceRecord) (*AttendanceRecord, error)
	MarkTx(ctx context.Context, tx bun.IDB, record *AttendanceRecord) (*AttendanceRecord, error)
}

type attendance struct {
	repository.Repository[*AttendanceRecord]
	db *bun.DB
}

var _ Attendance = (*attendance)(nil)

func NewAttendanceRepository(db *bun.DB) Attendance {
	repo := repository.NewRepository[*AttendanceRecord](db, repository.ModelHandlers[*AttendanceRecord]{
		NewRecord: func() *AttendanceRecord { return &AttendanceRecord{} },
		GetID: func(r *AttendanceRecord) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *AttendanceRecord, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
	})

	return &attendance{
		Repository: repo,
		db:         db,
	}
}

func (a *attendance) ListByLecture(ctx context.Context, lectureID uuid.UUID) ([]*AttendanceRecord, error) {
	var records []*AttendanceRecord
	err := a.db.NewSelect().
		Model(&records).
		Relation("Student").
		Where("?TableAlias.lecture_id = ?", lectureID).
		Order("marked_at ASC").
		Scan(ctx)
	return records, err
}

func (a *attendance) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*AttendanceRecord, error) {
	var records []*AttendanceRecord
	err := a.db.NewSelect().
		Model(&records).
		Relation("Lecture").
		Where("?TableAlias.student_id = ?", studentID).
		Order("marked_at DESC").
		Scan(ctx)
	return records, err
}

func (a *attendance) Mark(ctx context.Context, record *AttendanceRecord) (*AttendanceRecord, error) {
	return a.MarkTx(ctx, a.db, record)
}

func (a *attendance) MarkTx(ctx context.Context, tx bun.IDB, record *AttendanceRecord) (*AttendanceRecord, error) {
	if record.MarkedAt == nil {
		now := time.Now()
		record.MarkedAt = &now
	}
	return a.Repository.CreateTx(ctx, tx, record)
}
