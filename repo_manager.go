package lectures

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Profiles() Profiles
	Courses() Courses
	Lectures() Lectures
	Enrollments() Enrollments
	Attendance() Attendance
}

type mngr struct {
	db          *bun.DB
	profiles    Profiles
	courses     Courses
	lectures    Lectures
	enrollments Enrollments
	attendance  Attendance
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:          db,
		profiles:    NewProfilesRepository(db),
		courses:     NewCoursesRepository(db),
		lectures:    NewLecturesRepository(db),
		enrollments: NewEnrollmentsRepository(db),
		attendance:  NewAttendanceRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.profiles == nil {
		return errors.New("repository profiles should be initialized")
	}

	if m.courses == nil {
		return errors.New("repository courses should be initialized")
	}

	if m.lectures == nil {
		return errors.New("repository lectures should be initialized")
	}

	if m.enrollments == nil {
		return errors.New("repository enrollments should be initialized")
	}

	if m.attendance == nil {
		return errors.New("repository attendance should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Profiles() Profiles {
	return m.profiles
}

func (m mngr) Courses() Courses {
	return m.courses
}

func (m mngr) Lectures() Lectures {
	return m.lectures
}

func (m mngr) Enrollments() Enrollments {
	return m.enrollments
}

func (m mngr) Attendance() Attendance {
	return m.attendance
}
