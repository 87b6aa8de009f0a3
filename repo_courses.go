package lectures

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var MarkLectureRemindedSQL = `UPDATE "lectures" AS "lct"
SET
	"reminder_sent" = TRUE
WHERE
	"lct"."deleted_at" IS NULL
AND (
	"lct"."id" = ?
) RETURNING *;`

type Courses interface {
	repository.Repository[*Course]

	GetByCode(ctx context.Context, code string) (*Course, error)
	GetByCodeTx(ctx context.Context, tx bun.IDB, code string) (*Course, error)
	ListByLecturer(ctx context.Context, lecturerID uuid.UUID) ([]*Course, error)
	ListByDepartmentLevel(ctx context.Context, department, level string) ([]*Course, error)
}

type courses struct {
	repository.Repository[*Course]
	db *bun.DB
}

var _ Courses = (*courses)(nil)

func NewCoursesRepository(db *bun.DB) Courses {
	repo := repository.NewRepository[*Course](db, repository.ModelHandlers[*Course]{
		NewRecord: func() *Course { return &Course{} },
		GetID: func(c *Course) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Course, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "code"
		},
	})

	return &courses{
		Repository: repo,
		db:         db,
	}
}

func (a *courses) GetByCode(ctx context.Context, code string) (*Course, error) {
	return a.GetByCodeTx(ctx, a.db, code)
}

func (a *courses) GetByCodeTx(ctx context.Context, tx bun.IDB, code string) (*Course, error) {
	record := &Course{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"code": code,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *courses) ListByLecturer(ctx context.Context, lecturerID uuid.UUID) ([]*Course, error) {
	var records []*Course
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.lecturer_id = ?", lecturerID).
		Order("code ASC").
		Scan(ctx)
	return records, err
}

func (a *courses) ListByDepartmentLevel(ctx context.Context, department, level string) ([]*Course, error) {
	var records []*Course
	q := a.db.NewSelect().Model(&records)
	if department != "" {
		q = q.Where("?TableAlias.department = ?", department)
	}
	if level != "" {
		q = q.Where("?TableAlias.level = ?", level)
	}
	err := q.Order("code ASC").Scan(ctx)
	return records, err
}

type Lectures interface {
	repository.Repository[*Lecture]

	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Lecture, error)
	ListUpcoming(ctx context.Context, within time.Duration) ([]*Lecture, error)
	UpdateStatusTx(ctx context.Context, tx bun.IDB, lecture *Lecture) (*Lecture, error)
	MarkReminded(ctx context.Context, id uuid.UUID) error
}

type lecturesRepo struct {
	repository.Repository[*Lecture]
	db *bun.DB
}

var _ Lectures = (*lecturesRepo)(nil)

func NewLecturesRepository(db *bun.DB) Lectures {
	repo := repository.NewRepository[*Lecture](db, repository.ModelHandlers[*Lecture]{
		NewRecord: func() *Lecture { return &Lecture{} },
		GetID: func(l *Lecture) uuid.UUID {
			if l == nil {
				return uuid.Nil
			}
			return l.ID
		},
		SetID: func(l *Lecture, id uuid.UUID) {
			if l != nil {
				l.ID = id
			}
		},
	})

	return &lecturesRepo{
		Repository: repo,
		db:         db,
	}
}

func (a *lecturesRepo) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Lecture, error) {
	var records []*Lecture
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.course_id = ?", courseID).
		Order("starts_at ASC").
		Scan(ctx)
	return records, err
}

// ListUpcoming returns scheduled lectures starting inside the window
// that have not had their reminder sent yet.
func (a *lecturesRepo) ListUpcoming(ctx context.Context, within time.Duration) ([]*Lecture, error) {
	now := time.Now()
	var records []*Lecture
	err := a.db.NewSelect().
		Model(&records).
		Relation("Course").
		Where("?TableAlias.status = ?", LectureStatusScheduled).
		Where("?TableAlias.reminder_sent = ?", false).
		Where("?TableAlias.starts_at BETWEEN ? AND ?", now, now.Add(within)).
		Order("starts_at ASC").
		Scan(ctx)
	return records, err
}

func (a *lecturesRepo) UpdateStatusTx(ctx context.Context, tx bun.IDB, lecture *Lecture) (*Lecture, error) {
	criteria := []repository.UpdateCriteria{
		repository.UpdateByID(lecture.ID.String()),
	}
	return a.Repository.UpdateTx(ctx, tx, lecture, criteria...)
}

func (a *lecturesRepo) MarkReminded(ctx context.Context, id uuid.UUID) error {
	res, err := a.Repository.RawTx(ctx, a.db, MarkLectureRemindedSQL, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}
