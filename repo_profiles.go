package lectures

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var UpdateNotificationEmailSQL = `UPDATE "profiles" AS "prf"
SET
	"notification_email" = ?
WHERE
	"prf"."deleted_at" IS NULL
AND (
	"prf"."id" = ?
) RETURNING *;`

type Profiles interface {
	repository.Repository[*Profile]

	GetProfileByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Profile, error)

	Register(ctx context.Context, profile *Profile) (*Profile, error)
	RegisterTx(ctx context.Context, tx bun.IDB, profile *Profile) (*Profile, error)
	Create(ctx context.Context, record *Profile, criteria ...repository.InsertCriteria) (*Profile, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Profile, criteria ...repository.InsertCriteria) (*Profile, error)

	TrackAttemptedLogin(ctx context.Context, profile *Profile) error
	TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, profile *Profile) error
	TrackSuccessfulLogin(ctx context.Context, profile *Profile) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, profile *Profile) error

	UpdateNotificationEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdateNotificationEmailTx(ctx context.Context, tx bun.IDB, id uuid.UUID, email string) error
}

type profiles struct {
	repository.Repository[*Profile]
	db *bun.DB
}

var (
	_ Profiles                        = (*profiles)(nil)
	_ repository.Repository[*Profile] = (*profiles)(nil)
	_ ProfileStore                    = (*profiles)(nil)
)

func NewProfilesRepository(db *bun.DB) Profiles {
	repo := repository.NewRepository[*Profile](db, repository.ModelHandlers[*Profile]{
		NewRecord: func() *Profile { return &Profile{} },
		GetID: func(p *Profile) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Profile, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &profiles{
		Repository: repo,
		db:         db,
	}
}

// GetProfileByID satisfies ProfileStore: a single row looked up by
// exact principal id. Missing rows surface as a not-found error.
func (a *profiles) GetProfileByID(ctx context.Context, id string) (*Profile, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id,
			})
	}

	record := &Profile{}
	err = a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", uid).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *profiles) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *profiles) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Profile, error) {
	record := &Profile{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.ToLower(strings.TrimSpace(email))).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *profiles) Register(ctx context.Context, profile *Profile) (*Profile, error) {
	return a.RegisterTx(ctx, a.db, profile)
}

func (a *profiles) RegisterTx(ctx context.Context, tx bun.IDB, profile *Profile) (*Profile, error) {
	return a.CreateTx(ctx, tx, profile)
}

func (a *profiles) Create(ctx context.Context, record *Profile, criteria ...repository.InsertCriteria) (*Profile, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *profiles) CreateTx(ctx context.Context, tx bun.IDB, record *Profile, criteria ...repository.InsertCriteria) (*Profile, error) {
	prepareProfileDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *profiles) TrackSuccessfulLogin(ctx context.Context, profile *Profile) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, profile)
}

func (a *profiles) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, profile *Profile) error {
	loggedInAt := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "profiles" AS "prf"
		SET
			"loggedin_at" = ?,
			"login_attempt_at" = NULL,
			"login_attempts" = 0
		WHERE
			("prf".id = ?)
			AND "prf"."deleted_at" IS NULL;
	`, loggedInAt, profile.ID).Exec(ctx)

	return err
}

func (a *profiles) TrackAttemptedLogin(ctx context.Context, profile *Profile) error {
	return a.TrackAttemptedLoginTx(ctx, a.db, profile)
}

func (a *profiles) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, profile *Profile) error {
	criteria := []repository.UpdateCriteria{
		repository.UpdateByID(profile.ID.String()),
	}

	record := &Profile{}
	record.ID = profile.ID
	record.LoginAttempts = profile.LoginAttempts + 1
	now := time.Now()
	record.LoginAttemptAt = &now

	_, err := a.Repository.UpdateTx(ctx, tx, record, criteria...)

	return err
}

func (a *profiles) UpdateNotificationEmail(ctx context.Context, id uuid.UUID, email string) error {
	return a.UpdateNotificationEmailTx(ctx, a.db, id, email)
}

func (a *profiles) UpdateNotificationEmailTx(ctx context.Context, tx bun.IDB, id uuid.UUID, email string) error {
	res, err := a.Repository.RawTx(ctx, tx, UpdateNotificationEmailSQL, email, id.String())
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

func prepareProfileDefaults(record *Profile) {
	if record == nil {
		return
	}
	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
	if record.Role == "" {
		record.Role = RoleStudent
	}
	if record.NotificationEmail == "" {
		record.NotificationEmail = record.Email
	}
	if record.PasswordHash == "" {
		record.PasswordHash = RandomPasswordHash()
	}
}
