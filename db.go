package lectures

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// NewSQLiteDB opens a bun handle over sqlite. An empty dsn yields an
// in-memory database, which the tests lean on.
func NewSQLiteDB(dsn string) (*bun.DB, error) {
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	return db, nil
}

// CreateSchema creates the application tables. It is meant for local
// development and tests; production schemas are managed externally.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*Profile)(nil),
		(*Course)(nil),
		(*Lecture)(nil),
		(*Enrollment)(nil),
		(*AttendanceRecord)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}
