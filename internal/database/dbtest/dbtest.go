// Package dbtest opens throwaway in-memory databases carrying the full schema.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/hirely-app/hirely-api/internal/database"
)

// New returns a bun.DB backed by a private in-memory sqlite database with the
// schema applied. The database is closed when the test ends.
func New(t testing.TB) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	sqlDB, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.CreateSchema(context.Background(), db))

	return db
}

// Seeded is New plus the reference majors and skills.
func Seeded(t testing.TB) *bun.DB {
	t.Helper()

	db := New(t)
	require.NoError(t, database.SeedReferenceData(context.Background(), db))

	return db
}
