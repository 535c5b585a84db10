package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/hirely-app/hirely-api/internal/database"
)

var ErrMajorNotFound = errors.New("major not found")

// MajorRepository reads the majors reference table.
type MajorRepository struct {
	db bun.IDB
}

func NewMajorRepository(db bun.IDB) *MajorRepository {
	return &MajorRepository{db: db}
}

// List returns all majors ordered by name.
func (r *MajorRepository) List(ctx context.Context) ([]Major, error) {
	var rows []database.Major
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list majors: %w", err)
	}

	majors := make([]Major, 0, len(rows))
	for _, m := range rows {
		majors = append(majors, Major{ID: m.ID, Name: m.Name})
	}
	return majors, nil
}

func (r *MajorRepository) GetByID(ctx context.Context, id int64) (*Major, error) {
	row := new(database.Major)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMajorNotFound
		}
		return nil, fmt.Errorf("failed to get major: %w", err)
	}

	return &Major{ID: row.ID, Name: row.Name}, nil
}
