package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/hirely-app/hirely-api/internal/database"
)

// column widths of job_match_results
const (
	maxTitleRunes   = 50
	maxCompanyRunes = 50
	maxURLRunes     = 255
)

// SavedMatch is a cached match as returned by the history endpoint.
type SavedMatch struct {
	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
	ApplyNow string `json:"apply_now,omitempty"`
}

type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// ReplaceForUser swaps the user's cached results for predictions in one
// transaction.
func (r *Repository) ReplaceForUser(ctx context.Context, userID uuid.UUID, predictions []Prediction, createdAt time.Time) error {
	rows := make([]database.JobMatchResult, 0, len(predictions))
	for _, p := range predictions {
		rows = append(rows, database.JobMatchResult{
			UserID:    userID,
			JobTitle:  truncate(p.Title, maxTitleRunes),
			Company:   truncate(p.Company, maxCompanyRunes),
			URL:       truncate(p.URL, maxURLRunes),
			CreatedAt: createdAt.UTC(),
		})
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*database.JobMatchResult)(nil)).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear match results: %w", err)
		}

		if len(rows) == 0 {
			return nil
		}

		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("failed to store match results: %w", err)
		}

		return nil
	})
}

// ListForUser returns cached results in insertion order.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]SavedMatch, error) {
	var rows []database.JobMatchResult
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list match results: %w", err)
	}

	matches := make([]SavedMatch, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, SavedMatch{
			JobTitle: row.JobTitle,
			Company:  row.Company,
			ApplyNow: row.URL,
		})
	}

	return matches, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
