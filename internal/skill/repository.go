package skill

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/hirely-app/hirely-api/internal/database"
)

var (
	ErrNotFound     = errors.New("skill not found")
	ErrAlreadyAdded = errors.New("skill already added")
	ErrNotAdded     = errors.New("skill is not on the user's profile")
)

type Skill struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Repository handles the skills catalogue and user-skill associations.
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// List returns skills whose name contains search (case-insensitive), ordered
// by name. An empty search lists everything.
func (r *Repository) List(ctx context.Context, search string) ([]Skill, error) {
	var rows []database.Skill
	q := r.db.NewSelect().Model(&rows)
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("LOWER(s.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if err := q.OrderExpr("s.name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}

	return mapSkills(rows), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Skill, error) {
	row := new(database.Skill)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}

	return &Skill{ID: row.ID, Name: row.Name, Type: row.Type}, nil
}

// Has reports whether the user already has the skill.
func (r *Repository) Has(ctx context.Context, userID uuid.UUID, skillID int64) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*database.UserSkill)(nil)).
		Where("user_id = ?", userID).
		Where("skill_id = ?", skillID).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check user skill: %w", err)
	}

	return count > 0, nil
}

// Add links a skill to a user.
func (r *Repository) Add(ctx context.Context, userID uuid.UUID, skillID int64) error {
	_, err := r.db.NewInsert().
		Model(&database.UserSkill{UserID: userID, SkillID: skillID}).
		Exec(ctx)
	if err != nil {
		if _, ok := database.IsUniqueViolation(err); ok {
			return ErrAlreadyAdded
		}
		return fmt.Errorf("failed to add user skill: %w", err)
	}

	return nil
}

// Remove unlinks a skill from a user.
func (r *Repository) Remove(ctx context.Context, userID uuid.UUID, skillID int64) error {
	result, err := r.db.NewDelete().
		Model((*database.UserSkill)(nil)).
		Where("user_id = ?", userID).
		Where("skill_id = ?", skillID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove user skill: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotAdded
	}

	return nil
}

// ListForUser returns the user's skills ordered by name.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Skill, error) {
	var rows []database.Skill
	err := r.db.NewSelect().
		Model(&rows).
		Join("JOIN user_skills AS us ON us.skill_id = s.id").
		Where("us.user_id = ?", userID).
		OrderExpr("s.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user skills: %w", err)
	}

	return mapSkills(rows), nil
}

// NamesForUser returns only the names of the user's skills, ordered by name.
func (r *Repository) NamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	skills, err := r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names, nil
}

func (r *Repository) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := r.db.NewSelect().
		Model((*database.UserSkill)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count user skills: %w", err)
	}

	return count, nil
}

// DeleteAllForUser removes every skill association of the user and returns
// how many were deleted.
func (r *Repository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.db.NewDelete().
		Model((*database.UserSkill)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user skills: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

func mapSkills(rows []database.Skill) []Skill {
	skills := make([]Skill, 0, len(rows))
	for _, s := range rows {
		skills = append(skills, Skill{ID: s.ID, Name: s.Name, Type: s.Type})
	}
	return skills
}
