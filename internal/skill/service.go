package skill

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	reasonNotFound     = "Skill not found"
	reasonAlreadyAdded = "Skill already added"
)

// Store is the slice of the repository the service writes through.
type Store interface {
	List(ctx context.Context, search string) ([]Skill, error)
	GetByID(ctx context.Context, id int64) (*Skill, error)
	Has(ctx context.Context, userID uuid.UUID, skillID int64) (bool, error)
	Add(ctx context.Context, userID uuid.UUID, skillID int64) error
	Remove(ctx context.Context, userID uuid.UUID, skillID int64) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Skill, error)
}

// UnitOfWork runs fn with a Store bound to a single transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// BunUnitOfWork implements UnitOfWork over bun.DB.RunInTx.
type BunUnitOfWork struct {
	db *bun.DB
}

func NewBunUnitOfWork(db *bun.DB) *BunUnitOfWork {
	return &BunUnitOfWork{db: db}
}

func (u *BunUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	return u.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, NewRepository(tx))
	})
}

// Rejection explains why a requested skill id was skipped.
type Rejection struct {
	SkillID int64  `json:"skill_id"`
	Reason  string `json:"reason"`
}

type AddResult struct {
	Message     string      `json:"message"`
	AddedSkills []int64     `json:"added_skills"`
	AlreadyHave []Rejection `json:"already_have"`
	NotFound    []Rejection `json:"not_found"`
}

type Service struct {
	store Store
	uow   UnitOfWork
}

func NewService(store Store, uow UnitOfWork) *Service {
	return &Service{store: store, uow: uow}
}

func (s *Service) List(ctx context.Context, search string) ([]Skill, error) {
	return s.store.List(ctx, search)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Skill, error) {
	return s.store.ListForUser(ctx, userID)
}

// AddUserSkills classifies each requested id as added, already present or
// unknown, and commits all additions together. Duplicate ids in one request
// are reported once as added and then as already present.
func (s *Service) AddUserSkills(ctx context.Context, userID uuid.UUID, skillIDs []int64) (*AddResult, error) {
	result := &AddResult{
		Message:     "Skill processing completed",
		AddedSkills: []int64{},
		AlreadyHave: []Rejection{},
		NotFound:    []Rejection{},
	}

	err := s.uow.Do(ctx, func(ctx context.Context, store Store) error {
		for _, id := range skillIDs {
			if _, err := store.GetByID(ctx, id); err != nil {
				if errors.Is(err, ErrNotFound) {
					result.NotFound = append(result.NotFound, Rejection{SkillID: id, Reason: reasonNotFound})
					continue
				}
				return err
			}

			has, err := store.Has(ctx, userID, id)
			if err != nil {
				return err
			}
			if has {
				result.AlreadyHave = append(result.AlreadyHave, Rejection{SkillID: id, Reason: reasonAlreadyAdded})
				continue
			}

			if err := store.Add(ctx, userID, id); err != nil {
				return err
			}
			result.AddedSkills = append(result.AddedSkills, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add user skills: %w", err)
	}

	return result, nil
}

func (s *Service) RemoveUserSkill(ctx context.Context, userID uuid.UUID, skillID int64) error {
	return s.store.Remove(ctx, userID, skillID)
}
