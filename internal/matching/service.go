package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hirely-app/hirely-api/internal/user"
)

var (
	ErrMajorNotSet     = errors.New("major not found")
	ErrInferenceFailed = errors.New("inference service failed")
	ErrNoHistory       = errors.New("no saved job match history found")
)

type ProfileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type SkillNamer interface {
	NamesForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type ResultStore interface {
	ReplaceForUser(ctx context.Context, userID uuid.UUID, predictions []Prediction, createdAt time.Time) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]SavedMatch, error)
}

// Match is one job suggestion returned to the caller.
type Match struct {
	JobTitle string  `json:"job_title"`
	Company  string  `json:"company"`
	Category *string `json:"category"`
	Snippet  *string `json:"snippet"`
	ApplyNow *string `json:"apply_now"`
}

type Service struct {
	users   ProfileReader
	skills  SkillNamer
	client  Client
	results ResultStore
	now     func() time.Time
}

func NewService(users ProfileReader, skills SkillNamer, client Client, results ResultStore) *Service {
	return &Service{
		users:   users,
		skills:  skills,
		client:  client,
		results: results,
		now:     time.Now,
	}
}

// Match asks the inference service for jobs fitting the user's major and
// skills, then replaces the user's cached results with the answer.
func (s *Service) Match(ctx context.Context, userID uuid.UUID) ([]Match, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Major == nil {
		return nil, ErrMajorNotSet
	}

	names, err := s.skills.NamesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}

	predictions, err := s.client.Predict(ctx, u.Major.Name, strings.Join(names, " "))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInferenceFailed, err)
	}

	if err := s.results.ReplaceForUser(ctx, userID, predictions, s.now()); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(predictions))
	for _, p := range predictions {
		matches = append(matches, Match{
			JobTitle: p.Title,
			Company:  p.Company,
			Category: p.Category,
			Snippet:  p.Snippet,
			ApplyNow: nonEmpty(p.URL),
		})
	}

	return matches, nil
}

// History returns the cached results of the last successful match.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]SavedMatch, error) {
	matches, err := s.results.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNoHistory
	}
	return matches, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
