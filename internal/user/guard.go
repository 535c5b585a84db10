package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrConfirmationRequired is matched by *ConfirmationRequiredError.
var ErrConfirmationRequired = errors.New("major change requires confirmation")

// ConfirmationRequiredError blocks a major change until the caller retries
// with confirm_clear set.
type ConfirmationRequiredError struct {
	Warning    string
	SkillCount int
}

func (e *ConfirmationRequiredError) Error() string {
	return ErrConfirmationRequired.Error()
}

func (e *ConfirmationRequiredError) Is(target error) bool {
	return target == ErrConfirmationRequired
}

// MajorFinder resolves major ids.
type MajorFinder interface {
	GetByID(ctx context.Context, id int64) (*Major, error)
}

// SkillClearer counts and drops a user's skill associations.
type SkillClearer interface {
	CountForUser(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// GuardStores must be bound to the caller's transaction.
type GuardStores struct {
	Majors MajorFinder
	Skills SkillClearer
}

type MajorUpdate struct {
	Major         *Major
	Changed       bool
	Warning       string
	RemovedSkills int64
}

// ApplyMajorUpdate moves u to newMajorID. Skills belong to a major, so an
// actual change deletes all of the user's skills and is refused unless
// confirmClear is set. The new major is assigned on u only; persisting u and
// committing are left to the caller.
func ApplyMajorUpdate(ctx context.Context, stores GuardStores, u *User, newMajorID int64, confirmClear bool) (*MajorUpdate, error) {
	major, err := stores.Majors.GetByID(ctx, newMajorID)
	if err != nil {
		return nil, err
	}

	if u.HasMajor(major.ID) {
		u.Major = major
		return &MajorUpdate{Major: major}, nil
	}

	count, err := stores.Skills.CountForUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count skills: %w", err)
	}

	if !confirmClear {
		return nil, &ConfirmationRequiredError{
			Warning:    confirmationWarning(u.Major, major, count),
			SkillCount: count,
		}
	}

	update := &MajorUpdate{Major: major, Changed: true}
	if count > 0 {
		removed, err := stores.Skills.DeleteAllForUser(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to clear skills: %w", err)
		}
		update.RemovedSkills = removed
		update.Warning = fmt.Sprintf("Your major is now %s. %d skill(s) linked to your previous major were removed from your profile.", major.Name, removed)
	}

	id := major.ID
	u.MajorID = &id
	u.Major = major

	return update, nil
}

// ClearMajor removes u's major. Skills go with it, so the same confirmation
// rule as ApplyMajorUpdate applies. A user without a major is left alone.
func ClearMajor(ctx context.Context, stores GuardStores, u *User, confirmClear bool) (*MajorUpdate, error) {
	if u.MajorID == nil {
		return &MajorUpdate{}, nil
	}

	count, err := stores.Skills.CountForUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count skills: %w", err)
	}

	if !confirmClear {
		return nil, &ConfirmationRequiredError{
			Warning:    clearWarning(u.Major, count),
			SkillCount: count,
		}
	}

	update := &MajorUpdate{Changed: true}
	if count > 0 {
		removed, err := stores.Skills.DeleteAllForUser(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to clear skills: %w", err)
		}
		update.RemovedSkills = removed
		update.Warning = fmt.Sprintf("Your major was removed. %d skill(s) linked to it were removed from your profile.", removed)
	}

	u.MajorID = nil
	u.Major = nil

	return update, nil
}

func clearWarning(from *Major, skills int) string {
	change := "Removing your major"
	if from != nil {
		change = fmt.Sprintf("Removing your major %s", from.Name)
	}
	return fmt.Sprintf("%s will delete all %d skill(s) on your profile. Send the request again with confirm_clear set to true to continue.", change, skills)
}

func confirmationWarning(from, to *Major, skills int) string {
	change := fmt.Sprintf("Changing your major to %s", to.Name)
	if from != nil {
		change = fmt.Sprintf("Changing your major from %s to %s", from.Name, to.Name)
	}
	if skills == 0 {
		return change + " will delete any skills recorded for your current major. Send the request again with confirm_clear set to true to continue."
	}
	return fmt.Sprintf("%s will delete all %d skill(s) on your profile. Send the request again with confirm_clear set to true to continue.", change, skills)
}
