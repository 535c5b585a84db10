package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMajors map[int64]string

func (f fakeMajors) GetByID(_ context.Context, id int64) (*Major, error) {
	name, ok := f[id]
	if !ok {
		return nil, ErrMajorNotFound
	}
	return &Major{ID: id, Name: name}, nil
}

type fakeSkills struct {
	count   int
	deletes int
	err     error
}

func (f *fakeSkills) CountForUser(context.Context, uuid.UUID) (int, error) {
	return f.count, f.err
}

func (f *fakeSkills) DeleteAllForUser(context.Context, uuid.UUID) (int64, error) {
	f.deletes++
	n := f.count
	f.count = 0
	return int64(n), nil
}

const (
	computerScience int64 = 1
	history         int64 = 2
)

var majors = fakeMajors{computerScience: "Computer Science", history: "History"}

func userWithMajor(id int64) *User {
	u := &User{ID: uuid.New()}
	if id != 0 {
		u.MajorID = &id
		u.Major = &Major{ID: id, Name: majors[id]}
	}
	return u
}

func TestApplyMajorUpdateStates(t *testing.T) {
	tests := []struct {
		name        string
		current     int64
		target      int64
		confirm     bool
		skills      int
		wantErr     error
		wantChanged bool
		wantWarning bool
		wantDeletes int
		wantMajorID int64
	}{
		{
			name:        "same major unconfirmed is a no-op",
			current:     computerScience,
			target:      computerScience,
			skills:      2,
			wantMajorID: computerScience,
		},
		{
			name:        "same major confirmed is a no-op",
			current:     computerScience,
			target:      computerScience,
			confirm:     true,
			skills:      2,
			wantMajorID: computerScience,
		},
		{
			name:        "different major unconfirmed is blocked",
			current:     computerScience,
			target:      history,
			skills:      2,
			wantErr:     ErrConfirmationRequired,
			wantMajorID: computerScience,
		},
		{
			name:        "different major unconfirmed without skills is still blocked",
			current:     computerScience,
			target:      history,
			wantErr:     ErrConfirmationRequired,
			wantMajorID: computerScience,
		},
		{
			name:        "different major confirmed clears skills with warning",
			current:     computerScience,
			target:      history,
			confirm:     true,
			skills:      2,
			wantChanged: true,
			wantWarning: true,
			wantDeletes: 1,
			wantMajorID: history,
		},
		{
			name:        "different major confirmed without skills has no warning",
			current:     computerScience,
			target:      history,
			confirm:     true,
			wantChanged: true,
			wantMajorID: history,
		},
		{
			name:        "first major confirmed",
			target:      history,
			confirm:     true,
			wantChanged: true,
			wantMajorID: history,
		},
		{
			name:        "unknown major",
			current:     computerScience,
			target:      99,
			confirm:     true,
			skills:      2,
			wantErr:     ErrMajorNotFound,
			wantMajorID: computerScience,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skills := &fakeSkills{count: tt.skills}
			u := userWithMajor(tt.current)

			update, err := ApplyMajorUpdate(context.Background(), GuardStores{Majors: majors, Skills: skills}, u, tt.target, tt.confirm)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, update)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantChanged, update.Changed)
				assert.Equal(t, tt.wantWarning, update.Warning != "")
				assert.Equal(t, tt.target, update.Major.ID)
			}

			assert.Equal(t, tt.wantDeletes, skills.deletes)
			require.NotNil(t, u.MajorID)
			assert.Equal(t, tt.wantMajorID, *u.MajorID)
		})
	}
}

func TestConfirmationWarningMentionsSkillDeletion(t *testing.T) {
	u := userWithMajor(computerScience)

	_, err := ApplyMajorUpdate(context.Background(), GuardStores{Majors: majors, Skills: &fakeSkills{count: 2}}, u, history, false)

	var confirm *ConfirmationRequiredError
	require.True(t, errors.As(err, &confirm))
	assert.Equal(t, 2, confirm.SkillCount)
	assert.Contains(t, confirm.Warning, "Computer Science")
	assert.Contains(t, confirm.Warning, "History")
	assert.Contains(t, confirm.Warning, "delete all 2 skill(s)")
}

func TestApplyMajorUpdateCountError(t *testing.T) {
	u := userWithMajor(computerScience)
	boom := errors.New("db down")

	_, err := ApplyMajorUpdate(context.Background(), GuardStores{Majors: majors, Skills: &fakeSkills{err: boom}}, u, history, true)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, computerScience, *u.MajorID)
}

func TestClearMajor(t *testing.T) {
	t.Run("unconfirmed is blocked", func(t *testing.T) {
		skills := &fakeSkills{count: 2}
		u := userWithMajor(computerScience)

		_, err := ClearMajor(context.Background(), GuardStores{Majors: majors, Skills: skills}, u, false)

		var confirm *ConfirmationRequiredError
		require.True(t, errors.As(err, &confirm))
		assert.Equal(t, 2, confirm.SkillCount)
		assert.Contains(t, confirm.Warning, "Removing your major Computer Science")
		assert.Zero(t, skills.deletes)
		assert.Equal(t, computerScience, *u.MajorID)
	})

	t.Run("confirmed drops major and skills", func(t *testing.T) {
		skills := &fakeSkills{count: 2}
		u := userWithMajor(computerScience)

		update, err := ClearMajor(context.Background(), GuardStores{Majors: majors, Skills: skills}, u, true)
		require.NoError(t, err)
		assert.True(t, update.Changed)
		assert.EqualValues(t, 2, update.RemovedSkills)
		assert.NotEmpty(t, update.Warning)
		assert.Nil(t, update.Major)
		assert.Nil(t, u.MajorID)
		assert.Nil(t, u.Major)
	})

	t.Run("no major is a no-op", func(t *testing.T) {
		skills := &fakeSkills{count: 2}
		u := userWithMajor(0)

		update, err := ClearMajor(context.Background(), GuardStores{Majors: majors, Skills: skills}, u, false)
		require.NoError(t, err)
		assert.False(t, update.Changed)
		assert.Zero(t, skills.deletes)
	})
}
