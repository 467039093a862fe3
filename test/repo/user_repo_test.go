package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/careercompass/compass/internal/model"
	appErr "github.com/careercompass/compass/internal/pkg/errors"
	"github.com/careercompass/compass/internal/repo"
	"github.com/careercompass/compass/test/testutil"
)

func TestUserRepoCreateAndLookup(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	testutil.ResetTables(t, conn, "transcript_chunks", "roadmap_milestones", "roadmaps", "profiles", "users")

	users := repo.NewUserRepo(conn)
	now := time.Now().Unix()
	user := &model.User{
		ID:           "user-1",
		Email:        "one@example.com",
		PasswordHash: "hash",
		FullName:     "Student One",
		Ctime:        now,
		Mtime:        now,
	}
	require.NoError(t, users.Create(context.Background(), user))

	byEmail, err := users.GetByEmail(context.Background(), "one@example.com")
	require.NoError(t, err)
	require.Equal(t, "user-1", byEmail.ID)
	require.Equal(t, "Student One", byEmail.FullName)

	byID, err := users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "one@example.com", byID.Email)

	_, err = users.GetByEmail(context.Background(), "missing@example.com")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	// Duplicate email maps the unique violation to ErrConflict.
	dup := &model.User{ID: "user-2", Email: "one@example.com", PasswordHash: "hash", Ctime: now, Mtime: now}
	require.ErrorIs(t, users.Create(context.Background(), dup), appErr.ErrConflict)
}
