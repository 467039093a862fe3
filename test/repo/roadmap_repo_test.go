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

func TestRoadmapRepoCreateGetAndMilestoneOrder(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	testutil.ResetTables(t, conn, "transcript_chunks", "roadmap_milestones", "roadmaps", "profiles", "users")

	users := repo.NewUserRepo(conn)
	roadmaps := repo.NewRoadmapRepo(conn)
	createTestUser(t, users, "user-1", "one@example.com")

	now := time.Now().Unix()
	roadmap := &model.Roadmap{
		ID:      "rm-1",
		UserID:  "user-1",
		Title:   "Road to Data Science",
		Summary: "Two semesters.",
		Ctime:   now,
		Mtime:   now,
	}
	milestones := []*model.RoadmapMilestone{
		{
			ID:          "ms-1",
			RoadmapID:   "rm-1",
			Semester:    "Semester 1",
			Title:       "Foundations",
			Description: "Core courses.",
			Status:      model.MilestoneStatusPending,
			Projects:    []string{"Build a scraper"},
			Skills:      []string{"Python"},
			Position:    0,
		},
		{
			ID:        "ms-2",
			RoadmapID: "rm-1",
			Semester:  "Semester 2",
			Title:     "Applied ML",
			Status:    model.MilestoneStatusPending,
			Projects:  []string{},
			Skills:    []string{"sklearn"},
			Position:  1,
		},
	}
	require.NoError(t, roadmaps.Create(context.Background(), roadmap, milestones))

	fetched, err := roadmaps.Get(context.Background(), "rm-1")
	require.NoError(t, err)
	require.Equal(t, "Road to Data Science", fetched.Title)

	_, err = roadmaps.Get(context.Background(), "rm-missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	listed, err := roadmaps.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	got, err := roadmaps.ListMilestones(context.Background(), "rm-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "ms-1", got[0].ID)
	require.Equal(t, "ms-2", got[1].ID)
	require.Equal(t, []string{"Build a scraper"}, got[0].Projects)
	require.Equal(t, []string{}, got[1].Projects)
	require.Equal(t, []string{"sklearn"}, got[1].Skills)
}

func TestRoadmapRepoUpdateMilestoneStatusScopedToOwner(t *testing.T) {
	conn, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	testutil.ResetTables(t, conn, "transcript_chunks", "roadmap_milestones", "roadmaps", "profiles", "users")

	users := repo.NewUserRepo(conn)
	roadmaps := repo.NewRoadmapRepo(conn)
	createTestUser(t, users, "user-1", "one@example.com")

	now := time.Now().Unix()
	require.NoError(t, roadmaps.Create(context.Background(),
		&model.Roadmap{ID: "rm-1", UserID: "user-1", Title: "T", Ctime: now, Mtime: now},
		[]*model.RoadmapMilestone{{
			ID:        "ms-1",
			RoadmapID: "rm-1",
			Title:     "Start",
			Status:    model.MilestoneStatusPending,
			Projects:  []string{},
			Skills:    []string{},
		}},
	))

	// Another user cannot see or touch the milestone.
	_, err := roadmaps.UpdateMilestoneStatus(context.Background(), "user-2", "ms-1", model.MilestoneStatusDone)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	updated, err := roadmaps.UpdateMilestoneStatus(context.Background(), "user-1", "ms-1", model.MilestoneStatusInProgress)
	require.NoError(t, err)
	require.Equal(t, model.MilestoneStatusInProgress, updated.Status)

	_, err = roadmaps.UpdateMilestoneStatus(context.Background(), "user-1", "ms-missing", model.MilestoneStatusDone)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
