package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careercompass/compass/internal/model"
	appErr "github.com/careercompass/compass/internal/pkg/errors"
)

type fakeGenerator struct {
	output    string
	err       error
	gotSystem string
	gotUser   string
}

func (f *fakeGenerator) GenerateStructured(ctx context.Context, system, user string) (string, error) {
	f.gotSystem = system
	f.gotUser = user
	return f.output, f.err
}

type fakeRoadmapStore struct {
	created           *model.Roadmap
	createdMilestones []*model.RoadmapMilestone
	createErr         error
	updated           *model.RoadmapMilestone
	updatedOwner      string
	updateErr         error
	gotUpdateUser     string
	gotStatus         model.MilestoneStatus
}

func (f *fakeRoadmapStore) Create(ctx context.Context, roadmap *model.Roadmap, milestones []*model.RoadmapMilestone) error {
	f.created = roadmap
	f.createdMilestones = milestones
	return f.createErr
}

func (f *fakeRoadmapStore) Get(ctx context.Context, roadmapID string) (*model.Roadmap, error) {
	if f.created != nil && f.created.ID == roadmapID {
		return f.created, nil
	}
	return nil, appErr.ErrNotFound
}

func (f *fakeRoadmapStore) ListByUser(ctx context.Context, userID string) ([]*model.Roadmap, error) {
	if f.created != nil && f.created.UserID == userID {
		return []*model.Roadmap{f.created}, nil
	}
	return nil, nil
}

func (f *fakeRoadmapStore) ListMilestones(ctx context.Context, roadmapID string) ([]*model.RoadmapMilestone, error) {
	return f.createdMilestones, nil
}

func (f *fakeRoadmapStore) UpdateMilestoneStatus(ctx context.Context, userID, milestoneID string, status model.MilestoneStatus) (*model.RoadmapMilestone, error) {
	f.gotUpdateUser = userID
	f.gotStatus = status
	if f.updatedOwner != "" && f.updatedOwner != userID {
		return nil, appErr.ErrNotFound
	}
	return f.updated, f.updateErr
}

func TestBuildContextPriorityOrder(t *testing.T) {
	gpa := 3.85
	out := BuildContext(RoadmapInput{
		TranscriptText:   "CS 101: A\nCS 202: B+",
		Interests:        []string{"machine learning"},
		ManualGPA:        &gpa,
		ManualMajor:      "Physics",
		Bio:              "Second-year student.",
		Hobbies:          []string{"chess"},
		Extracurriculars: []string{"robotics club"},
	})

	academic := strings.Index(out, "VERIFIED ACADEMIC RECORD (PRIORITY):")
	transcript := strings.Index(out, "TRANSCRIPT SUMMARY:")
	personal := strings.Index(out, "PERSONAL PROFILE:")
	interests := strings.Index(out, "INTERESTS:")
	require.GreaterOrEqual(t, academic, 0)
	assert.Less(t, academic, transcript)
	assert.Less(t, transcript, personal)
	assert.Less(t, personal, interests)
	assert.Contains(t, out, "Major: Physics")
	assert.Contains(t, out, "GPA: 3.85")
	assert.Contains(t, out, "authoritative")
}

func TestBuildContextOmitsEmptySections(t *testing.T) {
	out := BuildContext(RoadmapInput{TranscriptText: "Math 301: A"})
	assert.NotContains(t, out, "VERIFIED ACADEMIC RECORD")
	assert.NotContains(t, out, "PERSONAL PROFILE:")
	assert.NotContains(t, out, "INTERESTS:")
	assert.Contains(t, out, "TRANSCRIPT SUMMARY:\nMath 301: A")
}

func TestBuildContextDeterministic(t *testing.T) {
	input := RoadmapInput{
		TranscriptText: "Bio 110: A-",
		Interests:      []string{"genomics", "statistics"},
		Hobbies:        []string{"hiking"},
	}
	assert.Equal(t, BuildContext(input), BuildContext(input))
}

func TestGenerateRequiresTranscript(t *testing.T) {
	svc := NewRoadmapService(&fakeGenerator{}, &fakeRoadmapStore{}, "")
	_, err := svc.Generate(context.Background(), "u1", RoadmapInput{})
	assert.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestGenerateStrictJSON(t *testing.T) {
	gen := &fakeGenerator{output: `{
		"title": "Road to Data Science",
		"summary": "Two semesters.",
		"milestones": [
			{"semester": "Semester 1", "title": "Foundations", "description": "Core courses.", "projects": ["Build a scraper"], "skills": ["Python"]},
			{"semester": "Semester 2", "title": "Applied ML", "description": "Models.", "projects": [], "skills": ["sklearn"]}
		]
	}`}
	store := &fakeRoadmapStore{}
	svc := NewRoadmapService(gen, store, "")

	got, err := svc.Generate(context.Background(), "u1", RoadmapInput{TranscriptText: "CS 101: A"})
	require.NoError(t, err)
	assert.Equal(t, "Road to Data Science", got.Roadmap.Title)
	assert.Equal(t, "u1", got.Roadmap.UserID)
	assert.NotEmpty(t, got.Roadmap.ID)
	require.Len(t, got.Milestones, 2)
	for i, m := range got.Milestones {
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, got.Roadmap.ID, m.RoadmapID)
		assert.Equal(t, model.MilestoneStatusPending, m.Status)
		assert.Equal(t, i, m.Position)
	}
	assert.Equal(t, "Foundations", got.Milestones[0].Title)
	assert.Equal(t, []string{"Build a scraper"}, got.Milestones[0].Projects)
	require.NotNil(t, store.created)
	assert.Len(t, store.createdMilestones, 2)
	assert.Contains(t, gen.gotUser, "TRANSCRIPT SUMMARY:")
}

func TestGenerateLooseFallback(t *testing.T) {
	gen := &fakeGenerator{output: "Here is your plan: {'title': 'Plan B', 'summary': 'Short.', 'milestones': [{'semester': 'Semester 1', 'title': 'Start', 'description': 'Go.', 'projects': ['App'], 'skills': ['Go']}]}"}
	store := &fakeRoadmapStore{}
	svc := NewRoadmapService(gen, store, "")

	got, err := svc.Generate(context.Background(), "u1", RoadmapInput{TranscriptText: "CS 101: A"})
	require.NoError(t, err)
	assert.Equal(t, "Plan B", got.Roadmap.Title)
	require.Len(t, got.Milestones, 1)
	assert.Equal(t, model.MilestoneStatusPending, got.Milestones[0].Status)
	assert.Equal(t, []string{"Go"}, got.Milestones[0].Skills)
}

func TestGenerateFormatError(t *testing.T) {
	gen := &fakeGenerator{output: "I am sorry, I cannot produce a roadmap right now."}
	store := &fakeRoadmapStore{}
	svc := NewRoadmapService(gen, store, "")

	_, err := svc.Generate(context.Background(), "u1", RoadmapInput{TranscriptText: "CS 101: A"})
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.NotEmpty(t, formatErr.Sample)
	assert.LessOrEqual(t, len(formatErr.Sample), formatSampleLimit)
	assert.Nil(t, store.created)
}

func TestFormatErrorSampleKeepsRunesIntact(t *testing.T) {
	// The two-byte rune starts at the last byte inside the limit, so a
	// naive byte slice would cut it in half.
	long := strings.Repeat("a", formatSampleLimit-1) + "église mötör"
	gen := &fakeGenerator{output: long}
	svc := NewRoadmapService(gen, &fakeRoadmapStore{}, "")

	_, err := svc.Generate(context.Background(), "u1", RoadmapInput{TranscriptText: "CS 101: A"})
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.LessOrEqual(t, len(formatErr.Sample), formatSampleLimit)
	assert.True(t, utf8.ValidString(formatErr.Sample))
}

func TestGenerateWritesDebugDump(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "debug_output.txt")
	gen := &fakeGenerator{output: `{"title": "T", "summary": "S", "milestones": []}`}
	svc := NewRoadmapService(gen, &fakeRoadmapStore{}, dump)

	_, err := svc.Generate(context.Background(), "u1", RoadmapInput{TranscriptText: "CS 101: A"})
	require.NoError(t, err)
	data, err := os.ReadFile(dump)
	require.NoError(t, err)
	assert.Equal(t, `{"title": "T", "summary": "S", "milestones": []}`, string(data))
}

func TestGetHidesOtherUsersRoadmaps(t *testing.T) {
	gen := &fakeGenerator{output: `{"title": "T", "summary": "S", "milestones": []}`}
	store := &fakeRoadmapStore{}
	svc := NewRoadmapService(gen, store, "")

	created, err := svc.Generate(context.Background(), "u1", RoadmapInput{TranscriptText: "CS 101: A"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "u1", created.Roadmap.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Roadmap.ID, got.Roadmap.ID)

	_, err = svc.Get(context.Background(), "u2", created.Roadmap.ID)
	assert.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestUpdateMilestoneStatus(t *testing.T) {
	store := &fakeRoadmapStore{updated: &model.RoadmapMilestone{ID: "m1", Status: model.MilestoneStatusDone}}
	svc := NewRoadmapService(&fakeGenerator{}, store, "")

	_, err := svc.UpdateMilestoneStatus(context.Background(), "u1", "m1", "Finished")
	assert.ErrorIs(t, err, appErr.ErrInvalid)

	got, err := svc.UpdateMilestoneStatus(context.Background(), "u1", "m1", model.MilestoneStatusDone)
	require.NoError(t, err)
	assert.Equal(t, model.MilestoneStatusDone, got.Status)
	assert.Equal(t, "u1", store.gotUpdateUser)
	assert.Equal(t, model.MilestoneStatusDone, store.gotStatus)
}

func TestUpdateMilestoneStatusHidesOtherUsersMilestones(t *testing.T) {
	store := &fakeRoadmapStore{
		updated:      &model.RoadmapMilestone{ID: "m1", Status: model.MilestoneStatusDone},
		updatedOwner: "u1",
	}
	svc := NewRoadmapService(&fakeGenerator{}, store, "")

	_, err := svc.UpdateMilestoneStatus(context.Background(), "u2", "m1", model.MilestoneStatusDone)
	assert.ErrorIs(t, err, appErr.ErrNotFound)

	_, err = svc.UpdateMilestoneStatus(context.Background(), "u1", "m1", model.MilestoneStatusDone)
	assert.NoError(t, err)
}
