package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/careercompass/compass/internal/model"
	appErr "github.com/careercompass/compass/internal/pkg/errors"
	"github.com/careercompass/compass/internal/pkg/jsonx"
)

const roadmapSystemPrompt = `You are an expert Career Counselor AI.
Your goal is to create a detailed, semester-by-semester career roadmap for a student.

Rules:
- Output strictly valid JSON. No markdown formatting, no code fences.
- The JSON must follow this structure exactly:
{
  "title": "Roadmap Title",
  "summary": "Brief summary.",
  "milestones": [
    {
      "semester": "Semester 1",
      "title": "Title",
      "description": "Desc.",
      "status": "Pending",
      "projects": ["Project 1", "Project 2"],
      "skills": ["Skill 1", "Skill 2"]
    }
  ]
}
- Manually entered academic details take priority over anything derived from the transcript.
- Personalize projects and activities using the student's hobbies and extracurriculars.`

// formatSampleLimit bounds how much offending model output travels with a
// FormatError.
const formatSampleLimit = 100

// FormatError reports model output that survived neither strict JSON
// parsing nor the permissive literal fallback. It is never coerced into a
// default roadmap.
type FormatError struct {
	Sample string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ai generated invalid format: %s...", e.Sample)
}

// RoadmapInput is everything the context assembly draws from. Manual
// academic fields outrank the transcript; personal fields steer project
// suggestions; interests close the prompt.
type RoadmapInput struct {
	TranscriptText   string
	Interests        []string
	ManualGPA        *float64
	ManualMajor      string
	Bio              string
	Hobbies          []string
	Extracurriculars []string
}

type GeneratedRoadmap struct {
	Roadmap    *model.Roadmap            `json:"roadmap"`
	Milestones []*model.RoadmapMilestone `json:"milestones"`
}

type structuredGenerator interface {
	GenerateStructured(ctx context.Context, system, user string) (string, error)
}

type roadmapStore interface {
	Create(ctx context.Context, roadmap *model.Roadmap, milestones []*model.RoadmapMilestone) error
	Get(ctx context.Context, roadmapID string) (*model.Roadmap, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Roadmap, error)
	ListMilestones(ctx context.Context, roadmapID string) ([]*model.RoadmapMilestone, error)
	UpdateMilestoneStatus(ctx context.Context, userID, milestoneID string, status model.MilestoneStatus) (*model.RoadmapMilestone, error)
}

type RoadmapService struct {
	generator structuredGenerator
	roadmaps  roadmapStore
	// dumpPath receives the raw extracted text of the last generation
	// attempt, overwritten each call. Empty disables the dump.
	dumpPath string
}

func NewRoadmapService(generator structuredGenerator, roadmaps roadmapStore, dumpPath string) *RoadmapService {
	return &RoadmapService{generator: generator, roadmaps: roadmaps, dumpPath: dumpPath}
}

// BuildContext renders the prompt context in strict priority order: manual
// academic record first (flagged authoritative), transcript second,
// personal profile third, interests last. Sections without data are
// omitted entirely. Identical input produces identical bytes.
func BuildContext(input RoadmapInput) string {
	var sb strings.Builder

	if input.ManualMajor != "" || input.ManualGPA != nil {
		sb.WriteString("VERIFIED ACADEMIC RECORD (PRIORITY):\n")
		if input.ManualMajor != "" {
			sb.WriteString("Major: ")
			sb.WriteString(input.ManualMajor)
			sb.WriteString("\n")
		}
		if input.ManualGPA != nil {
			sb.WriteString("GPA: ")
			sb.WriteString(strconv.FormatFloat(*input.ManualGPA, 'f', 2, 64))
			sb.WriteString("\n")
		}
		sb.WriteString("These manually entered academic details are authoritative and override anything stated in the transcript below.\n\n")
	}

	if strings.TrimSpace(input.TranscriptText) != "" {
		sb.WriteString("TRANSCRIPT SUMMARY:\n")
		sb.WriteString(input.TranscriptText)
		sb.WriteString("\n\n")
	}

	if input.Bio != "" || len(input.Hobbies) > 0 || len(input.Extracurriculars) > 0 {
		sb.WriteString("PERSONAL PROFILE:\n")
		if input.Bio != "" {
			sb.WriteString("Bio: ")
			sb.WriteString(input.Bio)
			sb.WriteString("\n")
		}
		if len(input.Hobbies) > 0 {
			sb.WriteString("Hobbies: ")
			sb.WriteString(strings.Join(input.Hobbies, ", "))
			sb.WriteString("\n")
		}
		if len(input.Extracurriculars) > 0 {
			sb.WriteString("Extracurriculars: ")
			sb.WriteString(strings.Join(input.Extracurriculars, ", "))
			sb.WriteString("\n")
		}
		sb.WriteString("Suggest projects and activities that align with these personal details.\n\n")
	}

	if len(input.Interests) > 0 {
		sb.WriteString("INTERESTS:\n")
		sb.WriteString(strings.Join(input.Interests, ", "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Generate produces and persists a roadmap for the user. Milestone ids are
// assigned at persistence time and every milestone starts as Pending.
func (s *RoadmapService) Generate(ctx context.Context, userID string, input RoadmapInput) (*GeneratedRoadmap, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("user_id", userID))
	if strings.TrimSpace(input.TranscriptText) == "" {
		return nil, fmt.Errorf("%w: please upload a transcript first", appErr.ErrInvalid)
	}

	userPrompt := BuildContext(input) + "\nGenerate the roadmap JSON now."
	logger.Info("requesting roadmap generation")
	output, err := s.generator.GenerateStructured(ctx, roadmapSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	extracted := jsonx.Extract(output)
	s.dumpDebug(ctx, extracted)

	parsed, kind, err := jsonx.ParseObject(extracted)
	if err != nil {
		logger.Error("roadmap output unparseable", zap.Error(err))
		return nil, &FormatError{Sample: truncate(extracted, formatSampleLimit)}
	}
	if kind == jsonx.ParseLoose {
		logger.Warn("strict JSON parse failed, permissive fallback accepted the output")
	}

	now := time.Now().Unix()
	roadmap := &model.Roadmap{
		ID:      newID(),
		UserID:  userID,
		Title:   stringField(parsed, "title", "Generated Career Roadmap"),
		Summary: stringField(parsed, "summary", ""),
		Ctime:   now,
		Mtime:   now,
	}
	milestones := milestonesFrom(parsed, roadmap.ID)

	if err := s.roadmaps.Create(ctx, roadmap, milestones); err != nil {
		return nil, err
	}
	logger.Info("roadmap saved", zap.String("roadmap_id", roadmap.ID), zap.Int("milestones", len(milestones)))
	return &GeneratedRoadmap{Roadmap: roadmap, Milestones: milestones}, nil
}

// Get returns one of the user's roadmaps with its milestones. Roadmaps
// owned by other users are reported as not found.
func (s *RoadmapService) Get(ctx context.Context, userID, roadmapID string) (*GeneratedRoadmap, error) {
	roadmap, err := s.roadmaps.Get(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	if roadmap.UserID != userID {
		return nil, appErr.ErrNotFound
	}
	milestones, err := s.roadmaps.ListMilestones(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	return &GeneratedRoadmap{Roadmap: roadmap, Milestones: milestones}, nil
}

// List returns the user's roadmaps without milestones.
func (s *RoadmapService) List(ctx context.Context, userID string) ([]*model.Roadmap, error) {
	return s.roadmaps.ListByUser(ctx, userID)
}

// UpdateMilestoneStatus is the only way a milestone's status changes.
// Milestones on another user's roadmap are reported as not found, matching
// the visibility rule Get applies.
func (s *RoadmapService) UpdateMilestoneStatus(ctx context.Context, userID, milestoneID string, status model.MilestoneStatus) (*model.RoadmapMilestone, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown milestone status %q", appErr.ErrInvalid, status)
	}
	return s.roadmaps.UpdateMilestoneStatus(ctx, userID, milestoneID, status)
}

func (s *RoadmapService) dumpDebug(ctx context.Context, text string) {
	if s.dumpPath == "" {
		return
	}
	if err := os.WriteFile(s.dumpPath, []byte(text), 0o644); err != nil {
		logutil.GetLogger(ctx).Warn("failed to write debug dump", zap.Error(err))
	}
}

func milestonesFrom(parsed map[string]interface{}, roadmapID string) []*model.RoadmapMilestone {
	rawList, _ := parsed["milestones"].([]interface{})
	milestones := make([]*model.RoadmapMilestone, 0, len(rawList))
	for i, raw := range rawList {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		milestones = append(milestones, &model.RoadmapMilestone{
			ID:          newID(),
			RoadmapID:   roadmapID,
			Semester:    stringField(entry, "semester", ""),
			Title:       stringField(entry, "title", ""),
			Description: stringField(entry, "description", ""),
			Status:      model.MilestoneStatusPending,
			Projects:    stringListField(entry, "projects"),
			Skills:      stringListField(entry, "skills"),
			Position:    i,
		})
	}
	return milestones
}

func stringField(obj map[string]interface{}, key, fallback string) string {
	if value, ok := obj[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func stringListField(obj map[string]interface{}, key string) []string {
	rawList, _ := obj[key].([]interface{})
	out := make([]string, 0, len(rawList))
	for _, raw := range rawList {
		if value, ok := raw.(string); ok {
			out = append(out, value)
		}
	}
	return out
}

// truncate shortens text to at most limit bytes without splitting a rune.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
