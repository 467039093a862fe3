package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/careercompass/compass/internal/model"
	appErr "github.com/careercompass/compass/internal/pkg/errors"
)

type RoadmapRepo struct {
	db *sql.DB
}

func NewRoadmapRepo(db *sql.DB) *RoadmapRepo {
	return &RoadmapRepo{db: db}
}

// Create persists a roadmap and its milestones in one transaction.
// Milestone ids are assigned by the caller right before this call;
// milestone identity does not exist prior to storage.
func (r *RoadmapRepo) Create(ctx context.Context, roadmap *model.Roadmap, milestones []*model.RoadmapMilestone) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const roadmapQuery = `
		INSERT INTO roadmaps (id, user_id, title, summary, ctime, mtime)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, roadmapQuery,
		roadmap.ID, roadmap.UserID, roadmap.Title, roadmap.Summary, roadmap.Ctime, roadmap.Mtime,
	); err != nil {
		return err
	}

	const milestoneQuery = `
		INSERT INTO roadmap_milestones (id, roadmap_id, semester, title, description, status, projects, skills, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, ms := range milestones {
		projects, err := json.Marshal(stringList(ms.Projects))
		if err != nil {
			return err
		}
		skills, err := json.Marshal(stringList(ms.Skills))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, milestoneQuery,
			ms.ID, ms.RoadmapID, ms.Semester, ms.Title, ms.Description, ms.Status, projects, skills, ms.Position,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *RoadmapRepo) Get(ctx context.Context, roadmapID string) (*model.Roadmap, error) {
	const query = `SELECT id, user_id, title, summary, ctime, mtime FROM roadmaps WHERE id = $1`
	var roadmap model.Roadmap
	err := r.db.QueryRowContext(ctx, query, roadmapID).Scan(
		&roadmap.ID, &roadmap.UserID, &roadmap.Title, &roadmap.Summary, &roadmap.Ctime, &roadmap.Mtime,
	)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (r *RoadmapRepo) ListByUser(ctx context.Context, userID string) ([]*model.Roadmap, error) {
	const query = `SELECT id, user_id, title, summary, ctime, mtime FROM roadmaps WHERE user_id = $1 ORDER BY ctime DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var roadmaps []*model.Roadmap
	for rows.Next() {
		var roadmap model.Roadmap
		if err := rows.Scan(&roadmap.ID, &roadmap.UserID, &roadmap.Title, &roadmap.Summary, &roadmap.Ctime, &roadmap.Mtime); err != nil {
			return nil, err
		}
		roadmaps = append(roadmaps, &roadmap)
	}
	return roadmaps, rows.Err()
}

// ListMilestones returns milestones in their generation order.
func (r *RoadmapRepo) ListMilestones(ctx context.Context, roadmapID string) ([]*model.RoadmapMilestone, error) {
	const query = `
		SELECT id, roadmap_id, semester, title, description, status, projects, skills, position
		FROM roadmap_milestones
		WHERE roadmap_id = $1
		ORDER BY position ASC
	`
	rows, err := r.db.QueryContext(ctx, query, roadmapID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var milestones []*model.RoadmapMilestone
	for rows.Next() {
		ms, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, ms)
	}
	return milestones, rows.Err()
}

// UpdateMilestoneStatus is the only mutation milestones support. The update
// is scoped to the roadmap owner; milestones of other users read as absent.
func (r *RoadmapRepo) UpdateMilestoneStatus(ctx context.Context, userID, milestoneID string, status model.MilestoneStatus) (*model.RoadmapMilestone, error) {
	const query = `
		UPDATE roadmap_milestones m
		SET status = $3
		FROM roadmaps r
		WHERE m.id = $1 AND m.roadmap_id = r.id AND r.user_id = $2
		RETURNING m.id, m.roadmap_id, m.semester, m.title, m.description, m.status, m.projects, m.skills, m.position
	`
	rows, err := r.db.QueryContext(ctx, query, milestoneID, userID, status)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	ms, err := scanMilestone(rows)
	if err != nil {
		return nil, err
	}
	return ms, rows.Err()
}

func scanMilestone(rows *sql.Rows) (*model.RoadmapMilestone, error) {
	var ms model.RoadmapMilestone
	var projects, skills []byte
	if err := rows.Scan(&ms.ID, &ms.RoadmapID, &ms.Semester, &ms.Title, &ms.Description, &ms.Status, &projects, &skills, &ms.Position); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(projects, &ms.Projects); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skills, &ms.Skills); err != nil {
		return nil, err
	}
	return &ms, nil
}
