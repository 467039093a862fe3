package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/careercompass/compass/internal/model"
	appErr "github.com/careercompass/compass/internal/pkg/errors"
)

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const profileColumns = `user_id, transcript_text, manual_gpa, manual_major, bio, hobbies, extracurriculars, interests, mtime`

func (r *ProfileRepo) Get(ctx context.Context, userID string) (*model.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	return scanProfile(row)
}

// Upsert writes the full profile row, creating it when absent.
func (r *ProfileRepo) Upsert(ctx context.Context, profile *model.Profile) error {
	hobbies, err := json.Marshal(stringList(profile.Hobbies))
	if err != nil {
		return err
	}
	extras, err := json.Marshal(stringList(profile.Extracurriculars))
	if err != nil {
		return err
	}
	interests, err := json.Marshal(stringList(profile.Interests))
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO profiles (user_id, transcript_text, manual_gpa, manual_major, bio, hobbies, extracurriculars, interests, mtime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			transcript_text = EXCLUDED.transcript_text,
			manual_gpa = EXCLUDED.manual_gpa,
			manual_major = EXCLUDED.manual_major,
			bio = EXCLUDED.bio,
			hobbies = EXCLUDED.hobbies,
			extracurriculars = EXCLUDED.extracurriculars,
			interests = EXCLUDED.interests,
			mtime = EXCLUDED.mtime
	`
	_, err = r.db.ExecContext(ctx, query,
		profile.UserID,
		profile.TranscriptText,
		profile.ManualGPA,
		profile.ManualMajor,
		profile.Bio,
		hobbies,
		extras,
		interests,
		profile.Mtime,
	)
	return err
}

// SaveTranscript durably stores extracted transcript text, creating the
// profile row when the user has none yet. This is the first commit point of
// the ingestion pipeline; later chunking failures must not undo it.
func (r *ProfileRepo) SaveTranscript(ctx context.Context, userID, text string, mtime int64) error {
	const query = `
		INSERT INTO profiles (user_id, transcript_text, mtime)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			transcript_text = EXCLUDED.transcript_text,
			mtime = EXCLUDED.mtime
	`
	_, err := r.db.ExecContext(ctx, query, userID, text, mtime)
	return err
}

// ListWithTranscript returns user ids that have transcript text saved.
func (r *ProfileRepo) ListWithTranscript(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM profiles WHERE transcript_text <> '' LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanProfile(row *sql.Row) (*model.Profile, error) {
	var profile model.Profile
	var hobbies, extras, interests []byte
	err := row.Scan(
		&profile.UserID,
		&profile.TranscriptText,
		&profile.ManualGPA,
		&profile.ManualMajor,
		&profile.Bio,
		&hobbies,
		&extras,
		&interests,
		&profile.Mtime,
	)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(hobbies, &profile.Hobbies); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(extras, &profile.Extracurriculars); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(interests, &profile.Interests); err != nil {
		return nil, err
	}
	return &profile, nil
}

func stringList(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
