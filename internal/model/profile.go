package model

// Profile holds the per-user counseling context. TranscriptText is written
// by transcript ingestion; the manual fields are user-entered overrides that
// take priority over transcript-derived data during roadmap generation.
type Profile struct {
	UserID           string   `json:"user_id"`
	TranscriptText   string   `json:"transcript_text,omitempty"`
	ManualGPA        *float64 `json:"manual_gpa,omitempty"`
	ManualMajor      string   `json:"manual_major,omitempty"`
	Bio              string   `json:"bio,omitempty"`
	Hobbies          []string `json:"hobbies"`
	Extracurriculars []string `json:"extracurriculars"`
	Interests        []string `json:"interests"`
	Mtime            int64    `json:"mtime"`
}

// ProfileUpdate carries partial profile changes; nil fields are untouched.
type ProfileUpdate struct {
	ManualGPA        *float64
	ManualMajor      *string
	Bio              *string
	Hobbies          *[]string
	Extracurriculars *[]string
	Interests        *[]string
}
