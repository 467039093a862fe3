package model

type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "Pending"
	MilestoneStatusInProgress MilestoneStatus = "In_Progress"
	MilestoneStatusDone       MilestoneStatus = "Done"
)

func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestoneStatusPending, MilestoneStatusInProgress, MilestoneStatusDone:
		return true
	}
	return false
}

type Roadmap struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Ctime   int64  `json:"ctime"`
	Mtime   int64  `json:"mtime"`
}

// RoadmapMilestone is one semester-scoped step of a roadmap. Status starts
// as Pending and only changes through an explicit status update, never by
// regenerating the roadmap.
type RoadmapMilestone struct {
	ID          string          `json:"id"`
	RoadmapID   string          `json:"roadmap_id"`
	Semester    string          `json:"semester"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      MilestoneStatus `json:"status"`
	Projects    []string        `json:"projects"`
	Skills      []string        `json:"skills"`
	Position    int             `json:"position"`
}
