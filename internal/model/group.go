package model

// SnapshotVersion is the schema version written by this build.
const SnapshotVersion = 1

// TaskGroup holds every task sharing a (category, date) pair, in insertion order.
type TaskGroup struct {
	ID       GroupID  `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Date     string   `json:"date"`
	Time     string   `json:"time,omitempty"`
	Tasks    []Task   `json:"tasks"`
}

func (g TaskGroup) Clone() TaskGroup {
	out := g
	out.Tasks = make([]Task, len(g.Tasks))
	for i, t := range g.Tasks {
		out.Tasks[i] = t.Clone()
	}
	return out
}

// Snapshot is the persisted state of a task store.
type Snapshot struct {
	Version        int              `json:"version"`
	Groups         []TaskGroup      `json:"groups"`
	ExpandedGroups map[GroupID]bool `json:"expandedGroups"`
}
