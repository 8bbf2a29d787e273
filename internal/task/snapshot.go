package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

func (s *Store) snapshotLocked() model.Snapshot {
	snap := model.Snapshot{
		Version:        model.SnapshotVersion,
		Groups:         make([]model.TaskGroup, len(s.groups)),
		ExpandedGroups: make(map[model.GroupID]bool, len(s.expanded)),
	}
	for i, g := range s.groups {
		snap.Groups[i] = g.Clone()
	}
	for id, v := range s.expanded {
		snap.ExpandedGroups[id] = v
	}
	return snap
}

// restoreLocked rebuilds every index from a decoded snapshot. Tasks filed
// under a group that does not match their own category and date are moved to
// the right one, completion is recomputed from status, duplicate ids are
// dropped and dependency entries are refreshed from the live tasks.
func (s *Store) restoreLocked(snap model.Snapshot) {
	s.resetLocked()

	for _, g := range snap.Groups {
		k := groupKey{category: g.Category, date: g.Date}
		if _, ok := s.byKey[k]; ok || g.ID == "" {
			continue
		}
		if _, ok := s.byID[g.ID]; ok {
			continue
		}
		shell := s.newGroupLocked(g.ID, k, g.Time)
		shell.Title = g.Title
		if shell.Title == "" {
			shell.Title = string(g.Category)
		}
		shown, ok := snap.ExpandedGroups[g.ID]
		s.expanded[g.ID] = shown || !ok
	}

	var all []model.Task
	for _, g := range snap.Groups {
		for _, t := range g.Tasks {
			t = t.Clone()
			normalizeTask(&t)
			if t.ID == "" {
				s.logger.Warn("dropping task without id", zap.String("group_id", string(g.ID)))
				continue
			}
			if _, dup := s.location[t.ID]; dup {
				s.logger.Warn("dropping duplicate task", zap.String("task_id", string(t.ID)))
				continue
			}
			switch {
			case t.Status == model.StatusCompleted:
				t.Completed = true
			case t.Completed && t.Status == "":
				t.Status = model.StatusCompleted
			default:
				t.Completed = false
			}
			if t.Status == "" {
				t.Status = model.StatusNotStarted
			}
			if keyOf(t) != (groupKey{category: g.Category, date: g.Date}) {
				s.logger.Debug("refiling task", zap.String("task_id", string(t.ID)), zap.String("group_id", string(g.ID)))
			}
			s.placeLocked([]model.Task{t})
			all = append(all, t)
		}
	}

	for _, g := range append([]*model.TaskGroup(nil), s.groups...) {
		if len(g.Tasks) == 0 {
			s.dropGroupLocked(g.ID)
		}
	}

	for _, t := range all {
		live := s.taskLocked(t.ID)
		kept := live.Dependencies[:0]
		for _, d := range live.Dependencies {
			target := s.taskLocked(d.ID)
			if target == nil || d.ID == live.ID {
				s.logger.Warn("dropping dangling dependency",
					zap.String("task_id", string(live.ID)),
					zap.String("dependency_id", string(d.ID)),
				)
				continue
			}
			if hasDependency(kept, d.ID) {
				continue
			}
			kept = append(kept, model.Dependency{ID: target.ID, Title: target.Title, Completed: target.Completed})
		}
		live.Dependencies = kept
		s.dependents.link(live.ID, live.Dependencies)
	}

	GroupsGauge.Set(float64(len(s.groups)))
	TasksGauge.Set(float64(len(s.location)))
}

func hasDependency(deps []model.Dependency, id model.TaskID) bool {
	for _, d := range deps {
		if d.ID == id {
			return true
		}
	}
	return false
}

// Groups returns a copy of every group in creation order.
func (s *Store) Groups() []model.TaskGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TaskGroup, len(s.groups))
	for i, g := range s.groups {
		out[i] = g.Clone()
	}
	return out
}

func (s *Store) Group(id model.GroupID) (model.TaskGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.byID[id]
	if !ok {
		return model.TaskGroup{}, groupNotFound(id)
	}
	return g.Clone(), nil
}

// Task finds a task by id in any group.
func (s *Store) Task(id model.TaskID) (Placement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.taskLocked(id)
	if t == nil {
		return Placement{}, taskNotFound(id)
	}
	return Placement{GroupID: s.location[id], Task: t.Clone()}, nil
}

// AllTasks returns every task, group by group.
func (s *Store) AllTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, 0, len(s.location))
	for _, g := range s.groups {
		for _, t := range g.Tasks {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (s *Store) ExpandedGroups() map[model.GroupID]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.GroupID]bool, len(s.expanded))
	for id, v := range s.expanded {
		out[id] = v
	}
	return out
}

func (s *Store) IsExpanded(id model.GroupID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expanded[id]
}

// Snapshot returns the state exactly as it would be persisted.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Restore replaces the store's state with snap and persists it.
func (s *Store) Restore(ctx context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreLocked(snap)
	return s.writeLocked(ctx)
}
