package task

import (
	"slices"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

type groupKey struct {
	category model.Category
	date     string
}

func keyOf(t model.Task) groupKey {
	return groupKey{category: t.Category, date: t.Date}
}

// placeLocked appends each task to the group for its (category, date),
// creating groups as needed. Tasks sharing a group are appended as one batch
// in their original order. It returns the group id of each task.
func (s *Store) placeLocked(tasks []model.Task) []model.GroupID {
	var (
		order   []groupKey
		batches = map[groupKey][]model.Task{}
	)
	for _, t := range tasks {
		k := keyOf(t)
		if _, ok := batches[k]; !ok {
			order = append(order, k)
		}
		batches[k] = append(batches[k], t)
	}

	placed := make(map[groupKey]model.GroupID, len(order))
	for _, k := range order {
		batch := batches[k]
		g := s.groupForLocked(k, batch[0])
		g.Tasks = append(g.Tasks, batch...)
		for _, t := range batch {
			s.location[t.ID] = g.ID
		}
		placed[k] = g.ID
	}

	out := make([]model.GroupID, len(tasks))
	for i, t := range tasks {
		out[i] = placed[keyOf(t)]
	}
	return out
}

// groupForLocked finds the group for k or creates it, shown by default.
func (s *Store) groupForLocked(k groupKey, first model.Task) *model.TaskGroup {
	if id, ok := s.byKey[k]; ok {
		return s.byID[id]
	}
	g := s.newGroupLocked(model.GroupID(s.newID()), k, first.Time)
	s.expanded[g.ID] = true
	return g
}

func (s *Store) newGroupLocked(id model.GroupID, k groupKey, clock string) *model.TaskGroup {
	g := &model.TaskGroup{
		ID:       id,
		Title:    string(k.category),
		Category: k.category,
		Date:     k.date,
		Time:     clock,
		Tasks:    []model.Task{},
	}
	s.groups = append(s.groups, g)
	s.byID[g.ID] = g
	s.byKey[k] = g.ID
	return g
}

// removeAtLocked drops the task at idx and deletes the group once it is empty.
func (s *Store) removeAtLocked(g *model.TaskGroup, idx int) model.Task {
	t := g.Tasks[idx]
	g.Tasks = slices.Delete(g.Tasks, idx, idx+1)
	delete(s.location, t.ID)
	if len(g.Tasks) == 0 {
		s.dropGroupLocked(g.ID)
	}
	return t
}

// dropGroupLocked removes a group with its visibility entry and returns the
// tasks it held.
func (s *Store) dropGroupLocked(id model.GroupID) []model.Task {
	g, ok := s.byID[id]
	if !ok {
		return nil
	}
	s.groups = slices.DeleteFunc(s.groups, func(x *model.TaskGroup) bool { return x.ID == id })
	delete(s.byID, id)
	delete(s.byKey, groupKey{category: g.Category, date: g.Date})
	delete(s.expanded, id)
	for _, t := range g.Tasks {
		delete(s.location, t.ID)
	}
	return g.Tasks
}

func (s *Store) toggleVisibilityLocked(id model.GroupID) (bool, error) {
	if _, ok := s.byID[id]; !ok {
		return false, groupNotFound(id)
	}
	s.expanded[id] = !s.expanded[id]
	return s.expanded[id], nil
}

// lookupLocked resolves a task inside a specific group.
func (s *Store) lookupLocked(gid model.GroupID, tid model.TaskID) (*model.TaskGroup, int, error) {
	g, ok := s.byID[gid]
	if !ok {
		return nil, 0, groupNotFound(gid)
	}
	idx := slices.IndexFunc(g.Tasks, func(t model.Task) bool { return t.ID == tid })
	if idx < 0 {
		return nil, 0, taskNotFound(tid)
	}
	return g, idx, nil
}

// taskLocked resolves a task by id alone through the location index.
func (s *Store) taskLocked(id model.TaskID) *model.Task {
	gid, ok := s.location[id]
	if !ok {
		return nil
	}
	g, idx, err := s.lookupLocked(gid, id)
	if err != nil {
		return nil
	}
	return &g.Tasks[idx]
}
