package task

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

// dependents is the reverse dependency index: target task id to the ids of
// tasks whose dependency list references it.
type dependents map[model.TaskID]map[model.TaskID]struct{}

func (d dependents) link(dependent model.TaskID, deps []model.Dependency) {
	for _, dep := range deps {
		set, ok := d[dep.ID]
		if !ok {
			set = map[model.TaskID]struct{}{}
			d[dep.ID] = set
		}
		set[dependent] = struct{}{}
	}
}

func (d dependents) unlink(dependent model.TaskID, deps []model.Dependency) {
	for _, dep := range deps {
		set := d[dep.ID]
		delete(set, dependent)
		if len(set) == 0 {
			delete(d, dep.ID)
		}
	}
}

// of returns the dependents of target in a stable order.
func (d dependents) of(target model.TaskID) []model.TaskID {
	out := make([]model.TaskID, 0, len(d[target]))
	for id := range d[target] {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// rewriteLocked applies fn to every dependency entry pointing at target.
func (s *Store) rewriteLocked(target model.TaskID, fn func(*model.Dependency)) int {
	n := 0
	for _, id := range s.dependents.of(target) {
		t := s.taskLocked(id)
		if t == nil {
			continue
		}
		for i := range t.Dependencies {
			if t.Dependencies[i].ID == target {
				fn(&t.Dependencies[i])
				n++
			}
		}
	}
	return n
}

// propagateCompletionLocked refreshes the cached completion flag held by
// every dependent of target. Dependents' own status is left alone.
func (s *Store) propagateCompletionLocked(target model.Task) {
	n := s.rewriteLocked(target.ID, func(d *model.Dependency) { d.Completed = target.Completed })
	DependencyUpdates.WithLabelValues("completion").Add(float64(n))
}

func (s *Store) propagateRenameLocked(target model.TaskID, title string) {
	n := s.rewriteLocked(target, func(d *model.Dependency) { d.Title = title })
	DependencyUpdates.WithLabelValues("rename").Add(float64(n))
}

// scrubReferencesLocked removes every dependency entry pointing at a deleted task.
func (s *Store) scrubReferencesLocked(target model.TaskID) {
	n := 0
	for _, id := range s.dependents.of(target) {
		t := s.taskLocked(id)
		if t == nil {
			continue
		}
		before := len(t.Dependencies)
		t.Dependencies = slices.DeleteFunc(t.Dependencies, func(d model.Dependency) bool { return d.ID == target })
		n += before - len(t.Dependencies)
	}
	delete(s.dependents, target)
	DependencyUpdates.WithLabelValues("delete").Add(float64(n))
}

// resolveDependenciesLocked validates a dependency list for task self and
// refreshes each entry from the live task it names. Entries naming tasks the
// store does not hold are dropped.
func (s *Store) resolveDependenciesLocked(self model.TaskID, deps []model.Dependency) ([]model.Dependency, error) {
	out := make([]model.Dependency, 0, len(deps))
	seen := make(map[model.TaskID]bool, len(deps))
	for _, d := range deps {
		switch {
		case d.ID == "":
			return nil, model.NewValidationError("dependencies", "dependency id must not be empty")
		case d.ID == self:
			return nil, model.NewValidationError("dependencies", "task cannot depend on itself")
		case seen[d.ID]:
			return nil, model.NewValidationError("dependencies", fmt.Sprintf("duplicate dependency %q", d.ID))
		}
		seen[d.ID] = true

		live := s.taskLocked(d.ID)
		if live == nil {
			s.logger.Warn("dropping dependency on unknown task",
				zap.String("task_id", string(self)),
				zap.String("dependency_id", string(d.ID)),
			)
			continue
		}
		out = append(out, model.Dependency{ID: live.ID, Title: live.Title, Completed: live.Completed})
	}
	return out, nil
}
