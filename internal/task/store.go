// Package task owns task groups and every mutation applied to them.
package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
	"github.com/BhaveshVarma1/Nirmaan/internal/recurrence"
	"github.com/BhaveshVarma1/Nirmaan/internal/storage"
)

type Options struct {
	// Storage receives a full snapshot after every mutation. Nil keeps state in memory only.
	Storage storage.KV
	// Key addresses the snapshot in Storage. Empty means storage.SnapshotKey.
	Key string

	Logger     *zap.Logger
	Clock      func() time.Time
	NewID      func() string
	Recurrence recurrence.Options
}

// Placement reports where a task lives after a mutation.
type Placement struct {
	GroupID model.GroupID `json:"groupId"`
	Task    model.Task    `json:"task"`
}

// Store is the single owner of tasks, groups and group visibility.
type Store struct {
	mu sync.RWMutex

	groups     []*model.TaskGroup
	byID       map[model.GroupID]*model.TaskGroup
	byKey      map[groupKey]model.GroupID
	location   map[model.TaskID]model.GroupID
	expanded   map[model.GroupID]bool
	dependents dependents

	kv     storage.KV
	key    string
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
	rec    recurrence.Options
}

func NewStore(opts Options) *Store {
	if opts.Storage == nil {
		opts.Storage = storage.NewMemoryKV()
	}
	if opts.Key == "" {
		opts.Key = storage.SnapshotKey
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	s := &Store{
		kv:     opts.Storage,
		key:    opts.Key,
		logger: opts.Logger.Named("store"),
		now:    opts.Clock,
		newID:  opts.NewID,
		rec:    opts.Recurrence,
	}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.groups = nil
	s.byID = map[model.GroupID]*model.TaskGroup{}
	s.byKey = map[groupKey]model.GroupID{}
	s.location = map[model.TaskID]model.GroupID{}
	s.expanded = map[model.GroupID]bool{}
	s.dependents = dependents{}
}

// Load replaces in-memory state with the persisted snapshot, if any.
func (s *Store) Load(ctx context.Context) error {
	b, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		s.mu.Lock()
		s.resetLocked()
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	snap, err := storage.Decode(b)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreLocked(snap)
	s.logger.Info("snapshot loaded",
		zap.Int("groups", len(s.groups)),
		zap.Int("tasks", len(s.location)),
	)
	return nil
}

// AddTask stores a task, expanding it first when it carries a recurrence rule.
func (s *Store) AddTask(ctx context.Context, t model.Task) ([]Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.addLocked(t)
	if err != nil {
		return nil, s.record("add_task", err)
	}
	s.persistLocked(ctx, "add_task")
	return out, s.record("add_task", nil)
}

func (s *Store) addLocked(in model.Task) ([]Placement, error) {
	now := s.now()

	t := in.Clone()
	normalizeTask(&t)
	if t.Status == "" {
		t.Status = model.StatusNotStarted
		if in.Completed {
			t.Status = model.StatusCompleted
		}
	}
	t.Completed = t.Status == model.StatusCompleted
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	if t.ID == "" {
		t.ID = model.TaskID(s.newID())
	} else if _, dup := s.location[t.ID]; dup {
		return nil, model.NewValidationError("id", fmt.Sprintf("task %q already exists", t.ID))
	}

	deps, err := s.resolveDependenciesLocked(t.ID, t.Dependencies)
	if err != nil {
		return nil, err
	}
	t.Dependencies = deps

	if err := t.Validate(); err != nil {
		return nil, err
	}

	batch := []model.Task{t}
	if t.Recurrence != nil {
		opts := s.rec
		opts.Now = func() time.Time { return now }
		opts.NewID = func() model.TaskID { return model.TaskID(s.newID()) }
		opts.Logger = s.logger
		batch, err = recurrence.Expand(t, opts)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("recurrence expanded",
			zap.String("title", t.Title),
			zap.Int("instances", len(batch)),
		)
	}

	gids := s.placeLocked(batch)
	out := make([]Placement, len(batch))
	for i, inst := range batch {
		s.dependents.link(inst.ID, inst.Dependencies)
		out[i] = Placement{GroupID: gids[i], Task: inst.Clone()}
	}
	return out, nil
}

// ToggleTaskGroupVisibility flips whether a group's tasks are shown and
// returns the new state.
func (s *Store) ToggleTaskGroupVisibility(ctx context.Context, gid model.GroupID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shown, err := s.toggleVisibilityLocked(gid)
	if err != nil {
		return false, s.record("toggle_group", err)
	}
	s.persistLocked(ctx, "toggle_group")
	return shown, s.record("toggle_group", nil)
}

// ToggleTaskCompletion flips a task between Not Started and Completed and
// refreshes the cached completion held by its dependents.
func (s *Store) ToggleTaskCompletion(ctx context.Context, gid model.GroupID, tid model.TaskID) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, idx, err := s.lookupLocked(gid, tid)
	if err != nil {
		return model.Task{}, s.record("toggle_task", err)
	}
	t := &g.Tasks[idx]
	t.SetCompleted(!t.Completed, s.now())
	s.propagateCompletionLocked(*t)

	out := t.Clone()
	s.persistLocked(ctx, "toggle_task")
	return out, s.record("toggle_task", nil)
}

// DeleteGroup removes a group with all of its tasks and scrubs dependency
// entries elsewhere that pointed at them.
func (s *Store) DeleteGroup(ctx context.Context, gid model.GroupID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[gid]; !ok {
		return s.record("delete_group", groupNotFound(gid))
	}
	removed := s.dropGroupLocked(gid)
	for _, t := range removed {
		s.dependents.unlink(t.ID, t.Dependencies)
	}
	for _, t := range removed {
		s.scrubReferencesLocked(t.ID)
	}

	s.persistLocked(ctx, "delete_group")
	return s.record("delete_group", nil)
}

// DeleteTask removes one task, its group if that leaves it empty, and every
// dependency entry pointing at it.
func (s *Store) DeleteTask(ctx context.Context, gid model.GroupID, tid model.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, idx, err := s.lookupLocked(gid, tid)
	if err != nil {
		return s.record("delete_task", err)
	}
	t := s.removeAtLocked(g, idx)
	s.dependents.unlink(t.ID, t.Dependencies)
	s.scrubReferencesLocked(t.ID)

	s.persistLocked(ctx, "delete_task")
	return s.record("delete_task", nil)
}

// UpdateTask merges p into the task. A title change is propagated to
// dependents, a completion change refreshes their cached flag, and a
// category or date change moves the task to the matching group.
func (s *Store) UpdateTask(ctx context.Context, gid model.GroupID, tid model.TaskID, p Patch) (Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.updateLocked(gid, tid, p)
	if err != nil {
		return Placement{}, s.record("update_task", err)
	}
	s.persistLocked(ctx, "update_task")
	return out, s.record("update_task", nil)
}

func (s *Store) updateLocked(gid model.GroupID, tid model.TaskID, p Patch) (Placement, error) {
	g, idx, err := s.lookupLocked(gid, tid)
	if err != nil {
		return Placement{}, err
	}
	cur := g.Tasks[idx]

	next := cur.Clone()
	if err := applyPatch(&next, p); err != nil {
		return Placement{}, err
	}
	if p.Dependencies != nil {
		deps, err := s.resolveDependenciesLocked(next.ID, next.Dependencies)
		if err != nil {
			return Placement{}, err
		}
		next.Dependencies = deps
	}
	next.UpdatedAt = s.now()
	if err := next.Validate(); err != nil {
		return Placement{}, err
	}

	s.dependents.unlink(cur.ID, cur.Dependencies)
	s.dependents.link(next.ID, next.Dependencies)

	newGID := g.ID
	if keyOf(cur) != keyOf(next) {
		s.removeAtLocked(g, idx)
		newGID = s.placeLocked([]model.Task{next})[0]
		s.logger.Debug("task moved",
			zap.String("task_id", string(next.ID)),
			zap.String("from_group", string(g.ID)),
			zap.String("to_group", string(newGID)),
		)
	} else {
		g.Tasks[idx] = next
	}

	if next.Title != cur.Title {
		s.propagateRenameLocked(next.ID, next.Title)
	}
	if next.Completed != cur.Completed {
		s.propagateCompletionLocked(next)
	}
	return Placement{GroupID: newGID, Task: next.Clone()}, nil
}

// Flush writes the current snapshot and reports the storage error, if any.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writeLocked(ctx)
}

// persistLocked writes the snapshot after a mutation. A failed write is
// logged and counted; in-memory state stays authoritative.
func (s *Store) persistLocked(ctx context.Context, op string) {
	GroupsGauge.Set(float64(len(s.groups)))
	TasksGauge.Set(float64(len(s.location)))

	if err := s.writeLocked(ctx); err != nil {
		PersistFailures.WithLabelValues(op).Inc()
		s.logger.Error("persist snapshot failed", zap.String("op", op), zap.Error(err))
	}
}

func (s *Store) writeLocked(ctx context.Context) error {
	b, err := storage.Encode(s.snapshotLocked())
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, s.key, b)
}

func (s *Store) record(op string, err error) error {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, model.ErrValidation):
		result = "validation"
		s.logger.Warn("mutation rejected", zap.String("op", op), zap.Error(err))
	case errors.Is(err, ErrNotFound):
		result = "not_found"
		s.logger.Debug("mutation target missing", zap.String("op", op), zap.Error(err))
	default:
		result = "error"
		s.logger.Error("mutation failed", zap.String("op", op), zap.Error(err))
	}
	MutationsTotal.WithLabelValues(op, result).Inc()
	return err
}
