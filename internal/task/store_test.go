package task

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
	"github.com/BhaveshVarma1/Nirmaan/internal/storage"
)

var testNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newTestStore(t *testing.T, kv storage.KV) *Store {
	t.Helper()
	return NewStore(Options{
		Storage: kv,
		Clock:   func() time.Time { return testNow },
		NewID:   sequentialIDs("id-"),
	})
}

func addOne(t *testing.T, s *Store, in model.Task) Placement {
	t.Helper()
	out, err := s.AddTask(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, 1)
	return out[0]
}

func workTask(title, date string) model.Task {
	return model.Task{Title: title, Category: model.CategoryWork, Date: date}
}

// assertInvariants checks grouping, completion coupling, dependency freshness
// and visibility bookkeeping over the whole store.
func assertInvariants(t *testing.T, s *Store) {
	t.Helper()

	groups := s.Groups()
	expanded := s.ExpandedGroups()
	keys := map[groupKey]model.GroupID{}
	byID := map[model.TaskID]model.Task{}

	for _, g := range groups {
		k := groupKey{category: g.Category, date: g.Date}
		_, dup := keys[k]
		assert.False(t, dup, "two groups share key %v", k)
		keys[k] = g.ID

		assert.NotEmpty(t, g.Tasks, "group %s is empty", g.ID)
		_, ok := expanded[g.ID]
		assert.True(t, ok, "group %s has no visibility entry", g.ID)

		for _, task := range g.Tasks {
			assert.Equal(t, g.Category, task.Category)
			assert.Equal(t, g.Date, task.Date)
			assert.Equal(t, task.Status == model.StatusCompleted, task.Completed, "task %s", task.ID)
			byID[task.ID] = task
		}
	}
	assert.Len(t, expanded, len(groups))

	for _, task := range byID {
		for _, d := range task.Dependencies {
			target, ok := byID[d.ID]
			if assert.True(t, ok, "task %s depends on missing %s", task.ID, d.ID) {
				assert.Equal(t, target.Title, d.Title)
				assert.Equal(t, target.Completed, d.Completed)
			}
		}
	}
}

func TestAddTask_WriteReport(t *testing.T) {
	s := newTestStore(t, nil)

	p := addOne(t, s, workTask("Write report", "2024-03-01"))

	groups := s.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, model.CategoryWork, groups[0].Category)
	assert.Equal(t, "2024-03-01", groups[0].Date)
	require.Len(t, groups[0].Tasks, 1)

	got := groups[0].Tasks[0]
	assert.Equal(t, p.Task.ID, got.ID)
	assert.False(t, got.Completed)
	assert.Equal(t, model.StatusNotStarted, got.Status)
	assert.Equal(t, model.PriorityMedium, got.Priority)
	assert.NotNil(t, got.Dependencies)
	assert.True(t, s.IsExpanded(groups[0].ID))
	assertInvariants(t, s)
}

func TestAddTask_SameKeySharesGroup(t *testing.T) {
	s := newTestStore(t, nil)

	a := addOne(t, s, workTask("A", "2024-03-01"))
	b := addOne(t, s, workTask("B", "2024-03-01"))
	c := addOne(t, s, model.Task{Title: "C", Category: model.CategoryHealth, Date: "2024-03-01"})

	assert.Equal(t, a.GroupID, b.GroupID)
	assert.NotEqual(t, a.GroupID, c.GroupID)

	g, err := s.Group(a.GroupID)
	require.NoError(t, err)
	require.Len(t, g.Tasks, 2)
	assert.Equal(t, "A", g.Tasks[0].Title)
	assert.Equal(t, "B", g.Tasks[1].Title)
	assertInvariants(t, s)
}

func TestAddTask_LenientEnumsAndCompletedFlag(t *testing.T) {
	s := newTestStore(t, nil)

	p := addOne(t, s, model.Task{
		Title:     "Stretch",
		Category:  "personal_growth",
		Priority:  "high",
		Date:      "2024-03-01",
		Completed: true,
	})
	assert.Equal(t, model.CategoryPersonalGrowth, p.Task.Category)
	assert.Equal(t, model.PriorityHigh, p.Task.Priority)
	assert.Equal(t, model.StatusCompleted, p.Task.Status)
	assert.True(t, p.Task.Completed)
}

func TestAddTask_Rejects(t *testing.T) {
	s := newTestStore(t, nil)
	addOne(t, s, model.Task{ID: "taken", Title: "x", Category: model.CategoryWork, Date: "2024-03-01"})

	cases := map[string]model.Task{
		"empty title":  {Category: model.CategoryWork, Date: "2024-03-01"},
		"bad date":     {Title: "x", Category: model.CategoryWork, Date: "03/01/2024"},
		"bad category": {Title: "x", Category: "Chores", Date: "2024-03-01"},
		"bad time":     {Title: "x", Category: model.CategoryWork, Date: "2024-03-01", Time: "25:00"},
		"duplicate id": {ID: "taken", Title: "x", Category: model.CategoryWork, Date: "2024-03-01"},
		"self dependency": {
			ID: "me", Title: "x", Category: model.CategoryWork, Date: "2024-03-01",
			Dependencies: []model.Dependency{{ID: "me"}},
		},
		"zero interval": {
			Title: "x", Category: model.CategoryWork, Date: "2024-03-01",
			Recurrence: &model.Recurrence{Type: model.RecurrenceDaily, Interval: 0},
		},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.AddTask(context.Background(), in)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}

	assert.Len(t, s.AllTasks(), 1)
	assertInvariants(t, s)
}

func TestAddTask_WeeklyEveryOtherWeekEndDateExclusive(t *testing.T) {
	s := newTestStore(t, nil)
	end := "2024-01-29"

	out, err := s.AddTask(context.Background(), model.Task{
		Title:    "Review",
		Category: model.CategoryWork,
		Date:     "2024-01-01",
		Recurrence: &model.Recurrence{
			Type:     model.RecurrenceWeekly,
			Interval: 2,
			EndDate:  &end,
		},
	})
	require.NoError(t, err)

	dates := make([]string, len(out))
	for i, p := range out {
		dates[i] = p.Task.Date
		assert.Nil(t, p.Task.Recurrence)
		assert.Equal(t, "Review", p.Task.Title)
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-15"}, dates)
	assert.NotEqual(t, out[0].Task.ID, out[1].Task.ID)
	assert.Len(t, s.Groups(), 2)
	assertInvariants(t, s)
}

func TestAddTask_DailyDefaultHorizon(t *testing.T) {
	s := newTestStore(t, nil)

	out, err := s.AddTask(context.Background(), model.Task{
		Title:      "Journal",
		Category:   model.CategoryPersonalGrowth,
		Date:       "2024-01-01",
		Recurrence: &model.Recurrence{Type: model.RecurrenceDaily, Interval: 1},
	})
	require.NoError(t, err)
	require.Len(t, out, 91)
	assert.Equal(t, "2024-01-01", out[0].Task.Date)
	assert.Equal(t, "2024-03-31", out[len(out)-1].Task.Date)
	for _, p := range out {
		assert.Less(t, p.Task.Date, "2024-04-01")
	}
	assert.Len(t, s.Groups(), 91)
}

func TestAddTask_UnknownRecurrenceTypeExpandsDaily(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewStore(Options{
		Clock:  func() time.Time { return testNow },
		NewID:  sequentialIDs("id-"),
		Logger: zap.New(core),
	})
	end := "2024-01-04"

	out, err := s.AddTask(context.Background(), model.Task{
		Title:      "Write report",
		Category:   model.CategoryWork,
		Date:       "2024-01-01",
		Recurrence: &model.Recurrence{Type: "Yearly", Interval: 1, EndDate: &end},
	})
	require.NoError(t, err)

	dates := make([]string, len(out))
	for i, p := range out {
		dates[i] = p.Task.Date
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, dates)
	assert.Equal(t, 1, logs.FilterMessage("unknown recurrence type, falling back to daily").Len())
	assertInvariants(t, s)
}

func TestAddTask_DependencyRefreshedFromLiveTask(t *testing.T) {
	s := newTestStore(t, nil)
	a := addOne(t, s, workTask("A", "2024-03-01"))

	b := addOne(t, s, model.Task{
		Title: "B", Category: model.CategoryWork, Date: "2024-03-02",
		Dependencies: []model.Dependency{
			{ID: a.Task.ID, Title: "stale", Completed: true},
			{ID: "ghost", Title: "gone"},
		},
	})

	require.Len(t, b.Task.Dependencies, 1)
	assert.Equal(t, model.Dependency{ID: a.Task.ID, Title: "A", Completed: false}, b.Task.Dependencies[0])
	assertInvariants(t, s)
}

func TestToggleTaskCompletion_PropagatesToDependents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	a := addOne(t, s, workTask("A", "2024-03-01"))
	b := addOne(t, s, model.Task{
		Title: "B", Category: model.CategoryWork, Date: "2024-03-02",
		Dependencies: []model.Dependency{{ID: a.Task.ID, Title: "A", Completed: false}},
	})

	got, err := s.ToggleTaskCompletion(ctx, a.GroupID, a.Task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, model.StatusCompleted, got.Status)

	bNow, err := s.Task(b.Task.ID)
	require.NoError(t, err)
	require.Len(t, bNow.Task.Dependencies, 1)
	assert.True(t, bNow.Task.Dependencies[0].Completed)
	assert.Equal(t, model.StatusNotStarted, bNow.Task.Status)
	assert.False(t, bNow.Task.Completed)
	assertInvariants(t, s)

	got, err = s.ToggleTaskCompletion(ctx, a.GroupID, a.Task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Equal(t, model.StatusNotStarted, got.Status)

	bNow, err = s.Task(b.Task.ID)
	require.NoError(t, err)
	assert.False(t, bNow.Task.Dependencies[0].Completed)
	assertInvariants(t, s)
}

func TestToggleTaskCompletion_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)
	a := addOne(t, s, workTask("A", "2024-03-01"))

	_, err := s.ToggleTaskCompletion(ctx, "nope", a.Task.ID)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ToggleTaskCompletion(ctx, a.GroupID, "nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestToggleTaskGroupVisibility(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)
	a := addOne(t, s, workTask("A", "2024-03-01"))

	shown, err := s.ToggleTaskGroupVisibility(ctx, a.GroupID)
	require.NoError(t, err)
	assert.False(t, shown)
	assert.False(t, s.IsExpanded(a.GroupID))

	shown, err = s.ToggleTaskGroupVisibility(ctx, a.GroupID)
	require.NoError(t, err)
	assert.True(t, shown)

	_, err = s.ToggleTaskGroupVisibility(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTask_ScrubsReferencesAndDropsEmptyGroup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	a := addOne(t, s, workTask("A", "2024-03-01"))
	b := addOne(t, s, model.Task{
		Title: "B", Category: model.CategoryHealth, Date: "2024-03-02",
		Dependencies: []model.Dependency{{ID: a.Task.ID}},
	})

	require.NoError(t, s.DeleteTask(ctx, a.GroupID, a.Task.ID))

	_, err := s.Group(a.GroupID)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	_, ok := s.ExpandedGroups()[a.GroupID]
	assert.False(t, ok)

	bNow, err := s.Task(b.Task.ID)
	require.NoError(t, err)
	assert.Empty(t, bNow.Task.Dependencies)
	assertInvariants(t, s)

	err = s.DeleteTask(ctx, b.GroupID, a.Task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask_KeepsNonEmptyGroup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)
	a := addOne(t, s, workTask("A", "2024-03-01"))
	b := addOne(t, s, workTask("B", "2024-03-01"))

	require.NoError(t, s.DeleteTask(ctx, a.GroupID, a.Task.ID))

	g, err := s.Group(b.GroupID)
	require.NoError(t, err)
	require.Len(t, g.Tasks, 1)
	assert.Equal(t, b.Task.ID, g.Tasks[0].ID)
}

func TestDeleteGroup_ScrubsReferencesIntoGroup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	a1 := addOne(t, s, workTask("A1", "2024-03-01"))
	a2 := addOne(t, s, workTask("A2", "2024-03-01"))
	b := addOne(t, s, model.Task{
		Title: "B", Category: model.CategoryHealth, Date: "2024-03-02",
		Dependencies: []model.Dependency{{ID: a1.Task.ID}, {ID: a2.Task.ID}},
	})

	require.NoError(t, s.DeleteGroup(ctx, a1.GroupID))

	assert.Len(t, s.Groups(), 1)
	bNow, err := s.Task(b.Task.ID)
	require.NoError(t, err)
	assert.Empty(t, bNow.Task.Dependencies)
	assertInvariants(t, s)

	assert.ErrorIs(t, s.DeleteGroup(ctx, a1.GroupID), ErrGroupNotFound)
}

func TestUpdateTask_RenamePropagates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	a := addOne(t, s, workTask("A", "2024-03-01"))
	b := addOne(t, s, model.Task{
		Title: "B", Category: model.CategoryWork, Date: "2024-03-01",
		Dependencies: []model.Dependency{{ID: a.Task.ID}},
	})

	title := "A, revised"
	_, err := s.UpdateTask(ctx, a.GroupID, a.Task.ID, Patch{Title: &title})
	require.NoError(t, err)

	bNow, err := s.Task(b.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, "A, revised", bNow.Task.Dependencies[0].Title)
	assertInvariants(t, s)
}

func TestUpdateTask_StatusDrivesCompletion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	a := addOne(t, s, workTask("A", "2024-03-01"))
	b := addOne(t, s, model.Task{
		Title: "B", Category: model.CategoryWork, Date: "2024-03-01",
		Dependencies: []model.Dependency{{ID: a.Task.ID}},
	})

	done := model.StatusCompleted
	p, err := s.UpdateTask(ctx, a.GroupID, a.Task.ID, Patch{Status: &done})
	require.NoError(t, err)
	assert.True(t, p.Task.Completed)

	bNow, err := s.Task(b.Task.ID)
	require.NoError(t, err)
	assert.True(t, bNow.Task.Dependencies[0].Completed)

	inProgress := model.Status("in progress")
	p, err = s.UpdateTask(ctx, a.GroupID, a.Task.ID, Patch{Status: &inProgress})
	require.NoError(t, err)
	assert.False(t, p.Task.Completed)
	assert.Equal(t, model.StatusInProgress, p.Task.Status)
	assertInvariants(t, s)

	no := false
	_, err = s.UpdateTask(ctx, a.GroupID, a.Task.ID, Patch{Status: &done, Completed: &no})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdateTask_DateChangeMovesTask(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	a := addOne(t, s, workTask("A", "2024-03-01"))
	other := addOne(t, s, workTask("Other", "2024-03-05"))

	date := "2024-03-05"
	p, err := s.UpdateTask(ctx, a.GroupID, a.Task.ID, Patch{Date: &date})
	require.NoError(t, err)
	assert.Equal(t, other.GroupID, p.GroupID)

	_, err = s.Group(a.GroupID)
	assert.ErrorIs(t, err, ErrNotFound, "emptied group is dropped")

	g, err := s.Group(other.GroupID)
	require.NoError(t, err)
	assert.Len(t, g.Tasks, 2)
	assertInvariants(t, s)
}

func TestUpdateTask_InvalidPatchLeavesTaskUntouched(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)
	a := addOne(t, s, workTask("A", "2024-03-01"))

	empty := ""
	_, err := s.UpdateTask(ctx, a.GroupID, a.Task.ID, Patch{Title: &empty})
	assert.ErrorIs(t, err, model.ErrValidation)

	bad := model.Category("Chores")
	_, err = s.UpdateTask(ctx, a.GroupID, a.Task.ID, Patch{Category: &bad})
	assert.ErrorIs(t, err, model.ErrValidation)

	got, err := s.Task(a.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Task.Title)
	assert.Equal(t, model.CategoryWork, got.Task.Category)
}

func TestUpdateTask_DependencyPatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	a := addOne(t, s, workTask("A", "2024-03-01"))
	b := addOne(t, s, workTask("B", "2024-03-01"))

	deps := []model.Dependency{{ID: a.Task.ID}}
	p, err := s.UpdateTask(ctx, b.GroupID, b.Task.ID, Patch{Dependencies: &deps})
	require.NoError(t, err)
	require.Len(t, p.Task.Dependencies, 1)
	assert.Equal(t, "A", p.Task.Dependencies[0].Title)

	_, err = s.ToggleTaskCompletion(ctx, a.GroupID, a.Task.ID)
	require.NoError(t, err)
	bNow, _ := s.Task(b.Task.ID)
	assert.True(t, bNow.Task.Dependencies[0].Completed)

	none := []model.Dependency{}
	_, err = s.UpdateTask(ctx, b.GroupID, b.Task.ID, Patch{Dependencies: &none})
	require.NoError(t, err)
	assert.Empty(t, s.dependents.of(a.Task.ID))
	assertInvariants(t, s)
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := newTestStore(t, kv)

	a := addOne(t, s, workTask("A", "2024-03-01"))
	_, err := s.ToggleTaskGroupVisibility(ctx, a.GroupID)
	require.NoError(t, err)

	raw, err := kv.Get(ctx, storage.SnapshotKey)
	require.NoError(t, err)
	snap, err := storage.Decode(raw)
	require.NoError(t, err)
	require.Len(t, snap.Groups, 1)
	assert.False(t, snap.ExpandedGroups[a.GroupID])

	reloaded := newTestStore(t, kv)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
}

type failingKV struct{ storage.MemoryKV }

func (*failingKV) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func TestStore_PersistFailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s := NewStore(Options{
		Storage: &failingKV{},
		Logger:  zap.New(core),
		Clock:   func() time.Time { return testNow },
		NewID:   sequentialIDs("id-"),
	})
	before := testutil.ToFloat64(PersistFailures.WithLabelValues("add_task"))

	_, err := s.AddTask(context.Background(), workTask("A", "2024-03-01"))
	require.NoError(t, err)

	assert.Len(t, s.AllTasks(), 1, "in-memory state is kept")
	assert.Equal(t, before+1, testutil.ToFloat64(PersistFailures.WithLabelValues("add_task")))
	assert.Equal(t, 1, logs.FilterMessage("persist snapshot failed").Len())
	assert.Error(t, s.Flush(context.Background()))
}

func TestLoad_EmptyStorage(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV())
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Groups())
}

func TestLoad_RepairsSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	raw := `{
	  "state": {
	    "groups": [
	      {"id": "g1", "title": "Work", "category": "Work", "date": "2024-03-01", "tasks": [
	        {"id": "a", "title": "A", "category": "Work", "date": "2024-03-01", "status": "Completed", "completed": false, "dependencies": []},
	        {"id": "b", "title": "B", "category": "Health", "date": "2024-03-01", "status": "Not Started", "completed": true,
	         "dependencies": [{"id": "a", "title": "old", "completed": false}, {"id": "ghost", "title": "x", "completed": false}]},
	        {"id": "a", "title": "dup", "category": "Work", "date": "2024-03-01", "status": "Not Started", "dependencies": []}
	      ]},
	      {"id": "g2", "title": "Empty", "category": "Social", "date": "2024-03-02", "tasks": []}
	    ],
	    "expandedGroups": {"g1": false, "g2": true}
	  },
	  "version": 0
	}`
	require.NoError(t, kv.Put(ctx, storage.SnapshotKey, []byte(raw)))

	s := newTestStore(t, kv)
	require.NoError(t, s.Load(ctx))

	groups := s.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, model.GroupID("g1"), groups[0].ID)
	assert.False(t, s.IsExpanded("g1"))
	require.Len(t, groups[0].Tasks, 1)
	assert.True(t, groups[0].Tasks[0].Completed)

	assert.Equal(t, model.CategoryHealth, groups[1].Category)
	b := groups[1].Tasks[0]
	assert.False(t, b.Completed)
	assert.Equal(t, []model.Dependency{{ID: "a", Title: "A", Completed: true}}, b.Dependencies)
	assertInvariants(t, s)
}

func TestLoad_RejectsNewerVersion(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Put(ctx, storage.SnapshotKey, []byte(`{"version": 99, "groups": []}`)))

	err := newTestStore(t, kv).Load(ctx)
	assert.ErrorIs(t, err, storage.ErrUnsupportedVersion)
}

func TestList_Filters(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	a := addOne(t, s, model.Task{Title: "Draft slides", Category: model.CategoryWork, Date: "2024-03-02", Time: "10:00", Tags: []string{"deck"}})
	addOne(t, s, model.Task{Title: "Run", Category: model.CategoryHealth, Date: "2024-03-01", Priority: model.PriorityHigh})
	addOne(t, s, model.Task{Title: "Standup", Category: model.CategoryWork, Date: "2024-03-02", Time: "09:00"})
	addOne(t, s, model.Task{Title: "Inbox zero", Category: model.CategoryWork, Date: "2024-03-02"})
	_, err := s.ToggleTaskCompletion(ctx, a.GroupID, a.Task.ID)
	require.NoError(t, err)

	titles := func(f ListFilter) []string {
		ts, err := s.List(f)
		require.NoError(t, err)
		out := make([]string, len(ts))
		for i, task := range ts {
			out[i] = task.Title
		}
		return out
	}

	assert.Equal(t, []string{"Run", "Standup", "Draft slides", "Inbox zero"}, titles(ListFilter{}))
	assert.Equal(t, []string{"Draft slides"}, titles(ListFilter{Status: "completed"}))
	assert.Equal(t, []string{"Run", "Standup", "Inbox zero"}, titles(ListFilter{Status: "pending"}))
	assert.Equal(t, []string{"Run"}, titles(ListFilter{Priority: "high"}))
	assert.Equal(t, []string{"Standup", "Draft slides", "Inbox zero"}, titles(ListFilter{Category: "work"}))
	assert.Equal(t, []string{"Draft slides"}, titles(ListFilter{Tag: "deck"}))
	assert.Equal(t, []string{"Run"}, titles(ListFilter{To: "2024-03-01"}))
	assert.Equal(t, []string{"Inbox zero"}, titles(ListFilter{Query: "ZERO"}))
	assert.Equal(t, []string{"Run", "Standup", "Inbox zero"},
		titles(ListFilter{Status: "overdue", Today: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)}))

	assert.Equal(t, []string{"Standup", "Draft slides", "Inbox zero"}, titles(ListFilter{From: " 2024-03-02 "}))

	_, err = s.List(ListFilter{Category: "Chores"})
	assert.ErrorIs(t, err, model.ErrValidation)

	for _, f := range []ListFilter{{From: "2024-3-2"}, {To: "03/02/2024"}, {From: "2024-02-30"}} {
		_, err = s.List(f)
		assert.ErrorIs(t, err, model.ErrValidation, "%+v", f)
	}
}

func TestWeek_StartsSunday(t *testing.T) {
	s := newTestStore(t, nil)
	addOne(t, s, workTask("Mon", "2024-03-04"))
	addOne(t, s, workTask("Sat", "2024-03-09"))
	addOne(t, s, workTask("Next", "2024-03-10"))

	w, err := s.Week("2024-03-06")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", w.Start)
	assert.Equal(t, "2024-03-09", w.Days[6].Date)
	assert.Empty(t, w.Days[0].Tasks)
	require.Len(t, w.Days[1].Tasks, 1)
	assert.Equal(t, "Mon", w.Days[1].Tasks[0].Title)
	require.Len(t, w.Days[6].Tasks, 1)

	_, err = s.Week("March")
	assert.ErrorIs(t, err, model.ErrValidation)
}
