package template

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

const sampleYAML = `templates:
  - id: standup
    name: Daily standup
    description: Sync with the team
    category: work
    priority: high
    duration: {hours: 0, minutes: 15}
    tags: [team]
    urgency: true
    recurrence:
      type: custom
      interval: 1
      custom_days: [1, 2, 3, 4, 5]
  - id: run
    name: Evening run
    description: Easy pace
    category: Health
`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_ParsesAndNormalizes(t *testing.T) {
	c, err := Load(writeFile(t, sampleYAML))
	require.NoError(t, err)

	ts := c.List()
	require.Len(t, ts, 2)
	assert.Equal(t, model.CategoryWork, ts[0].Category)
	assert.Equal(t, model.PriorityHigh, ts[0].Priority)
	assert.Equal(t, model.RecurrenceCustom, ts[0].Recurrence.Type)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ts[0].Recurrence.CustomDays)
	assert.Equal(t, model.PriorityMedium, ts[1].Priority)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, c.List())
}

func TestLoad_RejectsInvalid(t *testing.T) {
	_, err := Load(writeFile(t, "templates:\n  - name: x\n    category: Chores\n"))
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = Load(writeFile(t, "templates:\n  - id: a\n    name: x\n    category: Work\n  - id: a\n    name: y\n    category: Work\n"))
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	c, err := Load(writeFile(t, sampleYAML))
	require.NoError(t, err)

	got := c.Search("TEAM")
	require.Len(t, got, 1)
	assert.Equal(t, "standup", got[0].ID)
	assert.Len(t, c.Search(""), 2)
	assert.Empty(t, c.Search("yoga"))
}

func TestCatalogue_AddUpdateDeletePersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "templates.yaml")
	c, err := Load(path)
	require.NoError(t, err)

	added, err := c.Add(Template{Name: "Read", Category: "learning"})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.False(t, added.CreatedAt.IsZero())

	added.Description = "20 pages"
	updated, err := c.Update(added)
	require.NoError(t, err)
	assert.Equal(t, added.CreatedAt, updated.CreatedAt)

	reloaded, err := Load(path)
	require.NoError(t, err)
	got, err := reloaded.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, "20 pages", got.Description)

	require.NoError(t, c.Delete(added.ID))
	assert.ErrorIs(t, c.Delete(added.ID), ErrNotFound)
	_, err = c.Update(added)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Add(Template{Name: " "})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestInstantiate(t *testing.T) {
	c, err := Load(writeFile(t, sampleYAML))
	require.NoError(t, err)

	task, err := c.Instantiate("standup", "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, "Daily standup", task.Title)
	assert.Equal(t, "2024-03-04", task.Date)
	assert.Equal(t, "standup", task.TemplateID)
	assert.Equal(t, model.StatusNotStarted, task.Status)
	assert.Equal(t, &model.Duration{Minutes: 15}, task.Duration)
	assert.True(t, task.Urgency)
	require.NotNil(t, task.Recurrence)
	assert.NoError(t, task.Validate())

	_, err = c.Instantiate("standup", "tomorrow")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = c.Instantiate("nope", "2024-03-04")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplate_InstantiateDoesNotShare(t *testing.T) {
	tpl := Template{Name: "x", Category: model.CategoryWork, Priority: model.PriorityLow, Tags: []string{"a"}}
	task, err := tpl.Instantiate("2024-03-04", time.Now())
	require.NoError(t, err)
	task.Tags[0] = "b"
	assert.Equal(t, "a", tpl.Tags[0])
}
