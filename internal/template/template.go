// Package template keeps reusable task blueprints in a YAML catalogue.
package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

var ErrNotFound = errors.New("template not found")

type Template struct {
	ID          string            `yaml:"id" json:"id"`
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Category    model.Category    `yaml:"category" json:"category"`
	Priority    model.Priority    `yaml:"priority" json:"priority"`
	Duration    *model.Duration   `yaml:"duration,omitempty" json:"duration,omitempty"`
	Tags        []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
	Urgency     bool              `yaml:"urgency" json:"urgency"`
	Importance  bool              `yaml:"importance" json:"importance"`
	Recurrence  *model.Recurrence `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
	CreatedAt   time.Time         `yaml:"created_at" json:"createdAt"`
	UpdatedAt   time.Time         `yaml:"updated_at" json:"updatedAt"`
}

type catalogueFile struct {
	Templates []Template `yaml:"templates"`
}

func (t *Template) normalize() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return model.NewValidationError("name", "must not be empty")
	}
	c, err := model.ParseCategory(string(t.Category))
	if err != nil {
		return err
	}
	t.Category = c
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	p, err := model.ParsePriority(string(t.Priority))
	if err != nil {
		return err
	}
	t.Priority = p
	if t.Duration != nil {
		if t.Duration.IsZero() {
			t.Duration = nil
		} else if err := t.Duration.Validate("duration"); err != nil {
			return err
		}
	}
	if t.Recurrence != nil {
		if r, err := model.ParseRecurrenceType(string(t.Recurrence.Type)); err == nil {
			t.Recurrence.Type = r
		}
		if err := t.Recurrence.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Instantiate builds a task from the template, dated date. The task carries
// the template's recurrence, so adding it to a store expands the series.
func (t Template) Instantiate(date string, now time.Time) (model.Task, error) {
	if _, err := model.ParseDate(date); err != nil {
		return model.Task{}, model.NewValidationError("date", "must be YYYY-MM-DD")
	}
	task := model.NewTask(t.Name, t.Category, date, now)
	task.Description = t.Description
	task.Priority = t.Priority
	task.Urgency = t.Urgency
	task.Importance = t.Importance
	task.Tags = slices.Clone(t.Tags)
	task.TemplateID = t.ID
	if t.Duration != nil {
		d := *t.Duration
		task.Duration = &d
	}
	if t.Recurrence != nil {
		r := *t.Recurrence
		r.CustomDays = slices.Clone(t.Recurrence.CustomDays)
		if t.Recurrence.EndDate != nil {
			end := *t.Recurrence.EndDate
			r.EndDate = &end
		}
		task.Recurrence = &r
	}
	return task, nil
}

// Catalogue is a file-backed list of templates. An empty path keeps it in
// memory only.
type Catalogue struct {
	mu        sync.RWMutex
	path      string
	templates []Template
	now       func() time.Time
}

// Load reads the catalogue at path. A missing file yields an empty catalogue.
func Load(path string) (*Catalogue, error) {
	c := &Catalogue{path: path, now: time.Now}
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}

	var f catalogueFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse templates %s: %w", path, err)
	}
	seen := map[string]bool{}
	for i := range f.Templates {
		t := f.Templates[i]
		if err := t.normalize(); err != nil {
			return nil, fmt.Errorf("template %d (%s): %w", i, t.Name, err)
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("template %d: duplicate id %q", i, t.ID)
		}
		seen[t.ID] = true
		c.templates = append(c.templates, t)
	}
	return c, nil
}

func (c *Catalogue) List() []Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.templates)
}

func (c *Catalogue) Get(id string) (Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexLocked(id)
	if i < 0 {
		return Template{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.templates[i], nil
}

// Search matches a case-insensitive term against name and description.
func (c *Catalogue) Search(term string) []Template {
	term = strings.ToLower(strings.TrimSpace(term))
	out := []Template{}
	for _, t := range c.List() {
		if strings.Contains(strings.ToLower(t.Name), term) ||
			strings.Contains(strings.ToLower(t.Description), term) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalogue) Add(t Template) (Template, error) {
	if err := t.normalize(); err != nil {
		return Template{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	} else if c.indexLocked(t.ID) >= 0 {
		return Template{}, model.NewValidationError("id", fmt.Sprintf("template %q already exists", t.ID))
	}
	now := c.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	c.templates = append(c.templates, t)
	return t, c.saveLocked()
}

// Update replaces the template with the same id, keeping its creation time.
func (c *Catalogue) Update(t Template) (Template, error) {
	if err := t.normalize(); err != nil {
		return Template{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(t.ID)
	if i < 0 {
		return Template{}, fmt.Errorf("%w: %s", ErrNotFound, t.ID)
	}
	t.CreatedAt = c.templates[i].CreatedAt
	t.UpdatedAt = c.now()
	c.templates[i] = t
	return t, c.saveLocked()
}

func (c *Catalogue) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.templates = slices.Delete(c.templates, i, i+1)
	return c.saveLocked()
}

func (c *Catalogue) indexLocked(id string) int {
	return slices.IndexFunc(c.templates, func(t Template) bool { return t.ID == id })
}

func (c *Catalogue) saveLocked() error {
	if c.path == "" {
		return nil
	}
	b, err := yaml.Marshal(catalogueFile{Templates: c.templates})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

// Instantiate looks up a template and builds a task from it.
func (c *Catalogue) Instantiate(id, date string) (model.Task, error) {
	t, err := c.Get(id)
	if err != nil {
		return model.Task{}, err
	}
	return t.Instantiate(date, c.now())
}
