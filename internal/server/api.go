package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/BhaveshVarma1/Nirmaan/internal/analytics"
	"github.com/BhaveshVarma1/Nirmaan/internal/model"
	"github.com/BhaveshVarma1/Nirmaan/internal/task"
)

type groupView struct {
	model.TaskGroup
	Expanded bool `json:"expanded"`
}

func (a *API) register(rt *router) {
	rt.handle("GET /api/groups", "List task groups", "", a.listGroups)
	rt.handle("GET /api/groups/{id}", "Get a task group", "", a.getGroup)
	rt.handle("DELETE /api/groups/{id}", "Delete a group and its tasks", "", a.deleteGroup)
	rt.handle("POST /api/groups/{id}/toggle", "Toggle group visibility", "", a.toggleGroup)
	rt.handle("GET /api/groups/{id}/calendar.ics", "Export a group as iCalendar", "", a.groupCalendar)

	rt.handle("GET /api/tasks", "List tasks", "", a.listTasks)
	rt.handle("POST /api/tasks", "Create a task, expanding recurrence",
		`{"title":"Write report","category":"Work","date":"2024-03-01"}`, a.createTask)
	rt.handle("GET /api/tasks/{id}", "Get a task", "", a.getTask)
	rt.handle("GET /api/tasks/{id}/calendar.ics", "Export a task as iCalendar", "", a.taskCalendar)
	rt.handle("POST /api/groups/{gid}/tasks/{tid}/toggle", "Toggle task completion", "", a.toggleTask)
	rt.handle("PATCH /api/groups/{gid}/tasks/{tid}", "Update a task", `{"title":"Write final report"}`, a.updateTask)
	rt.handle("DELETE /api/groups/{gid}/tasks/{tid}", "Delete a task", "", a.deleteTask)

	rt.handle("GET /api/schedule/week", "Tasks for the week containing date", "", a.week)
	rt.handle("GET /api/analytics", "Task analytics summary", "", a.analytics)
	rt.handle("GET /api/matrix", "Eisenhower matrix", "", a.matrix)

	rt.handle("GET /api/templates", "List or search templates", "", a.listTemplates)
	rt.handle("GET /api/templates/{id}/calendar.ics", "Export a template's series as iCalendar", "", a.templateCalendar)
	rt.handle("POST /api/templates/{id}/instantiate", "Create tasks from a template",
		`{"date":"2024-03-01"}`, a.instantiateTemplate)
}

func (a *API) listGroups(w http.ResponseWriter, r *http.Request) {
	groups := a.store.Groups()
	expanded := a.store.ExpandedGroups()
	out := make([]groupView, len(groups))
	for i, g := range groups {
		out[i] = groupView{TaskGroup: g, Expanded: expanded[g.ID]}
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getGroup(w http.ResponseWriter, r *http.Request) {
	id := model.GroupID(r.PathValue("id"))
	g, err := a.store.Group(id)
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groupView{TaskGroup: g, Expanded: a.store.IsExpanded(id)})
}

func (a *API) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteGroup(r.Context(), model.GroupID(r.PathValue("id"))); err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) toggleGroup(w http.ResponseWriter, r *http.Request) {
	id := model.GroupID(r.PathValue("id"))
	shown, err := a.store.ToggleTaskGroupVisibility(r.Context(), id)
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groupId": id, "expanded": shown})
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ts, err := a.store.List(task.ListFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Priority: q.Get("priority"),
		Tag:      q.Get("tag"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Query:    q.Get("q"),
	})
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	var in model.Task
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	out, err := a.store.AddTask(r.Context(), in)
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (a *API) getTask(w http.ResponseWriter, r *http.Request) {
	p, err := a.store.Task(model.TaskID(r.PathValue("id")))
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) toggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := a.store.ToggleTaskCompletion(r.Context(),
		model.GroupID(r.PathValue("gid")), model.TaskID(r.PathValue("tid")))
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) updateTask(w http.ResponseWriter, r *http.Request) {
	var p task.Patch
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if p.Empty() {
		writeErr(w, http.StatusBadRequest, "empty patch")
		return
	}
	out, err := a.store.UpdateTask(r.Context(),
		model.GroupID(r.PathValue("gid")), model.TaskID(r.PathValue("tid")), p)
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) deleteTask(w http.ResponseWriter, r *http.Request) {
	err := a.store.DeleteTask(r.Context(),
		model.GroupID(r.PathValue("gid")), model.TaskID(r.PathValue("tid")))
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) taskCalendar(w http.ResponseWriter, r *http.Request) {
	p, err := a.store.Task(model.TaskID(r.PathValue("id")))
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	a.writeCalendar(w, r, "task-"+string(p.Task.ID), []model.Task{p.Task})
}

func (a *API) groupCalendar(w http.ResponseWriter, r *http.Request) {
	g, err := a.store.Group(model.GroupID(r.PathValue("id")))
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	a.writeCalendar(w, r, "group-"+string(g.ID), g.Tasks)
}

func (a *API) writeCalendar(w http.ResponseWriter, r *http.Request, name string, tasks []model.Task) {
	ics, err := task.BuildCalendarICS(tasks, a.now())
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ics))
}

func (a *API) week(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = model.FormatDate(a.now())
	}
	wk, err := a.store.Week(date)
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (a *API) analytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analytics.Compute(a.store.AllTasks()))
}

func (a *API) matrix(w http.ResponseWriter, r *http.Request) {
	ts, err := a.store.List(task.ListFilter{Status: r.URL.Query().Get("status")})
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Partition(ts))
}

func (a *API) listTemplates(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		writeJSON(w, http.StatusOK, a.templates.Search(q))
		return
	}
	writeJSON(w, http.StatusOK, a.templates.List())
}

// templateCalendar exports one event carrying the template's RRULE, starting on
// ?date= or today.
func (a *API) templateCalendar(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = model.FormatDate(a.now())
	}
	t, err := a.templates.Instantiate(r.PathValue("id"), date)
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	a.writeCalendar(w, r, "template-"+r.PathValue("id"), []model.Task{t})
}

func (a *API) instantiateTemplate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Date string `json:"date"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	t, err := a.templates.Instantiate(r.PathValue("id"), in.Date)
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	out, err := a.store.AddTask(r.Context(), t)
	if err != nil {
		a.writeStoreErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}
