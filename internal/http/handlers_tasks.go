package http

import (
	"net/http"

	"gigbook/internal/core"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	out := make([]taskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(t))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	t, ok := s.taskFromBody(w, r)
	if !ok {
		return
	}

	created, err := s.store.CreateTask(r.Context(), t)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.dashboard.Invalidate()
	writeJSON(w, http.StatusCreated, toTaskDTO(created))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	t, ok := s.taskFromBody(w, r)
	if !ok {
		return
	}
	t.ID = r.PathValue("id")

	if err := s.store.UpdateTask(r.Context(), t); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.dashboard.Invalidate()
	writeJSON(w, http.StatusOK, toTaskDTO(t))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.dashboard.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) taskFromBody(w http.ResponseWriter, r *http.Request) (core.Task, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return core.Task{}, false
	}

	due, err := p.GetDate("due_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.Task{}, false
	}
	price, err := p.GetMoney("price")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.Task{}, false
	}

	t := core.Task{
		Title:       p.Get("title"),
		Description: p.Get("description"),
		ClientID:    p.Get("client_id"),
		DueDate:     due,
		Status:      core.TaskStatus(p.GetOr("status", string(core.TaskTodo))),
		Priority:    p.GetOr("priority", "medium"),
		Price:       price,
	}

	if err := t.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.Task{}, false
	}
	return t, true
}
