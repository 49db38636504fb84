package http

import (
	"net/http"

	"gigbook/internal/auth"
	"gigbook/internal/core"
)

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	out := make([]clientDTO, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientDTO(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(c))
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	c, ok := s.clientFromBody(w, r)
	if !ok {
		return
	}

	created, err := s.store.CreateClient(r.Context(), c)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.dashboard.Invalidate()
	writeJSON(w, http.StatusCreated, toClientDTO(created))
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	c, ok := s.clientFromBody(w, r)
	if !ok {
		return
	}
	c.ID = r.PathValue("id")

	if err := s.store.UpdateClient(r.Context(), c); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.dashboard.Invalidate()
	writeJSON(w, http.StatusOK, toClientDTO(c))
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.dashboard.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clientFromBody(w http.ResponseWriter, r *http.Request) (core.Client, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return core.Client{}, false
	}

	c := core.Client{
		Name:    p.Get("name"),
		Email:   p.Get("email"),
		Phone:   p.Get("phone"),
		Company: p.Get("company"),
		Address: p.Get("address"),
		Status:  core.ClientStatus(p.GetOr("status", string(core.ClientActive))),
	}

	if !auth.ValidEmail(c.Email) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return core.Client{}, false
	}
	if c.Phone != "" && !auth.ValidPhone(c.Phone) {
		writeError(w, http.StatusBadRequest, "invalid phone number")
		return core.Client{}, false
	}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.Client{}, false
	}
	return c, true
}
