package http

import (
	"errors"
	"net/http"

	"gigbook/internal/core"
	"gigbook/internal/services"
)

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.store.ListInvoices(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	out := make([]invoiceDTO, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceDTO(inv))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.store.GetInvoice(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceDTO(inv))
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.invoiceFromBody(w, r)
	if !ok {
		return
	}

	created, err := s.store.CreateInvoice(r.Context(), inv)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.dashboard.Invalidate()
	writeJSON(w, http.StatusCreated, toInvoiceDTO(created))
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.invoiceFromBody(w, r)
	if !ok {
		return
	}
	inv.ID = r.PathValue("id")

	if err := s.store.UpdateInvoice(r.Context(), inv); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.dashboard.Invalidate()
	writeJSON(w, http.StatusOK, toInvoiceDTO(inv))
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteInvoice(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.dashboard.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// handleInvoiceReminder queues a payment reminder for the invoice.
func (s *Server) handleInvoiceReminder(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	channel := p.GetOr("channel", "email")
	if channel != "email" && channel != "whatsapp" {
		writeError(w, http.StatusBadRequest, "channel must be email or whatsapp")
		return
	}

	if err := s.billing.QueueReminder(r.Context(), r.PathValue("id"), channel); err != nil {
		if errors.Is(err, services.ErrInvoiceSettled) {
			writeError(w, http.StatusConflict, "invoice already settled")
			return
		}
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "channel": channel})
}

func (s *Server) invoiceFromBody(w http.ResponseWriter, r *http.Request) (core.Invoice, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return core.Invoice{}, false
	}

	due, err := p.GetDate("due_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.Invoice{}, false
	}
	total, err := p.GetMoney("total")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.Invoice{}, false
	}

	inv := core.Invoice{
		Number:   p.Get("number"),
		ClientID: p.Get("client_id"),
		Total:    total,
		DueDate:  due,
		Status:   core.InvoiceStatus(p.GetOr("status", string(core.InvoicePending))),
	}

	if err := inv.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.Invoice{}, false
	}
	return inv, true
}
