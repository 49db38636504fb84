package http

import (
	"net/http"

	"gigbook/internal/core"
)

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	var (
		payments []core.Payment
		err      error
	)
	if invoiceID := r.URL.Query().Get("invoice_id"); invoiceID != "" {
		payments, err = s.store.ListPaymentsByInvoice(r.Context(), invoiceID)
	} else {
		payments, err = s.store.ListPayments(r.Context())
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]paymentDTO, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPayment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(p))
}

// handleCreatePayment records a payment and lets the billing service
// roll the invoice status forward.
func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := p.GetDate("date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := p.GetMoney("amount")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment := core.Payment{
		InvoiceID: p.Get("invoice_id"),
		ClientID:  p.Get("client_id"),
		Amount:    amount,
		Date:      date,
		Method:    p.Get("method"),
		Status:    core.PaymentStatus(p.GetOr("status", string(core.PaymentCompleted))),
	}

	created, err := s.billing.RecordPayment(r.Context(), payment)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.dashboard.Invalidate()
	writeJSON(w, http.StatusCreated, toPaymentDTO(created))
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePayment(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.dashboard.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}
