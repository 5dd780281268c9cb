package handler

import (
	"net/http"

	"github.com/google/uuid"

	"rolodex/internal/directory/store"
	"rolodex/internal/transport/http/shared"
	dErrors "rolodex/pkg/domain-errors"
)

func (h *Handler) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := decodeBody(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	fields, err := req.fields()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	inv, err := h.service.CreateInvoice(r.Context(), fields)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

func (h *Handler) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	inv, err := h.service.GetInvoice(r.Context(), id, includeDeleted(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (h *Handler) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	page := pageParams(r).Normalize()

	var filter store.InvoiceFilter
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid customer_id filter"))
			return
		}
		filter.CustomerID = customerID
	}

	invoices, total, err := h.service.ListInvoices(r.Context(), includeDeleted(r), filter, page)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	data := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		data = append(data, toInvoiceResponse(inv))
	}
	shared.WriteJSON(w, http.StatusOK, listResponse[invoiceResponse]{
		Data:    data,
		Total:   total,
		Page:    page.Number,
		PerPage: page.Size,
	})
}

func (h *Handler) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req invoiceRequest
	if err := decodeBody(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	fields, err := req.fields()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	inv, err := h.service.UpdateInvoice(r.Context(), id, fields)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (h *Handler) handleSoftDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if _, err := h.service.SoftDeleteInvoice(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRestoreInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	inv, err := h.service.RestoreInvoice(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toInvoiceResponse(inv))
}
