package handler

import (
	"net/http"

	"rolodex/internal/directory/store"
	"rolodex/internal/transport/http/shared"
)

func (h *Handler) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeBody(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	c, err := h.service.CreateCustomer(r.Context(), req.fields())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toCustomerResponse(c))
}

func (h *Handler) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	c, err := h.service.GetCustomer(r.Context(), id, includeDeleted(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCustomerResponse(c))
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	page := pageParams(r).Normalize()
	filter := store.CustomerFilter{Name: r.URL.Query().Get("name")}

	customers, total, err := h.service.ListCustomers(r.Context(), includeDeleted(r), filter, page)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	data := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		data = append(data, toCustomerResponse(c))
	}
	shared.WriteJSON(w, http.StatusOK, listResponse[customerResponse]{
		Data:    data,
		Total:   total,
		Page:    page.Number,
		PerPage: page.Size,
	})
}

func (h *Handler) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req customerRequest
	if err := decodeBody(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	c, err := h.service.UpdateCustomer(r.Context(), id, req.fields())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCustomerResponse(c))
}

func (h *Handler) handleSoftDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if _, err := h.service.SoftDeleteCustomer(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRestoreCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	c, err := h.service.RestoreCustomer(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCustomerResponse(c))
}

func (h *Handler) handleCustomerBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	sum, err := h.service.CustomerBalance(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, balanceResponse{
		CustomerID: id,
		Balance:    formatAmount(sum),
	})
}
