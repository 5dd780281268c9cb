package handler

import (
	"net/http"

	"github.com/google/uuid"

	"rolodex/internal/directory/store"
	"rolodex/internal/transport/http/shared"
	dErrors "rolodex/pkg/domain-errors"
)

func (h *Handler) handleCreatePhoneNumber(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := decodeBody(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	t, err := h.service.CreatePhoneNumber(r.Context(), req.fields())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toPhoneResponse(t))
}

func (h *Handler) handleGetPhoneNumber(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	t, err := h.service.GetPhoneNumber(r.Context(), id, includeDeleted(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toPhoneResponse(t))
}

func (h *Handler) handleListPhoneNumbers(w http.ResponseWriter, r *http.Request) {
	page := pageParams(r).Normalize()

	var filter store.PhoneFilter
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid customer_id filter"))
			return
		}
		filter.CustomerID = customerID
	}

	phones, total, err := h.service.ListPhoneNumbers(r.Context(), includeDeleted(r), filter, page)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	data := make([]phoneResponse, 0, len(phones))
	for _, t := range phones {
		data = append(data, toPhoneResponse(t))
	}
	shared.WriteJSON(w, http.StatusOK, listResponse[phoneResponse]{
		Data:    data,
		Total:   total,
		Page:    page.Number,
		PerPage: page.Size,
	})
}

func (h *Handler) handleUpdatePhoneNumber(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req phoneRequest
	if err := decodeBody(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	t, err := h.service.UpdatePhoneNumber(r.Context(), id, req.fields())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toPhoneResponse(t))
}

func (h *Handler) handleSoftDeletePhoneNumber(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if _, err := h.service.SoftDeletePhoneNumber(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRestorePhoneNumber(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	t, err := h.service.RestorePhoneNumber(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toPhoneResponse(t))
}
