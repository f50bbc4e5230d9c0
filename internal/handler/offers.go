package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
)

// ListOffers handles GET /offers
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	f, err := offerFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.svc.Offers.SearchOffers(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ActiveOffers handles GET /offers/active
func (h *Handler) ActiveOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.svc.Offers.ActiveOffers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

// CreateOffer handles POST /offers
func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var req model.OfferRequest
	if !decode(w, r, &req) {
		return
	}
	offer, err := h.svc.Offers.CreateOffer(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

// GetOffer handles GET /offers/{id}
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	offer, err := h.svc.Offers.GetOffer(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// UpdateOffer handles PUT /offers/{id}
func (h *Handler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req model.OfferRequest
	if !decode(w, r, &req) {
		return
	}
	offer, err := h.svc.Offers.UpdateOffer(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// DeleteOffer handles DELETE /offers/{id}
func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Offers.DeleteOffer(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivateOffer handles POST /offers/{id}/activate
func (h *Handler) ActivateOffer(w http.ResponseWriter, r *http.Request) {
	h.toggleOffer(w, r, true)
}

// DeactivateOffer handles POST /offers/{id}/deactivate
func (h *Handler) DeactivateOffer(w http.ResponseWriter, r *http.Request) {
	h.toggleOffer(w, r, false)
}

func (h *Handler) toggleOffer(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	toggle := h.svc.Offers.DeactivateOffer
	if active {
		toggle = h.svc.Offers.ActivateOffer
	}
	offer, err := toggle(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// Apply handles POST /offers/{id}/apply
// Takes one slot on the offer for the caller, atomically.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req model.ApplyRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	app, err := h.svc.Applications.Submit(r.Context(), id, actor(r).UserID, req.Notes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app.Snapshot())
}

// OfferApplications handles GET /offers/{id}/applications
func (h *Handler) OfferApplications(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apps, err := h.svc.Applications.ByOffer(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applicationSnapshots(apps))
}
