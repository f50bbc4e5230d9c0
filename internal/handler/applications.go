package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
)

// MyApplications handles GET /applications/mine
func (h *Handler) MyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.Applications.ByUser(r.Context(), actor(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applicationSnapshots(apps))
}

// PendingApplications handles GET /applications/pending
func (h *Handler) PendingApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.Applications.Pending(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applicationSnapshots(apps))
}

// GetApplication handles GET /applications/{id}
func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	app, err := h.svc.Applications.Get(r.Context(), id, actor(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Snapshot())
}

// ApproveApplication handles POST /applications/{id}/approve
func (h *Handler) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, model.DecisionApprove)
}

// RejectApplication handles POST /applications/{id}/reject
func (h *Handler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, model.DecisionReject)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, d model.Decision) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req model.ReviewRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	app, err := h.svc.Applications.Review(r.Context(), id, actor(r), d, req.Notes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Snapshot())
}

// CancelApplication handles POST /applications/{id}/cancel
func (h *Handler) CancelApplication(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	app, err := h.svc.Applications.Cancel(r.Context(), id, actor(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Snapshot())
}

func applicationSnapshots(apps []*model.OfferApplication) []model.ApplicationSnapshot {
	out := make([]model.ApplicationSnapshot, len(apps))
	for i, a := range apps {
		out[i] = a.Snapshot()
	}
	return out
}
