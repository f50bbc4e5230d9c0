package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/shopspring/decimal"
)

// ListAgents handles GET /agents
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	f, err := agentFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.svc.Agents.SearchAgents(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateAgent handles POST /agents
func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req model.SalesAgentRequest
	if !decode(w, r, &req) {
		return
	}
	agent, err := h.svc.Agents.CreateAgent(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, agent.Snapshot())
}

// GetAgent handles GET /agents/{id}
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	agent, err := h.svc.Agents.GetAgent(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agent.Snapshot())
}

// MyAgentProfile handles GET /agents/me
// Returns the agent record linked to the caller's account.
func (h *Handler) MyAgentProfile(w http.ResponseWriter, r *http.Request) {
	agent, err := h.svc.Agents.AgentForUser(r.Context(), actor(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agent.Snapshot())
}

// UpdateAgent handles PUT /agents/{id}
func (h *Handler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req model.SalesAgentRequest
	if !decode(w, r, &req) {
		return
	}
	agent, err := h.svc.Agents.UpdateAgent(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agent.Snapshot())
}

// DeleteAgent handles DELETE /agents/{id}
func (h *Handler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Agents.DeleteAgent(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AgentCars handles GET /agents/{id}/cars
func (h *Handler) AgentCars(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cars, err := h.svc.Agents.AssignedCars(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

// AgentOffers handles GET /agents/{id}/offers
func (h *Handler) AgentOffers(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	offers, err := h.svc.Offers.OffersBySalesAgent(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

// UpdateCommissionRate handles PUT /agents/{id}/commission
func (h *Handler) UpdateCommissionRate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req model.CommissionRateRequest
	if !decode(w, r, &req) {
		return
	}
	agent, err := h.svc.Agents.UpdateCommission(r.Context(), id, req.CommissionRate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agent.Snapshot())
}

// ActivateAgent handles POST /agents/{id}/activate
func (h *Handler) ActivateAgent(w http.ResponseWriter, r *http.Request) {
	h.setAgentActive(w, r, true)
}

// DeactivateAgent handles POST /agents/{id}/deactivate
func (h *Handler) DeactivateAgent(w http.ResponseWriter, r *http.Request) {
	h.setAgentActive(w, r, false)
}

func (h *Handler) setAgentActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	agent, err := h.svc.Agents.SetActive(r.Context(), id, active)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agent.Snapshot())
}

// Commission handles GET /agents/{id}/commission?amount=
func (h *Handler) Commission(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		h.fail(w, r, &model.ValidationError{Field: "amount", Message: "must be a number"})
		return
	}
	res, err := h.svc.Agents.Commission(r.Context(), id, amount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
