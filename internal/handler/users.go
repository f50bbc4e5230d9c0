package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
)

// RegisterUser handles POST /auth/register
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Users.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Users.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListUsers handles GET /users, optionally filtered by ?role=
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users.ListUsers(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]model.UserSnapshot, len(users))
	for i, u := range users {
		out[i] = u.Snapshot()
	}
	writeJSON(w, http.StatusOK, out)
}

// Me handles GET /users/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Users.GetUser(r.Context(), actor(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Snapshot())
}

// UpdateMe handles PUT /users/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := h.svc.Users.UpdateProfile(r.Context(), actor(r).UserID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Snapshot())
}
