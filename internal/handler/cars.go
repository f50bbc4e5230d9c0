package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
)

// ListCars handles GET /cars
func (h *Handler) ListCars(w http.ResponseWriter, r *http.Request) {
	f, err := carFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.svc.Cars.SearchCars(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateCar handles POST /cars
func (h *Handler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req model.CarRequest
	if !decode(w, r, &req) {
		return
	}
	car, err := h.svc.Cars.CreateCar(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.NewCarView(car))
}

// GetCar handles GET /cars/{id}
func (h *Handler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	car, err := h.svc.Cars.GetCar(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewCarView(car))
}

// UpdateCar handles PUT /cars/{id}
func (h *Handler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req model.CarRequest
	if !decode(w, r, &req) {
		return
	}
	car, err := h.svc.Cars.UpdateCar(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewCarView(car))
}

// DeleteCar handles DELETE /cars/{id}
func (h *Handler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Cars.DeleteCar(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignOwner handles POST /cars/{id}/owner
func (h *Handler) AssignOwner(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req model.OwnerRequest
	if !decode(w, r, &req) {
		return
	}
	car, err := h.svc.Cars.AssignOwner(r.Context(), id, req.OwnerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewCarView(car))
}

// MyCars handles GET /users/me/cars
func (h *Handler) MyCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.svc.Cars.CarsByOwner(r.Context(), actor(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

// CarOffers handles GET /cars/{id}/offers
func (h *Handler) CarOffers(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	offers, err := h.svc.Offers.OffersByCar(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

// ExpressInterest handles POST /cars/{id}/interest
// The caller asks a sales agent to phone them about the car.
func (h *Handler) ExpressInterest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req model.InterestRequest
	if !decode(w, r, &req) {
		return
	}
	interest, err := h.svc.Interests.Express(r.Context(), id, actor(r).UserID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, interest.Snapshot())
}

// CarInterests handles GET /cars/{id}/interests
func (h *Handler) CarInterests(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	interests, err := h.svc.Interests.ByCar(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, interests)
}

// RecentInterests handles GET /interests
func (h *Handler) RecentInterests(w http.ResponseWriter, r *http.Request) {
	f, err := interestFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	interests, err := h.svc.Interests.Recent(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, interests)
}
