// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Shivanand-hulikatti/autolease/internal/auth"
	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/Shivanand-hulikatti/autolease/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CarService is the car API's view of the service layer.
type CarService interface {
	CreateCar(ctx context.Context, req model.CarRequest) (*model.Car, error)
	UpdateCar(ctx context.Context, id int64, req model.CarRequest) (*model.Car, error)
	DeleteCar(ctx context.Context, id int64) error
	GetCar(ctx context.Context, id int64) (*model.Car, error)
	SearchCars(ctx context.Context, f model.CarFilter) (model.PagedResult[model.CarView], error)
	AssignOwner(ctx context.Context, id int64, ownerID string) (*model.Car, error)
	CarsByOwner(ctx context.Context, ownerID string) ([]model.CarView, error)
}

// OfferService is the offer API's view of the service layer.
type OfferService interface {
	CreateOffer(ctx context.Context, req model.OfferRequest) (*model.OfferView, error)
	UpdateOffer(ctx context.Context, id int64, req model.OfferRequest) (*model.OfferView, error)
	ActivateOffer(ctx context.Context, id int64) (*model.OfferView, error)
	DeactivateOffer(ctx context.Context, id int64) (*model.OfferView, error)
	DeleteOffer(ctx context.Context, id int64) error
	GetOffer(ctx context.Context, id int64) (*model.OfferView, error)
	OffersByCar(ctx context.Context, carID int64) ([]model.OfferView, error)
	OffersBySalesAgent(ctx context.Context, agentID int64) ([]model.OfferView, error)
	ActiveOffers(ctx context.Context) ([]model.OfferView, error)
	SearchOffers(ctx context.Context, f model.OfferFilter) (model.PagedResult[model.OfferView], error)
}

// ApplicationService is the application API's view of the service layer.
type ApplicationService interface {
	Submit(ctx context.Context, offerID int64, userID, notes string) (*model.OfferApplication, error)
	Review(ctx context.Context, id int64, reviewer service.Actor, d model.Decision, notes *string) (*model.OfferApplication, error)
	Cancel(ctx context.Context, id int64, caller service.Actor) (*model.OfferApplication, error)
	Get(ctx context.Context, id int64, caller service.Actor) (*model.OfferApplication, error)
	ByOffer(ctx context.Context, offerID int64) ([]*model.OfferApplication, error)
	ByUser(ctx context.Context, userID string) ([]*model.OfferApplication, error)
	Pending(ctx context.Context) ([]*model.OfferApplication, error)
}

// SalesAgentService is the agent API's view of the service layer.
type SalesAgentService interface {
	CreateAgent(ctx context.Context, req model.SalesAgentRequest) (*model.SalesAgent, error)
	UpdateAgent(ctx context.Context, id int64, req model.SalesAgentRequest) (*model.SalesAgent, error)
	UpdateCommission(ctx context.Context, id int64, rate decimal.Decimal) (*model.SalesAgent, error)
	SetActive(ctx context.Context, id int64, active bool) (*model.SalesAgent, error)
	DeleteAgent(ctx context.Context, id int64) error
	GetAgent(ctx context.Context, id int64) (*model.SalesAgent, error)
	AgentForUser(ctx context.Context, userID string) (*model.SalesAgent, error)
	SearchAgents(ctx context.Context, f model.SalesAgentFilter) (model.PagedResult[model.AgentWithCars], error)
	AssignedCars(ctx context.Context, id int64) ([]model.CarView, error)
	Commission(ctx context.Context, id int64, saleAmount decimal.Decimal) (*model.CommissionResponse, error)
}

// UserService is the identity API's view of the service layer.
type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, role string) ([]*model.User, error)
	UpdateProfile(ctx context.Context, id string, req model.ProfileRequest) (*model.User, error)
}

// InterestService is the car interest API's view of the service layer.
type InterestService interface {
	Express(ctx context.Context, carID int64, userID string, req model.InterestRequest) (*model.CarInterest, error)
	ByCar(ctx context.Context, carID int64) ([]model.InterestView, error)
	Recent(ctx context.Context, f model.InterestFilter) ([]model.InterestView, error)
}

// Services bundles everything the API calls into.
type Services struct {
	Cars         CarService
	Offers       OfferService
	Applications ApplicationService
	Agents       SalesAgentService
	Users        UserService
	Interests    InterestService
}

// Handler holds all HTTP handlers for the marketplace API.
type Handler struct {
	svc Services
	log *zap.Logger
}

// New constructs a Handler.
func New(svc Services, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log.Named("http")}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// decode reads the request body into dst, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// fail maps a service error onto a status code. Unexpected errors are logged
// and hidden from the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: ve.Message, Field: ve.Field})
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrInvalidState):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, model.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// idParam reads the {id} path parameter.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &model.ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}

// actor returns the authenticated caller. Routes that call it sit behind
// RequireAuth.
func actor(r *http.Request) service.Actor {
	c, _ := auth.FromContext(r.Context())
	if c == nil {
		return service.Actor{}
	}
	return service.Actor{UserID: c.UserID, Role: c.Role}
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
