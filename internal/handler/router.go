package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/autolease/internal/metrics"
	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterConfig carries what NewRouter needs besides the handlers.
type RouterConfig struct {
	Tokens        TokenValidator
	AllowedOrigin string
	Log           *zap.Logger
}

// NewRouter builds the API router.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(cfg.Log))
	r.Use(CORS(cfg.AllowedOrigin))
	r.Use(metrics.HTTPMiddleware)
	r.Use(Authenticate(cfg.Tokens))

	agentOnly := RequireRole(model.RoleSalesAgent)

	r.Get("/health", HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.RegisterUser)
		r.Post("/login", h.Login)
	})

	r.Route("/cars", func(r chi.Router) {
		r.Get("/", h.ListCars)
		r.Get("/{id}", h.GetCar)
		r.Get("/{id}/offers", h.CarOffers)
		r.With(RequireAuth).Post("/{id}/interest", h.ExpressInterest)
		r.Group(func(r chi.Router) {
			r.Use(agentOnly)
			r.Post("/", h.CreateCar)
			r.Put("/{id}", h.UpdateCar)
			r.Delete("/{id}", h.DeleteCar)
			r.Post("/{id}/owner", h.AssignOwner)
			r.Get("/{id}/interests", h.CarInterests)
		})
	})

	r.Route("/offers", func(r chi.Router) {
		r.Get("/", h.ListOffers)
		r.Get("/active", h.ActiveOffers)
		r.Get("/{id}", h.GetOffer)
		r.With(RequireAuth).Post("/{id}/apply", h.Apply)
		r.Group(func(r chi.Router) {
			r.Use(agentOnly)
			r.Post("/", h.CreateOffer)
			r.Put("/{id}", h.UpdateOffer)
			r.Delete("/{id}", h.DeleteOffer)
			r.Post("/{id}/activate", h.ActivateOffer)
			r.Post("/{id}/deactivate", h.DeactivateOffer)
			r.Get("/{id}/applications", h.OfferApplications)
		})
	})

	r.Route("/applications", func(r chi.Router) {
		r.Use(RequireAuth)
		r.Get("/mine", h.MyApplications)
		r.Get("/{id}", h.GetApplication)
		r.Post("/{id}/cancel", h.CancelApplication)
		r.Group(func(r chi.Router) {
			r.Use(agentOnly)
			r.Get("/pending", h.PendingApplications)
			r.Post("/{id}/approve", h.ApproveApplication)
			r.Post("/{id}/reject", h.RejectApplication)
		})
	})

	r.Route("/agents", func(r chi.Router) {
		r.Get("/", h.ListAgents)
		r.With(agentOnly).Get("/me", h.MyAgentProfile)
		r.Get("/{id}", h.GetAgent)
		r.Get("/{id}/cars", h.AgentCars)
		r.Get("/{id}/offers", h.AgentOffers)
		r.Get("/{id}/commission", h.Commission)
		r.Group(func(r chi.Router) {
			r.Use(agentOnly)
			r.Post("/", h.CreateAgent)
			r.Put("/{id}", h.UpdateAgent)
			r.Delete("/{id}", h.DeleteAgent)
			r.Put("/{id}/commission", h.UpdateCommissionRate)
			r.Post("/{id}/activate", h.ActivateAgent)
			r.Post("/{id}/deactivate", h.DeactivateAgent)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(RequireAuth)
		r.Get("/me", h.Me)
		r.Put("/me", h.UpdateMe)
		r.Get("/me/cars", h.MyCars)
		r.With(agentOnly).Get("/", h.ListUsers)
	})

	r.With(agentOnly).Get("/interests", h.RecentInterests)

	return r
}
