package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/barzarena/backend/internal/auth"
	"github.com/barzarena/backend/internal/repos/contests"
	"github.com/barzarena/backend/internal/services/session"
)

// NewRouter constructs the router with all API endpoints registered.
func NewRouter(sess *session.Service, authSvc *auth.Service, tokens *auth.TokenManager, catalog contests.Catalog) http.Handler {
	h := NewHandler(sess, authSvc, tokens, catalog)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/auth/register", h.RegisterHandler)
	r.Post("/auth/login", h.LoginHandler)
	r.Get("/contests", h.ListContestsHandler)

	// Everything below operates on the logged-in account.
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(tokens))

		r.Post("/auth/logout", h.LogoutHandler)
		r.Get("/account/balance", h.GetBalanceHandler)
		r.Post("/account/recharge", h.RechargeHandler)
		r.Post("/wagers", h.PlaceWagerHandler)
		r.Get("/wagers", h.ListWagersHandler)
		r.Post("/checkout", h.CheckoutHandler)
	})

	return r
}
