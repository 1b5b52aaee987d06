// Package router sets up all HTTP routes and middleware chains for the
// PromptForge API. Routes split into a public surface (auth, showcase,
// webhooks, health) and an authenticated /api surface behind session,
// 2FA, and CSRF middleware.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"promptforge/internal/handlers"
	"promptforge/internal/middleware"
	"promptforge/internal/session"
)

// Handlers bundles the handler groups the router mounts.
type Handlers struct {
	Auth     *handlers.Auth
	Wizard   *handlers.Wizard
	Projects *handlers.Projects
	Template *handlers.Templates
	Billing  *handlers.Billing
	Showcase *handlers.Showcase
	Account  *handlers.Account
	Admin    *handlers.Admin
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, limiter *middleware.RateLimiter, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(limiter.Middleware)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Gateway webhooks authenticate with signatures, not sessions.
	r.Post("/api/billing/webhook", h.Billing.Webhook)

	// Browser-facing routes share the CSRF double-submit cookie.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Auth — accessible without a session.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)

			// 2FA — requires auth but NOT completed verification.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/2fa/setup", h.Auth.TwoFASetup)
				r.Post("/2fa/verify", h.Auth.TwoFAVerify)
			})
		})

		// Public showcase. Submitting and voting need a verified session.
		r.Route("/api/showcase", func(r chi.Router) {
			r.Get("/", h.Showcase.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)
				r.Post("/", h.Showcase.Submit)
				r.Post("/{id}/vote", h.Showcase.Vote)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)
				r.Use(middleware.RequireAdmin)
				r.Delete("/{id}", h.Showcase.Delete)
			})
		})

		// Authenticated, 2FA-verified API surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Route("/api/wizard", func(r chi.Router) {
				r.Post("/", h.Wizard.Start)
				r.Get("/{id}", h.Wizard.State)
				r.Post("/{id}/field", h.Wizard.UpdateField)
				r.Post("/{id}/next", h.Wizard.Next)
				r.Post("/{id}/prev", h.Wizard.Prev)
				r.Post("/{id}/jump", h.Wizard.Jump)
				r.Post("/{id}/generate", h.Wizard.Generate)
			})

			r.Route("/api/projects", func(r chi.Router) {
				r.Get("/", h.Projects.List)
				r.Get("/{id}", h.Projects.Get)
				r.Patch("/{id}", h.Projects.Rename)
				r.Delete("/{id}", h.Projects.Delete)
				r.Post("/{id}/regenerate", h.Projects.Regenerate)
				r.Get("/{id}/variables", h.Projects.Variables)
				r.Post("/{id}/fill", h.Projects.Fill)
				r.Get("/{id}/preview", h.Projects.Preview)
				r.Post("/{id}/export", h.Projects.Export)
			})

			r.Route("/api/templates", func(r chi.Router) {
				r.Get("/", h.Template.List)
				r.Post("/", h.Template.Create)
				r.Get("/{id}", h.Template.Get)
				r.Put("/{id}", h.Template.Update)
				r.Delete("/{id}", h.Template.Delete)
				r.Get("/{id}/revisions", h.Template.Revisions)
				r.Get("/{id}/variables", h.Template.Variables)
				r.Post("/{id}/render", h.Template.Render)
			})

			r.Route("/api/billing", func(r chi.Router) {
				r.Post("/checkout", h.Billing.Checkout)
			})

			r.Route("/api/account", func(r chi.Router) {
				r.Get("/me", h.Account.Me)
				r.Patch("/profile", h.Account.UpdateProfile)
				r.Get("/usage", h.Account.UsageHistory)
				r.Get("/payments", h.Account.Payments)
			})

			// Operator endpoints.
			r.Route("/api/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/users", h.Admin.UsersList)
				r.Post("/users/{id}/plan", h.Admin.UserSetPlan)
				r.Post("/users/{id}/reset-2fa", h.Admin.UserResetTwoFA)
				r.Delete("/users/{id}", h.Admin.UserDelete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
