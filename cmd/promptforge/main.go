// Package main is the entry point for the PromptForge API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptforge/internal/ai"
	"promptforge/internal/billing"
	"promptforge/internal/cache"
	"promptforge/internal/config"
	"promptforge/internal/database"
	"promptforge/internal/handlers"
	"promptforge/internal/mailer"
	"promptforge/internal/middleware"
	"promptforge/internal/plan"
	"promptforge/internal/router"
	"promptforge/internal/session"
	"promptforge/internal/storage"
	"promptforge/internal/store"
	"promptforge/internal/templates"
	"promptforge/internal/wizard"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions, wizard state, showcase cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	wizardStore := wizard.NewStore(valkeyClient)
	showcaseCache := cache.NewShowcaseCache(valkeyClient, cache.DefaultShowcaseTTL)

	// Data stores.
	userStore := store.NewUserStore(db)
	projectStore := store.NewProjectStore(db)
	templateStore := store.NewPromptTemplateStore(db)
	subscriptionStore := store.NewSubscriptionStore(db)
	paymentStore := store.NewPaymentStore(db)
	usageStore := store.NewUsageStore(db)
	showcaseStore := store.NewShowcaseStore(db)

	// Plan limits: env overrides on top of the built-in defaults.
	limits := plan.DefaultLimits()
	if cfg.FreeLimit > 0 {
		limits.Free = cfg.FreeLimit
	}
	if cfg.StarterLimit > 0 {
		limits.Starter = cfg.StarterLimit
	}
	if cfg.ProLimit > 0 {
		limits.Pro = cfg.ProLimit
	}

	// AI provider registry and the two generation chains.
	aiRegistry := ai.NewRegistry(map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey},
		"gemini":  {APIKey: cfg.GeminiKey},
		"claude":  {APIKey: cfg.AnthropicKey},
		"mistral": {APIKey: cfg.MistralKey},
	})
	prdChain := ai.DefaultPRDChain(aiRegistry)
	featureChain := ai.DefaultFeatureChain(aiRegistry)

	slog.Info("ai providers initialized", "available", aiRegistry.Available())

	// Payment gateway. Falls back to the demo gateway without keys.
	gateway := billing.New(cfg.BillingGateway, cfg.StripeKey, cfg.StripeWebhookKey, cfg.AsaasKey, cfg.MercadoPagoKey)
	slog.Info("billing gateway selected", "gateway", gateway.Name())

	// Transactional email. No-op without an API key.
	mail := mailer.New(cfg.ResendKey, cfg.MailSender)
	if !mail.Enabled() {
		slog.Warn("mailer not configured — transactional email disabled")
	}

	// S3-compatible export storage (optional — app works without it).
	exportStore, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if exportStore == nil {
		slog.Warn("s3 storage not configured — project exports disabled")
	}

	// Handler groups.
	generator := handlers.NewGenerator(aiRegistry, prdChain, featureChain, userStore, projectStore, usageStore, limits)
	templateService := templates.NewService(templateStore)

	h := router.Handlers{
		Auth:     handlers.NewAuth(sessionStore, userStore, mail),
		Wizard:   handlers.NewWizard(wizardStore, generator),
		Projects: handlers.NewProjects(projectStore, generator, exportStore),
		Template: handlers.NewTemplates(templateStore, templateService),
		Billing:  handlers.NewBilling(gateway, subscriptionStore, paymentStore, userStore, mail),
		Showcase: handlers.NewShowcase(showcaseStore, showcaseCache),
		Account:  handlers.NewAccount(userStore, usageStore, paymentStore, subscriptionStore, limits),
		Admin:    handlers.NewAdmin(userStore),
	}

	// Per-IP rate limiting across the whole API.
	limiter := middleware.NewRateLimiter(120, time.Minute)
	defer limiter.Stop()

	r := router.New(sessionStore, limiter, h)

	// WriteTimeout must accommodate the generation endpoints, which wait
	// on LLM responses across the fallback chain.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
