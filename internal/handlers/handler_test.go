// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"promptforge/internal/ai"
	"promptforge/internal/billing"
	"promptforge/internal/cache"
	"promptforge/internal/database"
	"promptforge/internal/mailer"
	"promptforge/internal/middleware"
	"promptforge/internal/plan"
	"promptforge/internal/session"
	"promptforge/internal/store"
	"promptforge/internal/templates"
	"promptforge/internal/wizard"
)

// mockAIProvider implements ai.ModelProvider for handler tests.
type mockAIProvider struct {
	name     string
	response string
	err      error
}

func (m *mockAIProvider) Name() string { return m.name }
func (m *mockAIProvider) Generate(_ context.Context, _, _ string) (string, error) {
	return m.response, m.err
}
func (m *mockAIProvider) GenerateWithModel(_ context.Context, _, _, _ string) (string, error) {
	return m.response, m.err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "promptforge")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "promptforge")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "wizard:*", "showcase:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Valkey        *redis.Client
	Sessions      *session.Store
	Users         *store.UserStore
	Projects      *store.ProjectStore
	Templates     *store.PromptTemplateStore
	Subscriptions *store.SubscriptionStore
	Payments      *store.PaymentStore
	Usage         *store.UsageStore
	ShowcaseStore *store.ShowcaseStore
	Wizards       *wizard.Store
	Registry      *ai.Registry
	Generator     *Generator
	Limits        plan.Limits

	Auth     *Auth
	Wizard   *Wizard
	Project  *Projects
	Template *Templates
	Billing  *Billing
	Showcase *Showcase
	Account  *Account
	Admin    *Admin
}

// newTestEnv creates a complete test environment. The AI chain is a
// single mock provider; billing uses the demo gateway; the mailer has
// no key and stays a no-op.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	users := store.NewUserStore(db)
	projects := store.NewProjectStore(db)
	templateStore := store.NewPromptTemplateStore(db)
	subscriptions := store.NewSubscriptionStore(db)
	payments := store.NewPaymentStore(db)
	usage := store.NewUsageStore(db)
	showcaseStore := store.NewShowcaseStore(db)
	wizards := wizard.NewStore(vk)

	registry := ai.NewRegistry(map[string]ai.ProviderConfig{})
	registry.Register("test", &mockAIProvider{name: "test", response: "# Mock PRD\n\nGenerated document."})
	chain := ai.NewChain(registry, []ai.Candidate{{Provider: "test", Model: "test-model"}})

	limits := plan.DefaultLimits()
	gen := NewGenerator(registry, chain, chain, users, projects, usage, limits)

	mail := mailer.New("", "PromptForge <noreply@test.local>")
	gateway := billing.NewDemoGateway()
	showcaseCache := cache.NewShowcaseCache(vk, cache.DefaultShowcaseTTL)
	templateSvc := templates.NewService(templateStore)

	return &testEnv{
		DB:            db,
		Valkey:        vk,
		Sessions:      sessions,
		Users:         users,
		Projects:      projects,
		Templates:     templateStore,
		Subscriptions: subscriptions,
		Payments:      payments,
		Usage:         usage,
		ShowcaseStore: showcaseStore,
		Wizards:       wizards,
		Registry:      registry,
		Generator:     gen,
		Limits:        limits,

		Auth:     NewAuth(sessions, users, mail),
		Wizard:   NewWizard(wizards, gen),
		Project:  NewProjects(projects, gen, nil),
		Template: NewTemplates(templateStore, templateSvc),
		Billing:  NewBilling(gateway, subscriptions, payments, users, mail),
		Showcase: NewShowcase(showcaseStore, showcaseCache),
		Account:  NewAccount(users, usage, payments, subscriptions, limits),
		Admin:    NewAdmin(users),
	}
}

// newTestUser creates a user with a unique email and registers cleanup.
func newTestUser(t *testing.T, env *testEnv) *session.Data {
	t.Helper()

	email := "h-" + uuid.New().String()[:8] + "@test.local"
	user, err := env.Users.Create(email, "password123", "Handler Tester", "user")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { env.Users.Delete(user.ID) })

	return &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		PlanTier:    string(user.PlanTier),
		TwoFADone:   true,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withSession attaches session data to a request.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(ctxWithSession(r.Context(), sess))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both a chi URL param and a session.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = ctxWithSession(ctx, sess)
	return r.WithContext(ctx)
}
