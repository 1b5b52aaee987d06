// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"promptforge/internal/models"
)

func createTestUser(t *testing.T, s *UserStore, email string) *models.User {
	t.Helper()
	u, err := s.Create(email, "pass", "Store Test", models.RoleUser)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}

func TestProjectStoreLifecycle(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	projects := NewProjectStore(db)

	email := "test-project@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })
	u := createTestUser(t, users, email)

	input := json.RawMessage(`{"mode":"quick","app_name":"TaskFlow","niche":"productivity"}`)
	created, err := projects.Create(&models.Project{
		UserID:         u.ID,
		Kind:           models.ProjectSaaS,
		Name:           "TaskFlow",
		Input:          input,
		Variant:        "agent",
		ComposedPrompt: "prompt body",
		GeneratedDoc:   "generated PRD",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil project ID")
	}
	if created.Kind != models.ProjectSaaS {
		t.Errorf("kind: got %q, want %q", created.Kind, models.ProjectSaaS)
	}

	found, err := projects.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected project, got nil")
	}
	if found.GeneratedDoc != "generated PRD" {
		t.Errorf("generated doc: got %q", found.GeneratedDoc)
	}

	// Regeneration overwrites the document but keeps the row.
	newInput := json.RawMessage(`{"mode":"quick","app_name":"TaskFlow","niche":"team productivity"}`)
	if err := projects.UpdateDocument(created.ID, newInput, "prompt v2", "generated v2"); err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	found, _ = projects.FindByID(created.ID)
	if found.GeneratedDoc != "generated v2" {
		t.Errorf("generated doc after regen: got %q", found.GeneratedDoc)
	}
	if found.ComposedPrompt != "prompt v2" {
		t.Errorf("composed prompt after regen: got %q", found.ComposedPrompt)
	}

	if err := projects.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, _ = projects.FindByID(created.ID)
	if found != nil {
		t.Error("expected nil after delete")
	}
}

func TestProjectStoreListByUser(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	projects := NewProjectStore(db)

	email := "test-project-list@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })
	u := createTestUser(t, users, email)

	for _, name := range []string{"First", "Second"} {
		_, err := projects.Create(&models.Project{
			UserID: u.ID,
			Kind:   models.ProjectLanding,
			Name:   name,
			Input:  json.RawMessage(`{}`),
		})
		if err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
		time.Sleep(10 * time.Millisecond) // distinct created_at for ordering
	}

	list, err := projects.ListByUser(u.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(list))
	}
	if list[0].Name != "Second" {
		t.Errorf("expected newest first, got %q", list[0].Name)
	}

	count, err := projects.CountByUser(u.ID)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if count != 2 {
		t.Errorf("count: got %d, want 2", count)
	}

	// Other users see nothing.
	other, err := projects.ListByUser(uuid.New())
	if err != nil {
		t.Fatalf("ListByUser (other): %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected empty list for unknown user, got %d", len(other))
	}
}
