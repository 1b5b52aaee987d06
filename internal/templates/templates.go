// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package templates renders user-saved prompt templates. A template's
// placeholder list is extracted once per saved version and cached in
// memory; updates bump the version, so stale entries simply stop being
// hit and get invalidated on write.
package templates

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"promptforge/internal/models"
	"promptforge/internal/vars"
)

// Finder is the subset of the prompt-template store this package needs.
type Finder interface {
	FindByID(id uuid.UUID) (*models.PromptTemplate, error)
}

// Compiled is a template prepared for rendering: its body plus the
// placeholder names extracted from it, in first-appearance order.
type Compiled struct {
	Content string
	Vars    []string
}

// cacheKey uniquely identifies a compiled template version. Using
// ID+Version means any update (which bumps version) auto-invalidates.
type cacheKey struct {
	id      uuid.UUID
	version int
}

// compiledCache is a concurrency-safe in-memory cache of compiled
// templates.
type compiledCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*Compiled
}

func newCompiledCache() *compiledCache {
	return &compiledCache{entries: make(map[cacheKey]*Compiled)}
}

// get retrieves a compiled template from cache. Returns nil on miss.
func (c *compiledCache) get(id uuid.UUID, version int) *Compiled {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[cacheKey{id: id, version: version}]
}

func (c *compiledCache) put(id uuid.UUID, version int, compiled *Compiled) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{id: id, version: version}] = compiled
	slog.Debug("template compiled", "id", id, "version", version, "size", len(c.entries))
}

// invalidate removes all cached versions for a given template ID.
// Called when a template is updated or deleted.
func (c *compiledCache) invalidate(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.id == id {
			delete(c.entries, k)
		}
	}
}

// Service loads, compiles, and renders prompt templates.
type Service struct {
	finder Finder
	cache  *compiledCache
}

// NewService creates a template service over the given store.
func NewService(finder Finder) *Service {
	return &Service{
		finder: finder,
		cache:  newCompiledCache(),
	}
}

// Compile returns the compiled form of a template, loading and caching
// it on first use. Returns (nil, nil) when the template does not exist.
func (s *Service) Compile(id uuid.UUID) (*Compiled, error) {
	t, err := s.finder.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("template lookup: %w", err)
	}
	if t == nil {
		return nil, nil
	}

	if compiled := s.cache.get(t.ID, t.Version); compiled != nil {
		return compiled, nil
	}

	compiled := &Compiled{
		Content: t.Content,
		Vars:    vars.Extract(t.Content),
	}
	s.cache.put(t.ID, t.Version, compiled)
	return compiled, nil
}

// Variables returns the placeholder names a template declares. Returns
// (nil, nil) when the template does not exist.
func (s *Service) Variables(id uuid.UUID) ([]string, error) {
	compiled, err := s.Compile(id)
	if err != nil || compiled == nil {
		return nil, err
	}
	return compiled.Vars, nil
}

// Render fills a template's placeholders with the given values.
// Placeholders without a non-empty value stay verbatim so the user sees
// what is still missing. Returns ("", false, nil) when the template does
// not exist.
func (s *Service) Render(id uuid.UUID, values map[string]string) (string, bool, error) {
	compiled, err := s.Compile(id)
	if err != nil {
		return "", false, err
	}
	if compiled == nil {
		return "", false, nil
	}
	return vars.Fill(compiled.Content, values), true, nil
}

// Invalidate drops cached versions of a template after an update or
// delete.
func (s *Service) Invalidate(id uuid.UUID) {
	s.cache.invalidate(id)
}
