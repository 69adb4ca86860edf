package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Fetcher retrieves profile fields from a remote profile URL.
// Implemented by fetch.Client.
type Fetcher interface {
	Fetch(ctx context.Context, profileURL string) (Fields, error)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type cacheEntry struct {
	profile   Profile
	fetchedAt time.Time
}

// Resolver maps an identifier (demo key, profile URL, or freeform text) to
// a Profile. Profiles fetched from URLs are cached for ttl; everything else
// is normalized on every call.
type Resolver struct {
	normalizer *Normalizer
	fetcher    Fetcher
	clock      Clock
	ttl        time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewResolver creates a Resolver. fetcher may be nil, in which case URLs
// are normalized as plain text.
func NewResolver(n *Normalizer, fetcher Fetcher, ttl time.Duration) *Resolver {
	return NewResolverWithClock(n, fetcher, realClock{}, ttl)
}

// NewResolverWithClock creates a Resolver with a custom clock (for testing).
func NewResolverWithClock(n *Normalizer, fetcher Fetcher, clock Clock, ttl time.Duration) *Resolver {
	return &Resolver{
		normalizer: n,
		fetcher:    fetcher,
		clock:      clock,
		ttl:        ttl,
		cache:      make(map[string]cacheEntry),
	}
}

// Resolve returns the Profile for identifier. Remote fetch failures degrade
// to normalizing the identifier as text; only empty input is an error.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (Profile, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return Profile{}, &NormalizationError{Input: identifier, Reason: "input is empty"}
	}
	if p, ok := r.normalizer.Demo(id); ok {
		return p, nil
	}

	u, ok := profileURL(id)
	if !ok || r.fetcher == nil {
		return r.normalizer.Normalize(id)
	}

	if p, ok := r.cached(u); ok {
		return p, nil
	}

	f, err := r.fetcher.Fetch(ctx, u)
	if err != nil {
		slog.Warn("profile fetch failed, normalizing identifier as text", "url", u, "error", err)
		return r.normalizer.Normalize(id)
	}
	if f.ProfileURL == "" {
		f.ProfileURL = u
	}
	p, err := FromFields(DeriveID(f.Email, f.Name, f.Company), f)
	if err != nil {
		var ne *NormalizationError
		if errors.As(err, &ne) {
			slog.Warn("fetched profile was empty, normalizing identifier as text", "url", u)
			return r.normalizer.Normalize(id)
		}
		return Profile{}, err
	}

	now := r.clock.Now()
	r.mu.Lock()
	r.evictExpired(now)
	r.cache[u] = cacheEntry{profile: p.Clone(), fetchedAt: now}
	r.mu.Unlock()
	return p, nil
}

// evictExpired drops entries older than the TTL. The caller holds r.mu.
func (r *Resolver) evictExpired(now time.Time) {
	for u, e := range r.cache {
		if !now.Before(e.fetchedAt.Add(r.ttl)) {
			delete(r.cache, u)
		}
	}
}

func (r *Resolver) cached(u string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.cache[u]
	if !ok || !r.clock.Now().Before(e.fetchedAt.Add(r.ttl)) {
		return Profile{}, false
	}
	return e.profile.Clone(), true
}

// Invalidate drops every cached remote profile.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.cache = make(map[string]cacheEntry)
	r.mu.Unlock()
}

// profileURL recognizes identifiers that point at a profile page. Bare
// "linkedin.com/in/x" style identifiers are given an https scheme.
func profileURL(id string) (string, bool) {
	if strings.ContainsAny(id, " \t\n") {
		return "", false
	}
	raw := id
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		if !strings.Contains(raw, ".") || !strings.Contains(raw, "/") {
			return "", false
		}
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	return u.String(), true
}
