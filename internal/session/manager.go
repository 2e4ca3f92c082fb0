// Package session keeps one form store and export trigger per browser, keyed
// by a cookie.
package session

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/types"
)

// CookieName is the cookie carrying the session id.
const CookieName = "session_id"

// Session is the state owned by one browser
type Session struct {
	ID     string
	Store  *form.Store
	Export *export.Trigger

	unsubscribe func()
}

// Options configures a Manager
type Options struct {
	// TTL is the idle lifetime of a session. Every request resets it.
	TTL             time.Duration
	CleanupInterval time.Duration
	MaxPhotoBytes   int
	SecureCookie    bool
	// Presentation is the template and theme of a fresh session.
	Presentation types.Presentation
	// Mirror, when set, receives every snapshot and is consulted for unknown ids.
	Mirror  Mirror
	Verbose bool
}

// DefaultOptions returns a 24h idle TTL with hourly cleanup.
func DefaultOptions() Options {
	return Options{
		TTL:             24 * time.Hour,
		CleanupInterval: time.Hour,
		MaxPhotoBytes:   form.DefaultMaxPhotoBytes,
	}
}

// Manager creates, finds and expires sessions.
type Manager struct {
	opts     Options
	exporter export.Exporter
	live     *cache.Cache
	mu       sync.Mutex
}

// NewManager creates a manager whose sessions export through exporter.
func NewManager(exporter export.Exporter, opts Options) *Manager {
	defaults := DefaultOptions()
	if opts.TTL <= 0 {
		opts.TTL = defaults.TTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaults.CleanupInterval
	}

	m := &Manager{
		opts:     opts,
		exporter: exporter,
		live:     cache.New(opts.TTL, opts.CleanupInterval),
	}
	m.live.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok && s.unsubscribe != nil {
			s.unsubscribe()
		}
		if m.opts.Verbose {
			log.Printf("[SESSION] Session %s expired", id)
		}
	})
	return m
}

// Get returns the live session for id, resetting its idle timer.
func (m *Manager) Get(id string) (*Session, bool) {
	v, ok := m.live.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	m.live.Set(id, s, cache.DefaultExpiration)
	return s, true
}

// Open returns the session for id, hydrating it from the mirror when it is not
// live. An id that is empty, malformed, or unknown to both tiers is never adopted:
// the caller gets a new session under a freshly minted id.
func (m *Manager) Open(ctx context.Context, id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		id = ""
	}
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}

	store, found := m.hydrate(ctx, id)
	if !found {
		id = uuid.New().String()
	}
	store.MaxPhotoBytes = m.opts.MaxPhotoBytes

	s := &Session{
		ID:     id,
		Store:  store,
		Export: m.newTrigger(id),
	}
	if m.opts.Mirror != nil {
		saves := &pendingSave{}
		s.unsubscribe = store.Subscribe(func(snap types.Snapshot) {
			saves.offer(snap, func(next types.Snapshot) {
				m.mirror(id, next)
			})
		})
	}
	m.live.Set(id, s, cache.DefaultExpiration)

	if m.opts.Verbose {
		log.Printf("[SESSION] Opened session %s (revision %d)", id, store.Snapshot().Revision)
	}
	return s, true
}

func (m *Manager) newTrigger(id string) *export.Trigger {
	t := export.NewTrigger(m.exporter)
	t.OnFailure = func(err error) {
		log.Printf("[EXPORT] Session %s: %v", id, err)
	}
	if m.opts.Verbose {
		t.OnSuccess = func(res *export.Result) {
			log.Printf("[EXPORT] Session %s: %s ready (%d bytes)", id, res.Filename, len(res.PDF))
		}
	}
	return t
}

// hydrate loads id from the mirror. found is false when id is empty, no mirror
// is configured, or the mirror does not hold it.
func (m *Manager) hydrate(ctx context.Context, id string) (*form.Store, bool) {
	if id != "" && m.opts.Mirror != nil {
		snap, found, err := m.opts.Mirror.Load(ctx, id)
		if err != nil {
			log.Printf("[SESSION] Warning: failed to load mirrored session %s: %v", id, err)
		} else if found {
			return form.Restore(snap), true
		}
	}
	return m.fresh(), false
}

func (m *Manager) fresh() *form.Store {
	if m.opts.Presentation == (types.Presentation{}) {
		return form.NewStore()
	}
	return form.Restore(types.Snapshot{
		Resume:       types.NewResumeData(),
		Presentation: m.opts.Presentation,
	})
}

func (m *Manager) mirror(id string, snap types.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.opts.Mirror.Save(ctx, id, snap, m.opts.TTL); err != nil {
		log.Printf("[SESSION] Warning: failed to mirror session %s: %v", id, err)
	}
}

// Delete discards a session.
func (m *Manager) Delete(ctx context.Context, id string) {
	m.live.Delete(id)
	if m.opts.Mirror != nil {
		if err := m.opts.Mirror.Delete(ctx, id); err != nil {
			log.Printf("[SESSION] Warning: failed to delete mirrored session %s: %v", id, err)
		}
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.live.ItemCount()
}

// Cookie builds the session cookie for id.
func (m *Manager) Cookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.opts.TTL / time.Second),
		HttpOnly: true,
		Secure:   m.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

type contextKey struct{}

// Middleware attaches the caller's session to the request context and
// refreshes the cookie on every response.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(CookieName); err == nil {
			id = cookie.Value
		}

		s, _ := m.Open(r.Context(), id)
		http.SetCookie(w, m.Cookie(s.ID))

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, s)))
	})
}

// FromContext returns the session attached by Middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
