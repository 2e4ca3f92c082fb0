package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// PreviewEvent is the payload of a "render" event on the preview stream.
type PreviewEvent struct {
	Revision uint64             `json:"revision"`
	Template types.TemplateName `json:"template"`
	Theme    types.ThemeName    `json:"theme"`
	HTML     string             `json:"html"`
}

// handlePage serves the application shell with the current preview embedded
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	snap := sess.Store.Snapshot()
	doc, err := s.renderer.Render(snap)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.renderer.Page(snap, doc, sess.Export.Busy())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// handlePreview serves the standalone preview document
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	doc, err := s.renderer.Render(sess.Store.Snapshot())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.HTML)
}

// handleOutline returns the visible text lines of the preview
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	doc, err := s.renderer.Render(sess.Store.Snapshot())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lines, err := doc.Lines()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"template": doc.Template,
		"theme":    doc.Theme,
		"lines":    lines,
	})
}

// latestSnapshot keeps only the newest snapshot published by the store, so a
// slow stream skips intermediate revisions instead of queueing them.
type latestSnapshot struct {
	mu     sync.Mutex
	snap   types.Snapshot
	notify chan struct{}
}

func newLatestSnapshot(initial types.Snapshot) *latestSnapshot {
	return &latestSnapshot{snap: initial, notify: make(chan struct{}, 1)}
}

func (l *latestSnapshot) offer(snap types.Snapshot) {
	l.mu.Lock()
	if snap.Revision > l.snap.Revision {
		l.snap = snap
	}
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

func (l *latestSnapshot) load() types.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

// handlePreviewEvents streams a freshly rendered fragment after every change to the session
func (s *Server) handlePreviewEvents(w http.ResponseWriter, r *http.Request, keepAlive time.Duration) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	latest := newLatestSnapshot(sess.Store.Snapshot())
	unsubscribe := sess.Store.Subscribe(latest.offer)
	defer unsubscribe()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	var sent *uint64
	for {
		snap := latest.load()
		if sent == nil || snap.Revision != *sent {
			if err := s.writePreview(sse, snap); err != nil {
				if s.verbose {
					log.Printf("[SSE] Session %s stream closed: %v", sess.ID, err)
				}
				return
			}
			rev := snap.Revision
			sent = &rev
		}

		select {
		case <-r.Context().Done():
			return
		case <-latest.notify:
		case <-ticker.C:
			if err := sse.WriteKeepAlive(); err != nil {
				return
			}
		}
	}
}

func (s *Server) writePreview(sse *SSEWriter, snap types.Snapshot) error {
	doc, err := s.renderer.Render(snap)
	if err != nil {
		sse.WriteError(err.Error())
		return err
	}
	return sse.WriteEvent("render", PreviewEvent{
		Revision: snap.Revision,
		Template: doc.Template,
		Theme:    doc.Theme,
		HTML:     string(doc.Fragment),
	})
}
