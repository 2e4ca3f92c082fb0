package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-builder/internal/types"
)

// handleExport renders the current snapshot and returns it as a PDF download.
// A second request while one is running for the same session gets 409.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
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

	if s.verbose {
		log.Printf("[EXPORT] Session %s exporting revision %d (%s/%s)", sess.ID, snap.Revision, doc.Template, doc.Theme)
	}

	res, err := sess.Export.Fire(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.PDF); err != nil {
		log.Printf("[EXPORT] Session %s: failed to write PDF: %v", sess.ID, err)
	}
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ExportStatus{Busy: sess.Export.Busy()})
}
