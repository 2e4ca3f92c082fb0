package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/types"
)

// photoField is the multipart field carrying an uploaded photo.
const photoField = "photo"

// handleSetTemplate selects a template by name
func (s *Server) handleSetTemplate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	value, err := decodeValue(w, r)
	if err == nil {
		req := types.TemplateRequest{Value: strings.ToLower(strings.TrimSpace(value))}
		if verr := req.Validate(); verr != nil {
			err = &ErrValidation{Field: "template", Message: "unknown template " + strconv.Quote(value)}
		} else {
			err = sess.Store.SetTemplate(req.Value)
		}
	}
	s.respondMutation(w, r, sess, err)
}

// handleSetTheme selects a theme by name or CSS class
func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	value, err := decodeValue(w, r)
	if err == nil {
		req := types.ThemeRequest{Value: strings.ToLower(strings.TrimSpace(value))}
		if verr := req.Validate(); verr != nil {
			err = &ErrValidation{Field: "theme", Message: "unknown theme " + strconv.Quote(value)}
		} else {
			err = sess.Store.SetTheme(req.Value)
		}
	}
	s.respondMutation(w, r, sess, err)
}

// handleSetPhoto accepts either a multipart upload in the "photo" field or
// the raw image bytes as the request body.
func (s *Server) handleSetPhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	limit := sess.Store.MaxPhotoBytes
	if limit <= 0 {
		limit = form.DefaultMaxPhotoBytes
	}

	data, err := readPhoto(w, r, int64(limit))
	if err == nil {
		err = sess.Store.SetPhoto(r.Context(), data)
	}
	if err != nil {
		log.Printf("[PHOTO] Session %s: keeping previous photo: %v", sess.ID, err)
	}
	s.respondMutation(w, r, sess, err)
}

func (s *Server) handleClearPhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	sess.Store.ClearPhoto()
	s.respondMutation(w, r, sess, nil)
}

// readPhoto reads at most limit+1 bytes so the store can report an oversized file
// without the whole upload being buffered.
func readPhoto(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		// Multipart framing adds a little on top of the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, limit+maxBodyBytes)
		file, _, err := r.FormFile(photoField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, &form.PhotoError{Message: "upload too large", Cause: err}
			}
			return nil, &ErrValidation{Field: photoField, Message: err.Error()}
		}
		defer file.Close()
		return readLimited(file, limit)
	}
	return readLimited(r.Body, limit)
}

func readLimited(src io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, &form.PhotoError{Message: "failed to read upload", Cause: err}
	}
	return data, nil
}
