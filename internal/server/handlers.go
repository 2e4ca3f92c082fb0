package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/types"
)

// maxBodyBytes bounds JSON and form bodies other than photo uploads.
const maxBodyBytes = 1 << 20

// requireSession returns the caller's session or writes an error.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		s.writeError(w, r, &ErrNoSession{})
		return nil, false
	}
	return sess, true
}

// respondMutation answers a mutation with the new snapshot, or redirects a browser form back to the page.
func (s *Server) respondMutation(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Store.Snapshot())
}

// decodeValue reads {"value": "..."} from a JSON body or "value" from a form body.
func decodeValue(w http.ResponseWriter, r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req types.ValueRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
			return "", &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
		}
		return req.Value, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return "", &ErrValidation{Field: "body", Message: err.Error()}
	}
	return r.PostFormValue("value"), nil
}

// decodeFieldValue decodes and length-checks a free-text field value.
func decodeFieldValue(w http.ResponseWriter, r *http.Request) (string, error) {
	value, err := decodeValue(w, r)
	if err != nil {
		return "", err
	}
	req := types.ValueRequest{Value: value}
	if err := req.Validate(); err != nil {
		return "", &ErrValidation{Field: "value", Message: err.Error()}
	}
	return value, nil
}

func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ErrValidation{Field: "index", Message: "not an integer: " + raw}
	}
	return i, nil
}

// handleState returns the current snapshot
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Store.Snapshot())
}

// handleReplaceResume imports a whole ResumeData document
func (s *Server) handleReplaceResume(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if !json.Valid(body) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := schemas.ValidateResumeData(body); err != nil {
		s.writeError(w, r, err)
		return
	}

	var data types.ResumeData
	if err := json.Unmarshal(body, &data); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	sess.Store.Replace(data)
	s.respondMutation(w, r, sess, nil)
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	value, err := decodeFieldValue(w, r)
	if err == nil {
		err = sess.Store.SetField(chi.URLParam(r, "field"), value)
	}
	s.respondMutation(w, r, sess, err)
}

func (s *Server) handleSetSocialField(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	value, err := decodeFieldValue(w, r)
	if err == nil {
		err = sess.Store.SetSocialField(chi.URLParam(r, "field"), value)
	}
	s.respondMutation(w, r, sess, err)
}

// sequence adapts the per-section store operations so the three repeating
// sections share one set of handlers.
type sequence struct {
	add    func(*form.Store) int
	remove func(*form.Store, int) bool
	set    func(st *form.Store, index int, field, value string) error
}

var (
	educationOps = sequence{
		add:    (*form.Store).AddEducation,
		remove: (*form.Store).RemoveEducation,
		set:    (*form.Store).SetEducationField,
	}
	experienceOps = sequence{
		add:    (*form.Store).AddExperience,
		remove: (*form.Store).RemoveExperience,
		set:    (*form.Store).SetExperienceField,
	}
	skillOps = sequence{
		add:    (*form.Store).AddSkill,
		remove: (*form.Store).RemoveSkill,
		set: func(st *form.Store, index int, _ string, value string) error {
			return st.SetSkill(index, value)
		},
	}
)

func (s *Server) handleAdd(ops sequence) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		ops.add(sess.Store)
		s.respondMutation(w, r, sess, nil)
	}
}

// handleRemove is a silent no-op when the entry is the last one or does not exist.
func (s *Server) handleRemove(ops sequence) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		index, err := indexParam(r)
		if err == nil {
			ops.remove(sess.Store, index)
		}
		s.respondMutation(w, r, sess, err)
	}
}

func (s *Server) handleSet(ops sequence) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		index, err := indexParam(r)
		var value string
		if err == nil {
			value, err = decodeFieldValue(w, r)
		}
		if err == nil {
			err = ops.set(sess.Store, index, chi.URLParam(r, "field"), value)
		}
		s.respondMutation(w, r, sess, err)
	}
}

func (s *Server) handleAddEducation(w http.ResponseWriter, r *http.Request) {
	s.handleAdd(educationOps)(w, r)
}

func (s *Server) handleSetEducationField(w http.ResponseWriter, r *http.Request) {
	s.handleSet(educationOps)(w, r)
}

func (s *Server) handleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	s.handleRemove(educationOps)(w, r)
}

func (s *Server) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	s.handleAdd(experienceOps)(w, r)
}

func (s *Server) handleSetExperienceField(w http.ResponseWriter, r *http.Request) {
	s.handleSet(experienceOps)(w, r)
}

func (s *Server) handleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	s.handleRemove(experienceOps)(w, r)
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	s.handleAdd(skillOps)(w, r)
}

func (s *Server) handleSetSkill(w http.ResponseWriter, r *http.Request) {
	s.handleSet(skillOps)(w, r)
}

func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	s.handleRemove(skillOps)(w, r)
}
