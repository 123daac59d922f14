package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/engine"
	"github.com/aretw0/questflow/pkg/session"
)

type createSessionResponse struct {
	ID string `json:"id"`
}

type listSessionsResponse struct {
	IDs []string `json:"ids"`
}

// ListSessions handles the GET /api/session request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, listSessionsResponse{IDs: ids})
}

// CreateSession handles the POST /api/session request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body SessionInput
	if !s.decode(w, r, &body, true) {
		return
	}

	var skipped []string
	if body.Skipped != nil {
		skipped = *body.Skipped
	}
	sess, err := s.Sessions.Create(r.Context(), body.Answers, skipped)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, createSessionResponse{ID: sess.ID})
}

// GetSession handles the GET /api/session/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// PatchSession handles the PATCH /api/session/{id} request.
// Subscribers of the session receive the resulting diff.
func (s *Server) PatchSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body SessionInput
	if !s.decode(w, r, &body, false) {
		return
	}

	before, after, err := s.Sessions.Update(r.Context(), id, session.Patch{
		Answers: body.Answers,
		Skipped: body.Skipped,
	})
	if err != nil {
		s.writeSessionError(w, err)
		return
	}

	if diff := domain.Diff(before, after); diff != nil {
		s.logger.Debug("session diff calculated", "session_id", id, "diff", diff)
		if bytes, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(id, string(bytes))
		}
	}

	s.writeJSON(w, http.StatusOK, after)
}

// DeleteSession handles the DELETE /api/session/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Load(r.Context(), id); err != nil {
		s.writeSessionError(w, err)
		return
	}
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProgress handles the GET /api/session/{id}/progress request.
func (s *Server) GetProgress(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}

	state, err := s.Engine.Progress(r.Context(), sess.Answers, sess.SkipSet())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// GetSessionSummary handles the GET /api/session/{id}/summary request.
func (s *Server) GetSessionSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeSummary(w, r.Context(), sess.Answers, sess.SkipSet())
}

// Validate handles the POST /api/validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	answers, _, ok := s.resolveAnswers(w, r)
	if !ok {
		return
	}

	report, err := s.Engine.Validate(r.Context(), answers)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// Summarize handles the POST /api/summary request.
func (s *Server) Summarize(w http.ResponseWriter, r *http.Request) {
	answers, skip, ok := s.resolveAnswers(w, r)
	if !ok {
		return
	}
	s.writeSummary(w, r.Context(), answers, skip)
}

// resolveAnswers reads an AnswersRequest, loading the session when one is named.
func (s *Server) resolveAnswers(w http.ResponseWriter, r *http.Request) (domain.Answers, domain.SkipSet, bool) {
	var body AnswersRequest
	if !s.decode(w, r, &body, false) {
		return nil, nil, false
	}

	if body.SessionID == "" {
		return body.Answers, domain.NewSkipSet(body.Skipped...), true
	}

	sess, err := s.Sessions.Load(r.Context(), body.SessionID)
	if err != nil {
		s.writeSessionError(w, err)
		return nil, nil, false
	}
	return sess.Answers, sess.SkipSet(), true
}

// summarize validates before resolving labels; invalid answers yield a *ValidationFailedError.
func (s *Server) summarize(ctx context.Context, answers domain.Answers, skip domain.SkipSet) (engine.Summary, error) {
	report, err := s.Engine.Validate(ctx, answers)
	if err != nil {
		return engine.Summary{}, err
	}
	if !report.Valid {
		return engine.Summary{}, &ValidationFailedError{Report: report}
	}
	return s.Engine.Summary(ctx, answers, skip)
}

func (s *Server) writeSummary(w http.ResponseWriter, ctx context.Context, answers domain.Answers, skip domain.SkipSet) {
	summary, err := s.summarize(ctx, answers, skip)

	var failed *ValidationFailedError
	switch {
	case errors.As(err, &failed):
		s.writeJSON(w, http.StatusBadRequest, validationFailedResponse{
			Error:  "Validation failed",
			Errors: failed.Report.Errors,
		})
	case err != nil:
		s.writeSessionError(w, err)
	default:
		s.writeJSON(w, http.StatusOK, summary)
	}
}
