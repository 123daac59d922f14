package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/engine"
)

// Request limits.
const (
	MaxAnswers  = 500
	MaxKeyBytes = 200
)

// SessionInput is the body of POST and PATCH /api/session.
type SessionInput struct {
	Answers domain.Answers `json:"answers" validate:"omitempty,max=500,dive,keys,required,max=200,endkeys"`
	Skipped *[]string      `json:"skipped" validate:"omitempty,max=500,dive,required,max=200"`
}

// AnswersRequest is the body of POST /api/validate and POST /api/summary.
// Either a stored session or inline answers must be given.
type AnswersRequest struct {
	SessionID string         `json:"sessionId" validate:"required_without=Answers,max=200"`
	Answers   domain.Answers `json:"answers" validate:"omitempty,max=500,dive,keys,required,max=200,endkeys"`
	Skipped   []string       `json:"skipped" validate:"omitempty,max=500,dive,required,max=200"`
}

// ValidationFailedError carries the report of answers that cannot be summarized.
type ValidationFailedError struct {
	Report engine.Report
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed: %d errors", len(e.Report.Errors))
}

type validationFailedResponse struct {
	Error  string              `json:"error"`
	Errors []engine.FieldError `json:"errors"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// decode reads a bounded JSON body into dst and validates it.
// An empty body leaves dst untouched when allowEmpty is set.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return s.check(w, dst)
		}
		s.logger.Warn("invalid request body", "error", err, "path", r.URL.Path)
		s.writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return s.check(w, dst)
}

func (s *Server) check(w http.ResponseWriter, dst any) bool {
	err := s.validate.Struct(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		s.writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return false
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required_without" {
			s.writeError(w, http.StatusBadRequest, "Missing sessionId or answers")
			return false
		}
		details = append(details, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	s.writeError(w, http.StatusBadRequest, "Invalid request", details...)
	return false
}
