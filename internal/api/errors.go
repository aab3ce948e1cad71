package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arlab/arlab/internal/progress"
	"github.com/arlab/arlab/internal/quiz"
)

var (
	errLessonNotFound = errors.New("lesson not found")
	errBadRequest     = errors.New("bad request")
)

// Error is an HTTP failure with a stable machine-readable code.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func badRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "bad_request", Err: errors.Join(errBadRequest, errors.New(msg))}
}

// toError maps domain sentinels to statuses. Anything unrecognised is a 500.
func toError(err error) *Error {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, errLessonNotFound), errors.Is(err, progress.ErrUnknownLesson):
		return &Error{Status: http.StatusNotFound, Code: "lesson_not_found", Err: err}
	case errors.Is(err, progress.ErrStepOutOfRange):
		return &Error{Status: http.StatusBadRequest, Code: "step_out_of_range", Err: err}
	case errors.Is(err, quiz.ErrNoMoreQuestions), errors.Is(err, quiz.ErrAnswerOverflow):
		return &Error{Status: http.StatusBadRequest, Code: "too_many_answers", Err: err}
	case errors.Is(err, quiz.ErrNoQuestions):
		return &Error{Status: http.StatusConflict, Code: "no_questions", Err: err}
	case errors.Is(err, quiz.ErrInvalidState):
		return &Error{Status: http.StatusConflict, Code: "invalid_state", Err: err}
	default:
		return &Error{Status: http.StatusInternalServerError, Code: "internal", Err: err}
	}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := toError(err)
	msg := e.Err.Error()
	if e.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = http.StatusText(e.Status)
	}
	writeJSON(w, e.Status, errorBody{Error: msg, Code: e.Code})
}
