package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/javiermolinar/tenmin/internal/engine"
	"github.com/javiermolinar/tenmin/internal/logger"
	"github.com/javiermolinar/tenmin/internal/timeblock"
)

const (
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"
	mimeText          = "text/plain; charset=utf-8"
)

// ErrBadRequest marks malformed or invalid request input.
var ErrBadRequest = errors.New("bad request")

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(Response{Success: true, Message: message, Data: data}); err != nil {
		logger.Error("encoding response", "error", err)
	}
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set(headerContentType, mimeText)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	}

	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{Success: false, Message: err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, timeblock.ErrEmptyTitle),
		errors.Is(err, timeblock.ErrInvalidSpan):
		return http.StatusBadRequest
	case errors.Is(err, timeblock.ErrReferenceNotFound):
		return http.StatusNotFound
	case errors.Is(err, timeblock.ErrLastColumn),
		errors.Is(err, timeblock.ErrTaskNotScheduled),
		errors.Is(err, engine.ErrNothingToUndo):
		return http.StatusConflict
	case errors.Is(err, engine.ErrStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding body: %v", ErrBadRequest, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", ErrBadRequest, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
