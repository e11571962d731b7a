package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"woo-admin/internal/dashboard"
	"woo-admin/internal/woo"
)

// FieldErrors maps a JSON field name to a short message.
type FieldErrors map[string]string

// statusFor classifies err. Configuration errors are checked before
// connection errors since they also match woo.ErrConnection.
func statusFor(err error) int {
	var (
		ve      validator.ValidationErrors
		cfgErr  *woo.ConfigurationError
		remote  *woo.RemoteError
		syntax  *json.SyntaxError
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &syntax), errors.As(err, &typeErr):
		return http.StatusBadRequest
	case errors.As(err, &cfgErr), errors.Is(err, dashboard.ErrNotConfigured):
		return http.StatusBadRequest
	case errors.Is(err, woo.ErrInvalid), errors.Is(err, dashboard.ErrUnknownView):
		return http.StatusUnprocessableEntity
	case errors.Is(err, woo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrWriteInProgress), errors.Is(err, dashboard.ErrSuperseded):
		return http.StatusConflict
	case errors.As(err, &remote):
		return http.StatusBadGateway
	case errors.Is(err, woo.ErrConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fieldErrors translates binding failures into per-field messages keyed by
// the json tag (see useJSONFieldNames).
func fieldErrors(err error) FieldErrors {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := FieldErrors{}
	for _, fe := range ve {
		out[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
	}
	return out
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required", "required_unless":
		return "This field is required."
	case "oneof":
		return "Must be one of: " + param + "."
	case "gt":
		return "Must be greater than " + param + "."
	case "url":
		return "Must be a valid URL."
	default:
		return "Invalid value."
	}
}
