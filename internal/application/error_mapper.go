package application

import (
	"errors"
	"net/http"
)

// Stable error kinds reported in the response envelope's status field.
const (
	KindValidation          = "ValidationError"
	KindDuplicateIdentifier = "DuplicateIdentifier"
	KindInvalidCredentials  = "InvalidCredentials"
	KindTokenMissing        = "TokenMissing"
	KindTokenInvalid        = "TokenInvalid"
	KindTokenExpired        = "TokenExpired"
	KindTokenIssuance       = "TokenIssuanceError"
	KindNotFound            = "NotFound"
	KindRateLimited         = "RateLimited"
	KindServiceUnavailable  = "ServiceUnavailable"
	KindInternal            = "InternalError"
)

// MappedError is the transport-safe form of an application error.
type MappedError struct {
	Code    int
	Kind    string
	Message string
	Details any
}

// MapError translates application errors to HTTP codes and stable kinds.
// A deleted principal is reported exactly like a bad token, and anything
// unrecognised becomes InternalError without leaking its text.
func MapError(err error) MappedError {
	var ve *ValidationError
	switch {
	case err == nil:
		return MappedError{Code: http.StatusOK}
	case errors.As(err, &ve):
		return MappedError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: "validation failed", Details: ve.Fields}
	case errors.Is(err, ErrDuplicateIdentifier):
		return MappedError{Code: http.StatusConflict, Kind: KindDuplicateIdentifier, Message: "email already registered"}
	case errors.Is(err, ErrInvalidCredentials):
		return MappedError{Code: http.StatusBadRequest, Kind: KindInvalidCredentials, Message: "invalid email or password"}
	case errors.Is(err, ErrTokenMissing):
		return MappedError{Code: http.StatusUnauthorized, Kind: KindTokenMissing, Message: "authorization token required"}
	case errors.Is(err, ErrTokenExpired):
		return MappedError{Code: http.StatusUnauthorized, Kind: KindTokenExpired, Message: "token expired"}
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrPrincipalNotFound):
		return MappedError{Code: http.StatusUnauthorized, Kind: KindTokenInvalid, Message: "invalid token"}
	case errors.Is(err, ErrTokenIssuance):
		return MappedError{Code: http.StatusInternalServerError, Kind: KindTokenIssuance, Message: "could not issue token"}
	case errors.Is(err, ErrNotFound):
		return MappedError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "not found"}
	case errors.Is(err, ErrRateLimited):
		return MappedError{Code: http.StatusTooManyRequests, Kind: KindRateLimited, Message: "too many requests"}
	case errors.Is(err, ErrStorageUnavailable), errors.Is(err, ErrSearchUnavailable):
		return MappedError{Code: http.StatusServiceUnavailable, Kind: KindServiceUnavailable, Message: err.Error()}
	default:
		return MappedError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "internal server error"}
	}
}
