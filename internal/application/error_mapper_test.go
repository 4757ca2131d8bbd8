package application

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code int
		kind string
	}{
		{FieldError("email", "is required"), http.StatusUnprocessableEntity, KindValidation},
		{ErrDuplicateIdentifier, http.StatusConflict, KindDuplicateIdentifier},
		{ErrInvalidCredentials, http.StatusBadRequest, KindInvalidCredentials},
		{ErrTokenMissing, http.StatusUnauthorized, KindTokenMissing},
		{fmt.Errorf("%w: bad sig", ErrTokenInvalid), http.StatusUnauthorized, KindTokenInvalid},
		{ErrTokenExpired, http.StatusUnauthorized, KindTokenExpired},
		{ErrPrincipalNotFound, http.StatusUnauthorized, KindTokenInvalid},
		{fmt.Errorf("%w: no key", ErrTokenIssuance), http.StatusInternalServerError, KindTokenIssuance},
		{ErrNotFound, http.StatusNotFound, KindNotFound},
		{ErrRateLimited, http.StatusTooManyRequests, KindRateLimited},
		{ErrSearchUnavailable, http.StatusServiceUnavailable, KindServiceUnavailable},
		{ErrStorageUnavailable, http.StatusServiceUnavailable, KindServiceUnavailable},
		{errors.New("db exploded"), http.StatusInternalServerError, KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.kind+"/"+tc.err.Error(), func(t *testing.T) {
			m := MapError(tc.err)
			assert.Equal(t, tc.code, m.Code)
			assert.Equal(t, tc.kind, m.Kind)
		})
	}
}

func TestMapError_HidesInternalText(t *testing.T) {
	m := MapError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal server error", m.Message)
}

func TestMapError_ValidationDetails(t *testing.T) {
	m := MapError(FieldError("title", "is required"))
	assert.Equal(t, map[string]string{"title": "is required"}, m.Details)
}
