package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTable(t *testing.T) {
	cases := map[*Error]int{
		ErrNotFound:            http.StatusNotFound,
		ErrDuplicateEntry:      http.StatusConflict,
		ErrForeignKeyViolation: 512,
		ErrForbidden:           http.StatusForbidden,
		ErrUnauthorized:        http.StatusUnauthorized,
		ErrTokenMissing:        http.StatusUnauthorized,
		ErrTokenExpired:        http.StatusUnauthorized,
		ErrInvalidCredentials:  http.StatusUnauthorized,
		ErrInvalidProperties:   http.StatusUnprocessableEntity,
		ErrUnknown:             http.StatusInternalServerError,
	}
	for err, status := range cases {
		assert.Equal(t, status, err.Status, err.Code)
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("load: %w", Clone(ErrNotFound, "student not found"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrDuplicateEntry))
}

func TestFromErrorFallsBackToUnknown(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, CodeUnknown, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr.Unwrap(), "boom")
}

func TestInvalidCarriesFields(t *testing.T) {
	appErr := Invalid(FieldError{Param: "title", Msg: "required"})
	assert.Equal(t, CodeInvalidProperties, appErr.Code)
	assert.Equal(t, []FieldError{{Param: "title", Msg: "required"}}, appErr.Details)
	assert.Nil(t, ErrInvalidProperties.Details)
}
