package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookdenapp/bookden-server/internal/errors"
)

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Score    int    `json:"score" validate:"omitempty,gte=1,lte=5"`
}

func TestValidate_Passes(t *testing.T) {
	v := New()
	err := v.Validate(registerInput{
		Email:    "reader@example.com",
		Password: "longenough",
		Score:    3,
	})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	v := New()
	err := v.Validate(registerInput{Email: "not-an-email", Password: "short", Score: 9})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)

	// Messages are keyed by JSON field name
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "score")
	assert.Equal(t, "must be at least 8 characters", details["password"])
}
