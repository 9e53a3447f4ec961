package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=USER POLICY ADMIN"`
}

func TestValidateStructOK(t *testing.T) {
	err := ValidateStruct(sample{Email: "a@example.com", Password: "longenough", Role: "POLICY"})
	assert.NoError(t, err)
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(sample{Email: "not-an-email", Password: "short", Role: "BOGUS"})
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)

	fields, ok := verr.ProblemContext().(map[string]any)["fields"].(FieldErrors)
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "role")
	assert.Equal(t, 400, verr.ProblemStatus())
}
