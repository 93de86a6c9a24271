package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
	Age   int    `json:"age" binding:"omitempty,gt=0"`
}

func validate(t *testing.T, in sampleForm) error {
	t.Helper()
	return binding.Validator.ValidateStruct(&in)
}

func TestFromBindErrorUsesJSONTags(t *testing.T) {
	err := validate(t, sampleForm{Email: "not-an-email", Name: ""})
	require.Error(t, err)

	in := sampleForm{}
	errs := FromBindError(err, &in)

	assert.Equal(t, "Enter a valid email address.", errs["email"])
	assert.Equal(t, "This field is required.", errs["name"])
}

func TestFromBindErrorGTMessage(t *testing.T) {
	err := validate(t, sampleForm{Email: "a@b.test", Name: "x", Age: -2})
	require.Error(t, err)

	errs := FromBindError(err, &sampleForm{})
	assert.Equal(t, "Must be greater than 0.", errs["age"])
}

func TestFromBindErrorNonValidator(t *testing.T) {
	errs := FromBindError(assert.AnError, &sampleForm{})
	require.Len(t, errs, 1)
	assert.Equal(t, "Invalid form data.", errs["_"])
}
