package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Start string `json:"start" validate:"hhmm"`
	Count int    `json:"count" validate:"gte=1"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(sample{Name: "Hall", Email: "a@b.co", Start: "09:00:00", Count: 1})
	assert.Nil(t, errs)

	errs = ValidateStruct(sample{Email: "nope", Start: "9am"})
	assert.Equal(t, map[string]string{
		"name":  "is required",
		"email": "must be a valid email",
		"start": "must be a time in HH:MM format",
		"count": "must be greater than or equal to 1",
	}, errs)
}

func TestFormatErrors_SortedByField(t *testing.T) {
	got := FormatErrors(map[string]string{"phone": "is required", "email": "is required"})
	assert.Equal(t, "email is required; phone is required", got)
}
