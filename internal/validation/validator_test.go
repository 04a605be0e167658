package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelapp/jewel-client/internal/domain"
	errs "github.com/jewelapp/jewel-client/internal/errors"
)

func validShipping() domain.ShippingDetails {
	return domain.ShippingDetails{
		Name:           "Alice Kumar",
		WhatsappNumber: "+919876543210",
		Address:        "12 Temple Street, Fort",
		Pincode:        "600001",
		State:          "Tamil Nadu",
		District:       "Chennai",
	}
}

func TestValidate_ValidShippingDetails(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(validShipping()))
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	v := New()

	err := v.Validate(domain.ShippingDetails{})
	require.Error(t, err)

	var domainErr *errs.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, errs.CodeValidation, domainErr.Code)

	fields, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	// Field names come from the json tags.
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "whatsappNumber")
	assert.Contains(t, fields, "pincode")
}

func TestValidate_PincodeFormat(t *testing.T) {
	v := New()

	shipping := validShipping()
	shipping.Pincode = "60001"
	err := v.Validate(shipping)
	require.Error(t, err)

	shipping.Pincode = "6000AB"
	assert.Error(t, v.Validate(shipping))
}

func TestValidate_OptionalAlternateNumber(t *testing.T) {
	v := New()

	shipping := validShipping()
	shipping.AlternateNumber = ""
	assert.NoError(t, v.Validate(shipping), "empty optional field passes")

	shipping.AlternateNumber = "1234"
	assert.Error(t, v.Validate(shipping), "too-short optional field fails")
}
