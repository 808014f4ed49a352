package checkout

import (
	"testing"

	"github.com/example/storefront/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Input {
	return Input{
		Name:          "Jane Doe",
		Email:         "jane@example.com",
		Address:       "1 Main St",
		City:          "Nairobi",
		PostalCode:    "00100",
		Country:       "Kenya",
		PaymentMethod: "card",
	}
}

func TestValidate_Card(t *testing.T) {
	in, err := validForm().Validate()

	require.NoError(t, err)
	assert.Equal(t, payment.MethodCard, in.Method.Kind)
	assert.Empty(t, in.Method.Phone)
	assert.Equal(t, "Nairobi", in.Shipping.City)
}

func TestValidate_MobileNormalizesPhone(t *testing.T) {
	form := validForm()
	form.PaymentMethod = "mobile"
	form.PhoneNumber = "0712 345 678"

	in, err := form.Validate()

	require.NoError(t, err)
	assert.Equal(t, payment.MethodMobile, in.Method.Kind)
	assert.Equal(t, "254712345678", in.Method.Phone)
	assert.Equal(t, "254712345678", in.Shipping.PhoneNumber)
}

func TestValidate_AggregatesAllFailures(t *testing.T) {
	form := Input{PaymentMethod: "mobile", PhoneNumber: "abc"}

	_, err := form.Validate()

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	// Six missing required fields plus the bad phone, in one error.
	assert.Len(t, vErr.Fields, 7)
	assert.Contains(t, vErr.Error(), "name is required")
	assert.Contains(t, vErr.Error(), "valid phone number")
}

func TestValidate_UnknownMethodRejected(t *testing.T) {
	form := validForm()
	form.PaymentMethod = "cheque"

	_, err := form.Validate()

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), `unknown payment method "cheque"`)
}

func TestValidate_MobileWithoutPhoneRejected(t *testing.T) {
	form := validForm()
	form.PaymentMethod = "mobile"

	_, err := form.Validate()

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
}

func TestValidate_CryptoNeedsNoPhone(t *testing.T) {
	form := validForm()
	form.PaymentMethod = "crypto"

	in, err := form.Validate()

	require.NoError(t, err)
	assert.Equal(t, payment.MethodCrypto, in.Method.Kind)
}
