package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/payment"
	"github.com/example/storefront/internal/payment/mpesa"
)

// Input is the raw checkout form, one field per submitted value. Validation
// happens once, at the boundary, and produces a ValidInput or a single
// aggregated ValidationError.
type Input struct {
	Name          string
	Email         string
	Address       string
	City          string
	PostalCode    string
	Country       string
	PaymentMethod string
	PhoneNumber   string
}

// ValidInput is the validated form: a tagged payment method (phone already
// normalized for mobile money) plus the shipping snapshot.
type ValidInput struct {
	Method   payment.Method
	Shipping order.ShippingInfo
}

// ValidationError aggregates every field failure into one user-visible
// message.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid checkout form: " + strings.Join(e.Fields, ", ")
}

// Validate checks every required field and returns all failures at once.
func (in Input) Validate() (*ValidInput, error) {
	var fields []string

	required := []struct {
		name  string
		value string
	}{
		{"name", in.Name},
		{"email", in.Email},
		{"address", in.Address},
		{"city", in.City},
		{"postal code", in.PostalCode},
		{"country", in.Country},
		{"payment method", in.PaymentMethod},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			fields = append(fields, f.name+" is required")
		}
	}

	var method payment.Method
	if strings.TrimSpace(in.PaymentMethod) != "" {
		kind, err := payment.ParseKind(in.PaymentMethod)
		if err != nil {
			fields = append(fields, fmt.Sprintf("unknown payment method %q", in.PaymentMethod))
		} else {
			switch kind {
			case payment.MethodMobile:
				phone, err := mpesa.NormalizePhone(in.PhoneNumber)
				if errors.Is(err, mpesa.ErrInvalidPhone) {
					fields = append(fields, "a valid phone number is required for mobile money")
				} else {
					method = payment.NewMobile(phone)
				}
			case payment.MethodCard:
				method = payment.NewCard()
			case payment.MethodCrypto:
				method = payment.NewCrypto()
			}
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return &ValidInput{
		Method: method,
		Shipping: order.ShippingInfo{
			Name:        strings.TrimSpace(in.Name),
			Email:       strings.TrimSpace(in.Email),
			Address:     strings.TrimSpace(in.Address),
			City:        strings.TrimSpace(in.City),
			PostalCode:  strings.TrimSpace(in.PostalCode),
			Country:     strings.TrimSpace(in.Country),
			PhoneNumber: method.Phone,
		},
	}, nil
}
