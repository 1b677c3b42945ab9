package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type buyInput struct {
	Items []itemInput `validate:"required,min=1,dive"`
}

type itemInput struct {
	PriceID  string `json:"priceId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

func TestValidate_Valid(t *testing.T) {
	in := buyInput{Items: []itemInput{{PriceID: "price_1", Quantity: 2}}}
	assert.NoError(t, Validate(in))
}

func TestValidate_EmptyItems(t *testing.T) {
	err := Validate(buyInput{Items: []itemInput{}})

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Error(), "Items")
	assert.Contains(t, valErr.Fields(), "Items")
}

func TestValidate_MissingPriceID(t *testing.T) {
	err := Validate(buyInput{Items: []itemInput{{Quantity: 1}}})

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Error(), "is required")
}

func TestValidate_NonPositiveQuantity(t *testing.T) {
	err := Validate(buyInput{Items: []itemInput{{PriceID: "price_1", Quantity: -3}}})

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Error(), "greater than or equal to 1")
}

func TestValidationError_FieldsMessages(t *testing.T) {
	type probe struct {
		Link string `validate:"required,url"`
	}

	err := Validate(probe{Link: "not a url"})

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "must be a valid URL", valErr.Fields()["Link"])
}
