package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	paymentModels "cosmonumero/internal/payment/models"
	dErrors "cosmonumero/pkg/domain-errors"
)

func TestDeliverRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		contact ContactData
		valid   bool
	}{
		{"email only", ContactData{Email: "maria@example.com"}, true},
		{"with phone", ContactData{Email: "maria@example.com", Phone: "(11) 99999-0000"}, true},
		{"missing email", ContactData{}, false},
		{"letters in phone", ContactData{Email: "maria@example.com", Phone: "call me"}, false},
		{"phone too long", ContactData{Email: "maria@example.com", Phone: "123456789012345678901234567890123"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &DeliverRequest{ContactData: tc.contact}
			req.Normalize()
			err := req.Validate()
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestGenerateRequestSubject(t *testing.T) {
	empty := &GenerateRequest{}
	assert.NoError(t, empty.Validate())
	assert.Nil(t, empty.Subject())

	req := &GenerateRequest{FormData: &paymentModels.FormData{FullName: "Maria  Silva", BirthDate: "1990-05-15"}}
	req.Normalize()
	assert.NoError(t, req.Validate())
	subject := req.Subject()
	if assert.NotNil(t, subject) {
		assert.Equal(t, "Maria Silva", subject.FullName)
		assert.Equal(t, 15, subject.BirthDate.Day)
	}
}
