package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{
		Email:       "a@x.com",
		Password:    "password1",
		AccountType: AccountTypeCustomer,
	}

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		wantErr string
	}{
		{"valid", func(r *RegisterRequest) {}, ""},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, "email is required"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "invalid email format"},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }, "password is required"},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }, "password must be at least 8 characters"},
		{"bad account type", func(r *RegisterRequest) { r.AccountType = "ADMIN" }, "invalid account type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestRegisterRequestNormalize(t *testing.T) {
	r := RegisterRequest{Email: "  User@Example.COM ", FirstName: " Ada ", LastName: " Lovelace "}
	r.Normalize()

	assert.Equal(t, "user@example.com", r.Email)
	assert.Equal(t, "Ada", r.FirstName)
	assert.Equal(t, "Lovelace", r.LastName)
	assert.Equal(t, AccountTypeCustomer, r.AccountType, "empty account type defaults to customer")
}

func TestUpdateAccountRequestValidate(t *testing.T) {
	good := "+90 (555) 123-4567"
	bad := "call me"
	empty := ""

	assert.NoError(t, (&UpdateAccountRequest{}).Validate())
	assert.NoError(t, (&UpdateAccountRequest{Phone: &good}).Validate())
	assert.NoError(t, (&UpdateAccountRequest{Phone: &empty}).Validate())
	assert.Error(t, (&UpdateAccountRequest{Phone: &bad}).Validate())
}
