package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		token   string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def.ghi", token: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", token: "abc.def.ghi"},
		{name: "mixed case scheme", header: "BeArEr tok", token: "tok"},
		{name: "missing", header: "", wantErr: ErrMissingHeader},
		{name: "no space", header: "Bearerabc", wantErr: ErrMalformedHeader},
		{name: "empty token", header: "Bearer ", wantErr: ErrMalformedHeader},
		{name: "too many parts", header: "Bearer a b", wantErr: ErrMalformedHeader},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrUnsupportedScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := BearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}
