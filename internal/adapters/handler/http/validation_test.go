package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vncsmyrnk/userauth/internal/core/domain"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		required  []requiredField
		wantErr   error
		wantParam string
	}{
		{
			name:     "valid",
			email:    "ann@x.com",
			required: []requiredField{{"email", "ann@x.com"}, {"password", "pw1"}},
		},
		{
			name:     "unresolvable domain still passes",
			email:    "ann@no-such-host.invalid",
			required: []requiredField{{"email", "ann@no-such-host.invalid"}},
		},
		{
			name:      "first missing field wins",
			email:     "bad",
			required:  []requiredField{{"name", ""}, {"email", "bad"}, {"password", ""}},
			wantErr:   domain.ErrMissingParam,
			wantParam: "name",
		},
		{
			name:      "malformed email",
			email:     "ann@",
			required:  []requiredField{{"email", "ann@"}, {"password", "pw1"}},
			wantErr:   domain.ErrInvalidParam,
			wantParam: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCredentials(tt.email, tt.required...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantParam, domain.ParamOf(err))
		})
	}
}

func TestValidateNewPassword(t *testing.T) {
	assert.NoError(t, validateNewPassword(strings.Repeat("x", maxPasswordBytes)))

	err := validateNewPassword(strings.Repeat("x", maxPasswordBytes+1))
	assert.ErrorIs(t, err, domain.ErrInvalidParam)
	assert.Equal(t, "password", domain.ParamOf(err))
}
