package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenVerifier(t *testing.T) {
	token := NewToken()
	assert.Len(t, token, 64)

	hash, err := HashToken(token)
	require.NoError(t, err)

	v, err := NewTokenVerifier(hash)
	require.NoError(t, err)
	assert.True(t, v.Verify(token))
	assert.False(t, v.Verify("wrong"))
	assert.False(t, v.Verify(""))
}

func TestNewTokenVerifierRejectsBadHash(t *testing.T) {
	_, err := NewTokenVerifier("")
	assert.ErrorIs(t, err, ErrNoTokenHash)

	_, err = NewTokenVerifier("not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/build", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, ok := BearerToken(r)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyRequest(t *testing.T) {
	hash, err := HashToken("s3cret")
	require.NoError(t, err)
	v, err := NewTokenVerifier(hash)
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/build", nil)
	assert.False(t, v.VerifyRequest(r))

	r.Header.Set("Authorization", "Bearer s3cret")
	assert.True(t, v.VerifyRequest(r))
}
