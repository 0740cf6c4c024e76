package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var ErrNoTokenHash = errors.New("build token hash is not configured")

// TokenVerifier checks bearer tokens against a bcrypt hash.
type TokenVerifier struct {
	hash []byte
}

func NewTokenVerifier(hash string) (*TokenVerifier, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, ErrNoTokenHash
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, errors.Wrap(err, "invalid build token hash")
	}
	return &TokenVerifier{hash: []byte(hash)}, nil
}

func (v *TokenVerifier) Verify(token string) bool {
	if token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(token)) == nil
}

// VerifyRequest reads the Authorization bearer token of r.
func (v *TokenVerifier) VerifyRequest(r *http.Request) bool {
	token, ok := BearerToken(r)
	return ok && v.Verify(token)
}

func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash token")
	}
	return string(hash), nil
}

func NewToken() string {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf[:])
}
