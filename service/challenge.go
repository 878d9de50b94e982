package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"
	"net/netip"

	"sixpmaster/domain"
	"sixpmaster/interfaces"

	"golang.org/x/crypto/hkdf"
)

const (
	// SecretSize is the length of the per-process challenge seed.
	SecretSize = 16

	challengeKeySize = 32
	challengeKeyInfo = "sixp-challenge-v1"
)

// challengeAuthority derives address-bound challenges from a process-lifetime secret.
// Challenges are not stored: verifying one only recomputes it.
//
// MAC = HMAC-SHA256(key = HKDF(secret, "sixp-challenge-v1"), data = raw address bytes)[:4]
type challengeAuthority struct {
	key []byte
}

var _ interfaces.ChallengeAuthority = (*challengeAuthority)(nil)

// GenerateSecret reads a fresh SecretSize seed from r (crypto/rand.Reader in production).
func GenerateSecret(r io.Reader) ([]byte, error) {
	secret := make([]byte, SecretSize)
	if _, err := io.ReadFull(r, secret); err != nil {
		return nil, fmt.Errorf("can't read challenge secret, err: %w", err)
	}
	return secret, nil
}

// NewChallengeAuthority creates a challenge authority keyed by secret.
// The secret is not retained; only the derived key is.
func NewChallengeAuthority(secret []byte) (*challengeAuthority, error) {
	if len(secret) == 0 {
		return nil, NewBadParameterError("challenge secret is required", nil)
	}

	kdf := hkdf.New(sha256.New, secret, nil, []byte(challengeKeyInfo))
	key := make([]byte, challengeKeySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, NewInternalServerError("can't derive challenge key", err)
	}

	return &challengeAuthority{key: key}, nil
}

// Challenge returns the challenge bound to host.
func (a *challengeAuthority) Challenge(host netip.Addr) domain.Challenge {
	mac := hmac.New(sha256.New, a.key)
	mac.Write(host.AsSlice())

	var c domain.Challenge
	copy(c[:], mac.Sum(nil))
	return c
}

// Verify reports whether echoed is the challenge bound to host. The comparison is constant-time.
func (a *challengeAuthority) Verify(host netip.Addr, echoed []byte) bool {
	expected := a.Challenge(host)
	return hmac.Equal(expected[:], echoed)
}
