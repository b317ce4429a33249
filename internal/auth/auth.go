// Package auth implements the VIIPER API authentication handshake and the
// encrypted connection used after it.
package auth

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	PBKDF2Iterations = 100000
	PBKDF2Salt       = "VIIPER-Key-v1"

	handshakeMagic = "eVI1\x00"
	nonceSize      = 32
	authContext    = "VIIPER-Auth-v1"
	sessionContext = "VIIPER-Session-v1"
	okPrefix       = "OK\x00"
)

// ErrUnauthorized is returned by ServerHandshake when the client MAC does not match.
var ErrUnauthorized = errors.New("invalid password")

// DeriveKey stretches a password to a 32 byte key with PBKDF2-SHA256.
func DeriveKey(password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}
	return pbkdf2.Key([]byte(password), []byte(PBKDF2Salt), PBKDF2Iterations, 32, sha256.New), nil
}

// DeriveSessionKey mixes the key with both nonces into a per-connection key.
func DeriveSessionKey(key, serverNonce, clientNonce []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write(serverNonce)
	h.Write(clientNonce)
	h.Write([]byte(sessionContext))
	return h.Sum(nil)
}
