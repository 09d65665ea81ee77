package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPasswordHash reports whether password matches the bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DigestSuperkey returns the stored form of a superkey. The digest is
// deterministic so the column can carry a unique index.
func DigestSuperkey(superkey string) string {
	sum := sha256.Sum256([]byte(superkey))
	return hex.EncodeToString(sum[:])
}

// SuperkeyMatches compares a presented superkey against a stored digest in
// constant time.
func SuperkeyMatches(superkey, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(DigestSuperkey(superkey)), []byte(digest)) == 1
}
