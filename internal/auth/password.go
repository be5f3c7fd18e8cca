package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// resetTokenBytes is the entropy of a password reset token.
const resetTokenBytes = 20

// HashPassword returns a salted bcrypt hash of plaintext.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plaintext matches hash.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// ResetToken is an issued password reset token. Token goes to the user,
// Digest and Expiry are persisted.
type ResetToken struct {
	Token  string
	Digest string
	Expiry time.Time
}

// IssueResetToken generates a random reset token valid for ttl from now.
func IssueResetToken(now time.Time, ttl time.Duration) (ResetToken, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return ResetToken{}, fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(b)
	return ResetToken{
		Token:  token,
		Digest: DigestResetToken(token),
		Expiry: now.Add(ttl),
	}, nil
}

// DigestResetToken returns the stored form of a reset token.
func DigestResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
