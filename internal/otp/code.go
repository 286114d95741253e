package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

// CodeDigits is the length of every issued code.
const CodeDigits = 6

var codeSpace = big.NewInt(1_000_000)

// GenerateCode returns a uniformly distributed 6-digit numeric code (e.g. "042917") from crypto/rand.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeDigits, n.Int64()), nil
}

// HashCode returns the hex-encoded SHA-256 of code. Only hashes are kept in challenges.
func HashCode(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

// CodeEqual compares the candidate's hash with the stored hash in constant time.
func CodeEqual(candidate, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashCode(candidate)), []byte(storedHash)) == 1
}
