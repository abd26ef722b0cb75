package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// CodeLength is the number of decimal digits in an access code
const CodeLength = 6

var codeSpace = big.NewInt(1000000)

// GenerateCode produces a uniformly random 6-digit access code, zero-padded
// (e.g. "004821"). Uses crypto/rand; a predictable code would be a direct
// authorization bypass.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate access code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashCode derives the one-way digest stored for an access code. The digest
// binds the code to its endorsement and email, so a leaked hash cannot be
// replayed against a different record or address.
func HashCode(endorsementID, email, code string, pepper []byte) string {
	h := sha256.New()
	h.Write([]byte(endorsementID))
	h.Write([]byte(":"))
	h.Write([]byte(email))
	h.Write([]byte(":"))
	h.Write([]byte(code))
	h.Write([]byte(":"))
	h.Write(pepper)
	return hex.EncodeToString(h.Sum(nil))
}
