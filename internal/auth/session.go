package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SessionPayload is the self-contained manage-session credential granted
// after a successful access-code verification. It authorizes exactly one
// endorsement for one verified email until it expires; there is no refresh.
type SessionPayload struct {
	EndorsementID string `json:"endorsement_id"`
	Email         string `json:"email"`
	ExpiresAtMs   int64  `json:"expires_at_ms"`
}

// SessionCodec mints and verifies signed manage-session tokens. Tokens are
// two dot-joined parts: base64url(JSON payload) and base64url(HMAC-SHA256 of
// the payload part). Integrity is verifiable without server-side state; the
// token's authority is re-checked against the live record at use time.
type SessionCodec struct {
	secret []byte
}

// NewSessionCodec creates a new SessionCodec
func NewSessionCodec(secret []byte) *SessionCodec {
	return &SessionCodec{secret: secret}
}

// Mint creates a signed token for the given payload
func (c *SessionCodec) Mint(payload SessionPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode session payload: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(data)
	signature := c.sign(encoded)

	return encoded + "." + signature, nil
}

// Verify checks a token's signature, structure and expiry. It returns nil on
// any failure; callers never learn which check rejected the token.
func (c *SessionCodec) Verify(token string) *SessionPayload {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil
	}

	expected := c.sign(parts[0])
	// Explicit length check before the constant-time compare; the comparator
	// requires equal-length inputs.
	if len(parts[1]) != len(expected) || !ConstantTimeEquals(parts[1], expected) {
		return nil
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil
	}

	var payload SessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}

	if payload.EndorsementID == "" || payload.Email == "" || payload.ExpiresAtMs <= 0 {
		return nil
	}

	if payload.ExpiresAtMs <= time.Now().UnixMilli() {
		return nil
	}

	return &payload
}

func (c *SessionCodec) sign(encodedPayload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
