package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("test-session-secret-with-length!")

func livePayload() SessionPayload {
	return SessionPayload{
		EndorsementID: "end-1",
		Email:         "person@example.com",
		ExpiresAtMs:   time.Now().Add(30 * time.Minute).UnixMilli(),
	}
}

func TestSessionCodec_RoundTrip(t *testing.T) {
	codec := NewSessionCodec(testSecret)

	token, err := codec.Mint(livePayload())
	assert.NoError(t, err)
	assert.Contains(t, token, ".")

	payload := codec.Verify(token)
	assert.NotNil(t, payload)
	assert.Equal(t, "end-1", payload.EndorsementID)
	assert.Equal(t, "person@example.com", payload.Email)
}

func TestSessionCodec_Expired(t *testing.T) {
	codec := NewSessionCodec(testSecret)

	token, err := codec.Mint(SessionPayload{
		EndorsementID: "end-1",
		Email:         "person@example.com",
		ExpiresAtMs:   time.Now().Add(-1 * time.Minute).UnixMilli(),
	})
	assert.NoError(t, err)

	assert.Nil(t, codec.Verify(token))
}

func TestSessionCodec_TamperedPayload(t *testing.T) {
	codec := NewSessionCodec(testSecret)

	token, err := codec.Mint(livePayload())
	assert.NoError(t, err)

	parts := strings.SplitN(token, ".", 2)
	forged := base64.RawURLEncoding.EncodeToString([]byte(
		`{"endorsement_id":"end-2","email":"person@example.com","expires_at_ms":9999999999999}`))

	assert.Nil(t, codec.Verify(forged+"."+parts[1]))
}

func TestSessionCodec_TamperedSignature(t *testing.T) {
	codec := NewSessionCodec(testSecret)

	token, err := codec.Mint(livePayload())
	assert.NoError(t, err)

	parts := strings.SplitN(token, ".", 2)
	assert.Nil(t, codec.Verify(parts[0]+"."+strings.Repeat("A", len(parts[1]))))
}

func TestSessionCodec_WrongSecret(t *testing.T) {
	codec := NewSessionCodec(testSecret)
	other := NewSessionCodec([]byte("a-completely-different-secret!!!"))

	token, err := codec.Mint(livePayload())
	assert.NoError(t, err)

	assert.Nil(t, other.Verify(token))
}

func TestSessionCodec_Garbage(t *testing.T) {
	codec := NewSessionCodec(testSecret)

	assert.Nil(t, codec.Verify(""))
	assert.Nil(t, codec.Verify("no-separator"))
	assert.Nil(t, codec.Verify("a.b.c"))
	assert.Nil(t, codec.Verify("!!!.???"))
}

func TestSessionCodec_MissingFields(t *testing.T) {
	codec := NewSessionCodec(testSecret)

	token, err := codec.Mint(SessionPayload{
		Email:       "person@example.com",
		ExpiresAtMs: time.Now().Add(30 * time.Minute).UnixMilli(),
	})
	assert.NoError(t, err)

	assert.Nil(t, codec.Verify(token), "a payload without an endorsement id must not verify")
}
