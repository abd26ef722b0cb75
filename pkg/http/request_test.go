package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP_RemoteAddrFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:54321"

	ip := ExtractClientIP(r, nil)

	assert.Equal(t, "203.0.113.9", ip)
}

func TestExtractClientIP_IgnoresHeadersFromUntrustedPeer(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:54321"
	r.Header.Set("X-Forwarded-For", "198.51.100.7")

	ip := ExtractClientIP(r, &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}})

	assert.Equal(t, "203.0.113.9", ip, "forwarding headers from untrusted peers must be ignored")
}

func TestExtractClientIP_TrustedProxyForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:44321"
	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.5")

	ip := ExtractClientIP(r, &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}})

	assert.Equal(t, "198.51.100.7", ip)
}

func TestExtractClientIP_TrustedProxyRealIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:44321"
	r.Header.Set("X-Real-IP", "198.51.100.7")

	ip := ExtractClientIP(r, &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}})

	assert.Equal(t, "198.51.100.7", ip)
}

func TestExtractClientIP_InvalidForwardedValuesSkipped(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:44321"
	r.Header.Set("X-Forwarded-For", "not-an-ip, 198.51.100.7")

	ip := ExtractClientIP(r, &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}})

	assert.Equal(t, "198.51.100.7", ip)
}
