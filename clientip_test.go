package docsession

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTrustedProxies(t *testing.T) {
	nets := parseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.1", "::1", "garbage"})
	assert.Len(t, nets, 3)
	assert.Equal(t, "10.0.0.0/8", nets[0].String())
	assert.Equal(t, "192.168.1.1/32", nets[1].String())
	assert.Equal(t, "::1/128", nets[2].String())
}

func TestClientIP(t *testing.T) {
	trusted := parseTrustedProxies([]string{"10.0.0.0/8"})

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"direct peer", "198.51.100.4:5555", "", "198.51.100.4"},
		{"untrusted peer ignores header", "198.51.100.4:5555", "203.0.113.7", "198.51.100.4"},
		{"trusted proxy", "10.1.2.3:5555", "203.0.113.7, 10.1.2.3", "203.0.113.7"},
		{"trusted proxy empty entry", "10.1.2.3:5555", " , 10.1.2.3", "10.1.2.3"},
		{"remote addr without port", "198.51.100.4", "", "198.51.100.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientIP(r, trusted))
		})
	}
}
