package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalletAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid 34 char address", "0x5AEDA56215b167893e80B4fE645BA6d5Bab7", true},
		{"exactly 30 alphanumerics", strings.Repeat("a1", 15), true},
		{"29 characters", strings.Repeat("a", 29), false},
		{"short string", "short", false},
		{"punctuation inside", "abcdefghij-klmnopqrst_uvwxyz12345", false},
		{"embedded space", "abcdefghijklmno pqrstuvwxyz1234567", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, WalletAddress(tt.input))
		})
	}
}

func TestEmailAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"plain address", "user@example.com", true},
		{"subdomain", "a.b@mail.example.co", true},
		{"missing at", "userexample.com", false},
		{"no dot in domain", "user@localhost", false},
		{"two ats", "user@@example.com", false},
		{"whitespace", "user @example.com", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, EmailAddress(tt.input))
		})
	}
}

func TestSocialHandle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"with at sign", "@FRD_Labs", true},
		{"without at sign", "frd_labs", true},
		{"too short", "ab", false},
		{"too long", "@" + strings.Repeat("x", 33), false},
		{"spaces", "my handle", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, SocialHandle(tt.input))
		})
	}
}
