package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"empty", "", false},
		{"too short", "abc12", false},
		{"exactly six", "abc123", true},
		{"longer", "correct horse battery staple", true},
		{"six multibyte runes count as bytes", "aaaaaa", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Password(tt.password)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, "Passwords must be at least 6 characters long", res.Message)
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"simple", "a@b.com", true},
		{"subdomain", "user@mail.example.org", true},
		{"dots and dashes in local", "first.last-x@example.com", true},
		{"missing at", "example.com", false},
		{"missing tld", "a@b", false},
		{"tld too long", "a@b.museum", false},
		{"two char tld", "a@b.io", true},
		{"four char tld", "a@b.info", true},
		{"empty", "", false},
		{"spaces", "a b@c.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, Email(tt.email).Valid, tt.email)
		})
	}
}

func TestUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"simple", "alice", true},
		{"digits and underscore", "alice_1234", true},
		{"single char", "a", true},
		{"max length", "abcdefghij", true},
		{"too long", "abcdefghijk", false},
		{"empty", "", false},
		{"dash", "ali-ce", false},
		{"space", "ali ce", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, Username(tt.username).Valid, tt.username)
		})
	}
}
