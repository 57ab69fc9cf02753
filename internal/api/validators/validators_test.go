package validators

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database/memory"
)

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		valid   bool
		message string
	}{
		{name: "plain message", input: "hello", valid: true},
		{name: "empty", input: "", valid: false, message: "Please enter a message before sending."},
		{name: "whitespace only", input: "   \n\t ", valid: false, message: "Please enter a message before sending."},
		{name: "at the cap", input: strings.Repeat("a", 20), valid: true},
		{name: "over the cap", input: strings.Repeat("a", 21), valid: false, message: "Your message is too long. Please limit to 20 characters."},
		{name: "trimmed before measuring", input: "  " + strings.Repeat("a", 20) + "  ", valid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateMessage(tt.input, 20)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestValidateSessionID(t *testing.T) {
	assert.True(t, ValidateSessionID("2b1c6a1e-9d3f-4f70-8f3a-5b9f6d2a1c44").Valid)

	res := ValidateSessionID("")
	assert.False(t, res.Valid)
	assert.Equal(t, "session_id is required", res.Message)

	res = ValidateSessionID("not-a-uuid")
	assert.False(t, res.Valid)
	assert.Equal(t, "Invalid session_id format", res.Message)
}

func TestValidateStatus(t *testing.T) {
	assert.True(t, ValidateStatus(nil).Valid, "absent status is fine")

	for _, s := range []string{"OPEN", "CLOSED", "QUALIFYING"} {
		status := s
		assert.True(t, ValidateStatus(&status).Valid, s)
	}

	bad := "ARCHIVED"
	res := ValidateStatus(&bad)
	assert.False(t, res.Valid)
	assert.Equal(t, "Status not allowed", res.Message)
}

func TestRequestAddress(t *testing.T) {
	tests := []struct {
		name   string
		target string
		origin string
		want   string
	}{
		{name: "query param", target: "/chat?origin=https://acme.com", want: "acme.com"},
		{name: "query param beats header", target: "/chat?origin=https://acme.com", origin: "https://other.com", want: "acme.com"},
		{name: "origin header", target: "/chat", origin: "https://acme.com:3000", want: "acme.com"},
		{name: "bare hostname", target: "/chat?origin=acme.com", want: "acme.com"},
		{name: "nothing declared", target: "/chat", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, RequestAddress(r))
		})
	}
}

func TestResolveDomainKey(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.CreateDomain(ctx, "ACME_COM", "acme.com", nil)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/chat?origin=https://acme.com", nil)
	key, res, err := ResolveDomainKey(ctx, store, r)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "ACME_COM", key)

	r = httptest.NewRequest("GET", "/chat?origin=https://unknown.example", nil)
	_, res, err = ResolveDomainKey(ctx, store, r)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Incorrect Address", res.Message)

	r = httptest.NewRequest("GET", "/chat", nil)
	_, res, err = ResolveDomainKey(ctx, store, r)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Incorrect Address", res.Message)
}
