package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://localhost:4200", "/policies", "http://localhost:4200/policies"},
		{"http://localhost:4200/", "/claims", "http://localhost:4200/claims"},
		{"https://insure.example.com/app", "policies/p1", "https://insure.example.com/app/policies/p1"},
		{"https://insure.example.com", "", "https://insure.example.com"},
	}
	for _, tt := range tests {
		got, err := ScreenURL(tt.base, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestScreenURLRejectsNonHTTP(t *testing.T) {
	_, err := ScreenURL("file:///etc", "/passwd")
	assert.Error(t, err)
}

func TestOpenRejectsNonHTTP(t *testing.T) {
	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "::"} {
		assert.Error(t, Open(u), u)
	}
}
