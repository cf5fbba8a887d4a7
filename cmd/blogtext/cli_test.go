package main_test

import (
	"testing"

	main "github.com/fwojciec/blogtext/cmd/blogtext"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"  blog.example.com/posts ", "https://blog.example.com/posts"},
		{"//blog.example.com", "https://blog.example.com"},
		{"http://blog.example.com", "http://blog.example.com"},
		{"HTTPS://blog.example.com", "HTTPS://blog.example.com"},
		{"ftp://blog.example.com", "ftp://blog.example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, main.NormalizeURL(tt.in))
		})
	}
}
