package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "full name wins",
			user: User{Username: "lucca", FullName: strPtr("Lucca D'Angelo")},
			want: "Lucca D'Angelo",
		},
		{
			name: "blank full name falls through",
			user: User{Username: "lucca", FullName: strPtr("   ")},
			want: "lucca",
		},
		{
			name: "email-style username keeps the prefix",
			user: User{Username: "lucca@example.com"},
			want: "lucca",
		},
		{
			name: "plain username",
			user: User{Username: "lucca"},
			want: "lucca",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}
