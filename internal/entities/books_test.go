package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
		ok    bool
	}{
		{"author", RoleAuthor, true},
		{"Author", RoleAuthor, true},
		{"AUTHOR", RoleAuthor, true},
		{" author ", RoleAuthor, true},
		{"collaborator", RoleCollaborator, true},
		{"Collaborator", RoleCollaborator, true},
		{"admin", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.input)
		assert.Equal(t, tt.ok, ok, "ParseRole(%q)", tt.input)
		assert.Equal(t, tt.want, got, "ParseRole(%q)", tt.input)
	}
}
