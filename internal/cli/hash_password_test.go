package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/rota/internal/auth"
	"github.com/thruflo/rota/internal/config"
	"gopkg.in/yaml.v3"
)

func TestHashPasswordCommand_PrintsHash(t *testing.T) {
	stdout, stderr, err := execute(t, "s3cret-pass\ns3cret-pass\n", "hash-password")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Enter password for user: ")
	assert.Contains(t, stderr, "Confirm password: ")

	hash := strings.TrimSpace(stdout)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"), hash)

	ok, err := auth.VerifyPassword("s3cret-pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPasswordCommand_UsersEntry(t *testing.T) {
	stdout, _, err := execute(t, "s3cret-pass\ns3cret-pass\n", "hash-password", "carol", "--display-name", "Carol C.")
	require.NoError(t, err)

	var users []config.User
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0].Username)
	assert.Equal(t, "Carol C.", users[0].DisplayName)
	assert.Nil(t, users[0].Shift)

	ok, err := auth.VerifyPassword("s3cret-pass", users[0].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPasswordCommand_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  error
	}{
		{"mismatch", "one-password\nother-password\n", nil, auth.ErrPasswordMismatch},
		{"empty", "\n", nil, auth.ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.stdin, append([]string{"hash-password"}, tt.args...)...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHashPasswordCommand_InvalidUsername(t *testing.T) {
	_, _, err := execute(t, "s3cret-pass\ns3cret-pass\n", "hash-password", " carol")
	require.Error(t, err)
	assert.True(t, config.IsValidationError(err))
}
