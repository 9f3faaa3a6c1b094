package mydropbox_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/mydropbox"
)

func TestHashSecret(t *testing.T) {
	t.Run("known digest", func(t *testing.T) {
		assert.Equal(t,
			"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
			mydropbox.HashSecret("hello"))
	})

	t.Run("empty secret", func(t *testing.T) {
		assert.Equal(t,
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			mydropbox.HashSecret(""))
	})

	t.Run("deterministic lower-case hex", func(t *testing.T) {
		a := mydropbox.HashSecret("s3cr3t")
		b := mydropbox.HashSecret("s3cr3t")
		assert.Equal(t, a, b)
		assert.Len(t, a, 64)
		assert.Regexp(t, "^[0-9a-f]{64}$", a)
		assert.NotEqual(t, a, mydropbox.HashSecret("s3cr3T"))
	})
}

func TestCredential(t *testing.T) {
	cred := mydropbox.NewCredential("alice", "hello")

	t.Run("json fields", func(t *testing.T) {
		data, err := json.Marshal(cred)
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"username":"alice","passwordHash":"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"}`,
			string(data))
	})

	t.Run("string hides digest", func(t *testing.T) {
		assert.Equal(t, "credential(alice)", cred.String())
		assert.NotContains(t, fmt.Sprintf("%v", cred), cred.PasswordHash)
	})

	t.Run("log value hides digest", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		logger.Info("login", "credential", cred)

		assert.Contains(t, buf.String(), `"username":"alice"`)
		assert.NotContains(t, buf.String(), cred.PasswordHash)
	})
}
