package mydropbox

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// HashSecret returns the hex SHA-256 digest of secret.
//
// The digest is unsalted. The gateway compares digests produced exactly this
// way, so changing it breaks every existing account. It is not a password
// storage scheme and offers no protection against precomputed tables.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Credential is the username and secret digest sent to register and login.
type Credential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// NewCredential hashes secret for username. The plaintext is not retained.
func NewCredential(username, secret string) Credential {
	return Credential{
		Username:     username,
		PasswordHash: HashSecret(secret),
	}
}

func (c Credential) String() string {
	return "credential(" + c.Username + ")"
}

// LogValue keeps the digest out of structured logs.
func (c Credential) LogValue() slog.Value {
	return slog.GroupValue(slog.String("username", c.Username))
}
